// Package services contains the outbound API clients: the OpenAI plan
// requester, the Spotify OAuth client, and the signed state-token issuer.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vibeset/backend/internal/models"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

const planSystemPrompt = `You generate playlist plans. Return STRICT JSON ONLY:
{
  "playlistName": string,
  "vibes": string[],   // 3-6 short tags
  "description": string // <= 180 chars
}
No markdown. No extra keys.`

// planTemperature favors variety over determinism; callers must treat
// the returned content as non-deterministic and validate the schema.
const planTemperature = 0.9

// FormatError reports that the model returned content that is not valid
// JSON. The raw text is carried for diagnosis.
type FormatError struct {
	Raw string
}

func (e *FormatError) Error() string {
	return "AI returned invalid JSON"
}

// IncompleteError reports that the model returned well-formed JSON that
// is missing one of the required plan keys. The partial plan is carried
// for diagnosis.
type IncompleteError struct {
	Plan *models.PlaylistPlan
}

func (e *IncompleteError) Error() string {
	return "AI returned incomplete plan"
}

// OpenAIService requests playlist plans from the OpenAI chat completions
// API. Each call is a single attempt with no retry or caching.
type OpenAIService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string         `json:"model"`
	Temperature    float64        `json:"temperature"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenAIService creates an OpenAIService for the given credential and
// model name.
func NewOpenAIService(apiKey, model string) *OpenAIService {
	return &OpenAIService{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultOpenAIBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL overrides the API base URL. Intended for tests.
func (s *OpenAIService) SetBaseURL(baseURL string) {
	s.baseURL = baseURL
}

// PlanPlaylist sends the prompt to the chat completions endpoint with a
// fixed system instruction demanding strict JSON, then validates the
// result. Parse failures return *FormatError; schema gaps return
// *IncompleteError.
func (s *OpenAIService) PlanPlaylist(ctx context.Context, prompt string) (*models.PlaylistPlan, error) {
	payload := chatCompletionRequest{
		Model:       s.model,
		Temperature: planTemperature,
		Messages: []chatMessage{
			{Role: "system", Content: planSystemPrompt},
			{Role: "user", Content: "User prompt: " + prompt},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("completion request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("failed to decode completion response: %w", err)
	}

	text := "{}"
	if len(completion.Choices) > 0 {
		text = completion.Choices[0].Message.Content
	}

	return parsePlan(text)
}

// parsePlan parses the model output and enforces the plan schema: a
// non-empty playlistName, a vibes array, and a non-empty description.
func parsePlan(text string) (*models.PlaylistPlan, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, &FormatError{Raw: text}
	}

	partial := &models.PlaylistPlan{}
	if nameRaw, ok := raw["playlistName"]; ok {
		_ = json.Unmarshal(nameRaw, &partial.PlaylistName)
	}
	if descRaw, ok := raw["description"]; ok {
		_ = json.Unmarshal(descRaw, &partial.Description)
	}

	vibesOK := false
	if vibesRaw, ok := raw["vibes"]; ok && strings.HasPrefix(strings.TrimSpace(string(vibesRaw)), "[") {
		vibesOK = json.Unmarshal(vibesRaw, &partial.Vibes) == nil
	}

	if partial.PlaylistName == "" || !vibesOK || partial.Description == "" {
		return nil, &IncompleteError{Plan: partial}
	}

	return partial, nil
}
