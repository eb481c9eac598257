package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vibeset/backend/internal/config"
	"github.com/vibeset/backend/internal/models"
	"github.com/vibeset/backend/internal/services"
)

// planUpstream fakes the chat completions endpoint, always answering
// with the given message content.
func planUpstream(content string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
}

func newPlanHandler(cfg *config.Config, upstreamURL string) *PlanHandler {
	svc := services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if upstreamURL != "" {
		svc.SetBaseURL(upstreamURL)
	}
	return NewPlanHandler(cfg, svc)
}

func postPlan(t *testing.T, handler *PlanHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ai/plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.Plan(rec, req)
	return rec
}

func TestPlanHandler_MissingPrompt(t *testing.T) {
	cfg := &config.Config{OpenAIAPIKey: "test-key", OpenAIModel: "gpt-4o-mini"}
	handler := newPlanHandler(cfg, "")

	tests := []struct {
		name string
		body string
	}{
		{"empty prompt", `{"prompt":""}`},
		{"whitespace prompt", `{"prompt":"   "}`},
		{"absent prompt", `{}`},
		{"malformed body", `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postPlan(t, handler, []byte(tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var resp models.ErrorResponse
			_ = json.NewDecoder(rec.Body).Decode(&resp)
			if resp.Error != "Missing prompt" {
				t.Errorf("error = %q, want Missing prompt", resp.Error)
			}
		})
	}
}

func TestPlanHandler_MissingCredential(t *testing.T) {
	cfg := &config.Config{OpenAIModel: "gpt-4o-mini"} // no API key
	handler := newPlanHandler(cfg, "")

	rec := postPlan(t, handler, []byte(`{"prompt":"sad songs"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestPlanHandler_Success(t *testing.T) {
	srv := planUpstream(`{"playlistName":"Dusk Circuit","vibes":["moody","late","synth"],"description":"Synths for the drive home."}`)
	defer srv.Close()

	cfg := &config.Config{OpenAIAPIKey: "test-key", OpenAIModel: "gpt-4o-mini"}
	handler := newPlanHandler(cfg, srv.URL)

	rec := postPlan(t, handler, []byte(`{"prompt":"late night drive"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var plan models.PlaylistPlan
	if err := json.NewDecoder(rec.Body).Decode(&plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if plan.PlaylistName != "Dusk Circuit" || len(plan.Vibes) != 3 || plan.Description == "" {
		t.Errorf("plan = %+v", plan)
	}
}

func TestPlanHandler_InvalidUpstreamJSON(t *testing.T) {
	srv := planUpstream("not json at all")
	defer srv.Close()

	cfg := &config.Config{OpenAIAPIKey: "test-key", OpenAIModel: "gpt-4o-mini"}
	handler := newPlanHandler(cfg, srv.URL)

	rec := postPlan(t, handler, []byte(`{"prompt":"anything"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp map[string]any
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp["raw"] != "not json at all" {
		t.Errorf("raw = %v, want the unparseable content surfaced", resp["raw"])
	}
}

func TestPlanHandler_IncompletePlan(t *testing.T) {
	srv := planUpstream(`{"playlistName":"Dusk Circuit"}`)
	defer srv.Close()

	cfg := &config.Config{OpenAIAPIKey: "test-key", OpenAIModel: "gpt-4o-mini"}
	handler := newPlanHandler(cfg, srv.URL)

	rec := postPlan(t, handler, []byte(`{"prompt":"anything"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp map[string]any
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if _, ok := resp["plan"]; !ok {
		t.Error("partial plan should be surfaced for diagnosis")
	}
}
