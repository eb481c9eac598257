package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	spotifyoauth "golang.org/x/oauth2/spotify"

	"github.com/vibeset/backend/internal/models"
)

const defaultProfileURL = "https://api.spotify.com/v1/me"

// spotifyScopes are the fixed scopes requested on every authorization.
var spotifyScopes = []string{
	"user-read-private",
	"user-read-email",
	"playlist-modify-public",
	"playlist-modify-private",
	"user-top-read",
}

// SpotifyService drives the authorization-code OAuth flow against the
// Spotify accounts service and fetches user profiles with the resulting
// access tokens. The oauth2 endpoint and profile URL are overridable so
// tests can point the service at local doubles.
type SpotifyService struct {
	oauth      *oauth2.Config
	profileURL string
	httpClient *http.Client
}

// spotifyProfile is the subset of the /v1/me payload the app uses.
type spotifyProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Images      []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// NewSpotifyService creates a SpotifyService for the given client
// credentials and redirect URI.
func NewSpotifyService(clientID, clientSecret, redirectURI string) *SpotifyService {
	return &SpotifyService{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       spotifyScopes,
			Endpoint:     spotifyoauth.Endpoint,
		},
		profileURL: defaultProfileURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetEndpoints overrides the provider URLs. Intended for tests.
func (s *SpotifyService) SetEndpoints(authURL, tokenURL, profileURL string) {
	s.oauth.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInHeader}
	s.profileURL = profileURL
}

// AuthCodeURL builds the provider authorization URL with the fixed
// scopes and the given CSRF state embedded.
func (s *SpotifyService) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("show_dialog", "false"))
}

// Exchange trades an authorization code for tokens at the provider token
// endpoint. The oauth2 transport sends the client id/secret as HTTP
// Basic credentials. A non-success provider response surfaces as an
// *oauth2.RetrieveError.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return token, nil
}

// Profile fetches the user profile for the given access token. A
// non-success status means the token is no longer valid.
func (s *SpotifyService) Profile(ctx context.Context, accessToken string) (*models.SpotifyUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("profile request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var profile spotifyProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}

	user := &models.SpotifyUser{
		ID:          profile.ID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
	}
	if user.DisplayName == "" {
		user.DisplayName = profile.ID
	}
	if len(profile.Images) > 0 {
		user.Image = profile.Images[0].URL
	}
	return user, nil
}
