package handlers

import (
	"net/http"
	"net/url"

	"github.com/vibeset/backend/internal/config"
	"github.com/vibeset/backend/internal/logging"
	"github.com/vibeset/backend/internal/models"
	"github.com/vibeset/backend/internal/services"
	"github.com/vibeset/backend/internal/session"
)

// SpotifyHandler implements the authorization-code OAuth flow against
// Spotify: initiation, callback, session status, and logout. Session
// state lives entirely in cookies managed by the session package.
type SpotifyHandler struct {
	cfg      *config.Config
	spotify  *services.SpotifyService
	states   *services.StateService
	sessions *session.Manager
}

// NewSpotifyHandler creates a SpotifyHandler with the required dependencies.
func NewSpotifyHandler(cfg *config.Config, spotify *services.SpotifyService, states *services.StateService, sessions *session.Manager) *SpotifyHandler {
	return &SpotifyHandler{
		cfg:      cfg,
		spotify:  spotify,
		states:   states,
		sessions: sessions,
	}
}

// redirectError sends the browser back to the landing page with an
// error marker in the query string. OAuth failures never render raw
// error pages.
func redirectError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(code), http.StatusFound)
}

// Auth initiates the OAuth flow: it issues a CSRF state token, stores it
// and the caller's desired post-login path in short-lived cookies, and
// redirects to the provider's authorization page.
func (h *SpotifyHandler) Auth(w http.ResponseWriter, r *http.Request) {
	if h.cfg.SpotifyClientID == "" {
		writeError(w, http.StatusInternalServerError, "Spotify Client ID not configured. Please add SPOTIFY_CLIENT_ID to your environment variables.")
		return
	}

	callbackPath := r.URL.Query().Get("callback")
	if callbackPath == "" {
		callbackPath = "/"
	}

	state, err := h.states.Generate()
	if err != nil {
		writeErrorWithCause(r.Context(), w, http.StatusInternalServerError, "failed to generate state token", err)
		return
	}

	h.sessions.WritePending(w, state, callbackPath)
	http.Redirect(w, r, h.spotify.AuthCodeURL(state), http.StatusFound)
}

// Callback completes the OAuth flow. The state check runs before any
// network call: a missing or mismatched state token aborts the flow
// without touching the token endpoint.
func (h *SpotifyHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if providerErr := query.Get("error"); providerErr != "" {
		logging.LogSecurityEvent(r.Context(), logging.SecurityEventProviderError, "provider reported authorization error")
		redirectError(w, r, providerErr)
		return
	}

	code := query.Get("code")
	state := query.Get("state")
	if code == "" || state == "" {
		logging.LogSecurityEvent(r.Context(), logging.SecurityEventMissingCode, "callback missing code or state")
		redirectError(w, r, "missing_code_or_state")
		return
	}

	storedState, callbackPath := h.sessions.ReadPending(r)
	if storedState == "" || state != storedState {
		logging.LogSecurityEvent(r.Context(), logging.SecurityEventStateMismatch, "callback state does not match stored state")
		redirectError(w, r, "invalid_state")
		return
	}
	if err := h.states.Validate(state); err != nil {
		logging.LogSecurityEvent(r.Context(), logging.SecurityEventStateMismatch, "callback state token invalid or expired")
		redirectError(w, r, "invalid_state")
		return
	}

	if h.cfg.SpotifyClientID == "" || h.cfg.SpotifyClientSecret == "" {
		redirectError(w, r, "server_config_error")
		return
	}

	token, err := h.spotify.Exchange(r.Context(), code)
	if err != nil {
		logging.LogErrorWithStatus(r.Context(), http.StatusFound, "token exchange failed", logging.WrapError(err, "token exchange"))
		redirectError(w, r, "token_exchange_failed")
		return
	}

	// Profile fetch is best-effort: failure omits the cached profile
	// but does not abort the login.
	user, err := h.spotify.Profile(r.Context(), token.AccessToken)
	if err != nil {
		logging.LogErrorWithStatus(r.Context(), http.StatusFound, "profile fetch failed after token exchange", logging.WrapError(err, "profile fetch"))
		user = nil
	}

	h.sessions.WriteLogin(w, token, user)
	h.sessions.ClearPending(w)
	http.Redirect(w, r, callbackPath, http.StatusFound)
}

// User reports the current session status. It never errors: any failure
// to validate the stored token reads as unauthenticated. No refresh
// exchange is attempted for an expired access token even when a refresh
// token is present.
func (h *SpotifyHandler) User(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if !sess.Authenticated() {
		writeJSON(w, http.StatusOK, models.UserStatusResponse{Authenticated: false})
		return
	}

	user, err := h.spotify.Profile(r.Context(), sess.AccessToken)
	if err != nil {
		logging.LogSecurityEvent(r.Context(), logging.SecurityEventInvalidSession, "stored access token rejected by provider")
		writeJSON(w, http.StatusOK, models.UserStatusResponse{Authenticated: false})
		return
	}

	writeJSON(w, http.StatusOK, models.UserStatusResponse{
		Authenticated: true,
		User:          user,
		CachedUser:    sess.User,
	})
}

// Logout clears the session cookies: the inverse of Callback's cookie
// write. The provider-side tokens are not revoked.
func (h *SpotifyHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearLogin(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
