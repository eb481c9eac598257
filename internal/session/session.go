// Package session is the cookie boundary for the Spotify login state.
// Handlers work with Session values carried in the request context;
// cookie names, lifetimes, and serialization live here and nowhere else.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/vibeset/backend/internal/models"
)

// Cookie names are part of the external contract: the frontend reads the
// user cookie directly for immediate display after a reload.
const (
	StateCookie        = "spotify_oauth_state"
	CallbackCookie     = "spotify_oauth_callback"
	AccessTokenCookie  = "spotify_access_token"
	RefreshTokenCookie = "spotify_refresh_token"
	UserCookie         = "spotify_user"
)

const (
	pendingMaxAge       = 600
	defaultAccessMaxAge = 3600
	refreshMaxAge       = 60 * 60 * 24 * 365 // 1 year
	userMaxAge          = 60 * 60 * 24 * 30  // 30 days
)

// Session is the per-request view of the login cookies.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *models.SpotifyUser
}

// Authenticated reports whether an access token is present. It says
// nothing about whether the provider still accepts the token.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// Manager reads and writes the session cookies. Secure controls the
// Secure attribute on everything it sets.
type Manager struct {
	secure bool
}

// NewManager creates a Manager. Pass secure=true behind TLS.
func NewManager(secure bool) *Manager {
	return &Manager{secure: secure}
}

func (m *Manager) set(w http.ResponseWriter, name, value string, maxAge int, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) delete(w http.ResponseWriter, name string) {
	m.set(w, name, "", -1, true)
}

// WritePending stores the CSRF state token and the caller's desired
// post-login path for the duration of the authorization round trip.
func (m *Manager) WritePending(w http.ResponseWriter, state, callbackPath string) {
	m.set(w, StateCookie, state, pendingMaxAge, true)
	m.set(w, CallbackCookie, url.QueryEscape(callbackPath), pendingMaxAge, true)
}

// ReadPending returns the stored state token and callback path. The
// callback path defaults to "/" when absent or unreadable.
func (m *Manager) ReadPending(r *http.Request) (state, callbackPath string) {
	if c, err := r.Cookie(StateCookie); err == nil {
		state = c.Value
	}
	callbackPath = "/"
	if c, err := r.Cookie(CallbackCookie); err == nil {
		if unescaped, err := url.QueryUnescape(c.Value); err == nil && unescaped != "" {
			callbackPath = unescaped
		}
	}
	return state, callbackPath
}

// ClearPending removes the two transient authorization cookies.
func (m *Manager) ClearPending(w http.ResponseWriter) {
	m.delete(w, StateCookie)
	m.delete(w, CallbackCookie)
}

// WriteLogin persists the exchanged tokens and the profile summary. The
// access token lives as long as the provider-reported expiry (3600 s
// when unreported); the refresh token, when present, lives one year; the
// profile summary is client-readable and lives 30 days.
func (m *Manager) WriteLogin(w http.ResponseWriter, token *oauth2.Token, user *models.SpotifyUser) {
	accessMaxAge := defaultAccessMaxAge
	if !token.Expiry.IsZero() {
		if secs := int(time.Until(token.Expiry).Seconds()); secs > 0 {
			accessMaxAge = secs
		}
	}
	m.set(w, AccessTokenCookie, token.AccessToken, accessMaxAge, true)

	if token.RefreshToken != "" {
		m.set(w, RefreshTokenCookie, token.RefreshToken, refreshMaxAge, true)
	}

	if user != nil {
		if raw, err := json.Marshal(user); err == nil {
			m.set(w, UserCookie, url.QueryEscape(string(raw)), userMaxAge, false)
		}
	}
}

// ClearLogin is the inverse of WriteLogin.
func (m *Manager) ClearLogin(w http.ResponseWriter) {
	m.delete(w, AccessTokenCookie)
	m.delete(w, RefreshTokenCookie)
	m.delete(w, UserCookie)
}

// FromRequest decodes the login cookies into a Session. A malformed user
// cookie just omits the cached profile.
func (m *Manager) FromRequest(r *http.Request) *Session {
	s := &Session{}
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		s.AccessToken = c.Value
	}
	if c, err := r.Cookie(RefreshTokenCookie); err == nil {
		s.RefreshToken = c.Value
	}
	if c, err := r.Cookie(UserCookie); err == nil {
		if raw, err := url.QueryUnescape(c.Value); err == nil {
			var user models.SpotifyUser
			if json.Unmarshal([]byte(raw), &user) == nil {
				s.User = &user
			}
		}
	}
	return s
}

type contextKey string

const sessionKey contextKey = "session"

// Middleware decodes the session cookies once per request and stores the
// result in the request context.
func Middleware(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), sessionKey, m.FromRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the Session placed by Middleware, or an empty
// Session when the middleware did not run.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey).(*Session); ok {
		return s
	}
	return &Session{}
}
