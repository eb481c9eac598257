package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/vibeset/backend/internal/models"
)

// requestWithCookies builds a request carrying the cookies a recorder
// captured, simulating the browser echoing them back.
func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return req
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestManager_PendingRoundTrip(t *testing.T) {
	m := NewManager(false)
	rec := httptest.NewRecorder()

	m.WritePending(rec, "state-abc", "/after?tab=playlists")

	req := requestWithCookies(rec)
	state, callback := m.ReadPending(req)

	if state != "state-abc" {
		t.Errorf("state = %q, want state-abc", state)
	}
	if callback != "/after?tab=playlists" {
		t.Errorf("callback = %q, want /after?tab=playlists", callback)
	}

	stateCookie := cookieByName(rec, StateCookie)
	if stateCookie.MaxAge != 600 {
		t.Errorf("state cookie MaxAge = %d, want 600", stateCookie.MaxAge)
	}
	if !stateCookie.HttpOnly {
		t.Error("state cookie should be HttpOnly")
	}
}

func TestManager_ReadPendingDefaults(t *testing.T) {
	m := NewManager(false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	state, callback := m.ReadPending(req)
	if state != "" {
		t.Errorf("state = %q, want empty when no cookie is present", state)
	}
	if callback != "/" {
		t.Errorf("callback = %q, want /", callback)
	}
}

func TestManager_ClearPending(t *testing.T) {
	m := NewManager(false)
	rec := httptest.NewRecorder()

	m.ClearPending(rec)

	for _, name := range []string{StateCookie, CallbackCookie} {
		c := cookieByName(rec, name)
		if c == nil {
			t.Fatalf("expected expiring cookie for %s", name)
		}
		if c.MaxAge >= 0 {
			t.Errorf("%s MaxAge = %d, want negative (deletion)", name, c.MaxAge)
		}
	}
}

func TestManager_LoginRoundTrip(t *testing.T) {
	m := NewManager(false)
	rec := httptest.NewRecorder()

	token := &oauth2.Token{
		AccessToken:  "access-abc",
		RefreshToken: "refresh-xyz",
		Expiry:       time.Now().Add(time.Hour),
	}
	user := &models.SpotifyUser{ID: "u1", DisplayName: "Ada Lovelace", Email: "ada@example.com"}

	m.WriteLogin(rec, token, user)

	s := m.FromRequest(requestWithCookies(rec))
	if s.AccessToken != "access-abc" {
		t.Errorf("AccessToken = %q", s.AccessToken)
	}
	if s.RefreshToken != "refresh-xyz" {
		t.Errorf("RefreshToken = %q", s.RefreshToken)
	}
	if s.User == nil || s.User.DisplayName != "Ada Lovelace" {
		t.Errorf("User = %+v, want cached profile", s.User)
	}
	if !s.Authenticated() {
		t.Error("Authenticated() = false after login write")
	}

	userCookie := cookieByName(rec, UserCookie)
	if userCookie.HttpOnly {
		t.Error("user cookie must stay readable by the frontend")
	}
	if userCookie.MaxAge != 60*60*24*30 {
		t.Errorf("user cookie MaxAge = %d, want 30 days", userCookie.MaxAge)
	}

	refreshCookie := cookieByName(rec, RefreshTokenCookie)
	if refreshCookie.MaxAge != 60*60*24*365 {
		t.Errorf("refresh cookie MaxAge = %d, want 1 year", refreshCookie.MaxAge)
	}
}

func TestManager_WriteLoginWithoutRefreshOrExpiry(t *testing.T) {
	m := NewManager(false)
	rec := httptest.NewRecorder()

	m.WriteLogin(rec, &oauth2.Token{AccessToken: "access-abc"}, nil)

	access := cookieByName(rec, AccessTokenCookie)
	if access.MaxAge != 3600 {
		t.Errorf("access cookie MaxAge = %d, want default 3600", access.MaxAge)
	}
	if cookieByName(rec, RefreshTokenCookie) != nil {
		t.Error("refresh cookie should be omitted when the provider sent none")
	}
	if cookieByName(rec, UserCookie) != nil {
		t.Error("user cookie should be omitted when the profile fetch failed")
	}
}

func TestManager_ClearLogin(t *testing.T) {
	m := NewManager(false)
	rec := httptest.NewRecorder()

	m.ClearLogin(rec)

	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie, UserCookie} {
		c := cookieByName(rec, name)
		if c == nil || c.MaxAge >= 0 {
			t.Errorf("expected %s to be expired", name)
		}
	}
}

func TestSessionFromContext(t *testing.T) {
	m := NewManager(false)

	var got *Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "access-abc"})
	Middleware(m)(next).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.AccessToken != "access-abc" {
		t.Errorf("session from context = %+v", got)
	}

	// Without the middleware an empty session comes back, never nil.
	empty := FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	if empty == nil || empty.Authenticated() {
		t.Errorf("empty context session = %+v", empty)
	}
}

func TestManager_MalformedUserCookie(t *testing.T) {
	m := NewManager(false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: UserCookie, Value: "%7Bnot-json"})

	s := m.FromRequest(req)
	if s.User != nil {
		t.Errorf("User = %+v, want nil for malformed cookie", s.User)
	}
}
