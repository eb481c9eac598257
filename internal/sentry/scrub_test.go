package sentry

import (
	"testing"

	"github.com/getsentry/sentry-go"
)

func TestScrubEvent_Headers(t *testing.T) {
	event := &sentry.Event{
		Request: &sentry.Request{
			Headers: map[string]string{
				"Authorization": "Bearer sk-secret",
				"Cookie":        "spotify_access_token=abc",
				"Accept":        "application/json",
			},
			Data: `{"prompt":"sad songs"}`,
		},
	}

	got := ScrubEvent(event, nil)

	if got.Request.Headers["Authorization"] != "[Filtered]" {
		t.Error("Authorization header should be filtered")
	}
	if got.Request.Headers["Cookie"] != "[Filtered]" {
		t.Error("Cookie header should be filtered")
	}
	if got.Request.Headers["Accept"] != "application/json" {
		t.Error("Accept header should be preserved")
	}
	if got.Request.Data != "" {
		t.Error("request body should be stripped")
	}
}

func TestScrubEvent_CallbackQueryString(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"oauth code filtered", "code=auth-code&state=abc", "[Filtered]"},
		{"state alone filtered", "state=abc", "[Filtered]"},
		{"harmless query preserved", "callback=%2F", "callback=%2F"},
		{"empty preserved", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &sentry.Event{Request: &sentry.Request{QueryString: tt.query}}
			got := ScrubEvent(event, nil)
			if got.Request.QueryString != tt.want {
				t.Errorf("QueryString = %q, want %q", got.Request.QueryString, tt.want)
			}
		})
	}
}

func TestScrubEvent_TagsAndBreadcrumbs(t *testing.T) {
	event := &sentry.Event{
		Tags: map[string]string{
			"access_token": "abc",
			"endpoint":     "/api/ai/plan",
		},
		Breadcrumbs: []*sentry.Breadcrumb{
			{Data: map[string]interface{}{"refresh_token": "xyz", "status": 200}},
		},
	}

	got := ScrubEvent(event, nil)

	if got.Tags["access_token"] != "[Filtered]" {
		t.Error("access_token tag should be filtered")
	}
	if got.Tags["endpoint"] != "/api/ai/plan" {
		t.Error("endpoint tag should be preserved")
	}
	if got.Breadcrumbs[0].Data["refresh_token"] != "[Filtered]" {
		t.Error("refresh_token breadcrumb should be filtered")
	}
	if got.Breadcrumbs[0].Data["status"] != 200 {
		t.Error("status breadcrumb should be preserved")
	}
}

func TestScrubTransaction_DelegatesToScrubEvent(t *testing.T) {
	event := &sentry.Event{Tags: map[string]string{"client_secret": "shh"}}

	got := ScrubTransaction(event, nil)

	if got.Tags["client_secret"] != "[Filtered]" {
		t.Error("client_secret tag should be filtered")
	}
}
