// Package sentry provides data scrubbing utilities for Sentry events
// to ensure credentials and session tokens are not transmitted to the
// error tracking service.
package sentry

import (
	"net/url"

	"github.com/getsentry/sentry-go"
)

// sensitiveHeaders are HTTP headers that should be redacted from Sentry
// events. The Cookie headers carry the Spotify access and refresh tokens.
var sensitiveHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
	"Set-Cookie":    true,
}

// sensitiveKeys are field names that may contain sensitive data in tags
// or breadcrumb metadata.
var sensitiveKeys = map[string]bool{
	"access_token":  true,
	"refresh_token": true,
	"code":          true,
	"state":         true,
	"api_key":       true,
	"client_secret": true,
	"authorization": true,
	"cookie":        true,
	"email":         true,
}

// sensitiveQueryParams mirror the OAuth callback parameters; the
// authorization code in particular must never leave the process.
var sensitiveQueryParams = map[string]bool{
	"code":  true,
	"state": true,
}

// ScrubEvent removes sensitive data from a Sentry event before it is sent.
// It redacts sensitive headers, strips request bodies and OAuth query
// strings, and scrubs tags and breadcrumbs.
func ScrubEvent(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	if event.Request != nil {
		for header := range event.Request.Headers {
			if sensitiveHeaders[header] {
				event.Request.Headers[header] = "[Filtered]"
			}
		}
		// Prompts and token payloads travel in request bodies.
		event.Request.Data = ""

		if containsSensitiveParam(event.Request.QueryString) {
			event.Request.QueryString = "[Filtered]"
		}
	}

	for key := range event.Tags {
		if sensitiveKeys[key] {
			event.Tags[key] = "[Filtered]"
		}
	}

	for i := range event.Breadcrumbs {
		for key := range event.Breadcrumbs[i].Data {
			if sensitiveKeys[key] {
				event.Breadcrumbs[i].Data[key] = "[Filtered]"
			}
		}
	}

	return event
}

// ScrubTransaction applies the same scrubbing logic to transaction events.
func ScrubTransaction(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	return ScrubEvent(event, hint)
}

func containsSensitiveParam(query string) bool {
	if query == "" {
		return false
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return true
	}
	for param := range values {
		if sensitiveQueryParams[param] {
			return true
		}
	}
	return false
}
