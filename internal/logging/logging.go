// Package logging sets up structured JSON logging and carries safe
// request attributes through the context for handler-side error logs.
package logging

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdobak/go-xerrors"
)

// SecurityEvent tags WARN logs for events worth alerting on. Most of
// them come from the OAuth callback, where a bad state token or a
// provider error can indicate a forged redirect.
type SecurityEvent string

const (
	SecurityEventStateMismatch  SecurityEvent = "state_mismatch"
	SecurityEventMissingCode    SecurityEvent = "missing_code_or_state"
	SecurityEventProviderError  SecurityEvent = "provider_error"
	SecurityEventRateLimited    SecurityEvent = "rate_limited"
	SecurityEventInvalidSession SecurityEvent = "invalid_session_token"
)

// RequestAttrs is the per-request context attached to every log line.
// Only non-sensitive fields belong here; tokens and codes never do.
type RequestAttrs struct {
	Method string
	Path   string
	IP     string
}

type contextKey string

const requestAttrsKey contextKey = "requestAttrs"

// Initialize installs the global JSON slog handler. The level comes
// from LOGGING_LEVEL (debug, info, warn, error; defaults to info).
func Initialize() {
	var level slog.Level
	switch strings.ToLower(os.Getenv("LOGGING_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	})
	slog.SetDefault(slog.New(handler))
}

// replaceAttr renders error attrs as {msg, trace} groups so wrapped
// errors carry their stack traces into the JSON output.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindAny {
		if err, ok := a.Value.Any().(error); ok {
			a.Value = errValue(err)
		}
	}
	return a
}

type stackFrame struct {
	Func   string `json:"func"`
	Source string `json:"source"`
	Line   int    `json:"line"`
}

func errValue(err error) slog.Value {
	attrs := []slog.Attr{slog.String("msg", err.Error())}

	if trace := xerrors.StackTrace(err); len(trace) > 0 {
		frames := trace.Frames()
		rendered := make([]stackFrame, len(frames))
		for i, f := range frames {
			rendered[i] = stackFrame{
				Func:   filepath.Base(f.Function),
				Source: filepath.Join(filepath.Base(filepath.Dir(f.File)), filepath.Base(f.File)),
				Line:   f.Line,
			}
		}
		attrs = append(attrs, slog.Any("trace", rendered))
	}

	return slog.GroupValue(attrs...)
}

// WrapError annotates an error and captures the caller's stack trace.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return xerrors.Newf("%s: %v", msg, xerrors.WithStackTrace(err, 1))
}

// WithRequestAttrs stores request attributes in the context.
func WithRequestAttrs(ctx context.Context, attrs *RequestAttrs) context.Context {
	return context.WithValue(ctx, requestAttrsKey, attrs)
}

func requestFields(ctx context.Context) []any {
	attrs, ok := ctx.Value(requestAttrsKey).(*RequestAttrs)
	if !ok {
		return nil
	}
	return []any{
		slog.String("method", attrs.Method),
		slog.String("path", attrs.Path),
		slog.String("ip", attrs.IP),
	}
}

// ExtractClientIP returns the client address, preferring proxy headers
// over the socket peer.
func ExtractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// LogSecurityEvent emits a WARN log tagged with the event name and the
// request attributes from the context.
func LogSecurityEvent(ctx context.Context, event SecurityEvent, msg string) {
	fields := append(requestFields(ctx), slog.String("security_event", string(event)))
	slog.WarnContext(ctx, msg, fields...)
}

// LogErrorWithStatus emits an ERROR log carrying the response status
// and, when non-nil, the wrapped error with its trace.
func LogErrorWithStatus(ctx context.Context, status int, msg string, err error) {
	fields := append(requestFields(ctx), slog.Int("status", status))
	if err != nil {
		fields = append(fields, slog.Any("error", err))
	}
	slog.ErrorContext(ctx, msg, fields...)
}
