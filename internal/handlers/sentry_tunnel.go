package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vibeset/backend/internal/config"
	"github.com/vibeset/backend/internal/logging"
)

// maxEnvelopeBytes caps tunneled envelope size. Frontend error payloads
// are small; anything larger is not a legitimate envelope.
const maxEnvelopeBytes = 1 << 20

// SentryTunnelHandler relays Sentry envelopes from the browser to the
// ingest API so the frontend never talks to Sentry directly. Only
// envelopes carrying the configured frontend DSN are forwarded.
type SentryTunnelHandler struct {
	frontendDSN string
	client      *http.Client
}

func NewSentryTunnelHandler(cfg *config.Config) *SentryTunnelHandler {
	return &SentryTunnelHandler{
		frontendDSN: cfg.SentryDSNFrontend,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// envelopeDSN extracts the dsn field from the envelope header, the
// first newline-delimited JSON line of the body.
func envelopeDSN(envelope []byte) (string, error) {
	headerLine := envelope
	if i := bytes.IndexByte(envelope, '\n'); i >= 0 {
		headerLine = envelope[:i]
	}

	var header struct {
		DSN string `json:"dsn"`
	}
	if err := json.Unmarshal(headerLine, &header); err != nil {
		return "", fmt.Errorf("malformed envelope header: %w", err)
	}
	return header.DSN, nil
}

// ingestURL converts a DSN (https://<key>@<host>/<project_id>) into the
// corresponding envelope ingest endpoint.
func ingestURL(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("malformed DSN: %w", err)
	}
	projectID := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || projectID == "" {
		return "", fmt.Errorf("DSN missing host or project id")
	}
	return "https://" + u.Host + "/api/" + projectID + "/envelope/", nil
}

// Tunnel accepts a browser-sent envelope and forwards it upstream. The
// response status mirrors the ingest API's.
func (h *SentryTunnelHandler) Tunnel(w http.ResponseWriter, r *http.Request) {
	if h.frontendDSN == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	envelope, err := io.ReadAll(io.LimitReader(r.Body, maxEnvelopeBytes))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	dsn, err := envelopeDSN(envelope)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if dsn != h.frontendDSN {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	target, err := ingestURL(dsn)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, target, bytes.NewReader(envelope))
	if err != nil {
		logging.LogErrorWithStatus(r.Context(), http.StatusInternalServerError, "failed to build envelope relay request", logging.WrapError(err, "sentry tunnel"))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	req.Header.Set("Content-Type", "application/x-sentry-envelope")

	resp, err := h.client.Do(req)
	if err != nil {
		logging.LogErrorWithStatus(r.Context(), http.StatusBadGateway, "failed to relay envelope upstream", logging.WrapError(err, "sentry tunnel"))
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	w.WriteHeader(resp.StatusCode)
}
