// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/utils"
	"github.com/fleetzen/fleetzen/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHashKey = "testhashkey"

// newTestAdapter creates an httpServerAdapter pointed at the test server.
func newTestAdapter(t *testing.T, serverURL string) *httpServerAdapter {
	t.Helper()
	adapterCfg := config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: 5 * time.Second}
	appCfg := config.ClientApp{HashKey: testHashKey, SessionToken: " agent-token "}

	a, err := NewHTTPServerAdapter(adapterCfg, appCfg, logger.Nop())
	require.NoError(t, err)
	return a.(*httpServerAdapter)
}

func testSubmission() models.SubmissionRequest {
	created := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	return models.SubmissionRequest{
		DraftID:   "draft-1",
		Type:      models.Washing,
		Payload:   models.Payload{"washType": "complete"},
		AgentID:   "agent-1",
		CreatedAt: created,
		UpdatedAt: created.Add(time.Minute),
		Photos: []models.SubmissionPhoto{{
			PhotoRef: models.PhotoRef{ID: "p-1", Size: 3, ContentType: "image/jpeg"},
			Data:     []byte{1, 2, 3},
		}},
	}
}

// ── constructor ─────────────────────────────────────────────────────────────

func TestNewHTTPServerAdapter_InvalidAddress(t *testing.T) {
	_, err := NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: "  "}, config.ClientApp{}, logger.Nop())
	require.Error(t, err)
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "host and port", raw: "localhost:8080", want: "http://localhost:8080"},
		{name: "trailing slash", raw: "https://intake.example.com/", want: "https://intake.example.com"},
		{name: "empty", raw: "", wantErr: true},
		{name: "scheme only", raw: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToken_TrimmedFromConfig(t *testing.T) {
	a := newTestAdapter(t, "http://localhost:1")
	assert.Equal(t, "agent-token", a.Token())

	a.SetToken("other")
	assert.Equal(t, "other", a.Token())
}

// ── Ping ────────────────────────────────────────────────────────────────────

func TestPing_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, newTestAdapter(t, srv.URL).Ping(context.Background()))
}

func TestPing_ServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newTestAdapter(t, srv.URL).Ping(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.True(t, IsRetryable(err))
}

func TestPing_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := newTestAdapter(t, url).Ping(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.True(t, IsRetryable(err))
}

// ── Version ─────────────────────────────────────────────────────────────────

func TestVersion_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/version", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.NewAppBuildInfo("1.2.0", "2026-05-01", "abc123"))
	}))
	defer srv.Close()

	info, err := newTestAdapter(t, srv.URL).Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", info.Version)
	assert.Equal(t, "abc123", info.Commit)
}

// ── Submit ──────────────────────────────────────────────────────────────────

func TestSubmit_Success(t *testing.T) {
	received := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/interventions", r.URL.Path)
		assert.Equal(t, "Bearer agent-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, utils.HashString(string(body), testHashKey), r.Header.Get(utils.HashHeader))

		var req models.SubmissionRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "draft-1", req.DraftID)
		assert.Equal(t, "complete", req.Payload["washType"])
		require.Len(t, req.Photos, 1)
		assert.Equal(t, []byte{1, 2, 3}, req.Photos[0].Data)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.SubmissionReceipt{DraftID: req.DraftID, ReceivedAt: received})
	}))
	defer srv.Close()

	receipt, err := newTestAdapter(t, srv.URL).Submit(context.Background(), testSubmission())
	require.NoError(t, err)
	assert.Equal(t, "draft-1", receipt.DraftID)
	assert.True(t, receipt.ReceivedAt.Equal(received))
	assert.False(t, receipt.Duplicate)
}

func TestSubmit_NoHashKey_NoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(utils.HashHeader))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"draftId":"draft-1","duplicate":true}`))
	}))
	defer srv.Close()

	a, err := NewHTTPServerAdapter(config.ClientAdapter{HTTPAddress: srv.URL}, config.ClientApp{}, logger.Nop())
	require.NoError(t, err)

	receipt, err := a.Submit(context.Background(), testSubmission())
	require.NoError(t, err)
	assert.True(t, receipt.Duplicate)
}

func TestSubmit_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		want      error
		retryable bool
	}{
		{name: "bad request", status: http.StatusBadRequest, want: ErrBadRequest},
		{name: "unauthorized", status: http.StatusUnauthorized, want: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, want: ErrForbidden},
		{name: "conflict", status: http.StatusConflict, want: ErrConflict},
		{name: "too large", status: http.StatusRequestEntityTooLarge, want: ErrPayloadTooLarge},
		{name: "throttled", status: http.StatusTooManyRequests, want: ErrTooManyRequests, retryable: true},
		{name: "internal", status: http.StatusInternalServerError, want: ErrInternalServerError, retryable: true},
		{name: "bad gateway", status: http.StatusBadGateway, want: ErrBadGateway, retryable: true},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, want: ErrServiceUnavailable, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("rejected"))
			}))
			defer srv.Close()

			_, err := newTestAdapter(t, srv.URL).Submit(context.Background(), testSubmission())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "rejected")
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestSubmit_UnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).Submit(context.Background(), testSubmission())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 418")
	assert.False(t, IsRetryable(err))
}

func TestSubmit_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAdapter(t, srv.URL).Submit(ctx, testSubmission())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}
