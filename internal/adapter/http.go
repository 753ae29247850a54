package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/fleetzen/fleetzen/internal/config"
	"github.com/fleetzen/fleetzen/internal/logger"
	"github.com/fleetzen/fleetzen/internal/utils"
	"github.com/fleetzen/fleetzen/models"
	"github.com/go-resty/resty/v2"
)

const (
	healthPath        = "/api/health"
	versionPath       = "/api/version"
	interventionsPath = "/api/interventions"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	hashKey string

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress,
// configures the underlying HTTP client with the resolved base URL and request
// timeout, and initialises the shared HMAC hasher pool used for the body
// integrity header. The session token from appCfg is preloaded.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.SetBaseURL(baseURL)
	if adapterCfg.RequestTimeout > 0 {
		client.SetTimeout(adapterCfg.RequestTimeout)
	}

	if appCfg.HashKey != "" {
		utils.InitHasherPool(appCfg.HashKey)
	}

	a := &httpServerAdapter{client: client, hashKey: appCfg.HashKey, logger: logger}
	a.SetToken(appCfg.SessionToken)
	return a, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Ping implements [ServerAdapter] with GET /api/health.
func (h *httpServerAdapter) Ping(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		Get(healthPath)
	if err != nil {
		return fmt.Errorf("%w: health request: %w", ErrTransport, err)
	}

	return mapHTTPError(resp)
}

// Version implements [ServerAdapter] with GET /api/version.
func (h *httpServerAdapter) Version(ctx context.Context) (models.AppBuildInfo, error) {
	var info models.AppBuildInfo

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&info).
		Get(versionPath)
	if err != nil {
		return models.AppBuildInfo{}, fmt.Errorf("%w: version request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AppBuildInfo{}, err
	}

	return info, nil
}

// Submit implements [ServerAdapter]. It POSTs the submission to
// /api/interventions with the bearer token and, when a hash key is
// configured, the HashSHA256 header computed over the exact body bytes.
func (h *httpServerAdapter) Submit(ctx context.Context, req models.SubmissionRequest) (models.SubmissionReceipt, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.SubmissionReceipt{}, fmt.Errorf("marshal submission: %w", err)
	}

	var receipt models.SubmissionReceipt
	request := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&receipt)
	if h.hashKey != "" {
		request.SetHeader(utils.HashHeader, utils.HashHex(body))
	}

	resp, err := request.Post(interventionsPath)
	if err != nil {
		return models.SubmissionReceipt{}, fmt.Errorf("%w: submit request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		h.logger.Warn().
			Str("func", "httpServerAdapter.Submit").
			Str("draft_id", req.DraftID).
			Int("status", resp.StatusCode()).
			Msg("submission was not accepted")
		return models.SubmissionReceipt{}, err
	}

	return receipt, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}
