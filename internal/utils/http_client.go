package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "fleetzen-agent"

// HTTPClient wraps resty.Client so the agent's transport defaults live in one
// place.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client identifying itself as the FleetZen agent.
// Retries are left to the sync service, which owns the draft state machine,
// so the client itself performs a single attempt per request.
func NewHTTPClient() *HTTPClient {
	c := resty.New().
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0).
		SetTimeout(30 * time.Second)

	return &HTTPClient{Client: c}
}
