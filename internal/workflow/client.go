package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/psds-microservice/ticket-reply-service/internal/errs"
	"github.com/psds-microservice/ticket-reply-service/internal/model"
)

const (
	genericError     = "workflow webhook error"
	unreachableError = "workflow webhook unreachable"
	maxResponseBody  = 64 << 10
)

// Forwarder — отправка ответа оператора во внешний workflow (для подмены в тестах).
type Forwarder interface {
	Forward(ctx context.Context, env model.ReplyEnvelope) error
}

// Client posts reply envelopes to the workflow webhook. One attempt per call: no retry, no idempotency key.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient returns a client. httpClient may be nil, then a client with timeout is created.
func NewClient(url string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	} else if httpClient.Timeout == 0 {
		httpClient.Timeout = timeout
	}
	return &Client{url: url, httpClient: httpClient}
}

func (c *Client) Configured() bool {
	return c.url != ""
}

// Forward returns nil on a 2xx response, errs.ErrWorkflowNotConfigured without a URL,
// and *errs.DownstreamError otherwise.
func (c *Client) Forward(ctx context.Context, env model.ReplyEnvelope) error {
	if c.url == "" {
		return errs.ErrWorkflowNotConfigured
	}
	body, err := json.Marshal(env)
	if err != nil {
		return &errs.DownstreamError{Message: genericError, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return &errs.DownstreamError{Message: genericError, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &errs.DownstreamError{Message: unreachableError, Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &errs.DownstreamError{Message: remoteMessage(raw), StatusCode: resp.StatusCode}
}

// remoteMessage extracts {"error": "..."} (or {"message": "..."}) from the webhook response.
func remoteMessage(raw []byte) string {
	var data struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return genericError
	}
	switch v := data.Error.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	case map[string]any:
		if s, ok := v["message"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	if s := strings.TrimSpace(data.Message); s != "" {
		return s
	}
	return genericError
}
