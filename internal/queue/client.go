package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Action selects the backend operation.
type Action string

// Backend actions.
const (
	ActionInit  Action = "init"
	ActionNext  Action = "next"
	ActionReset Action = "reset"
)

const maxResponseSize = 8 << 20

// Client performs the three remote queue operations. No call is retried.
type Client interface {
	// Init asks the backend to (re)build its queue.
	Init(ctx context.Context) (*Ack, error)
	// Next returns the next batch, or ErrNoMoreBatches when the backend
	// answers with no image list.
	Next(ctx context.Context) (*Batch, error)
	// Reset rewinds the backend queue.
	Reset(ctx context.Context) (*Ack, error)
	// Endpoint returns the backend URL the client targets.
	Endpoint() string
}

type httpClient struct {
	endpoint *url.URL
	http     *http.Client
	logger   *slog.Logger
}

// New creates a Client for the given backend endpoint.
// A zero timeout leaves requests bounded only by the caller's context.
func New(endpoint string, timeout time.Duration, logger *slog.Logger) (Client, error) {
	if endpoint == "" {
		return nil, ErrNotConfigured
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid endpoint %q", ErrNotConfigured, endpoint)
	}

	return &httpClient{
		endpoint: u,
		http:     &http.Client{Timeout: timeout},
		logger:   logger.With("system", "queue"),
	}, nil
}

func (c *httpClient) Endpoint() string {
	return c.endpoint.String()
}

func (c *httpClient) Init(ctx context.Context) (*Ack, error) {
	return c.ack(ctx, ActionInit)
}

func (c *httpClient) Reset(ctx context.Context) (*Ack, error) {
	return c.ack(ctx, ActionReset)
}

func (c *httpClient) Next(ctx context.Context) (*Batch, error) {
	body, err := c.call(ctx, ActionNext)
	if err != nil {
		return nil, err
	}

	// A well-formed body that is not an object carries no images.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || (trimmed[0] != '{' && json.Valid(trimmed)) {
		return nil, ErrNoMoreBatches
	}

	var batch Batch
	if err := json.Unmarshal(trimmed, &batch); err != nil {
		return nil, &PayloadError{Action: ActionNext, Err: err}
	}

	if len(batch.Images) == 0 {
		return nil, ErrNoMoreBatches
	}

	if err := batch.Validate(); err != nil {
		return nil, &PayloadError{Action: ActionNext, Err: err}
	}

	c.logger.InfoContext(
		ctx, "batch received",
		"folder", batch.FolderName,
		"batch_index", batch.BatchIndex,
		"total_batches", batch.TotalBatches,
		"images", len(batch.Images),
	)

	return &batch, nil
}

func (c *httpClient) ack(ctx context.Context, action Action) (*Ack, error) {
	body, err := c.call(ctx, action)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &PayloadError{Action: action, Err: err}
	}
	if raw.Success == nil {
		return nil, &PayloadError{Action: action, Err: fmt.Errorf("missing success")}
	}

	ack := &Ack{Success: *raw.Success, Message: raw.Message}
	if !ack.Success {
		return ack, fmt.Errorf("%w: %s: %s", ErrRequestFailed, action, ack.Message)
	}

	c.logger.InfoContext(ctx, "queue action complete", "action", action, "message", ack.Message)
	return ack, nil
}

func (c *httpClient) call(ctx context.Context, action Action) ([]byte, error) {
	u := *c.endpoint
	q := u.Query()
	q.Set("action", string(action))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: build request: %w", ErrRequestFailed, action, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRequestFailed, action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrRequestFailed, action, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %w", ErrRequestFailed, action, err)
	}

	return body, nil
}
