package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/roach88/rollforward/internal/wire"
)

// DefaultBaseURL is where the service listens in a default deployment.
const DefaultBaseURL = "http://localhost:8001/forecast-model"

// maxErrorBody caps how much of an error response is kept in TransportError.
const maxErrorBody = 4 << 10

// HTTPClient implements session.Service against the HTTP API.
type HTTPClient struct {
	baseURL  string
	http     *http.Client
	maxTries uint
	backoff  func() backoff.BackOff
	logger   *slog.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
// Default: a client with a 60s timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) {
		c.http = h
	}
}

// WithRetry retries retryable failures up to maxTries attempts in total with
// exponential backoff. maxTries <= 1 disables retrying.
func WithRetry(maxTries uint) Option {
	return func(c *HTTPClient) {
		c.maxTries = maxTries
	}
}

// WithBackOff sets the backoff policy used by WithRetry.
// Default: backoff.NewExponentialBackOff().
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(c *HTTPClient) {
		c.backoff = newBackOff
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = l
	}
}

// New creates a client for baseURL. An empty baseURL uses DefaultBaseURL.
func New(baseURL string, opts ...Option) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 60 * time.Second},
		maxTries: 1,
		backoff:  func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service base URL without a trailing slash.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Load fetches a saved model.
func (c *HTTPClient) Load(ctx context.Context, id string) (wire.Snapshot, error) {
	var snap wire.Snapshot
	if err := c.post(ctx, "load", "/load/"+url.PathEscape(id), nil, &snap); err != nil {
		return wire.Snapshot{}, err
	}
	return snap, nil
}

// Save stores a model. An empty id lets the service assign one.
// Returns the id reported by the service, falling back to the requested id
// when the response carries none.
func (c *HTTPClient) Save(ctx context.Context, id string, snap wire.Snapshot) (string, error) {
	path := "/save"
	if id != "" {
		path += "/" + url.PathEscape(id)
	}
	var resp saveResponse
	if err := c.post(ctx, "save", path, snap, &resp); err != nil {
		return "", err
	}
	saved := resp.id()
	if saved == "" {
		saved = id
	}
	if saved == "" {
		return "", &TransportError{Op: "save", URL: c.baseURL + path, Status: http.StatusOK,
			Err: errors.New("response carries no id")}
	}
	return saved, nil
}

// Run submits a model and returns the service response, whose Result holds
// the roll-forward output.
func (c *HTTPClient) Run(ctx context.Context, snap wire.Snapshot) (wire.Snapshot, error) {
	var out wire.Snapshot
	if err := c.post(ctx, "run", "/run", snap, &out); err != nil {
		return wire.Snapshot{}, err
	}
	return out, nil
}

// saveResponse accepts {"id": "x"} and {"id": 7}.
type saveResponse struct {
	ID json.RawMessage `json:"id"`
}

func (r saveResponse) id() string {
	if len(r.ID) == 0 || string(r.ID) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.ID, &s); err == nil {
		return s
	}
	return string(r.ID)
}

// post sends body as JSON (nil sends no body) and decodes the response into out.
func (c *HTTPClient) post(ctx context.Context, op, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
	}
	target := c.baseURL + path

	attempt := 0
	data, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		data, err := c.do(ctx, op, target, payload)
		if err == nil {
			return data, nil
		}
		var te *TransportError
		if errors.As(err, &te) && te.Retryable() && c.maxTries > 1 {
			c.logger.Debug("request failed, retrying", "op", op, "attempt", attempt, "error", err)
			return nil, err
		}
		return nil, backoff.Permanent(err)
	},
		backoff.WithBackOff(c.backoff()),
		backoff.WithMaxTries(max(c.maxTries, 1)),
	)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: op, URL: target, Status: http.StatusOK, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// do performs one HTTP exchange and returns the body of a 2xx response.
func (c *HTTPClient) do(ctx context.Context, op, target string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, reader)
	if err != nil {
		return nil, &TransportError{Op: op, URL: target, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.logger.Debug("service call",
		"op", op,
		"url", target,
		"status", resp.StatusCode,
		"bytes", len(data),
		"elapsed", time.Since(start),
	)
	if err != nil {
		return nil, &TransportError{Op: op, URL: target, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := strings.TrimSpace(string(data))
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &TransportError{Op: op, URL: target, Status: resp.StatusCode, Body: body,
			Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	return data, nil
}
