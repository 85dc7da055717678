package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultBaseURL = "http://localhost:8080/api/v1"

// Client talks to the inventory record store.
//
// Request is the whole transport contract; the typed helpers in items.go are
// convenience wrappers for scriptable commands.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger

	newRequestID func() string
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client (tests use httptest's client).
	HTTPClient *http.Client
	// Logger receives one line per failed request. Nil discards.
	Logger *log.Logger
}

func New(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL:      base,
		http:         hc,
		logger:       logger,
		newRequestID: func() string { return uuid.NewString() },
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// Request sends method to endpoint (a path relative to the base URL, query string included).
//
// A 204 response yields a nil payload. Any other 2xx yields the raw JSON body.
// Non-2xx responses fail with *HTTPError carrying the body text.
func (c *Client) Request(ctx context.Context, endpoint string, method string, body any) (json.RawMessage, error) {
	if method == "" {
		method = http.MethodGet
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, endpoint, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, rd)
	if err != nil {
		return nil, &NetworkError{Method: method, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	reqID := c.newRequestID()
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("request failed: %s %s id=%s: %v", method, endpoint, reqID, err)
		return nil, &NetworkError{Method: method, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: method, Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Printf("request failed: %s %s id=%s status=%d", method, endpoint, reqID, resp.StatusCode)
		return nil, &HTTPError{Method: method, Endpoint: endpoint, Status: resp.StatusCode, Body: string(raw)}
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("decode %s %s response: invalid JSON", method, endpoint)
	}
	return json.RawMessage(raw), nil
}
