package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/workshop-walkin/internal/auth"
)

var (
	// ErrTransport covers network failures, 5xx answers and undecodable
	// response bodies.
	ErrTransport = errors.New("transport error")
	// ErrRejected is returned for 4xx answers: the backend understood the
	// request and refused it.
	ErrRejected = errors.New("request rejected by backend")
)

// IdempotencyHeader carries the client-minted key that lets the backend
// collapse duplicate submissions.
const IdempotencyHeader = "Idempotency-Key"

// Doer abstracts *http.Client so tests can substitute a fake transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the shared REST client for the workshop backend. All remote
// calls of the walk-in workflow go through it.
type Client struct {
	baseURL string
	tokens  auth.TokenSource
	http    Doer
}

// NewClient creates a client with a 10 second request timeout.
func NewClient(baseURL string, tokens auth.TokenSource) *Client {
	return NewClientWithDoer(baseURL, tokens, &http.Client{Timeout: 10 * time.Second})
}

// NewClientWithDoer creates a client over a caller-supplied transport.
func NewClientWithDoer(baseURL string, tokens auth.TokenSource, doer Doer) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    doer,
	}
}

// Get issues an authenticated GET and returns the raw response body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, true, nil)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, payload, true, nil)
}

// PostIdempotent issues an authenticated POST carrying an idempotency key.
func (c *Client) PostIdempotent(ctx context.Context, path string, payload interface{}, key string) ([]byte, error) {
	headers := map[string]string{IdempotencyHeader: key}
	return c.do(ctx, http.MethodPost, path, payload, true, headers)
}

// PostUnauthenticated issues a POST without a bearer token. Only the
// register endpoint uses it.
func (c *Client) PostUnauthenticated(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, payload, false, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, authed bool, headers map[string]string) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if authed {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", auth.BearerHeader(token))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: read response: %v", ErrTransport, method, path, err)
	}

	if resp.StatusCode >= 400 {
		log.WithFields(log.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("backend returned error status")
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %s %s: status %d", ErrTransport, method, path, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s %s: status %d: %s", ErrRejected, method, path, resp.StatusCode, truncateBody(raw))
	}
	return raw, nil
}

func truncateBody(raw []byte) string {
	const max = 256
	if len(raw) > max {
		raw = raw[:max]
	}
	return string(bytes.TrimSpace(raw))
}
