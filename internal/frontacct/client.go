// Package frontacct talks to the FrontAccounting-style REST API and
// registers every accounting operation the agent exposes. Resource payloads
// are opaque: the upstream API is the source of truth for their shapes, so
// bodies pass through as raw JSON text.
package frontacct

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/oreem-dev/pouch-agent/pkg/apperrors"
	"github.com/oreem-dev/pouch-agent/pkg/session"
)

const apiPrefix = "/modules/api"

// Client is a thin HTTP client for the accounting API. All calls block until
// the upstream responds or the request context is done.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a Client for the given base URL, e.g.
// "https://pouch-account.oreem.com".
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Login posts the credentials to the API root. It only reports the outcome;
// committing the session on success is the login handler's job.
func (c *Client) Login(ctx context.Context, user, password string) error {
	body, err := json.Marshal(map[string]string{
		"user":     user,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("failed to encode login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeUpstreamHTTP, "login request failed", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apperrors.UpstreamHTTPError{Status: resp.StatusCode, Body: string(respBody)}
	}

	c.log.Info("upstream login succeeded", zap.String("user", user))
	return nil
}

// Get performs an authenticated GET and returns the response body.
func (c *Client) Get(ctx context.Context, sess *session.Store, path string, query url.Values) (string, error) {
	return c.do(ctx, sess, http.MethodGet, path, query, nil)
}

// Put performs an authenticated PUT with a JSON payload.
func (c *Client) Put(ctx context.Context, sess *session.Store, path string, payload interface{}) (string, error) {
	return c.do(ctx, sess, http.MethodPut, path, nil, payload)
}

// Delete performs an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, sess *session.Store, path string) (string, error) {
	return c.do(ctx, sess, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, sess *session.Store, method, path string, query url.Values, payload interface{}) (string, error) {
	// Single authentication check point: if the session is empty this fails
	// before any network traffic happens.
	headers, err := sess.AuthHeaders()
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("failed to encode payload: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("calling accounting API",
		zap.String("method", method),
		zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeUpstreamHTTP, fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &apperrors.UpstreamHTTPError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return string(respBody), nil
}
