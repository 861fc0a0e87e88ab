// Package alias implements the client for the alias lookup service.
//
// The service maps a human-readable alias to the recipient's public key:
//
//	POST {base}/getPublicKey  {"alias": "bob"}
//	200 OK                    {"publicKey": "<hex compressed key>"}
//
// Any other status is a failed lookup. The client makes exactly one call per
// Lookup; it does not retry or cache.
package alias

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

	"github.com/google/uuid"
	"github.com/suffix-labs/ledger-txbuilder/pkg/txn"
	"go.uber.org/zap"
)

// LookupPath is the lookup endpoint relative to the base URL.
const LookupPath = "/getPublicKey"

// RequestIDHeader carries a per-lookup correlation id.
const RequestIDHeader = "X-Request-Id"

// DefaultTimeout bounds a single lookup when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// maxResponseSize caps the lookup response body.
const maxResponseSize = 64 << 10

// ErrNotFound is returned for a 404 response.
var ErrNotFound = errors.New("alias not found")

// StatusError is returned for any non-200 response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("lookup returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("lookup returned status %d", e.StatusCode)
}

// Is matches ErrNotFound for 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type lookupRequest struct {
	Alias string `json:"alias"`
}

type lookupResponse struct {
	PublicKey string `json:"publicKey"`
}

// Client queries the alias lookup service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("alias service URL is empty")
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Lookup resolves alias to a public key.
func (c *Client) Lookup(ctx context.Context, alias string) (txn.PublicKey, error) {
	var pk txn.PublicKey

	body, err := json.Marshal(lookupRequest{Alias: alias})
	if err != nil {
		return pk, fmt.Errorf("failed to encode lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LookupPath, bytes.NewReader(body))
	if err != nil {
		return pk, fmt.Errorf("failed to create lookup request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	logger := c.logger.With(zap.String("alias", alias), zap.String("request_id", requestID))
	logger.Debug("looking up alias")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("alias lookup transport failure", zap.Error(err))
		return pk, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return pk, fmt.Errorf("failed to read lookup response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Debug("alias lookup rejected", zap.Int("status", resp.StatusCode))
		return pk, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	var decoded lookupResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return pk, fmt.Errorf("failed to decode lookup response: %w", err)
	}

	pk, err = txn.ParsePublicKeyHex(decoded.PublicKey)
	if err != nil {
		return pk, fmt.Errorf("lookup returned unusable key: %w", err)
	}

	logger.Debug("alias resolved", zap.Stringer("public_key", pk))
	return pk, nil
}
