// Package rtdb implements the CatalogStore port over the Firebase Realtime
// Database REST API, including its server-sent event stream.
package rtdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/techxplorers/portfolio/internal/adapter/driven/wire"
	"github.com/techxplorers/portfolio/internal/domain/model"
	"github.com/techxplorers/portfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CatalogStore = (*Client)(nil)

const (
	requestTimeout    = 15 * time.Second
	defaultRetryDelay = 5 * time.Second
	maxErrorBody      = 64 << 10
)

// Client talks to one database instance. One-shot reads go through an
// in-memory HTTP cache so unchanged collections revalidate by ETag instead
// of re-downloading.
type Client struct {
	baseURL    string
	read       *http.Client
	write      *http.Client
	stream     *http.Client
	retryDelay time.Duration
	logger     *slog.Logger
}

// NewClient creates a Client for the database at baseURL, for example
// https://project-default-rtdb.firebaseio.com.
func NewClient(baseURL string, logger *slog.Logger) (*Client, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()

	return &Client{
		baseURL:    base,
		read:       &http.Client{Transport: cacheTransport, Timeout: requestTimeout},
		write:      &http.Client{Timeout: requestTimeout},
		stream:     &http.Client{},
		retryDelay: defaultRetryDelay,
		logger:     logger,
	}, nil
}

// NewClientWithHTTPClient creates a Client that uses httpClient for every
// request, without the read cache. Intended for tests against an httptest
// server or the database emulator.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, retryDelay time.Duration, logger *slog.Logger) (*Client, error) {
	base, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    base,
		read:       httpClient,
		write:      httpClient,
		stream:     httpClient,
		retryDelay: retryDelay,
		logger:     logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse database URL: %w", err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return "", fmt.Errorf("database URL %q must be an absolute http(s) URL", raw)
	}
	return strings.TrimSuffix(u.String(), "/"), nil
}

// endpoint returns the REST URL of path. The session token in ctx, if any,
// is passed as the auth parameter.
func (c *Client) endpoint(ctx context.Context, path string) string {
	u := c.baseURL + "/" + strings.Trim(path, "/") + ".json"
	if s, ok := model.SessionFromContext(ctx); ok && s.Token != "" {
		u += "?auth=" + url.QueryEscape(s.Token)
	}
	return u
}

// FetchOnce reads the collection at path.
func (c *Client) FetchOnce(ctx context.Context, path string) ([]model.ServiceRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(ctx, path), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Firebase-ETag", "true")

	body, err := c.do(c.read, req, false)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}

	records, skipped, err := wire.DecodeCollection(body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %w", path, model.ErrStoreUnavailable, err)
	}
	c.logSkipped(path, skipped)
	return records, nil
}

// Create pushes record under a server-generated key.
func (c *Client) Create(ctx context.Context, path string, record model.ServiceRecord) (string, error) {
	payload, err := wire.Encode(record)
	if err != nil {
		return "", err
	}

	body, err := c.send(ctx, http.MethodPost, path, payload)
	if err != nil {
		return "", fmt.Errorf("push to %s: %w", path, err)
	}

	var out struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Name == "" {
		return "", fmt.Errorf("push to %s: unexpected response %q: %w", path, truncate(body), model.ErrStoreUnavailable)
	}
	return out.Name, nil
}

// Update patches the payload fields of record into path/id.
func (c *Client) Update(ctx context.Context, path, id string, record model.ServiceRecord) error {
	payload, err := wire.Encode(record)
	if err != nil {
		return err
	}

	if _, err := c.send(ctx, http.MethodPatch, childPath(path, id), payload); err != nil {
		return fmt.Errorf("update %s/%s: %w", path, id, err)
	}
	return nil
}

// Remove deletes path/id. The database answers success for a missing node.
func (c *Client) Remove(ctx context.Context, path, id string) error {
	if _, err := c.send(ctx, http.MethodDelete, childPath(path, id), nil); err != nil {
		return fmt.Errorf("remove %s/%s: %w", path, id, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(ctx, path), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(c.write, req, true)
}

// do runs req and maps failures onto the store error taxonomy. Permission
// errors are a denial for writes; for reads they mean the public view is
// unavailable.
func (c *Client) do(client *http.Client, req *http.Request, isWrite bool) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: read body: %w", model.ErrStoreUnavailable, err)
		}
		return body, nil
	}

	return nil, statusError(resp, isWrite)
}

func statusError(resp *http.Response, isWrite bool) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := http.StatusText(resp.StatusCode)
	var er struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		msg = er.Error
	}

	sentinel := model.ErrStoreUnavailable
	if isWrite && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		sentinel = model.ErrWriteDenied
	}
	return fmt.Errorf("status %d: %s: %w", resp.StatusCode, msg, sentinel)
}

func (c *Client) logSkipped(path string, skipped []string) {
	if len(skipped) > 0 {
		c.logger.Warn("skipping undecodable records", "path", path, "keys", skipped)
	}
}

func childPath(path, id string) string {
	return strings.Trim(path, "/") + "/" + url.PathEscape(id)
}

func truncate(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
