// Package cms reads canonical records from the CMS REST API (Directus-style /items endpoints).
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchsync/internal/domain"
)

// DefaultTimeout bounds a single CMS request.
const DefaultTimeout = 15 * time.Second

const maxErrorBody = 512

// Config holds the CMS endpoint settings.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client is the record store over the CMS items API.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
	logger  *zap.Logger
}

// New creates a CMS client.
func New(cfg Config, logger *zap.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		token:   cfg.Token,
		timeout: timeout,
		http:    hc,
		logger:  logger,
	}
}

// StatusError is a non-2xx CMS response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("cms: status %d", e.Status)
	}
	return fmt.Sprintf("cms: status %d: %s", e.Status, e.Body)
}

// ReadMany returns every record matching q. No page limit is applied.
func (c *Client) ReadMany(ctx context.Context, q domain.RecordQuery) ([]domain.Record, error) {
	params := url.Values{}
	params.Set("limit", "-1")
	if len(q.Fields) > 0 {
		params.Set("fields", strings.Join(q.Fields, ","))
	}
	if len(q.Filter) > 0 {
		raw, err := json.Marshal(q.Filter)
		if err != nil {
			return nil, fmt.Errorf("marshal filter for %s: %w", q.Collection, err)
		}
		params.Set("filter", string(raw))
	}

	var resp struct {
		Data []map[string]any `json:"data"`
	}
	if err := c.get(ctx, "/items/"+url.PathEscape(q.Collection), params, &resp); err != nil {
		return nil, fmt.Errorf("read %s: %w", q.Collection, err)
	}

	records := make([]domain.Record, 0, len(resp.Data))
	for _, item := range resp.Data {
		rec := domain.NewRecord(q.Type, "", item)
		if rec.Key == "" {
			c.logger.Warn("Skipping record without primary key",
				zap.String("content_type", string(q.Type)),
				zap.String("collection", q.Collection),
			)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadOne returns the record with primary key key. q.Filter is not applied.
func (c *Client) ReadOne(ctx context.Context, q domain.RecordQuery, key string) (domain.Record, error) {
	params := url.Values{}
	if len(q.Fields) > 0 {
		params.Set("fields", strings.Join(q.Fields, ","))
	}

	var resp struct {
		Data map[string]any `json:"data"`
	}
	path := "/items/" + url.PathEscape(q.Collection) + "/" + url.PathEscape(key)
	if err := c.get(ctx, path, params, &resp); err != nil {
		return domain.Record{}, fmt.Errorf("read %s/%s: %w", q.Collection, key, err)
	}
	if resp.Data == nil {
		return domain.Record{}, fmt.Errorf("read %s/%s: %w", q.Collection, key, domain.ErrRecordNotFound)
	}
	return domain.NewRecord(q.Type, key, resp.Data), nil
}

// Ping checks CMS availability via the server ping endpoint.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/server/ping", http.NoBody)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w: %w", domain.ErrStoreUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("ping: %w: %w", domain.ErrStoreUnavailable, &StatusError{Status: resp.StatusCode})
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", domain.ErrStoreUnavailable, err)
	}

	c.logger.Debug("CMS request completed",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.Int("bytes", len(body)),
	)

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrRecordNotFound
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, &StatusError{
			Status: resp.StatusCode,
			Body:   truncate(extractMessage(body), maxErrorBody),
		})
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// extractMessage pulls errors[0].message from a CMS error body, falling back to the raw body.
func extractMessage(body []byte) string {
	var parsed struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if json.Unmarshal(body, &parsed) == nil && len(parsed.Errors) > 0 && parsed.Errors[0].Message != "" {
		return parsed.Errors[0].Message
	}
	return string(body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

