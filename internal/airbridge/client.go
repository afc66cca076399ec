// Package airbridge is the client for the spreadsheet-backed record API.
//
// The upstream is consumed, not owned: payload shapes are tolerated
// defensively (top-level array, "records" or "data" containers; record
// fields either namespaced under "fields" or flattened) and every call is
// bounded by an explicit timeout after which it is abandoned.
package airbridge

import (
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

	"bobadash/internal/platform/config"
	"bobadash/pkg/platform/sentinel"
)

// Query selects fields and optionally filters rows server-side.
type Query struct {
	Fields          []string `json:"fields,omitempty"`
	FilterByFormula string   `json:"filterByFormula,omitempty"`
}

// Record is one upstream row. Fields hold the raw field values keyed by the
// upstream column name.
type Record struct {
	ID     string
	Fields map[string]any
}

// Str returns the first non-empty string value among the given field names.
// Missing or non-string values fall through to the next name.
func (r Record) Str(names ...string) string {
	for _, name := range names {
		if v, ok := r.Fields[name].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Client calls the Airbridge REST API.
type Client struct {
	baseURL  string
	baseName string
	apiKey   string
	timeout  time.Duration
	http     *http.Client
	logger   *slog.Logger
}

func New(cfg config.AirbridgeConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		baseName: cfg.BaseName,
		apiKey:   cfg.APIKey,
		timeout:  cfg.Timeout,
		http:     &http.Client{},
		logger:   logger,
	}
}

// EscapeFormulaValue escapes a user-supplied value for interpolation into a
// filterByFormula string literal.
func EscapeFormulaValue(v string) string {
	return strings.ReplaceAll(v, "'", `\'`)
}

// List fetches records from a table. The call is abandoned after the
// configured timeout and reported as sentinel.ErrTimeout.
func (c *Client) List(ctx context.Context, table string, q Query) ([]Record, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("airbridge api key not configured: %w", sentinel.ErrUnavailable)
	}

	selectJSON, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode select query: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s/%s?select=%s&authKey=%s",
		c.baseURL,
		url.PathEscape(c.baseName),
		url.PathEscape(table),
		url.QueryEscape(string(selectJSON)),
		url.QueryEscape(c.apiKey),
	)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("upstream %s fetch after %s: %w", table, c.timeout, sentinel.ErrTimeout)
		}
		return nil, fmt.Errorf("upstream %s fetch: %w: %v", table, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream %s body: %w: %v", table, sentinel.ErrUnavailable, err)
	}

	c.logger.Debug("airbridge fetch",
		"table", table,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("upstream %s returned non-JSON body: %w", table, sentinel.ErrBadPayload)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstream %s returned status %d: %w", table, resp.StatusCode, sentinel.ErrUnavailable)
	}

	records, err := extractRecords(payload)
	if err != nil {
		return nil, fmt.Errorf("upstream %s: %w", table, err)
	}
	return records, nil
}

// extractRecords tolerates the known container shapes: a bare array, or an
// object with a "records" or "data" array.
func extractRecords(payload any) ([]Record, error) {
	var rawList []any
	switch v := payload.(type) {
	case []any:
		rawList = v
	case map[string]any:
		if recs, ok := v["records"].([]any); ok {
			rawList = recs
		} else if recs, ok := v["data"].([]any); ok {
			rawList = recs
		} else {
			return nil, fmt.Errorf("no recognizable records container: %w", sentinel.ErrBadPayload)
		}
	default:
		return nil, fmt.Errorf("no recognizable records container: %w", sentinel.ErrBadPayload)
	}

	records := make([]Record, 0, len(rawList))
	for _, raw := range rawList {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		fields, ok := obj["fields"].(map[string]any)
		if !ok {
			// Flattened rows carry fields at the top level.
			fields = obj
		}

		id, _ := obj["id"].(string)
		if id == "" {
			id, _ = fields["id"].(string)
		}

		records = append(records, Record{ID: id, Fields: fields})
	}
	return records, nil
}
