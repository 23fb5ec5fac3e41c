package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/gridview/internal/grid"
)

const (
	defaultUserAgent = "gridview/0.1"
	requestTimeout   = 10 * time.Second
	maxBodyBytes     = 64 << 20
)

// HTTP fetches rows from a JSON endpoint.
type HTTP struct {
	endpoint  *url.URL
	rowsPath  string
	http      *http.Client
	userAgent string
}

// NewHTTP builds an HTTP source for endpoint. A missing scheme defaults to
// http.
func NewHTTP(endpoint, rowsPath string) (*HTTP, error) {
	u, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	return &HTTP{
		endpoint: u,
		rowsPath: rowsPath,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Fetch requests the endpoint with filters merged into the query string.
func (h *HTTP) Fetch(ctx context.Context, filters map[string]string) ([]grid.Row, error) {
	if h == nil {
		return nil, fmt.Errorf("http source is nil")
	}
	reqURL := *h.endpoint
	values := reqURL.Query()
	for k, v := range filters {
		if k = strings.TrimSpace(k); k != "" {
			values.Set(k, v)
		}
	}
	reqURL.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("source %s returned status %d", h.endpoint.Redacted(), resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	rows, err := DecodeRows(body, h.rowsPath)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return rows, nil
}

// Close releases idle connections.
func (h *HTTP) Close() error {
	h.http.CloseIdleConnections()
	return nil
}

func parseEndpoint(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("http source url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse source url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("source url %q has no host", raw)
	}
	u.Fragment = ""
	return u, nil
}
