// Package supabase implements store.Store on top of the PostgREST API that a
// hosted Supabase project exposes under /rest/v1.
package supabase

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/store"
)

const (
	restPath        = "/rest/v1"
	contentType     = "application/json"
	contentEncoding = "gzip"
	userAgent       = "spigell/career-match"
	defaultSchema   = "public"
)

var _ store.Store = (*Client)(nil)

type Client struct {
	apiKey     string
	schema     string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	BaseURL    string
}

// New returns a client for the project at baseURL authenticated with apiKey.
// An empty schema means "public".
func New(baseURL, apiKey, schema string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if schema == "" {
		schema = defaultSchema
	}

	return &Client{
		apiKey:  apiKey,
		schema:  schema,
		logger:  logger,
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: userAgent,
	}
}

// apiError is the error body PostgREST returns.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func badStatus(resp *http.Response, body []byte) error {
	var perr apiError
	if err := json.Unmarshal(body, &perr); err == nil && perr.Message != "" {
		return fmt.Errorf("bad status: %s: %s", resp.Status, perr.Message)
	}
	return fmt.Errorf("bad status: %s", resp.Status)
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s%s/%s", c.BaseURL, restPath, table)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("Accept", contentType)

	if c.schema != defaultSchema {
		req.Header.Set("Accept-Profile", c.schema)
		req.Header.Set("Content-Profile", c.schema)
	}

	return req
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// do sends the request and returns the (decompressed) body of a 2xx response.
func (c *Client) do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.request(c.setHeaders(req))
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if req.Method == http.MethodHead {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, nil, badStatus(resp, nil)
		}
		return resp, nil, nil
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, badStatus(resp, data)
	}

	return resp, data, nil
}

// getRows fetches rows of a table matching the query.
func (c *Client) getRows(ctx context.Context, table string, q url.Values) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tableURL(table), nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = q.Encode()

	_, data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return parseRows(data)
}

// sendRows sends a JSON body with the given method and returns the affected rows.
func (c *Client) sendRows(ctx context.Context, method, table string, q url.Values, payload any) ([]map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.tableURL(table), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Prefer", "return=representation")

	_, data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return parseRows(data)
}

// count returns the exact number of rows matching the query without fetching them.
func (c *Client) count(ctx context.Context, table string, q url.Values) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.tableURL(table), nil)
	if err != nil {
		return 0, err
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("select", "id")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Prefer", "count=exact")

	resp, _, err := c.do(req)
	if err != nil {
		return 0, err
	}

	return parseContentRange(resp.Header.Get("Content-Range"))
}

// parseContentRange reads the total from values like "0-24/3573" or "*/0".
func parseContentRange(value string) (int, error) {
	_, total, ok := strings.Cut(value, "/")
	if !ok || total == "*" {
		return 0, fmt.Errorf("no total in content range %q", value)
	}

	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("parsing content range %q: %w", value, err)
	}
	return n, nil
}

func parseRows(data []byte) ([]map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding rows: %w", err)
	}
	return rows, nil
}

func eq(value string) string {
	return "eq." + value
}
