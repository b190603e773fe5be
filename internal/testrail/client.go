// Package testrail is a thin typed client for the TestRail HTTP API.
// Endpoints live under index.php?/api/v2/ with the method name as a
// pseudo-path inside the query string; every mutation is a POST, the
// deletes included.
package testrail

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// pageLimit is the page size requested from paginated list endpoints.
const pageLimit = 250

const defaultTimeout = 30 * time.Second

// Config carries the connection settings for one client.
type Config struct {
	URL      string
	Email    string
	Password string // API key works here too
	Timeout  time.Duration
	Insecure bool
	Verbose  bool
}

// Client issues synchronous API calls. Bulk operations rely on strictly
// sequential requests, so the client does nothing concurrent and never
// retries on its own.
type Client struct {
	baseURL  string
	email    string
	password string
	http     *http.Client
	verbose  bool
}

// NewClient builds a client from cfg. The URL may be pasted with or
// without the trailing index.php fragment.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.URL)
	base = strings.TrimRight(base, "/")
	base = strings.TrimSuffix(base, "/index.php?")
	base = strings.TrimSuffix(base, "/index.php")
	if base == "" {
		return nil, fmt.Errorf("missing service URL")
	}
	if cfg.Email == "" {
		return nil, fmt.Errorf("missing account email")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("missing password or API key")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}
	if cfg.Insecure {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		baseURL:  base,
		email:    cfg.Email,
		password: cfg.Password,
		http:     httpClient,
		verbose:  cfg.Verbose,
	}, nil
}

// BaseURL returns the normalized service URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// apiURL builds the full request URL for an endpoint fragment such as
// "get_case/5". Query parameters append with '&' because the endpoint
// itself already occupies the query string.
func (c *Client) apiURL(endpoint string, params url.Values) string {
	u := c.baseURL + "/index.php?/api/v2/" + strings.TrimPrefix(endpoint, "/")
	if len(params) > 0 {
		u += "&" + params.Encode()
	}
	return u
}

// do executes one request and returns the response body. Non-2xx
// responses become an *APIError carrying the decoded remote message.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body io.Reader, contentType string) ([]byte, error) {
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL(endpoint, params), body)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", endpoint, err)
	}
	req.SetBasicAuth(c.email, c.password)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logf("%s %s failed after %s [%s]: %v", method, endpoint, time.Since(start).Round(time.Millisecond), requestID, err)
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	c.logf("%s %s -> %d in %s [%s]", method, endpoint, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, endpoint, requestID, data)
	}
	return data, nil
}

func (c *Client) logf(format string, args ...any) {
	if c.verbose {
		log.Printf(format, args...)
	}
}

// get fetches endpoint and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	data, err := c.do(ctx, http.MethodGet, endpoint, params, nil, "")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// post sends payload as JSON and decodes the response into out when out
// is non-nil and the server returned a body.
func (c *Client) post(ctx context.Context, endpoint string, payload any, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	data, err := c.do(ctx, http.MethodPost, endpoint, nil, body, contentType)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// getList fetches a list endpoint, following the paginated envelope
// until the set is exhausted, and decodes the combined items into out
// (a pointer to a slice). Older servers answer with a bare array; both
// forms are handled.
func (c *Client) getList(ctx context.Context, endpoint, resource string, params url.Values, out any) error {
	merged := url.Values{}
	for k, vs := range params {
		merged[k] = vs
	}

	offset := 0
	var items []json.RawMessage
	for {
		merged.Set("limit", strconv.Itoa(pageLimit))
		merged.Set("offset", strconv.Itoa(offset))
		data, err := c.do(ctx, http.MethodGet, endpoint, merged, nil, "")
		if err != nil {
			return err
		}
		page, paged, err := unwrapList(data, resource)
		if err != nil {
			return fmt.Errorf("decode %s response: %w", endpoint, err)
		}
		items = append(items, page...)
		if !paged || len(page) < pageLimit {
			break
		}
		offset += len(page)
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(item)
	}
	buf.WriteByte(']')
	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// unwrapList accepts either a bare JSON array or the pagination
// envelope {"offset":..,"limit":..,"size":..,"<resource>":[..]} and
// returns the raw items plus whether the envelope form was seen.
func unwrapList(data []byte, resource string) ([]json.RawMessage, bool, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, false, err
		}
		return items, false, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, false, err
	}
	raw, ok := envelope[resource]
	if !ok {
		return nil, false, fmt.Errorf("response has no %q key", resource)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

// upload posts the file at path as a multipart attachment and returns
// the new attachment id.
func (c *Client) upload(ctx context.Context, endpoint, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("attachment", filepath.Base(path))
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return 0, fmt.Errorf("read attachment: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, err
	}

	data, err := c.do(ctx, http.MethodPost, endpoint, nil, &buf, w.FormDataContentType())
	if err != nil {
		return 0, err
	}
	var out struct {
		AttachmentID int `json:"attachment_id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return out.AttachmentID, nil
}

// Call sends an arbitrary API request and returns the raw response
// bytes. This backs the raw command for endpoints without a typed
// wrapper.
func (c *Client) Call(ctx context.Context, method, endpoint string, params url.Values, body []byte) ([]byte, error) {
	var r io.Reader
	contentType := ""
	if len(body) > 0 {
		r = bytes.NewReader(body)
		contentType = "application/json"
	}
	return c.do(ctx, strings.ToUpper(method), endpoint, params, r, contentType)
}

// APIError is a non-2xx response from the service, carrying the remote
// error message when the body had one.
type APIError struct {
	StatusCode int
	Endpoint   string
	RequestID  string
	Message    string
}

func newAPIError(status int, endpoint, requestID string, body []byte) *APIError {
	e := &APIError{StatusCode: status, Endpoint: endpoint, RequestID: requestID}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		e.Message = payload.Error
	} else if msg := strings.TrimSpace(string(body)); msg != "" {
		if len(msg) > 200 {
			msg = msg[:200] + "..."
		}
		e.Message = msg
	}
	return e
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.StatusCode)
}
