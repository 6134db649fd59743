package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 20 * time.Second

// CookieStore persists the session cookies between runs.
type CookieStore interface {
	LoadCookies(ctx context.Context) ([]*http.Cookie, error)
	SaveCookies(ctx context.Context, cookies []*http.Cookie) error
}

// Client talks to the chat server.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        http.CookieJar
	cookies    CookieStore
	language   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its jar is replaced too.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithCookieStore restores and persists session cookies through store.
func WithCookieStore(store CookieStore) Option {
	return func(c *Client) {
		c.cookies = store
	}
}

// WithLanguage sets the Accept-Language header.
func WithLanguage(code string) Option {
	return func(c *Client) {
		c.language = strings.TrimSpace(code)
	}
}

// NewClient constructs a client for baseURL.
func NewClient(ctx context.Context, baseURL string, opts ...Option) (*Client, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: defaultTimeout},
		jar:        jar,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.Jar = jar

	if c.cookies != nil {
		saved, err := c.cookies.LoadCookies(ctx)
		if err != nil {
			return nil, fmt.Errorf("load cookies: %w", err)
		}
		if len(saved) > 0 {
			jar.SetCookies(c.baseURL, saved)
		}
	}
	return c, nil
}

// NormalizeBaseURL trims the URL and ensures it has a scheme.
func NormalizeBaseURL(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("server url cannot be empty")
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("server url must include scheme and host (https://host)")
	}
	return strings.TrimRight(value, "/"), nil
}

// BaseURL returns the normalized server URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Authenticated reports whether a session cookie is present.
func (c *Client) Authenticated() bool {
	return len(c.jar.Cookies(c.baseURL)) > 0
}

func (c *Client) persistCookies(ctx context.Context) error {
	if c.cookies == nil {
		return nil
	}
	return c.cookies.SaveCookies(ctx, c.jar.Cookies(c.baseURL))
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, reqBody any, respBody any) error {
	var body io.Reader
	contentType := ""
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, body, contentType, respBody)
}

func (c *Client) doForm(ctx context.Context, path string, form url.Values, respBody any) error {
	return c.do(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", respBody)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, respBody any) error {
	endpoint, err := c.buildURL(path, query)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, respData)
	}

	if respBody == nil || len(bytes.TrimSpace(respData)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respData, respBody); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func parseAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status}
	var payload problemPayload
	if err := json.Unmarshal(data, &payload); err == nil && !payload.empty() {
		apiErr.Title = payload.Title
		apiErr.Detail = payload.Detail
		apiErr.Code = payload.Error
		apiErr.Message = payload.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(data))
	return apiErr
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	endpoint := c.baseURL.ResolveReference(ref)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	return endpoint.String(), nil
}
