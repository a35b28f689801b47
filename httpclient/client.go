package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kbukum/legalassist/version"
)

const defaultTimeout = 30 * time.Second

// Config points a Client at one sidecar or API.
type Config struct {
	BaseURL string            `yaml:"base_url" mapstructure:"base_url"` // absolute http(s) URL
	Timeout time.Duration     `yaml:"timeout" mapstructure:"timeout"`   // whole request including the body; 30s when zero
	Token   string            `yaml:"-" mapstructure:"-"`               // bearer token
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
}

// Client sends requests to one base URL. It never retries.
type Client struct {
	http *http.Client
	cfg  Config
}

// New checks that BaseURL is an absolute http(s) URL and builds a Client.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("httpclient: base_url %q is not an absolute http(s) URL", cfg.BaseURL)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("httpclient: negative timeout %s", cfg.Timeout)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{http: &http.Client{Timeout: cfg.Timeout}, cfg: cfg}, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// PostJSON sends in as a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return &Error{Kind: KindDecode, Method: http.MethodPost, Path: path, Err: fmt.Errorf("encode body: %w", err)}
	}
	return c.send(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", out)
}

// PostForm streams form as multipart/form-data and decodes the response
// into out.
func (c *Client) PostForm(ctx context.Context, path string, form *Form, out any) error {
	body, contentType, err := form.open()
	if err != nil {
		return err
	}
	defer body.Close()
	return c.send(ctx, http.MethodPost, path, body, contentType, out)
}

// GetJSON decodes the response of GET path into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, "", out)
}

// Healthy reports whether GET path answers 2xx.
func (c *Client) Healthy(ctx context.Context, path string) bool {
	return c.send(ctx, http.MethodGet, path, nil, "", nil) == nil
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return &Error{Kind: KindConnection, Method: method, Path: path, Err: err}
	}
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		kind := KindConnection
		var te interface{ Timeout() bool }
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &te) && te.Timeout()) {
			kind = KindTimeout
		}
		return &Error{Kind: kind, Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindConnection, Method: method, Path: path, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(method, path, resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindDecode, Method: method, Path: path, Err: err}
	}
	return nil
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
