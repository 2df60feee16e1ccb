package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

// SessionCookie is the name of the cookie the backend authenticates with.
const SessionCookie = "session"

//go:generate mockgen -source=client.go -destination=doer_mock.go -package=apiclient
type Doer interface {
	// Do sends a JSON request and decodes a 2xx response body into out.
	// Non-2xx responses are returned as *StatusError.
	Do(ctx context.Context, method, path string, query url.Values, body, out any) error
}

// Client issues requests against one backend origin. Every request carries
// the session cookie held in its jar and declares a JSON body.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport client. Its Jar is kept
// if set, otherwise the default session jar is installed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		jar := c.http.Jar
		c.http = hc

		if c.http.Jar == nil {
			c.http.Jar = jar
		}
	}
}

// WithTimeout sets an overall request timeout. Zero leaves the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base url is required")
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Jar: jar},
		log:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SetSessionToken installs a session cookie for the backend origin, as the
// browser would after the OAuth callback.
func (c *Client) SetSessionToken(token string) {
	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  SessionCookie,
		Value: token,
		Path:  "/",
	}})
}

// ClearSession expires the session cookie held in the jar.
func (c *Client) ClearSession() {
	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:   SessionCookie,
		Path:   "/",
		MaxAge: -1,
	}})
}

// HasSession reports whether the jar holds a session cookie for the origin.
func (c *Client) HasSession() bool {
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == SessionCookie && ck.Value != "" {
			return true
		}
	}

	return false
}

func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}

		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)

		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(method, path, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}

		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}

	return nil
}

// Call issues a request through d and unwraps the response envelope. A nil
// payload means the envelope carried no data; callers pick the fallback.
func Call[T any](ctx context.Context, d Doer, method, path string, query url.Values, body any) (*T, error) {
	var env Envelope[T]
	if err := d.Do(ctx, method, path, query, body, &env); err != nil {
		return nil, err
	}

	return env.Data, nil
}
