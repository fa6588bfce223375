// Package openlibrary provides a client for the Open Library REST API.
package openlibrary

import (
	"net/http"
	"strings"
	"time"

	"github.com/lepinkainen/bookfinder/internal/ratelimit"
)

const (
	// DefaultBaseURL is the public Open Library API root.
	DefaultBaseURL = "https://openlibrary.org"
	// DefaultCoversURL is the Open Library covers service root.
	DefaultCoversURL = "https://covers.openlibrary.org"
	// DefaultUserAgent identifies the client to Open Library.
	DefaultUserAgent = "bookfinder/1.0 (+https://github.com/lepinkainen/bookfinder)"

	defaultTimeout       = 10 * time.Second
	defaultRatePerSecond = 5
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is an Open Library API client. It issues exactly one request per call:
// no retries and no caching.
type Client struct {
	baseURL     string
	coversURL   string
	userAgent   string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
}

// NewClient creates a new Open Library API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:     DefaultBaseURL,
		coversURL:   DefaultCoversURL,
		userAgent:   DefaultUserAgent,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: ratelimit.New("OpenLibrary", defaultRatePerSecond),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom base URL for the Open Library API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithCoversURL sets a custom base URL for cover images.
func WithCoversURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.coversURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(client *Client) {
		if ua != "" {
			client.userAgent = ua
		}
	}
}

// WithRateLimiter sets the limiter used to pace requests. Passing nil disables pacing.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		client.rateLimiter = limiter
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}
