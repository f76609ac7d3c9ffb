package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/quivotequoi/internal/database"
)

const (
	// DefaultUserAgent identifies the extractor to the publishing site.
	DefaultUserAgent = "quivotequoi (+https://github.com/nao1215/quivotequoi)"

	// DefaultMaxBodySize bounds a single response. Tabled-amendment pages of
	// long reports are the largest documents fetched.
	DefaultMaxBodySize int64 = 32 * 1024 * 1024

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 60 * time.Second
)

// Cache stores fetched responses. database.CacheDB implements it.
type Cache interface {
	Get(ctx context.Context, url string) (*database.Response, error)
	Put(ctx context.Context, resp *database.Response) error
	IsFresh(ctx context.Context, url string, ttl time.Duration) (bool, error)
}

// Client fetches documents over HTTP.
//
// Only 2xx responses are cached. A document that is missing today may be
// published later, so 404 responses are always fetched again.
type Client struct {
	http        *http.Client
	userAgent   string
	cookies     []*http.Cookie
	maxBodySize int64
	timeout     time.Duration
	proxyAddr   string
	cache       Cache
	ttl         time.Duration
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithCookie adds a cookie sent with every request.
func WithCookie(name, value string) Option {
	return func(c *Client) {
		c.cookies = append(c.cookies, &http.Cookie{Name: name, Value: value})
	}
}

// WithMaxBodySize sets the maximum response body size. Values <= 0 keep
// the default.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithProxy routes requests through a SOCKS5 proxy at "host:port".
func WithProxy(addr string) Option {
	return func(c *Client) {
		c.proxyAddr = addr
	}
}

// WithCache enables the read-through cache. Cached responses older than
// ttl are fetched again; a zero ttl keeps them forever.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.ttl = ttl
	}
}

// WithHTTPClient replaces the underlying HTTP client. The proxy and timeout
// options are ignored when it is set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client. It fails only when the proxy address is invalid.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
		timeout:     DefaultTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
		if c.proxyAddr != "" {
			if !isValidProxyAddress(c.proxyAddr) {
				return nil, ErrInvalidProxyAddress
			}
			dialer, err := proxy.SOCKS5("tcp", c.proxyAddr, nil, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
			}
			transport.Proxy = nil
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(proxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			}
		}
		c.http = &http.Client{
			Transport: transport,
			Timeout:   c.timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}
	return c, nil
}

// isValidProxyAddress checks for a non-empty host and a port in 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// Get returns the body of url.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if body, ok := c.cached(ctx, url); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	// Read one byte past the limit to tell a full body from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, url, c.maxBodySize)
	}

	c.logger.Debug("fetched document", "url", url, "status", resp.StatusCode, "bytes", len(body))

	if c.cache != nil {
		err := c.cache.Put(ctx, &database.Response{
			URL:         url,
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        body,
		})
		if err != nil {
			c.logger.Warn("failed to cache response", "url", url, "error", err)
		}
	}
	return body, nil
}

// cached returns a fresh cached body. Cache failures fall back to the network.
func (c *Client) cached(ctx context.Context, url string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	fresh, err := c.cache.IsFresh(ctx, url, c.ttl)
	if err != nil {
		c.logger.Warn("failed to check cache", "url", url, "error", err)
		return nil, false
	}
	if !fresh {
		return nil, false
	}
	resp, err := c.cache.Get(ctx, url)
	if err != nil || resp == nil {
		return nil, false
	}
	c.logger.Debug("cache hit", "url", url)
	return resp.Body, true
}
