// Package fetch is the shared outbound JSON client for pillar data
// sources: per-host rate limiting, per-host circuit breaking, and an
// optional Redis TTL cache in front of the wire.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// Options configures a Client. Zero values get sensible defaults.
type Options struct {
	Timeout time.Duration
	RPS     float64
	Burst   int
	Cache   *Cache
	Stats   CacheStats
}

// Client fetches JSON documents from upstream data sources.
type Client struct {
	http     *http.Client
	limiter  *hostLimiter
	breakers *breakerSet
	cache    *Cache
	stats    CacheStats
}

// NewClient builds a fetch client.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RPS <= 0 {
		opts.RPS = 4
	}
	if opts.Burst <= 0 {
		opts.Burst = 4
	}
	return &Client{
		http:     &http.Client{Timeout: opts.Timeout},
		limiter:  newHostLimiter(opts.RPS, opts.Burst),
		breakers: newBreakerSet(),
		cache:    opts.Cache,
		stats:    opts.Stats,
	}
}

// GetJSON fetches rawURL with params and decodes the response into out.
// Cached payloads bypass the limiter and breaker entirely.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("fetch: parse url %s: %w", rawURL, err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}
	full := u.String()

	if payload, ok := c.cache.Get(ctx, full); ok {
		if c.stats != nil {
			c.stats.CacheHit(u.Host)
		}
		return json.Unmarshal(payload, out)
	}
	if c.cache != nil && c.stats != nil {
		c.stats.CacheMiss(u.Host)
	}

	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return fmt.Errorf("fetch: rate limit wait for %s: %w", u.Host, err)
	}

	body, err := c.breakers.get(u.Host).Execute(func() (any, error) {
		return c.do(ctx, full)
	})
	if err != nil {
		return fmt.Errorf("fetch: %s: %w", u.Host, err)
	}

	payload := body.([]byte)
	c.cache.Set(ctx, full, payload)
	return json.Unmarshal(payload, out)
}

func (c *Client) do(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debug().Str("url", fullURL).Int("status", resp.StatusCode).Msg("upstream returned non-2xx")
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
