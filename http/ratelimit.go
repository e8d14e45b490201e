package http

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/helpdoc"
	"golang.org/x/time/rate"
)

// Ensure RateLimitedFetcher implements helpdoc.Fetcher at compile time.
var _ helpdoc.Fetcher = (*RateLimitedFetcher)(nil)

// DefaultMaxHosts bounds the number of per-host limiters a HostLimiter keeps.
const DefaultMaxHosts = 1024

// HostLimiter provides per-host rate limiting using token buckets.
// Each host gets its own limiter, so requests to different hosts do not
// wait on each other. At most MaxHosts limiters are kept: idle ones are
// forgotten first, and hosts beyond that share a single overflow limiter.
type HostLimiter struct {
	// MaxHosts bounds the number of tracked hosts. Defaults to DefaultMaxHosts.
	MaxHosts int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	overflow *rate.Limiter
	rps      float64
}

// NewHostLimiter creates a HostLimiter allowing rps requests per second per
// host with a burst of 1.
func NewHostLimiter(rps float64) *HostLimiter {
	return &HostLimiter{
		MaxHosts: DefaultMaxHosts,
		limiters: make(map[string]*rate.Limiter),
		overflow: rate.NewLimiter(rate.Limit(rps), 1),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to host.
// Returns an error if the context is canceled before the wait completes.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.limiter(host).Wait(ctx)
}

// Len returns the number of hosts with their own limiter.
func (l *HostLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *HostLimiter) limiter(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.limiters[host]; ok {
		return limiter
	}
	if len(l.limiters) >= l.MaxHosts {
		l.pruneIdle()
	}
	if len(l.limiters) >= l.MaxHosts {
		return l.overflow
	}

	limiter := rate.NewLimiter(rate.Limit(l.rps), 1)
	l.limiters[host] = limiter
	return limiter
}

// pruneIdle forgets limiters whose bucket is full again. A new limiter for
// the same host starts full, so forgetting them does not loosen the limit.
func (l *HostLimiter) pruneIdle() {
	now := time.Now()
	for host, limiter := range l.limiters {
		if limiter.TokensAt(now) >= 1 {
			delete(l.limiters, host)
		}
	}
}

// RateLimitedFetcher wraps a Fetcher and waits for the target host's
// limiter before each fetch.
type RateLimitedFetcher struct {
	fetcher helpdoc.Fetcher
	limiter *HostLimiter
}

// NewRateLimitedFetcher wraps fetcher with a per-host limit of rps requests
// per second.
func NewRateLimitedFetcher(fetcher helpdoc.Fetcher, rps float64) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		fetcher: fetcher,
		limiter: NewHostLimiter(rps),
	}
}

// Fetch waits for the host's turn, then delegates.
func (f *RateLimitedFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	if err := f.limiter.Wait(ctx, host); err != nil {
		return "", err
	}
	return f.fetcher.Fetch(ctx, rawURL)
}

// Close closes the wrapped fetcher.
func (f *RateLimitedFetcher) Close() error {
	return f.fetcher.Close()
}
