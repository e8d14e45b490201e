package http_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/helpdoc"
	helpdochttp "github.com/fwojciec/helpdoc/http"
	"github.com/fwojciec/helpdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ helpdoc.Fetcher = (*helpdochttp.RateLimitedFetcher)(nil)

func TestHostLimiter(t *testing.T) {
	t.Parallel()

	t.Run("allows immediate request when under limit", func(t *testing.T) {
		t.Parallel()

		limiter := helpdochttp.NewHostLimiter(10)

		start := time.Now()
		err := limiter.Wait(context.Background(), "helpx.adobe.com")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond, "first request should be immediate")
	})

	t.Run("rate limits requests to same host", func(t *testing.T) {
		t.Parallel()

		limiter := helpdochttp.NewHostLimiter(10) // 100ms between requests

		require.NoError(t, limiter.Wait(context.Background(), "helpx.adobe.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "helpx.adobe.com")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond, "should wait for rate limit")
	})

	t.Run("different hosts have independent limits", func(t *testing.T) {
		t.Parallel()

		limiter := helpdochttp.NewHostLimiter(10)

		require.NoError(t, limiter.Wait(context.Background(), "a.example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "b.example.com")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond)
	})

	t.Run("returns error when context is canceled", func(t *testing.T) {
		t.Parallel()

		limiter := helpdochttp.NewHostLimiter(0.1) // 10s between requests
		require.NoError(t, limiter.Wait(context.Background(), "helpx.adobe.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := limiter.Wait(ctx, "helpx.adobe.com")
		require.Error(t, err)
	})
}

func TestHostLimiter_MaxHosts(t *testing.T) {
	t.Parallel()

	t.Run("forgets idle hosts when full", func(t *testing.T) {
		t.Parallel()

		limiter := helpdochttp.NewHostLimiter(1000)
		limiter.MaxHosts = 2

		require.NoError(t, limiter.Wait(context.Background(), "a.example.com"))
		require.NoError(t, limiter.Wait(context.Background(), "b.example.com"))
		time.Sleep(20 * time.Millisecond)
		require.NoError(t, limiter.Wait(context.Background(), "c.example.com"))

		assert.LessOrEqual(t, limiter.Len(), 2)
	})

	t.Run("shares one limiter between hosts beyond the bound", func(t *testing.T) {
		t.Parallel()

		limiter := helpdochttp.NewHostLimiter(0.1)
		limiter.MaxHosts = 2

		for _, host := range []string{"a.example.com", "b.example.com", "c.example.com"} {
			require.NoError(t, limiter.Wait(context.Background(), host))
		}
		assert.Equal(t, 2, limiter.Len())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := limiter.Wait(ctx, "d.example.com")
		require.Error(t, err, "d shares the bucket c already drained")
		assert.Equal(t, 2, limiter.Len())
	})
}

func TestRateLimitedFetcher(t *testing.T) {
	t.Parallel()

	t.Run("delegates to wrapped fetcher", func(t *testing.T) {
		t.Parallel()

		var got string
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				got = url
				return "<html></html>", nil
			},
		}

		f := helpdochttp.NewRateLimitedFetcher(inner, 10)
		html, err := f.Fetch(context.Background(), "https://helpx.adobe.com/a.html")

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, "https://helpx.adobe.com/a.html", got)
	})

	t.Run("spaces requests to the same host", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "ok", nil
			},
		}

		f := helpdochttp.NewRateLimitedFetcher(inner, 10)
		_, err := f.Fetch(context.Background(), "https://helpx.adobe.com/a.html")
		require.NoError(t, err)

		start := time.Now()
		_, err = f.Fetch(context.Background(), "https://helpx.adobe.com/b.html")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("closes wrapped fetcher", func(t *testing.T) {
		t.Parallel()

		closed := false
		inner := &mock.Fetcher{
			CloseFn: func() error {
				closed = true
				return nil
			},
		}

		f := helpdochttp.NewRateLimitedFetcher(inner, 10)

		require.NoError(t, f.Close())
		assert.True(t, closed)
	})
}
