package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/hrygo/schedtext/internal/cache"
	apperrors "github.com/hrygo/schedtext/internal/errors"
)

const (
	// maxRateClients bounds how many per-client limiters are held at once.
	maxRateClients = 10000
	// rateClientIdleTTL drops a client's limiter after this long without requests.
	rateClientIdleTTL = 10 * time.Minute
)

// RateLimiter provides per-key rate limiting. Limiters live in a bounded
// LRU so idle or spoofed keys cannot grow memory without limit.
type RateLimiter struct {
	mu      sync.Mutex
	clients *cache.LRU[*rate.Limiter]
	rate    rate.Limit
	burst   int
}

// NewRateLimiter creates a limiter allowing perSecond sustained requests
// with the given burst for each key.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if perSecond <= 0 {
		perSecond = 10
	}
	if burst <= 0 {
		burst = 20
	}
	return &RateLimiter{
		clients: cache.New[*rate.Limiter](maxRateClients, rateClientIdleTTL),
		rate:    rate.Limit(perSecond),
		burst:   burst,
	}
}

// getLimiter gets or creates a limiter for the given key and pushes back
// its idle expiry.
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.clients.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
	}
	rl.clients.Set(key, limiter, 0)
	return limiter
}

// Allow checks if a request is allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Cleanup drops limiters of idle clients and returns how many it dropped.
func (rl *RateLimiter) Cleanup() int {
	return rl.clients.CleanupExpired()
}

// StartJanitor runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartJanitor(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := rl.Cleanup(); n > 0 {
					logger.Debug("rate limiter clients expired", slog.Int("count", n))
				}
			}
		}
	}()
}

// Middleware rejects requests over the client's budget with 429.
// Clients are keyed by echo's RealIP, so the server must configure an
// IPExtractor that does not trust client-supplied headers.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				err := apperrors.RateLimitExceeded("too many requests")
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"code":    string(err.Code),
					"message": err.Message,
				})
			}
			return next(c)
		}
	}
}
