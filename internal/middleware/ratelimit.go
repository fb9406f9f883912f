// Tiendat | 2026
// ratelimit.go

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/Tiendat2703/bleen-private/internal/config"
	"github.com/Tiendat2703/bleen-private/internal/core"
)

// RateLimiter enforces one limit class (auth, upload, general) backed by
// redis so the count is shared across instances. When redis is unreachable
// it degrades to a per-process local limiter instead of failing open.
type RateLimiter struct {
	limiter *redis_rate.Limiter
	class   config.RateLimitClass
	name    string
	message string
	logger  *slog.Logger

	mu    sync.Mutex
	local map[string]*rate.Limiter
}

// Each class words its 429 so clients can tell which budget they blew.
var classMessages = map[string]string{
	"auth":    "too many authentication attempts, please try again later",
	"upload":  "too many uploads, please slow down",
	"general": "too many requests, please try again later",
}

func NewRateLimiter(
	client *redis.Client,
	class config.RateLimitClass,
	name string,
	logger *slog.Logger,
) *RateLimiter {
	message, ok := classMessages[name]
	if !ok {
		message = classMessages["general"]
	}

	return &RateLimiter{
		limiter: redis_rate.NewLimiter(client),
		class:   class,
		name:    name,
		message: message,
		logger:  logger,
		local:   make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	limit := redis_rate.Limit{
		Rate:   rl.class.Requests,
		Period: rl.class.Window,
		Burst:  rl.class.Burst,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ratelimit:" + rl.name + ":" + rl.clientKey(r)

		res, err := rl.limiter.Allow(r.Context(), key, limit)
		if err != nil {
			if !rl.allowLocal(rl.clientKey(r)) {
				rl.reject(w, 0)
				return
			}
			rl.logger.Warn("rate limiter falling back to local",
				"class", rl.name, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.class.Requests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if res.Allowed == 0 {
			rl.reject(w, res.RetryAfter)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey is the caller's IP. Limiting runs before authentication, so the
// budget is spent before any token work happens; keying by IP also means an
// attacker cannot dodge the limit by rotating credentials.
func (rl *RateLimiter) clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) allowLocal(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	lim, ok := rl.local[key]
	if !ok {
		perSecond := float64(rl.class.Requests) / rl.class.Window.Seconds()
		lim = rate.NewLimiter(rate.Limit(perSecond), rl.class.Burst)
		rl.local[key] = lim
	}

	return lim.Allow()
}

func (rl *RateLimiter) reject(w http.ResponseWriter, retryAfter time.Duration) {
	if retryAfter > 0 {
		w.Header().Set(
			"Retry-After",
			strconv.Itoa(int(retryAfter.Seconds())+1),
		)
	}

	core.JSONError(w, core.NewAppError(
		nil,
		rl.message,
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	))
}
