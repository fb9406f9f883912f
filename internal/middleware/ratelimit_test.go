// Tiendat | 2026
// ratelimit_test.go

package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiendat2703/bleen-private/internal/config"
	"github.com/Tiendat2703/bleen-private/internal/core"
)

// unreachableRedis forces every Allow call onto the local fallback limiter.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() }) //nolint:errcheck // test cleanup

	return client
}

func newTestLimiter(t *testing.T, name string) *RateLimiter {
	t.Helper()

	return NewRateLimiter(
		unreachableRedis(t),
		config.RateLimitClass{Requests: 1, Window: time.Minute, Burst: 1},
		name,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func limitedRequest(t *testing.T, rl *RateLimiter, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr

	rec := httptest.NewRecorder()
	rl.Handler(okHandler()).ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterFallsBackAndLimitsByIP(t *testing.T) {
	rl := newTestLimiter(t, "general")

	first := limitedRequest(t, rl, "198.51.100.7:4444")
	assert.Equal(t, http.StatusOK, first.Code)

	second := limitedRequest(t, rl, "198.51.100.7:5555")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// A different client address has its own budget.
	other := limitedRequest(t, rl, "203.0.113.8:4444")
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRateLimiterMessagesPerClass(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "auth", want: "too many authentication attempts, please try again later"},
		{name: "upload", want: "too many uploads, please slow down"},
		{name: "general", want: "too many requests, please try again later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := newTestLimiter(t, tt.name)

			limitedRequest(t, rl, "198.51.100.9:1000")
			rec := limitedRequest(t, rl, "198.51.100.9:1000")
			require.Equal(t, http.StatusTooManyRequests, rec.Code)

			var resp core.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Message)
		})
	}
}
