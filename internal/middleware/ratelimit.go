package middleware

import (
	"net/http"
	"time"

	"github.com/Demilade/Kudi/internal/redis"
)

type RateLimiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(redisClient *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  limit,
		window: window,
	}
}

// Limit throttles by authenticated user when known, remote address otherwise.
// Redis being down fails open: payment routes stay available.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ip:" + r.RemoteAddr
		if userID := GetUserID(r.Context()); userID != "" {
			key = "user:" + userID
		}

		result, err := rl.redis.CheckRateLimit(r.Context(), key, rl.limit, rl.window)
		if err != nil {
			logger := GetLogger(r.Context())
			logger.Warn().Err(err).Msg("Rate limit check failed, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		if !result.Allowed {
			w.Header().Set("Retry-After", result.ResetAt.UTC().Format(http.TimeFormat))
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
