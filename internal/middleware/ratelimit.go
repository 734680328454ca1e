package middleware

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mockexam/booking-backend/internal/apperror"
	"github.com/mockexam/booking-backend/internal/services"
)

// RateLimiter counts requests per client and route in fixed Redis windows.
// Without Redis every request is allowed.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{redis: rdb, limit: limit, window: window}
}

func (rl *RateLimiter) Limit(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.redis == nil || rl.limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := fmt.Sprintf("ratelimit:%s:%s", scope, clientIP(r))
			count, err := rl.redis.Get(r.Context(), key).Int()
			if err != nil && err != redis.Nil {
				log.Printf("[RATELIMIT] Redis unavailable, allowing request: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			if count >= rl.limit {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rl.window.Seconds())))
				services.SendErrorResponse(w, "Too many requests, please retry shortly", apperror.CodeRateLimited, http.StatusTooManyRequests, nil)
				return
			}

			pipe := rl.redis.Pipeline()
			pipe.Incr(r.Context(), key)
			pipe.Expire(r.Context(), key, rl.window)
			if _, err := pipe.Exec(r.Context()); err != nil {
				log.Printf("[RATELIMIT] Failed to count request for %s: %v", key, err)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
