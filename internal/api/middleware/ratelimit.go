package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/todo-summary-api/internal/api/shared"
	"golang.org/x/time/rate"
)

// RateLimit allows at most perMinute requests per minute through to next,
// spaced evenly, across all callers of this process. Excess requests get 429.
// A non-positive perMinute disables the limit.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	interval := time.Minute / time.Duration(perMinute)
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	retryAfter := strconv.Itoa(int(math.Ceil(interval.Seconds())))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", retryAfter)
				shared.RespondWithError(w, r, http.StatusTooManyRequests,
					"Too many summary requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
