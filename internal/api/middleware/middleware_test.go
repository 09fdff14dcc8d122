package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/todo-summary-api/internal/api/shared"
	"github.com/phrazzld/todo-summary-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestTraceMiddleware(t *testing.T) {
	var seen string
	var hasLogger bool
	h := TraceMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
		hasLogger = logger.FromContext(r.Context()) != nil
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("generates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Len(t, seen, 32)
		assert.Equal(t, seen, rec.Header().Get(shared.TraceIDHeader))
		assert.True(t, hasLogger)
	})

	t.Run("propagates inbound", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(shared.TraceIDHeader, "upstream-42")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "upstream-42", seen)
		assert.Equal(t, "upstream-42", rec.Header().Get(shared.TraceIDHeader))
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		h := RateLimit(0)(http.HandlerFunc(okHandler))
		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/todos/summarize", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("second immediate request is throttled", func(t *testing.T) {
		h := RateLimit(6)(http.HandlerFunc(okHandler))

		first := httptest.NewRecorder()
		h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/todos/summarize", nil))
		require.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		h.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/todos/summarize", nil))
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, "10", second.Header().Get("Retry-After"))
		assert.Contains(t, second.Body.String(), "Too many summary requests")
	})
}
