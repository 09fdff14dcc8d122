package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/todo-summary-api/internal/events"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_HandleEvent(t *testing.T) {
	e := NewExporter()
	ctx := context.Background()

	require.NoError(t, e.HandleEvent(ctx, events.NewSummaryEvent(events.OutcomeDelivered, events.TriggerHTTP, 3, time.Second, nil)))
	require.NoError(t, e.HandleEvent(ctx, events.NewSummaryEvent(events.OutcomeDelivered, events.TriggerHTTP, 5, time.Second, nil)))
	require.NoError(t, e.HandleEvent(ctx, events.NewSummaryEvent(events.OutcomeStoreReadFailed, events.TriggerSchedule, 0, time.Millisecond, nil)))

	assert.Equal(t, 2.0, testutil.ToFloat64(e.summaryRuns.WithLabelValues("delivered", "http")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.summaryRuns.WithLabelValues("store_read_failed", "schedule")))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.summaryRuns.WithLabelValues("skipped", "http")))
	assert.Equal(t, 5.0, testutil.ToFloat64(e.pendingItems), "a failed read must not reset the gauge")
}

func TestExporter_MiddlewareAndHandler(t *testing.T) {
	e := NewExporter()

	r := chi.NewRouter()
	r.Use(e.Middleware)
	r.Get("/todos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", e.Handler())

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/todos/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(e.httpRequests.WithLabelValues("GET", "/todos/{id}", "404")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "todo_summary_summary_runs_total"))
	assert.True(t, strings.Contains(body, `todo_summary_http_requests_total{method="GET",route="/todos/{id}",status="404"} 2`))
}
