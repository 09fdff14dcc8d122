package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/todo-summary-api/internal/api/shared"
	"github.com/phrazzld/todo-summary-api/internal/platform/logger"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthHandler returns a handler that reports liveness and database reachability.
// Model and webhook credentials are not checked; their absence only affects summaries.
func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.FromContext(r.Context()).Warn("health check failed", slog.String("error", err.Error()))
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "unreachable"})
			return
		}

		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
	}
}
