package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/todo-summary-api/internal/api"
	apiMiddleware "github.com/phrazzld/todo-summary-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)

	todoHandler := api.NewTodoHandler(
		app.todoService,
		app.summaryService,
		time.Duration(app.config.Server.SummarizeTimeoutSeconds)*time.Second,
		app.logger,
	)

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", todoHandler.ListTodos)
		r.Post("/", todoHandler.CreateTodo)
		r.With(apiMiddleware.RateLimit(app.config.Server.SummarizeRatePerMinute)).
			Post("/summarize", todoHandler.Summarize)
		r.Patch("/{id}", todoHandler.UpdateTodo)
		r.Delete("/{id}", todoHandler.DeleteTodo)
	})

	r.Get("/health", api.HealthHandler(app.db))
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
