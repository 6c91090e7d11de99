package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bersn-calc/internal/bersn"
	"bersn-calc/internal/config"
	"bersn-calc/internal/handlers"
	"bersn-calc/internal/observability"
)

type Options struct {
	// Engine runs calculations. Defaults to a MockEngine reporting
	// config.DefaultEngineVersion.
	Engine bersn.Engine

	// MaxBodyBytes caps calculation request bodies; <= 0 means unbounded.
	MaxBodyBytes int64
}

func NewRouter(opts Options) http.Handler {

	if opts.Engine == nil {
		opts.Engine = bersn.NewMockEngine(config.DefaultEngineVersion)
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	bersn.RegisterRoutes(r, bersn.NewHandler(opts.Engine, opts.MaxBodyBytes))

	return r
}
