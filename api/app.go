package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"

	"statwizard/internal"
	"statwizard/internal/ingest"
	"statwizard/internal/privacy"
	"statwizard/internal/profile"
)

// App is the HTTP surface of the upload wizard backend
type App struct {
	router     *chi.Mux
	pipeline   *ingest.Pipeline
	validator  *ingest.Validator
	checker    *privacy.Checker
	classifier *profile.Classifier
	parseSlots *semaphore.Weighted
	logger     *internal.Logger
}

// Config holds HTTP application configuration
type Config struct {
	// MaxConcurrentParses bounds how many workbook parses run at once.
	// Requests beyond the bound queue rather than being rejected.
	MaxConcurrentParses int64
}

// NewApp wires the ingestion components behind a chi router
func NewApp(config Config, pipeline *ingest.Pipeline, validator *ingest.Validator, checker *privacy.Checker, classifier *profile.Classifier) *App {
	if config.MaxConcurrentParses <= 0 {
		config.MaxConcurrentParses = 4
	}

	app := &App{
		router:     chi.NewRouter(),
		pipeline:   pipeline,
		validator:  validator,
		checker:    checker,
		classifier: classifier,
		parseSlots: semaphore.NewWeighted(config.MaxConcurrentParses),
		logger:     internal.DefaultLogger,
	}

	app.setupMiddleware()
	app.setupRoutes()
	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Post("/api/files/validate", a.handleValidate)
	a.router.Post("/api/files/process", a.handleProcess)
	a.router.Post("/api/files/privacy-check", a.handlePrivacyCheck)
}

// Router exposes the configured router for mounting or serving
func (a *App) Router() http.Handler {
	return a.router
}

// Serve starts the HTTP server on the given port
func (a *App) Serve(port string) error {
	a.logger.Info("[App] listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}
