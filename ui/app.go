// Package ui exposes the core over an HTTP JSON API. Front-ends (desktop
// shells, dashboards, notebooks) render the prepared trace arrays; nothing
// here influences numeric results.
package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"crankview/app"
	"crankview/internal"
	apperrors "crankview/internal/errors"
)

// App represents the HTTP application
type App struct {
	router   *chi.Mux
	projects *app.ProjectService
	plots    *app.PlotService
	stats    *app.StatsService
	logger   *internal.Logger
	port     string
}

// Config holds HTTP application configuration
type Config struct {
	Port string
}

// NewApp creates a new HTTP application
func NewApp(config Config, projects *app.ProjectService, plots *app.PlotService, stats *app.StatsService, logger *internal.Logger) *App {
	a := &App{
		router:   chi.NewRouter(),
		projects: projects,
		plots:    plots,
		stats:    stats,
		logger:   logger,
		port:     config.Port,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	// Dataset lifecycle
	a.router.Get("/api/datasets", a.handleListDatasets)
	a.router.Post("/api/datasets/load", a.handleLoadDatasets)
	a.router.Delete("/api/datasets/{id}", a.handleRemoveDataset)
	a.router.Post("/api/datasets/{id}/rename", a.handleRenameDataset)
	a.router.Post("/api/datasets/{id}/visible", a.handleSetVisible)
	a.router.Post("/api/datasets/{id}/move", a.handleMoveDataset)
	a.router.Post("/api/datasets/reorder", a.handleReorder)
	a.router.Post("/api/datasets/visible_all", a.handleSetAllVisible)
	a.router.Post("/api/datasets/clear", a.handleClear)
	a.router.Get("/api/metrics", a.handleMetricChoices)

	// Settings
	a.router.Post("/api/settings/plot", a.handlePlotSettings)
	a.router.Post("/api/settings/cleaning", a.handleCleaningSettings)
	a.router.Post("/api/settings/analysis", a.handleAnalysisSettings)
	a.router.Post("/api/settings/baseline", a.handleBaseline)

	// Project snapshots
	a.router.Get("/api/project/save", a.handleSaveProject)
	a.router.Post("/api/project/load", a.handleLoadProject)

	// Plot preparation
	a.router.Post("/api/plot/{kind}", a.handlePlot)

	// Statistics report
	a.router.Get("/api/stats/global", a.handleGlobalStats)
	a.router.Get("/api/stats/ranges", a.handleRangeStats)
	a.router.Get("/api/stats/bar", a.handleBarStats)
	a.router.Post("/api/stats/export", a.handleExportStats)
}

// Start starts the HTTP server
func (a *App) Start() error {
	a.logger.Info("starting crankview server on :%s", a.port)
	return http.ListenAndServe(":"+a.port, a.router)
}

// Router exposes the mux for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// JSON helpers

func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("response encoding failed: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.CodeConfigInvalid, apperrors.CodeInvalidInput, apperrors.CodeParseFailed:
		status = http.StatusBadRequest
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	}
	a.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}
