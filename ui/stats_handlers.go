package ui

import (
	"encoding/json"
	"net/http"

	apperrors "crankview/internal/errors"
)

func (a *App) handleGlobalStats(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.stats.GlobalReport(r.Context()))
}

func (a *App) handleRangeStats(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.stats.RangeReport(r.Context()))
}

func (a *App) handleBarStats(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.stats.BarReport(r.Context()))
}

func (a *App) handleExportStats(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.writeError(w, apperrors.InvalidInput("invalid JSON body"))
			return
		}
	}
	if req.Path == "" {
		a.writeError(w, apperrors.InvalidInput("export path is required"))
		return
	}
	if err := a.stats.ExportReport(r.Context(), req.Path); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"exported": req.Path})
}
