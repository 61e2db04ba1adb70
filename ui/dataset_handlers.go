package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crankview/domain/core"
	apperrors "crankview/internal/errors"
)

func (a *App) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"datasets": a.projects.ListDatasets(),
	})
}

// handleLoadDatasets ingests dataset JSON from the request body. The optional
// "name" query parameter names single-dataset shapes.
func (a *App) handleLoadDatasets(w http.ResponseWriter, r *http.Request) {
	names, err := a.projects.LoadJSON(r.Body, r.URL.Query().Get("name"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"loaded": names})
}

func (a *App) handleRemoveDataset(w http.ResponseWriter, r *http.Request) {
	id := core.SourceID(chi.URLParam(r, "id"))
	a.projects.Remove(id)
	a.writeJSON(w, http.StatusOK, map[string]string{"removed": id.String()})
}

func (a *App) handleRenameDataset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, apperrors.InvalidInput("invalid JSON body"))
		return
	}
	assigned, err := a.projects.Rename(core.SourceID(chi.URLParam(r, "id")), req.Name)
	if err != nil {
		a.writeError(w, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"display_name": assigned})
}

func (a *App) handleSetVisible(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Visible bool `json:"visible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, apperrors.InvalidInput("invalid JSON body"))
		return
	}
	if err := a.projects.SetVisible(core.SourceID(chi.URLParam(r, "id")), req.Visible); err != nil {
		a.writeError(w, apperrors.WithCode(apperrors.CodeNotFound, err))
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]bool{"visible": req.Visible})
}

func (a *App) handleMoveDataset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Offset int `json:"offset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, apperrors.InvalidInput("invalid JSON body"))
		return
	}
	a.projects.Move(core.SourceID(chi.URLParam(r, "id")), req.Offset)
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"datasets": a.projects.ListDatasets()})
}

func (a *App) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Order []core.SourceID `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, apperrors.InvalidInput("invalid JSON body"))
		return
	}
	if err := a.projects.Reorder(req.Order); err != nil {
		a.writeError(w, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"datasets": a.projects.ListDatasets()})
}

func (a *App) handleSetAllVisible(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Visible bool `json:"visible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, apperrors.InvalidInput("invalid JSON body"))
		return
	}
	a.projects.SetAllVisible(req.Visible)
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"datasets": a.projects.ListDatasets()})
}

func (a *App) handleClear(w http.ResponseWriter, r *http.Request) {
	a.projects.Clear()
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (a *App) handleMetricChoices(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"metrics": a.projects.MetricChoices(),
	})
}

func (a *App) handleSaveProject(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="crankview_project.json"`)
	if err := a.projects.SaveProjectFile(w); err != nil {
		a.logger.Error("project save failed: %v", err)
	}
}

func (a *App) handleLoadProject(w http.ResponseWriter, r *http.Request) {
	if err := a.projects.LoadProjectFile(r.Body); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"datasets": a.projects.ListDatasets()})
}
