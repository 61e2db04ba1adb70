package ui

import (
	"encoding/json"
	"net/http"

	"crankview/adapters/clean"
	"crankview/domain/core"
	"crankview/domain/plot"
	"crankview/domain/project"
	"crankview/domain/stats"
	apperrors "crankview/internal/errors"
)

// plotSettingsRequest mirrors the stored plot settings with string-typed
// modes; parsing happens once here at the boundary.
type plotSettingsRequest struct {
	PlotType          string `json:"plot_type"`
	AngleColumn       string `json:"angle_column"`
	MetricColumn      string `json:"metric_column"`
	AggMode           string `json:"agg_mode"`
	ValueMode         string `json:"value_mode"`
	Compare           bool   `json:"compare"`
	CloseLoop         bool   `json:"close_loop"`
	UseOriginalBinned bool   `json:"use_original_binned"`
	RangeLow          string `json:"range_low"`
	RangeHigh         string `json:"range_high"`
	RangeFixed        bool   `json:"range_fixed"`
}

func (a *App) handlePlotSettings(w http.ResponseWriter, r *http.Request) {
	var req plotSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, apperrors.InvalidInput("invalid JSON body"))
		return
	}
	kind, err := plot.ParseChartKind(req.PlotType)
	if err != nil {
		a.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	aggMode, err := plot.ParseAggMode(req.AggMode)
	if err != nil {
		a.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	valueMode, err := plot.ParseValueMode(req.ValueMode)
	if err != nil {
		a.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	current := a.projects.Snapshot().Plot
	a.projects.UpdatePlotSettings(project.PlotSettings{
		ChartKind:         kind,
		AngleColumn:       req.AngleColumn,
		MetricColumn:      req.MetricColumn,
		AggMode:           aggMode,
		ValueMode:         valueMode,
		Compare:           req.Compare,
		BaselineSourceID:  current.BaselineSourceID,
		BaselineSourceIDs: current.BaselineSourceIDs,
		CloseLoop:         req.CloseLoop,
		UseOriginalBinned: req.UseOriginalBinned,
		RangeLow:          req.RangeLow,
		RangeHigh:         req.RangeHigh,
		RangeFixed:        req.RangeFixed,
	})
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// cleaningSettingsRequest carries the sentinel list as the comma-separated
// string front-ends collect it in.
type cleaningSettingsRequest struct {
	Sentinels        string   `json:"sentinels"`
	RemoveOutliers   bool     `json:"remove_outliers"`
	OutlierThreshold *float64 `json:"outlier_threshold"`
	OutlierMethod    string   `json:"outlier_method"`
}

func (a *App) handleCleaningSettings(w http.ResponseWriter, r *http.Request) {
	var req cleaningSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, apperrors.InvalidInput("invalid JSON body"))
		return
	}
	if req.RemoveOutliers {
		if req.OutlierThreshold == nil || !(*req.OutlierThreshold > 0) {
			a.writeError(w, apperrors.InvalidInput("outlier threshold must be a positive number"))
			return
		}
	}
	a.projects.UpdateCleaningSettings(project.CleaningSettings{
		Sentinels:        clean.ParseSentinels(req.Sentinels),
		RemoveOutliers:   req.RemoveOutliers,
		OutlierThreshold: req.OutlierThreshold,
		OutlierMethod:    plot.ParseOutlierMethod(req.OutlierMethod),
	})
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleAnalysisSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StatsMode string `json:"stats_mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, apperrors.InvalidInput("invalid JSON body"))
		return
	}
	mode, err := stats.ParsePValueMethod(req.StatsMode)
	if err != nil {
		a.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	a.projects.SetStatsMode(mode)
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleBaseline(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceID  core.SourceID   `json:"source_id"`
		SourceIDs []core.SourceID `json:"source_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, apperrors.InvalidInput("invalid JSON body"))
		return
	}
	a.projects.SetBaseline(req.SourceID, req.SourceIDs)
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
