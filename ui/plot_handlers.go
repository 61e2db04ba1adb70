package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crankview/adapters/clean"
	"crankview/adapters/plotprep"
	"crankview/domain/core"
	"crankview/domain/plot"
	apperrors "crankview/internal/errors"
)

// plotRequest carries per-call overrides; absent fields fall back to the
// stored project settings.
type plotRequest struct {
	AngleColumn      *string         `json:"angle_column"`
	MetricColumn     *string         `json:"metric_column"`
	AggMode          *string         `json:"agg_mode"`
	ValueMode        *string         `json:"value_mode"`
	Compare          *bool           `json:"compare"`
	BaselineID       *core.SourceID  `json:"baseline_id"`
	BaselineIDs      []core.SourceID `json:"baseline_ids"`
	Sentinels        *string         `json:"sentinels"`
	OutlierThreshold *float64        `json:"outlier_threshold"`
	OutlierMethod    *string         `json:"outlier_method"`
	CloseLoop        *bool           `json:"close_loop"`
	UseBinned        *bool           `json:"use_original_binned"`
}

func (a *App) handlePlot(w http.ResponseWriter, r *http.Request) {
	kindParam := chi.URLParam(r, "kind")
	kind, err := plot.ParseChartKind(kindParam)
	if err != nil {
		a.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	var req plotRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.writeError(w, apperrors.InvalidInput("invalid JSON body"))
			return
		}
	}
	opts, err := req.toOptions()
	if err != nil {
		a.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	data, err := a.plots.Prepare(kind, opts)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, data)
}

func (req plotRequest) toOptions() (plotprep.Options, error) {
	opts := plotprep.Options{
		AngleColumn:      req.AngleColumn,
		MetricColumn:     req.MetricColumn,
		Compare:          req.Compare,
		BaselineID:       req.BaselineID,
		BaselineIDs:      req.BaselineIDs,
		OutlierThreshold: req.OutlierThreshold,
		CloseLoop:        req.CloseLoop,
		UseBinned:        req.UseBinned,
	}
	if req.AggMode != nil {
		mode, err := plot.ParseAggMode(*req.AggMode)
		if err != nil {
			return opts, err
		}
		opts.AggMode = &mode
	}
	if req.ValueMode != nil {
		mode, err := plot.ParseValueMode(*req.ValueMode)
		if err != nil {
			return opts, err
		}
		opts.ValueMode = &mode
	}
	if req.OutlierMethod != nil {
		method := plot.ParseOutlierMethod(*req.OutlierMethod)
		opts.OutlierMethod = &method
	}
	if req.Sentinels != nil {
		opts.Sentinels = clean.ParseSentinels(*req.Sentinels)
	}
	return opts, nil
}
