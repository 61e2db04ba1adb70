package plotprep

import (
	"fmt"

	"crankview/adapters/agg"
	"crankview/adapters/clean"
	"crankview/domain/core"
	"crankview/domain/dataset"
	"crankview/domain/plot"
	"crankview/domain/project"
)

// plotSource selects the table a preparer reads for one dataset: the raw
// samples, or the imported pre-binned rows when original-bins mode is on.
func plotSource(state *project.State, id core.SourceID, r resolved) (*dataset.Table, error) {
	if !r.useBinned {
		return state.Loaded[id], nil
	}
	if t, ok := state.Binned[id]; ok && t.Rows() > 0 {
		return t, nil
	}
	return nil, fmt.Errorf("original bins enabled but no imported left_pedalstroke_avg data is available for this dataset")
}

// binnedAngleValues reads a pre-binned table as-is: wrap the angle column,
// mask sentinels, run the outlier filter, and keep the row order so rows stay
// index-aligned across datasets. keepAlignment skips the finite-pair mask for
// callers that subtract rows positionally.
func binnedAngleValues(t *dataset.Table, r resolved, keepAlignment bool) ([]float64, []float64, error) {
	rawAngle, err := t.Column(r.angleCol)
	if err != nil {
		return nil, nil, fmt.Errorf("angle column '%s' not found", r.angleCol)
	}
	rawValue, err := t.Column(r.metricCol)
	if err != nil {
		return nil, nil, fmt.Errorf("metric column '%s' not found", r.metricCol)
	}

	ang := clean.WrapAngle(clean.Sanitize(rawAngle, r.sentinels), clean.IsBRAngleColumn(r.angleCol))
	val := clean.Sanitize(rawValue, r.sentinels)
	var phaseAngles []float64
	if r.method == plot.OutlierPhaseMAD {
		phaseAngles = ang
	}
	val = clean.Apply(val, r.threshold, r.method, phaseAngles, agg.BinCount)

	if len(ang) == 0 {
		return nil, nil, fmt.Errorf("no original binned rows available")
	}
	if keepAlignment {
		return ang, val, nil
	}
	outAng := make([]float64, 0, len(ang))
	outVal := make([]float64, 0, len(val))
	for i := range ang {
		if isFinite(ang[i]) && isFinite(val[i]) {
			outAng = append(outAng, ang[i])
			outVal = append(outVal, val[i])
		}
	}
	if len(outAng) == 0 {
		return nil, nil, fmt.Errorf("no valid original binned values after filtering")
	}
	return outAng, outVal, nil
}

// angleValuesForPlot produces the (angle, value) series for one dataset under
// the active source mode: the 52-bin aggregation over raw samples, or the
// imported pre-binned rows read in row order.
func angleValuesForPlot(state *project.State, id core.SourceID, r resolved, keepAlignment bool) ([]float64, []float64, error) {
	table, err := plotSource(state, id, r)
	if err != nil {
		return nil, nil, err
	}
	if r.useBinned {
		return binnedAngleValues(table, r, keepAlignment)
	}
	return agg.PrepareAngleValueAgg(table, r.angleCol, r.metricCol, r.sentinels, r.aggMode, r.threshold, r.method)
}
