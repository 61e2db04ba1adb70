package plotprep

import (
	"crankview/domain/core"
	"crankview/domain/plot"
	"crankview/domain/project"
)

// Options carries per-call overrides for a plot preparation. Nil fields fall
// back to the stored project settings, mirroring how front-ends pass only the
// controls the user actually touched.
type Options struct {
	AngleColumn      *string
	MetricColumn     *string
	AggMode          *plot.AggMode
	ValueMode        *plot.ValueMode
	Compare          *bool
	BaselineID       *core.SourceID
	BaselineIDs      []core.SourceID
	Sentinels        []float64
	OutlierThreshold *float64
	OutlierMethod    *plot.OutlierMethod
	CloseLoop        *bool
	UseBinned        *bool
}

// resolved is the fully-determined parameter set a preparer runs with.
type resolved struct {
	angleCol    string
	metricCol   string
	aggMode     plot.AggMode
	valueMode   plot.ValueMode
	compare     bool
	baselineIDs []core.SourceID
	sentinels   []float64
	threshold   *float64
	method      plot.OutlierMethod
	closeLoop   bool
	useBinned   bool
}

func resolve(state *project.State, opts Options) resolved {
	r := resolved{
		angleCol:  state.Plot.AngleColumn,
		metricCol: state.Plot.MetricColumn,
		aggMode:   state.Plot.AggMode,
		valueMode: state.Plot.ValueMode,
		compare:   state.Plot.Compare,
		closeLoop: state.Plot.CloseLoop,
		useBinned: state.Plot.UseOriginalBinned,
	}
	if opts.AngleColumn != nil {
		r.angleCol = *opts.AngleColumn
	}
	if opts.MetricColumn != nil {
		r.metricCol = *opts.MetricColumn
	}
	if opts.AggMode != nil {
		r.aggMode = *opts.AggMode
	}
	if opts.ValueMode != nil {
		r.valueMode = *opts.ValueMode
	}
	if opts.Compare != nil {
		r.compare = *opts.Compare
	}
	if opts.CloseLoop != nil {
		r.closeLoop = *opts.CloseLoop
	}
	if opts.UseBinned != nil {
		r.useBinned = *opts.UseBinned
	}

	r.sentinels = resolveSentinels(state, opts.Sentinels)
	r.threshold = resolveThreshold(state, opts.OutlierThreshold)
	r.method = resolveMethod(state, opts.OutlierMethod)
	r.baselineIDs = resolveBaselineIDs(state, opts.BaselineIDs, opts.BaselineID)
	return r
}

func resolveSentinels(state *project.State, override []float64) []float64 {
	if override != nil {
		return append([]float64(nil), override...)
	}
	return append([]float64(nil), state.Cleaning.Sentinels...)
}

func resolveThreshold(state *project.State, override *float64) *float64 {
	if override != nil {
		v := *override
		return &v
	}
	if state.Cleaning.RemoveOutliers && state.Cleaning.OutlierThreshold != nil {
		v := *state.Cleaning.OutlierThreshold
		return &v
	}
	return nil
}

func resolveMethod(state *project.State, override *plot.OutlierMethod) plot.OutlierMethod {
	if override != nil {
		return *override
	}
	if state.Cleaning.OutlierMethod != "" {
		return state.Cleaning.OutlierMethod
	}
	return plot.OutlierMAD
}

// resolveBaselineIDs builds the effective baseline list: explicit list if
// given, else the stored one, with the single baseline selection prepended
// when missing, filtered to loaded datasets and de-duplicated.
func resolveBaselineIDs(state *project.State, overrideList []core.SourceID, overrideID *core.SourceID) []core.SourceID {
	if overrideList == nil && overrideID == nil {
		return state.EffectiveBaselineIDs()
	}
	var candidates []core.SourceID
	if overrideList != nil {
		candidates = append(candidates, overrideList...)
	} else {
		candidates = append(candidates, state.Plot.BaselineSourceIDs...)
	}

	single := state.Plot.BaselineSourceID
	if overrideID != nil {
		single = *overrideID
	}
	if single != "" {
		found := false
		for _, id := range candidates {
			if id == single {
				found = true
				break
			}
		}
		if !found {
			candidates = append([]core.SourceID{single}, candidates...)
		}
	}

	seen := make(map[core.SourceID]bool, len(candidates))
	out := make([]core.SourceID, 0, len(candidates))
	for _, id := range candidates {
		if _, loaded := state.Loaded[id]; loaded && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}

// baselineLabel joins baseline display names for legends.
func baselineLabel(state *project.State, ids []core.SourceID) string {
	label := ""
	for i, id := range ids {
		if i > 0 {
			label += ", "
		}
		label += state.DisplayName(id)
	}
	return label
}
