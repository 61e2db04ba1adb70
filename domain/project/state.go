package project

import (
	"crankview/domain/core"
	"crankview/domain/dataset"
	"crankview/domain/plot"
	"crankview/domain/stats"
)

// PlotSettings are the stored defaults every plot preparation falls back to
// when a parameter is not supplied explicitly.
type PlotSettings struct {
	ChartKind         plot.ChartKind
	AngleColumn       string
	MetricColumn      string
	AggMode           plot.AggMode
	ValueMode         plot.ValueMode
	Compare           bool
	BaselineSourceID  core.SourceID
	BaselineSourceIDs []core.SourceID
	CloseLoop         bool
	UseOriginalBinned bool
	RangeLow          string
	RangeHigh         string
	RangeFixed        bool
}

// CleaningSettings control sentinel masking and outlier removal.
type CleaningSettings struct {
	Sentinels        []float64
	RemoveOutliers   bool
	OutlierThreshold *float64
	OutlierMethod    plot.OutlierMethod
}

// AnalysisSettings control the statistics report.
type AnalysisSettings struct {
	StatsMode stats.PValueMethod
}

// State is the shared, UI-agnostic project state: the loaded dataset
// collection plus stored settings. Front-ends mutate it through the lifecycle
// operations in this package between plot invocations and hand a Snapshot to
// the pure computation functions.
type State struct {
	Loaded       map[core.SourceID]*dataset.Table
	Binned       map[core.SourceID]*dataset.Table
	IDToDisplay  map[core.SourceID]string
	DisplayToID  map[string]core.SourceID
	ShowFlag     map[core.SourceID]bool
	DatasetOrder []core.SourceID

	Plot     PlotSettings
	Cleaning CleaningSettings
	Analysis AnalysisSettings
}

// DefaultSentinels is the sentinel list used when nothing else is configured.
var DefaultSentinels = []float64{9999}

// NewState creates an empty project with default settings.
func NewState() *State {
	return &State{
		Loaded:      make(map[core.SourceID]*dataset.Table),
		Binned:      make(map[core.SourceID]*dataset.Table),
		IDToDisplay: make(map[core.SourceID]string),
		DisplayToID: make(map[string]core.SourceID),
		ShowFlag:    make(map[core.SourceID]bool),
		Plot: PlotSettings{
			ChartKind: plot.ChartRadar,
			AggMode:   plot.AggMean,
			ValueMode: plot.ValueAbsolute,
		},
		Cleaning: CleaningSettings{
			Sentinels:     append([]float64(nil), DefaultSentinels...),
			OutlierMethod: plot.OutlierMAD,
		},
		Analysis: AnalysisSettings{
			StatsMode: stats.MethodFisher,
		},
	}
}

// Clear removes all datasets and dataset-scoped settings, keeping the rest of
// the configuration intact.
func (s *State) Clear() {
	s.Loaded = make(map[core.SourceID]*dataset.Table)
	s.Binned = make(map[core.SourceID]*dataset.Table)
	s.IDToDisplay = make(map[core.SourceID]string)
	s.DisplayToID = make(map[string]core.SourceID)
	s.ShowFlag = make(map[core.SourceID]bool)
	s.DatasetOrder = nil
	s.Plot.BaselineSourceID = ""
	s.Plot.BaselineSourceIDs = nil
}

// Snapshot deep-copies the state so a plot computation can run against an
// immutable view while the UI keeps mutating the original.
func (s *State) Snapshot() *State {
	out := &State{
		Loaded:       make(map[core.SourceID]*dataset.Table, len(s.Loaded)),
		Binned:       make(map[core.SourceID]*dataset.Table, len(s.Binned)),
		IDToDisplay:  make(map[core.SourceID]string, len(s.IDToDisplay)),
		DisplayToID:  make(map[string]core.SourceID, len(s.DisplayToID)),
		ShowFlag:     make(map[core.SourceID]bool, len(s.ShowFlag)),
		DatasetOrder: append([]core.SourceID(nil), s.DatasetOrder...),
		Plot:         s.Plot,
		Cleaning:     s.Cleaning,
		Analysis:     s.Analysis,
	}
	for id, t := range s.Loaded {
		out.Loaded[id] = t.Clone()
	}
	for id, t := range s.Binned {
		out.Binned[id] = t.Clone()
	}
	for id, name := range s.IDToDisplay {
		out.IDToDisplay[id] = name
	}
	for name, id := range s.DisplayToID {
		out.DisplayToID[name] = id
	}
	for id, show := range s.ShowFlag {
		out.ShowFlag[id] = show
	}
	out.Plot.BaselineSourceIDs = append([]core.SourceID(nil), s.Plot.BaselineSourceIDs...)
	out.Cleaning.Sentinels = append([]float64(nil), s.Cleaning.Sentinels...)
	if s.Cleaning.OutlierThreshold != nil {
		v := *s.Cleaning.OutlierThreshold
		out.Cleaning.OutlierThreshold = &v
	}
	return out
}

// DisplayName returns the display name for a source id, falling back to the
// id itself for robustness.
func (s *State) DisplayName(id core.SourceID) string {
	if name, ok := s.IDToDisplay[id]; ok {
		return name
	}
	return id.String()
}
