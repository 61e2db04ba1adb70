package app

import (
	"crankview/adapters/plotprep"
	"crankview/domain/plot"
	"crankview/internal"
	"crankview/internal/errors"
)

// PlotService runs the plot preparers against state snapshots.
type PlotService struct {
	projects *ProjectService
	logger   *internal.Logger
}

func NewPlotService(projects *ProjectService, logger *internal.Logger) *PlotService {
	return &PlotService{projects: projects, logger: logger}
}

// Radar prepares radar chart data.
func (s *PlotService) Radar(opts plotprep.Options) (*plot.RadarData, error) {
	data, err := plotprep.PrepareRadar(s.projects.Snapshot(), opts)
	return data, s.wrapConfigError(err)
}

// Cartesian prepares angle-vs-value line chart data.
func (s *PlotService) Cartesian(opts plotprep.Options) (*plot.CartesianData, error) {
	data, err := plotprep.PrepareCartesian(s.projects.Snapshot(), opts)
	return data, s.wrapConfigError(err)
}

// Bar prepares bar chart data.
func (s *PlotService) Bar(opts plotprep.Options) (*plot.BarData, error) {
	data, err := plotprep.PrepareBar(s.projects.Snapshot(), opts)
	return data, s.wrapConfigError(err)
}

// TimeSeries prepares sample-order chart data.
func (s *PlotService) TimeSeries(opts plotprep.Options) (*plot.TimeSeriesData, error) {
	data, err := plotprep.PrepareTimeSeries(s.projects.Snapshot(), opts)
	return data, s.wrapConfigError(err)
}

// Prepare dispatches on the chart kind, defaulting to the stored selection.
func (s *PlotService) Prepare(kind plot.ChartKind, opts plotprep.Options) (interface{}, error) {
	if kind == "" {
		kind = s.projects.Snapshot().Plot.ChartKind
	}
	switch kind {
	case plot.ChartRadar:
		return s.Radar(opts)
	case plot.ChartCartesian:
		return s.Cartesian(opts)
	case plot.ChartBar:
		return s.Bar(opts)
	case plot.ChartTimeSeries:
		return s.TimeSeries(opts)
	}
	return nil, errors.InvalidInput("unknown chart kind: " + string(kind))
}

// wrapConfigError tags preparer-level failures as configuration errors;
// per-dataset failures never surface here, they ride in the result's error
// list.
func (s *PlotService) wrapConfigError(err error) error {
	if err == nil {
		return nil
	}
	s.logger.Warn("plot preparation failed: %v", err)
	return errors.WithCode(errors.CodeConfigInvalid, err)
}
