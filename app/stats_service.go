package app

import (
	"context"

	"crankview/adapters/stats/engine"
	"crankview/domain/stats"
	"crankview/internal"
	"crankview/internal/errors"
	"crankview/ports"
)

// StatsService runs the statistics engine against state snapshots and hands
// reports to the exporter.
type StatsService struct {
	projects *ProjectService
	engine   *engine.Engine
	exporter ports.ReportExporter
	logger   *internal.Logger
}

func NewStatsService(projects *ProjectService, eng *engine.Engine, exporter ports.ReportExporter, logger *internal.Logger) *StatsService {
	return &StatsService{projects: projects, engine: eng, exporter: exporter, logger: logger}
}

// GlobalReport computes whole-revolution pairwise statistics.
func (s *StatsService) GlobalReport(ctx context.Context) *stats.GlobalStats {
	snapshot := s.projects.Snapshot()
	return s.engine.ComputeGlobalStats(ctx, snapshot, engine.ParamsFromState(snapshot))
}

// RangeReport computes the angle-bucketed pairwise statistics.
func (s *StatsService) RangeReport(ctx context.Context) *stats.RadarCartesianStats {
	snapshot := s.projects.Snapshot()
	return s.engine.ComputeRadarCartesianStats(ctx, snapshot, engine.ParamsFromState(snapshot))
}

// BarReport computes the bar-mode statistics.
func (s *StatsService) BarReport(ctx context.Context) *stats.BarStats {
	snapshot := s.projects.Snapshot()
	return s.engine.ComputeBarStats(ctx, snapshot, engine.ParamsFromState(snapshot))
}

// ExportReport writes all three report sections to an xlsx workbook.
func (s *StatsService) ExportReport(ctx context.Context, path string) error {
	snapshot := s.projects.Snapshot()
	p := engine.ParamsFromState(snapshot)
	report := ports.StatsReport{
		MetricColumn: p.MetricColumn,
		AggLabel:     p.AggMode.Label(),
		Global:       s.engine.ComputeGlobalStats(ctx, snapshot, p),
		Ranges:       s.engine.ComputeRadarCartesianStats(ctx, snapshot, p),
		Bar:          s.engine.ComputeBarStats(ctx, snapshot, p),
	}
	if err := s.exporter.ExportReport(ctx, path, report); err != nil {
		s.logger.Error("report export failed: %v", err)
		return errors.Wrap(err, "failed to export report")
	}
	s.logger.Info("report exported to %s", path)
	return nil
}
