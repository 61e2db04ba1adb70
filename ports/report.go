package ports

import (
	"context"

	"crankview/domain/stats"
)

// StatsReport bundles the statistics sections an exporter writes out.
type StatsReport struct {
	MetricColumn string
	AggLabel     string
	Global       *stats.GlobalStats
	Ranges       *stats.RadarCartesianStats
	Bar          *stats.BarStats
}

// ReportExporter writes an analysis report to a file.
type ReportExporter interface {
	ExportReport(ctx context.Context, path string, report StatsReport) error
}
