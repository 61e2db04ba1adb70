package plot

import "crankview/domain/core"

// Trace is one ready-to-render curve: x values, y values, and identity.
type Trace struct {
	Label      string        `json:"label"`
	X          []float64     `json:"x"`
	Y          []float64     `json:"y"`
	SourceID   core.SourceID `json:"source_id,omitempty"`
	IsBaseline bool          `json:"is_baseline"`
}

// RadarData is the prepared result for a radar (polar) chart. When comparing,
// Offset is the ring radius every delta trace has been shifted by so negative
// deltas stay plottable on a non-negative polar axis.
type RadarData struct {
	Traces        []Trace  `json:"traces"`
	Errors        []string `json:"errors"`
	ModeLabel     string   `json:"mode_label"`
	AggLabel      string   `json:"agg_label"`
	MetricLabel   string   `json:"metric_label"`
	BaselineLabel string   `json:"baseline_label,omitempty"`
	Compare       bool     `json:"compare"`
	Offset        float64  `json:"offset"`
}

// CartesianData is the prepared result for an angle-vs-value line chart.
type CartesianData struct {
	Traces        []Trace  `json:"traces"`
	Errors        []string `json:"errors"`
	ModeLabel     string   `json:"mode_label"`
	AggLabel      string   `json:"agg_label"`
	MetricLabel   string   `json:"metric_label"`
	BaselineLabel string   `json:"baseline_label,omitempty"`
	Compare       bool     `json:"compare"`
}

// BarData reduces each dataset to a single aggregate scalar.
type BarData struct {
	Labels        []string  `json:"labels"`
	Values        []float64 `json:"values"`
	Errors        []string  `json:"errors"`
	ModeLabel     string    `json:"mode_label"`
	AggLabel      string    `json:"agg_label"`
	MetricLabel   string    `json:"metric_label"`
	BaselineLabel string    `json:"baseline_label,omitempty"`
	Compare       bool      `json:"compare"`
}

// TimeSeriesData is the prepared result for sample-order charts.
type TimeSeriesData struct {
	Traces        []Trace  `json:"traces"`
	Errors        []string `json:"errors"`
	ModeLabel     string   `json:"mode_label"`
	MetricLabel   string   `json:"metric_label"`
	BaselineLabel string   `json:"baseline_label,omitempty"`
	Compare       bool     `json:"compare"`
	XLabel        string   `json:"x_label"`
	MaxX          float64  `json:"max_x"`
}
