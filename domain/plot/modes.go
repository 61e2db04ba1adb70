package plot

import (
	"fmt"
	"strings"
)

// ChartKind selects one of the four supported chart types.
type ChartKind string

const (
	ChartRadar      ChartKind = "radar"
	ChartCartesian  ChartKind = "cartesian"
	ChartBar        ChartKind = "bar"
	ChartTimeSeries ChartKind = "timeseries"
)

// ParseChartKind parses a chart kind, accepting the loose spellings that
// project files and UI layers have used over time.
func ParseChartKind(s string) (ChartKind, error) {
	switch normalize(s) {
	case "radar", "polar":
		return ChartRadar, nil
	case "cartesian", "line", "xy":
		return ChartCartesian, nil
	case "bar":
		return ChartBar, nil
	case "timeseries", "time_series", "time":
		return ChartTimeSeries, nil
	}
	return "", fmt.Errorf("unknown chart kind: %q", s)
}

// AggMode selects how metric samples are aggregated.
type AggMode string

const (
	AggMean          AggMode = "mean"
	AggMedian        AggMode = "median"
	AggTrimmedMean10 AggMode = "trimmed_mean_10"
	AggPedalStroke   AggMode = "pedal_stroke"
	AggRoll360       AggMode = "roll_360deg"
)

// ParseAggMode parses an aggregation mode string. Aggregation strings are
// parsed exactly once at the boundary; core algorithms only see the closed
// constants above.
func ParseAggMode(s string) (AggMode, error) {
	switch normalize(s) {
	case "", "mean":
		return AggMean, nil
	case "median":
		return AggMedian, nil
	case "trimmed_mean_10", "10%_trimmed_mean", "trimmed_mean", "trimmed":
		return AggTrimmedMean10, nil
	case "pedal_stroke", "pedal_strokes", "stroke":
		return AggPedalStroke, nil
	case "roll_360deg", "roll_360", "rolling_360", "rolling_360deg":
		return AggRoll360, nil
	}
	return "", fmt.Errorf("unknown aggregation mode: %q", s)
}

// Label returns the human-readable aggregation label used in chart legends.
func (m AggMode) Label() string {
	switch m {
	case AggMedian:
		return "Median"
	case AggTrimmedMean10:
		return "10% trimmed mean"
	default:
		return "Mean"
	}
}

// ValueMode selects the scale a series is shown on.
type ValueMode string

const (
	ValueAbsolute    ValueMode = "absolute"
	ValuePercentMean ValueMode = "percent_mean"
)

// ParseValueMode parses a value mode string.
func ParseValueMode(s string) (ValueMode, error) {
	switch normalize(s) {
	case "", "absolute", "abs":
		return ValueAbsolute, nil
	case "percent_mean", "percent_of_mean", "%_of_mean", "percent":
		return ValuePercentMean, nil
	}
	return "", fmt.Errorf("unknown value mode: %q", s)
}

// Label returns the mode label presented next to chart titles.
func (m ValueMode) Label() string {
	if m == ValuePercentMean {
		return "% of mean"
	}
	return "absolute"
}

// OutlierMethod selects the outlier detector applied during cleaning.
type OutlierMethod string

const (
	OutlierMAD      OutlierMethod = "mad"
	OutlierPhaseMAD OutlierMethod = "phase_mad"
	OutlierHampel   OutlierMethod = "hampel"
	OutlierImpulse  OutlierMethod = "impulse"
)

// ParseOutlierMethod normalizes an outlier method string. Unknown or empty
// strings fall back to the global MAD filter, matching historic behavior.
func ParseOutlierMethod(s string) OutlierMethod {
	switch normalize(s) {
	case "phase-mad", "phase_mad", "phase":
		return OutlierPhaseMAD
	case "hampel", "hampel_filter":
		return OutlierHampel
	case "impulse", "impulse_filter", "accel", "acceleration", "jerk":
		return OutlierImpulse
	}
	return OutlierMAD
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
