package stats

import "crankview/domain/core"

// Verdict summaries attached to each pairwise statistic.
const (
	SummarySignificant      = "significant"
	SummaryNotSignificant   = "not significant"
	SummaryInsufficientData = "insufficient samples"
	SummaryZeroSpread       = "zero spread"
)

// PairwiseStat holds the correlation outcome for one dataset pair.
type PairwiseStat struct {
	DatasetA string  `json:"dataset_a"`
	DatasetB string  `json:"dataset_b"`
	N        int     `json:"n"`
	CorrR    float64 `json:"corr_r"`
	PValue   float64 `json:"p_value"`
	Summary  string  `json:"summary"`
}

// GlobalStats is the whole-revolution pairwise report: one statistic per
// dataset pair over their full binned series.
type GlobalStats struct {
	Pairs  []PairwiseStat `json:"pairs"`
	Errors []string       `json:"errors"`
}

// AngleRangeStat groups pairwise statistics for one contiguous angle bucket.
type AngleRangeStat struct {
	Index    int            `json:"index"`
	StartDeg float64        `json:"start_deg"`
	EndDeg   float64        `json:"end_deg"`
	Pairs    []PairwiseStat `json:"pairs"`
}

// RadarCartesianStats is the angle-bucketed analysis report for the binned
// chart modes.
type RadarCartesianStats struct {
	Ranges []AngleRangeStat `json:"ranges"`
	Errors []string         `json:"errors"`
}

// BarWhisker carries the center and 25th/75th percentile band for one bar.
type BarWhisker struct {
	SourceID   core.SourceID `json:"source_id"`
	Label      string        `json:"label"`
	Center     float64       `json:"center"`
	Low        float64       `json:"low"`
	High       float64       `json:"high"`
	HasWhisker bool          `json:"has_whisker"`
}

// BarStats is the analysis report for bar mode: per-dataset whiskers plus
// pairwise (or baseline-delta-trend) correlations over rolling-360° series.
type BarStats struct {
	Whiskers []BarWhisker   `json:"whiskers"`
	Pairs    []PairwiseStat `json:"pairs"`
	Errors   []string       `json:"errors"`
}
