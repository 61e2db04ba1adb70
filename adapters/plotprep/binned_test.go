package plotprep

import (
	"math"
	"strings"
	"testing"

	"crankview/domain/dataset"
	"crankview/internal/testkit"
)

// binnedRows builds a pre-binned table: one row per bin, angles stored in the
// raw BR encoding the dashboard exports, values supplied per row index.
func binnedRows(n int, value func(i int) float64) *dataset.Table {
	ang := make([]float64, n)
	val := make([]float64, n)
	for i := 0; i < n; i++ {
		standard := float64(i) * 360.0 / float64(n)
		raw := math.Mod(90.0-standard, 360.0)
		if raw < 0 {
			raw += 360.0
		}
		ang[i] = raw
		val[i] = value(i)
	}
	t := dataset.NewTable()
	t.SetColumn("leftPedalCrankAngle", ang)
	t.SetColumn("power", val)
	return t
}

func TestPrepareCartesianOriginalBinned(t *testing.T) {
	state, ids := testkit.ProjectWith(testRide(1.0))
	state.Plot.AngleColumn = "leftPedalCrankAngle"
	state.Plot.MetricColumn = "power"
	state.Plot.UseOriginalBinned = true
	if err := state.AttachBinned(ids[0], binnedRows(52, func(i int) float64 { return 100.0 + float64(i) })); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	data, err := PrepareCartesian(state, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Errors) != 0 {
		t.Fatalf("unexpected dataset errors: %v", data.Errors)
	}
	if len(data.Traces) != 1 {
		t.Fatalf("expected 1 trace, got %d", len(data.Traces))
	}
	tr := data.Traces[0]
	if len(tr.Y) != 52 {
		t.Fatalf("expected the 52 imported rows, got %d", len(tr.Y))
	}
	// Imported rows pass through in row order, not re-aggregated.
	if tr.Y[0] != 100.0 || tr.Y[51] != 151.0 {
		t.Errorf("row values not preserved: first %v last %v", tr.Y[0], tr.Y[51])
	}
	if math.Abs(tr.X[0]) > 1e-9 || math.Abs(tr.X[1]-360.0/52.0) > 1e-9 {
		t.Errorf("angles not converted to the standard convention: %v, %v", tr.X[0], tr.X[1])
	}
}

func TestPrepareRadarOriginalBinnedCompare(t *testing.T) {
	state, ids := testkit.ProjectWith(testRide(1.0), testRide(1.0))
	state.Plot.AngleColumn = "leftPedalCrankAngle"
	state.Plot.MetricColumn = "power"
	state.Plot.UseOriginalBinned = true
	if err := state.AttachBinned(ids[0], binnedRows(52, func(int) float64 { return 100.0 })); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if err := state.AttachBinned(ids[1], binnedRows(52, func(int) float64 { return 110.0 })); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	state.ShowFlag[ids[0]] = false

	data, err := PrepareRadar(state, Options{
		Compare:    boolPtr(true),
		BaselineID: &ids[0],
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Errors) != 0 {
		t.Fatalf("unexpected dataset errors: %v", data.Errors)
	}
	if len(data.Traces) != 2 {
		t.Fatalf("expected ring + 1 delta trace, got %d", len(data.Traces))
	}
	tr := data.Traces[1]
	if len(tr.X) != 52 {
		t.Fatalf("expected 52 index-aligned points, got %d", len(tr.X))
	}
	// Rows subtract positionally, so the delta is exactly 10 everywhere.
	for i, v := range tr.Y {
		if math.Abs(v-data.Offset-10.0) > 1e-9 {
			t.Fatalf("point %d: delta = %v, want 10", i, v-data.Offset)
		}
	}
}

func TestPrepareRadarOriginalBinnedRowCountMismatch(t *testing.T) {
	state, ids := testkit.ProjectWith(testRide(1.0), testRide(1.0))
	state.Plot.AngleColumn = "leftPedalCrankAngle"
	state.Plot.MetricColumn = "power"
	state.Plot.UseOriginalBinned = true
	if err := state.AttachBinned(ids[0], binnedRows(52, func(int) float64 { return 100.0 })); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if err := state.AttachBinned(ids[1], binnedRows(40, func(int) float64 { return 110.0 })); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	state.ShowFlag[ids[0]] = false

	data, err := PrepareRadar(state, Options{
		Compare:    boolPtr(true),
		BaselineID: &ids[0],
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Errors) != 1 {
		t.Fatalf("expected 1 dataset error, got %v", data.Errors)
	}
	if !strings.Contains(data.Errors[0], "matching row counts") {
		t.Errorf("error must name the row-count mismatch: %q", data.Errors[0])
	}
	if len(data.Traces) != 0 {
		t.Errorf("mismatched dataset must not produce traces, got %d", len(data.Traces))
	}
}

func TestPrepareCartesianOriginalBinnedMissingRows(t *testing.T) {
	state, _ := testkit.ProjectWith(testRide(1.0))
	state.Plot.AngleColumn = "leftPedalCrankAngle"
	state.Plot.MetricColumn = "power"
	state.Plot.UseOriginalBinned = true

	data, err := PrepareCartesian(state, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Errors) != 1 {
		t.Fatalf("expected 1 dataset error, got %v", data.Errors)
	}
	if !strings.Contains(data.Errors[0], "left_pedalstroke_avg") {
		t.Errorf("error must point at the missing import: %q", data.Errors[0])
	}
}

func TestPrepareBarOriginalBinned(t *testing.T) {
	state, ids := testkit.ProjectWith(testRide(1.0))
	state.Plot.MetricColumn = "power"
	state.Plot.UseOriginalBinned = true
	if err := state.AttachBinned(ids[0], binnedRows(52, func(int) float64 { return 5.0 })); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	data, err := PrepareBar(state, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Values) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(data.Values))
	}
	// The aggregate runs over the imported rows, not the raw ride samples.
	if math.Abs(data.Values[0]-5.0) > 1e-9 {
		t.Errorf("bar value = %v, want 5 from the imported rows", data.Values[0])
	}
}
