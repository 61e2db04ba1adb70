package agg

import (
	"math"
	"strings"
	"testing"

	"crankview/adapters/clean"
	"crankview/domain/dataset"
	"crankview/domain/plot"
)

// rideTable builds rows whose wrapped primary angle advances 6° per sample,
// starting at 0°. The raw column carries the BR encoding the wrapper expects.
func rideTable(rows int, metric func(i int) float64) *dataset.Table {
	angles := make([]float64, rows)
	values := make([]float64, rows)
	for i := 0; i < rows; i++ {
		wrapped := float64((i * 6) % 360)
		angles[i] = clean.Mod360(90.0 - wrapped)
		values[i] = metric(i)
	}
	t := dataset.NewTable()
	t.SetColumn(PrimaryAngleColumn, angles)
	t.SetColumn("power", values)
	return t
}

func TestPedalStrokeSeries(t *testing.T) {
	// 200 samples at 6°/sample: three full revolutions close at samples 60,
	// 120 and 180.
	table := rideTable(200, func(i int) float64 { return 100.0 })
	x, vals, err := PedalStrokeSeries(table, "power", nil, nil, plot.OutlierMAD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 3 {
		t.Fatalf("expected 3 strokes, got %d", len(vals))
	}
	for i, want := range []float64{1, 2, 3} {
		if x[i] != want {
			t.Errorf("stroke %d numbered %v, want %v", i, x[i], want)
		}
		if vals[i] != 100.0 {
			t.Errorf("stroke %d mean = %v, want 100", i, vals[i])
		}
	}
}

func TestPedalStrokeSeriesNoCompleteStroke(t *testing.T) {
	table := rideTable(30, func(i int) float64 { return 100.0 })
	_, _, err := PedalStrokeSeries(table, "power", nil, nil, plot.OutlierMAD)
	if err == nil || !strings.Contains(err.Error(), "no valid pedal strokes") {
		t.Errorf("expected no-strokes error, got %v", err)
	}
}

func TestUnwrapAccumulatesWraparounds(t *testing.T) {
	wrapped := []float64{350, 355, 2, 8, 350, 10}
	got := unwrap(wrapped)
	want := []float64{350, 355, 362, 368, 710, 730}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("unwrap index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRolling360Series(t *testing.T) {
	table := rideTable(200, func(i int) float64 { return float64(i) })
	x, vals, err := Rolling360Series(table, "power", nil, nil, plot.OutlierMAD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Every start index with a complete trailing revolution produces one
	// window: 200 - 60 = 140.
	if len(vals) != 140 {
		t.Fatalf("expected 140 windows, got %d", len(vals))
	}
	if x[0] != 0 || x[len(x)-1] != 139 {
		t.Errorf("x range [%v, %v], want [0, 139]", x[0], x[len(x)-1])
	}
	// The window over samples [0..60] averages 0..60.
	if math.Abs(vals[0]-30.0) > 1e-9 {
		t.Errorf("first window mean = %v, want 30", vals[0])
	}
}

func TestRolling360SeriesIncompleteWindow(t *testing.T) {
	table := rideTable(40, func(i int) float64 { return float64(i) })
	_, _, err := Rolling360Series(table, "power", nil, nil, plot.OutlierMAD)
	if err == nil || !strings.Contains(err.Error(), "no complete 360deg windows") {
		t.Errorf("expected incomplete-window error, got %v", err)
	}
}

func TestRolling360MedianSeries(t *testing.T) {
	table := rideTable(200, func(i int) float64 { return float64(i) })
	vals, err := Rolling360MedianSeries(table, "power", nil, nil, plot.OutlierMAD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vals) != 140 {
		t.Fatalf("expected 140 windows, got %d", len(vals))
	}
	// Median of 0..60 is 30.
	if math.Abs(vals[0]-30.0) > 1e-9 {
		t.Errorf("first window median = %v, want 30", vals[0])
	}
}

func TestWindowRowsMissingPrimaryAngle(t *testing.T) {
	table := dataset.NewTable()
	table.SetColumn("power", []float64{1, 2, 3})
	_, _, err := PedalStrokeSeries(table, "power", nil, nil, plot.OutlierMAD)
	if err == nil || !strings.Contains(err.Error(), PrimaryAngleColumn) {
		t.Errorf("expected primary-angle error, got %v", err)
	}
}
