package plotprep

import (
	"math"
	"strings"
	"testing"

	"crankview/domain/dataset"
	"crankview/domain/plot"
	"crankview/internal/testkit"
)

func boolPtr(v bool) *bool                      { return &v }
func aggPtr(v plot.AggMode) *plot.AggMode       { return &v }
func valuePtr(v plot.ValueMode) *plot.ValueMode { return &v }

func testRide(scale float64) *dataset.Table {
	cfg := testkit.DefaultRideConfig()
	cfg.PowerScale = scale
	return testkit.NewRideGenerator(cfg).Table()
}

func TestPrepareRadarPartialFailure(t *testing.T) {
	// The third dataset has no metric column; the other two must still render.
	broken := dataset.NewTable()
	broken.SetColumn("leftPedalCrankAngle", []float64{0, 90, 180})
	state, _ := testkit.ProjectWith(testRide(1.0), testRide(1.0), broken)
	state.Plot.AngleColumn = "leftPedalCrankAngle"
	state.Plot.MetricColumn = "power"

	data, err := PrepareRadar(state, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Traces) != 2 {
		t.Errorf("expected 2 traces, got %d", len(data.Traces))
	}
	if len(data.Errors) != 1 {
		t.Fatalf("expected 1 dataset error, got %v", data.Errors)
	}
	if !strings.Contains(data.Errors[0], "Ride 3") {
		t.Errorf("error must name the failing dataset: %q", data.Errors[0])
	}
}

func TestPrepareRadarCompare(t *testing.T) {
	// B is A scaled by 1.1, so its delta against baseline A oscillates around
	// 10% of the power waveform: roughly 9 to 11 watts.
	state, ids := testkit.ProjectWith(testRide(1.0), testRide(1.1))
	state.Plot.AngleColumn = "leftPedalCrankAngle"
	state.Plot.MetricColumn = "power"
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
	if data.Offset <= 0 {
		t.Errorf("comparison ring offset must be positive, got %v", data.Offset)
	}

	ring := data.Traces[0]
	if !ring.IsBaseline {
		t.Error("first trace must be the baseline ring")
	}
	for _, v := range ring.Y {
		if v != data.Offset {
			t.Fatalf("ring radius %v differs from offset %v", v, data.Offset)
		}
	}

	delta := data.Traces[1]
	if delta.Label != "Ride 2" {
		t.Errorf("delta trace label = %q, want Ride 2", delta.Label)
	}
	for i, v := range delta.Y {
		d := v - data.Offset
		if d < 8.8 || d > 11.2 {
			t.Errorf("delta at bin %d (%v°) = %v, want within [8.8, 11.2]", i, delta.X[i], d)
		}
	}
}

func TestPrepareRadarCloseLoop(t *testing.T) {
	state, _ := testkit.ProjectWith(testRide(1.0))
	state.Plot.AngleColumn = "leftPedalCrankAngle"
	state.Plot.MetricColumn = "power"

	data, err := PrepareRadar(state, Options{CloseLoop: boolPtr(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := data.Traces[0]
	if tr.X[len(tr.X)-1] != tr.X[0] {
		t.Errorf("closed loop must end on its starting angle: %v vs %v", tr.X[len(tr.X)-1], tr.X[0])
	}
	if tr.Y[len(tr.Y)-1] != tr.Y[0] {
		t.Errorf("closed loop must end on its starting value")
	}
}

func TestPrepareCartesianCloseLoop(t *testing.T) {
	state, _ := testkit.ProjectWith(testRide(1.0))
	state.Plot.AngleColumn = "leftPedalCrankAngle"
	state.Plot.MetricColumn = "power"

	data, err := PrepareCartesian(state, Options{CloseLoop: boolPtr(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := data.Traces[0]
	if got := tr.X[len(tr.X)-1]; got != 360.0 {
		t.Errorf("closed cartesian loop must end at x=360, got %v", got)
	}
	if tr.Y[len(tr.Y)-1] != tr.Y[0] {
		t.Errorf("closed loop must repeat the first value at 360°")
	}
}

func TestPrepareBarRejectsPercentMean(t *testing.T) {
	state, _ := testkit.ProjectWith(testRide(1.0))
	state.Plot.MetricColumn = "power"

	_, err := PrepareBar(state, Options{ValueMode: valuePtr(plot.ValuePercentMean)})
	if err == nil || !strings.Contains(err.Error(), "does not support") {
		t.Errorf("expected percent-of-mean rejection, got %v", err)
	}
}

func TestPrepareBarCompare(t *testing.T) {
	state, ids := testkit.ProjectWith(testRide(1.0), testRide(1.1))
	state.Plot.MetricColumn = "power"
	state.ShowFlag[ids[0]] = false

	data, err := PrepareBar(state, Options{
		Compare:    boolPtr(true),
		BaselineID: &ids[0],
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Values) != 1 || data.Labels[0] != "Ride 2" {
		t.Fatalf("expected one bar for Ride 2, got %v / %v", data.Labels, data.Values)
	}
	// 10% of the ~100W mean.
	if v := data.Values[0]; v < 9.0 || v > 11.0 {
		t.Errorf("bar delta = %v, want ~10", v)
	}
}

func TestPrepareTimeSeriesRaw(t *testing.T) {
	state, _ := testkit.ProjectWith(testRide(1.0))
	state.Plot.MetricColumn = "power"

	data, err := PrepareTimeSeries(state, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.XLabel != "Time (s)" {
		t.Errorf("raw mode x label = %q, want Time (s)", data.XLabel)
	}
	tr := data.Traces[0]
	if tr.X[0] != 0 {
		t.Errorf("raw series starts at t=0, got %v", tr.X[0])
	}
	// 360 samples at 100Hz.
	if math.Abs(data.MaxX-3.59) > 1e-9 {
		t.Errorf("MaxX = %v, want 3.59", data.MaxX)
	}
	if math.Abs(tr.Y[0]-100.0) > 1e-9 {
		t.Errorf("power at 0° = %v, want 100", tr.Y[0])
	}
}

func TestPrepareTimeSeriesPedalStroke(t *testing.T) {
	cfg := testkit.DefaultRideConfig()
	cfg.Revs = 3
	state, _ := testkit.ProjectWith(testkit.NewRideGenerator(cfg).Table())
	state.Plot.MetricColumn = "power"

	data, err := PrepareTimeSeries(state, Options{AggMode: aggPtr(plot.AggPedalStroke)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.XLabel != "Pedal stroke #" {
		t.Errorf("x label = %q, want Pedal stroke #", data.XLabel)
	}
	tr := data.Traces[0]
	if len(tr.X) < 2 || tr.X[0] != 1 {
		t.Fatalf("stroke numbering must start at 1, got %v", tr.X)
	}
	for i := 1; i < len(tr.X); i++ {
		if tr.X[i] != tr.X[i-1]+1 {
			t.Errorf("stroke numbers must be consecutive: %v", tr.X)
		}
	}
}

func TestPrepareTimeSeriesCompareTruncation(t *testing.T) {
	// The baseline ride is shorter, so the comparison trace is truncated to
	// its length.
	short := testkit.DefaultRideConfig()
	short.Rows = 100
	state, ids := testkit.ProjectWith(testkit.NewRideGenerator(short).Table(), testRide(1.1))
	state.Plot.MetricColumn = "power"
	state.ShowFlag[ids[0]] = false

	data, err := PrepareTimeSeries(state, Options{
		Compare:    boolPtr(true),
		BaselineID: &ids[0],
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := data.Traces[0]
	if len(tr.X) != 100 {
		t.Errorf("trace must be truncated to the baseline length, got %d points", len(tr.X))
	}
	if math.Abs(data.MaxX-0.99) > 1e-9 {
		t.Errorf("MaxX = %v, want 0.99", data.MaxX)
	}
}
