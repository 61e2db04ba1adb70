package jsonio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crankview/domain/dataset"
	"crankview/domain/plot"
	"crankview/domain/stats"
	"crankview/internal/testkit"
)

func TestLoadDatasetsShapes(t *testing.T) {
	t.Run("flat row array", func(t *testing.T) {
		got, err := LoadDatasets(strings.NewReader(`[{"power": 100}, {"power": 110}]`), "Morning Ride")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Morning Ride", got[0].Name)
		col, err := got[0].Table.Column("power")
		require.NoError(t, err)
		assert.Equal(t, []float64{100, 110}, col)
	})

	t.Run("rideData wrapper", func(t *testing.T) {
		got, err := LoadDatasets(strings.NewReader(`{"rideData": [{"power": 95}]}`), "")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Dataset", got[0].Name)
	})

	t.Run("named arrays sort by name", func(t *testing.T) {
		input := `{"zulu": [{"power": 1}], "alpha": [{"power": 2}]}`
		got, err := LoadDatasets(strings.NewReader(input), "ignored")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "alpha", got[0].Name)
		assert.Equal(t, "zulu", got[1].Name)
	})

	t.Run("named rideData wrappers", func(t *testing.T) {
		input := `{"Ride A": {"rideData": [{"power": 1}, {"power": 2}]}}`
		got, err := LoadDatasets(strings.NewReader(input), "ignored")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Ride A", got[0].Name)
		col, err := got[0].Table.Column("power")
		require.NoError(t, err)
		assert.Len(t, col, 2)
		assert.Nil(t, got[0].Binned)
	})

	t.Run("pre-binned companion rows", func(t *testing.T) {
		input := `{"Ride A": {
			"rideData": [{"power": 1}, {"power": 2}],
			"left_pedalstroke_avg": [{"power": 1.5}, {"power": 1.6}]
		}}`
		got, err := LoadDatasets(strings.NewReader(input), "ignored")
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].Binned)
		col, err := got[0].Binned.Column("power")
		require.NoError(t, err)
		assert.Equal(t, []float64{1.5, 1.6}, col)
	})

	t.Run("pre-binned rows on the wrapper shape", func(t *testing.T) {
		input := `{"rideData": [{"power": 1}], "left_pedalstroke_avg": [{"power": 2}]}`
		got, err := LoadDatasets(strings.NewReader(input), "")
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].Binned)
		assert.Equal(t, 1, got[0].Binned.Rows())
	})
}

func TestLoadDatasetsErrors(t *testing.T) {
	cases := []struct {
		name, input, wantErr string
	}{
		{"invalid json", `{not json`, "invalid JSON"},
		{"scalar root", `"hello"`, "unrecognized JSON structure"},
		{"empty array", `[]`, "no valid datasets found"},
		{"array of scalars", `[1, 2, 3]`, "no valid datasets found"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := LoadDatasets(strings.NewReader(c.input), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.wantErr)
		})
	}
}

func TestProjectRoundTrip(t *testing.T) {
	state, ids := testkit.ProjectWith(
		testkit.NewRideGenerator(testkit.DefaultRideConfig()).Table(),
		testkit.NewRideGenerator(testkit.DefaultRideConfig()).Table(),
	)
	threshold := 3.5
	state.Plot.ChartKind = plot.ChartCartesian
	state.Plot.AngleColumn = "leftPedalCrankAngle"
	state.Plot.MetricColumn = "power"
	state.Plot.AggMode = plot.AggMedian
	state.Plot.ValueMode = plot.ValuePercentMean
	state.Plot.Compare = true
	state.Plot.BaselineSourceID = ids[0]
	state.Plot.CloseLoop = true
	state.Cleaning.Sentinels = []float64{9999, -1}
	state.Cleaning.RemoveOutliers = true
	state.Cleaning.OutlierThreshold = &threshold
	state.Cleaning.OutlierMethod = plot.OutlierHampel
	state.Analysis.StatsMode = stats.MethodPermutation
	require.NoError(t, state.SetShow(ids[1], false))

	var buf bytes.Buffer
	require.NoError(t, SaveProject(&buf, state))

	loaded, err := LoadProject(&buf)
	require.NoError(t, err)
	require.Len(t, loaded.Loaded, 2)

	order := loaded.OrderedSourceIDs()
	require.Len(t, order, 2)
	assert.Equal(t, "Ride 1", loaded.DisplayName(order[0]))
	assert.Equal(t, "Ride 2", loaded.DisplayName(order[1]))

	assert.Equal(t, plot.ChartCartesian, loaded.Plot.ChartKind)
	assert.Equal(t, "leftPedalCrankAngle", loaded.Plot.AngleColumn)
	assert.Equal(t, "power", loaded.Plot.MetricColumn)
	assert.Equal(t, plot.AggMedian, loaded.Plot.AggMode)
	assert.Equal(t, plot.ValuePercentMean, loaded.Plot.ValueMode)
	assert.True(t, loaded.Plot.Compare)
	assert.True(t, loaded.Plot.CloseLoop)
	assert.Equal(t, []float64{9999, -1}, loaded.Cleaning.Sentinels)
	assert.True(t, loaded.Cleaning.RemoveOutliers)
	require.NotNil(t, loaded.Cleaning.OutlierThreshold)
	assert.Equal(t, 3.5, *loaded.Cleaning.OutlierThreshold)
	assert.Equal(t, plot.OutlierHampel, loaded.Cleaning.OutlierMethod)
	assert.Equal(t, stats.MethodPermutation, loaded.Analysis.StatsMode)

	// The baseline selection survives through the display name mapping.
	assert.Equal(t, order[0], loaded.Plot.BaselineSourceID)
	assert.True(t, loaded.ShowFlag[order[0]])
	assert.False(t, loaded.ShowFlag[order[1]])

	// Row data survives the trip.
	col, err := loaded.Loaded[order[0]].Column("power")
	require.NoError(t, err)
	require.Len(t, col, 360)
	assert.InDelta(t, 100.0, col[0], 1e-9)
}

func TestProjectRoundTripBinned(t *testing.T) {
	state, ids := testkit.ProjectWith(
		testkit.NewRideGenerator(testkit.DefaultRideConfig()).Table(),
	)
	binned := dataset.FromRecords([]map[string]interface{}{
		{"leftPedalCrankAngle": 90.0, "power": 101.0},
		{"leftPedalCrankAngle": 83.0, "power": 102.0},
	})
	require.NoError(t, state.AttachBinned(ids[0], binned))
	state.Plot.UseOriginalBinned = true

	var buf bytes.Buffer
	require.NoError(t, SaveProject(&buf, state))

	loaded, err := LoadProject(&buf)
	require.NoError(t, err)
	order := loaded.OrderedSourceIDs()
	require.Len(t, order, 1)
	assert.True(t, loaded.Plot.UseOriginalBinned)

	got, ok := loaded.Binned[order[0]]
	require.True(t, ok, "pre-binned rows must survive the round trip")
	col, err := got.Column("power")
	require.NoError(t, err)
	assert.Equal(t, []float64{101, 102}, col)
}

func TestLoadProjectWithoutSettings(t *testing.T) {
	// A hand-edited snapshot holding only datasets still loads.
	input := `{"My Ride": {"rideData": [{"power": 1}, {"power": 2}, {"power": 3}]}}`
	state, err := LoadProject(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, state.Loaded, 1)
	order := state.OrderedSourceIDs()
	assert.Equal(t, "My Ride", state.DisplayName(order[0]))
	assert.Equal(t, plot.ChartRadar, state.Plot.ChartKind)
}

func TestLoadProjectNoDatasets(t *testing.T) {
	_, err := LoadProject(strings.NewReader(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid datasets found")
}
