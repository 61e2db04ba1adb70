package plotprep

import (
	"math"
	"testing"
)

func TestToPercentOfMean(t *testing.T) {
	got, err := ToPercentOfMean([]float64{50, 100, 150})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{50, 100, 150}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
	// The rescaled series must itself average to 100.
	if mu := nanMean(got); math.Abs(mu-100.0) > 1e-9 {
		t.Errorf("mean of rescaled series = %v, want 100", mu)
	}
}

func TestToPercentOfMeanSkipsNaN(t *testing.T) {
	got, err := ToPercentOfMean([]float64{100, math.NaN(), 300})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0] != 50 || got[2] != 150 {
		t.Errorf("finite values misscaled: %v", got)
	}
	if !math.IsNaN(got[1]) {
		t.Errorf("NaN must stay in place, got %v", got[1])
	}
}

func TestToPercentOfMeanZeroMean(t *testing.T) {
	if _, err := ToPercentOfMean([]float64{1, -1}); err == nil {
		t.Error("zero mean must be an error")
	}
	if _, err := ToPercentOfMean(nil); err == nil {
		t.Error("empty input must be an error")
	}
}

func TestCircularInterpBaselineSeamContinuity(t *testing.T) {
	bAngles := []float64{0, 90, 180, 270}
	bValues := []float64{0, 1, 2, 1}

	got := CircularInterpBaseline(bAngles, bValues, []float64{359.999, 0.001, 45})
	// Approaching the seam from either side must converge to the value at 0°.
	if math.Abs(got[0]) > 0.01 {
		t.Errorf("interp just below seam = %v, want ~0", got[0])
	}
	if math.Abs(got[1]) > 0.01 {
		t.Errorf("interp just above seam = %v, want ~0", got[1])
	}
	if math.Abs(got[2]-0.5) > 1e-9 {
		t.Errorf("interp at 45° = %v, want 0.5", got[2])
	}
}

func TestCircularInterpBaselineDegenerate(t *testing.T) {
	t.Run("single point is constant", func(t *testing.T) {
		got := CircularInterpBaseline([]float64{90}, []float64{7}, []float64{0, 180, 300})
		for i, v := range got {
			if v != 7 {
				t.Errorf("query %d: got %v, want 7", i, v)
			}
		}
	})
	t.Run("empty baseline yields NaN", func(t *testing.T) {
		got := CircularInterpBaseline(nil, nil, []float64{0, 90})
		for i, v := range got {
			if !math.IsNaN(v) {
				t.Errorf("query %d: got %v, want NaN", i, v)
			}
		}
	})
}

func TestNanMeanStackRaggedSeries(t *testing.T) {
	got := nanMeanStack([][]float64{
		{1, 2, 3, 4},
		{3, math.NaN(), 5},
	})
	if len(got) != 4 {
		t.Fatalf("result must span the longest series, got length %d", len(got))
	}
	want := []float64{2, 2, 4, 4}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}
