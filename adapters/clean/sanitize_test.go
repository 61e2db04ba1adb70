package clean

import (
	"math"
	"testing"
)

func TestWrapAngleBRRoundTrip(t *testing.T) {
	// The BR convention maps through standard = (90 - raw) mod 360.
	cases := []struct {
		raw, want float64
	}{
		{90, 0},
		{0, 90},
		{270, 180},
		{180, 270},
	}
	for _, c := range cases {
		got := WrapAngle([]float64{c.raw}, true)[0]
		if got != c.want {
			t.Errorf("WrapAngle BR raw=%v: got %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestWrapAngleStandardIdentity(t *testing.T) {
	got := WrapAngle([]float64{0, 90, 359.5, 360, 725}, false)
	want := []float64{0, 90, 359.5, 0, 5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("WrapAngle standard index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMod360Negative(t *testing.T) {
	if got := Mod360(-90); got != 270 {
		t.Errorf("Mod360(-90) = %v, want 270", got)
	}
	if got := Mod360(-720); got != 0 {
		t.Errorf("Mod360(-720) = %v, want 0", got)
	}
}

func TestWrapAnglePropagatesNaN(t *testing.T) {
	got := WrapAngle([]float64{math.NaN(), 45}, true)
	if !math.IsNaN(got[0]) {
		t.Errorf("expected NaN to propagate, got %v", got[0])
	}
	if got[1] != 45 {
		t.Errorf("BR 45 should map to 45, got %v", got[1])
	}
}

func TestParseSentinels(t *testing.T) {
	t.Run("mixed valid and malformed", func(t *testing.T) {
		got := ParseSentinels("9999, abc, -1, ")
		want := []float64{9999, -1}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("sentinel %d: got %v, want %v", i, got[i], want[i])
			}
		}
	})
	t.Run("all malformed", func(t *testing.T) {
		if got := ParseSentinels("x, y"); len(got) != 0 {
			t.Errorf("expected empty list, got %v", got)
		}
	})
}

func TestSanitizeMasksSentinels(t *testing.T) {
	got := Sanitize([]float64{10, 9999, 20, 9999}, []float64{9999})
	if !math.IsNaN(got[1]) || !math.IsNaN(got[3]) {
		t.Errorf("sentinel positions should be NaN: %v", got)
	}
	if got[0] != 10 || got[2] != 20 {
		t.Errorf("non-sentinel values must survive: %v", got)
	}
}

func TestIsBRAngleColumn(t *testing.T) {
	if !IsBRAngleColumn("leftPedalCrankAngle") || !IsBRAngleColumn("rightPedalCrankAngle") {
		t.Error("pedal crank angle columns must be BR convention")
	}
	if IsBRAngleColumn("power") {
		t.Error("power is not an angle column")
	}
}
