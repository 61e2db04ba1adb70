// Package clean implements the angle/sentinel normalizer and the outlier
// filters. Every function is pure and length-preserving: invalid samples
// become NaN rather than being dropped, so positional correspondence between
// angle and metric columns survives the whole cleaning stage.
package clean

import (
	"math"
	"strconv"
	"strings"
)

// BR-convention angle columns. Readings in these columns are encoded
// clockwise from the rider's 3 o'clock position and need conversion to the
// standard 0-360 clockwise-from-top convention.
var brAngleColumns = map[string]bool{
	"leftPedalCrankAngle":  true,
	"rightPedalCrankAngle": true,
}

// IsBRAngleColumn reports whether the named column uses the BR angle
// convention.
func IsBRAngleColumn(name string) bool {
	return brAngleColumns[name]
}

// ParseSentinels parses a comma-separated sentinel list. Malformed parts are
// skipped silently; an all-malformed string yields an empty list.
func ParseSentinels(s string) []float64 {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Sanitize replaces sentinel-equal values with NaN. NaN input propagates.
func Sanitize(values []float64, sentinels []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	for i, v := range out {
		for _, s := range sentinels {
			if v == s {
				out[i] = math.NaN()
				break
			}
		}
	}
	return out
}

// WrapAngle reduces angles into [0, 360). When brConvention is true the BR
// encoding is converted first:
//
//	standard = (90 - raw) mod 360
//
// so BR 90 -> 0, BR 0 -> 90, BR 270 -> 180, BR 180 -> 270.
func WrapAngle(values []float64, brConvention bool) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		a := v
		if brConvention {
			a = 90.0 - a
		}
		out[i] = Mod360(a)
	}
	return out
}

// Mod360 reduces a single angle into [0, 360).
func Mod360(a float64) float64 {
	m := math.Mod(a, 360.0)
	if m < 0 {
		m += 360.0
	}
	return m
}
