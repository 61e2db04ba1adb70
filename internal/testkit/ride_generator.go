// Package testkit generates the synthetic ride telemetry used across the
// test suites.
package testkit

import (
	"math"
	"math/rand"

	"crankview/domain/core"
	"crankview/domain/dataset"
	"crankview/domain/project"
)

// RideConfig configures the synthetic ride generator
type RideConfig struct {
	Rows       int     // samples to generate
	Revs       float64 // crank revolutions across the samples
	BasePower  float64 // mean of the power waveform
	PowerSwing float64 // sine amplitude around the base
	PowerScale float64 // multiplier applied to the whole waveform
	Noise      float64 // gaussian noise stddev, 0 disables
	Seed       int64
}

// DefaultRideConfig returns a clean noise-free ride, one revolution over 360
// samples
func DefaultRideConfig() RideConfig {
	return RideConfig{
		Rows:       360,
		Revs:       1,
		BasePower:  100,
		PowerSwing: 10,
		PowerScale: 1.0,
		Seed:       42,
	}
}

// RideGenerator builds tables with the raw BR-convention angle column and a
// sinusoidal power column, the shape real crank telemetry has after export.
type RideGenerator struct {
	config RideConfig
	rng    *rand.Rand
}

func NewRideGenerator(config RideConfig) *RideGenerator {
	return &RideGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Table generates one ride. The angle column carries the raw BR-convention
// reading; power(standard_angle) = scale × (base + swing·sin(standard)).
func (g *RideGenerator) Table() *dataset.Table {
	c := g.config
	angles := make([]float64, c.Rows)
	power := make([]float64, c.Rows)
	for i := 0; i < c.Rows; i++ {
		// The crank advances through the standard convention; the exported
		// column carries the raw BR reading that wraps back to it.
		standard := math.Mod(float64(i)*360.0*c.Revs/float64(c.Rows), 360.0)
		raw := math.Mod(90.0-standard, 360.0)
		if raw < 0 {
			raw += 360.0
		}
		p := c.PowerScale * (c.BasePower + c.PowerSwing*math.Sin(standard*math.Pi/180.0))
		if c.Noise > 0 {
			p += g.rng.NormFloat64() * c.Noise
		}
		angles[i] = raw
		power[i] = p
	}

	t := dataset.NewTable()
	t.SetColumn("leftPedalCrankAngle", angles)
	t.SetColumn("power", power)
	return t
}

// GaussianSeries draws an independent gaussian series, for significance
// property tests.
func (g *RideGenerator) GaussianSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = g.rng.NormFloat64()
	}
	return out
}

// ProjectWith loads the given tables into a fresh project state, named
// "Ride 1".."Ride N", all visible.
func ProjectWith(tables ...*dataset.Table) (*project.State, []core.SourceID) {
	state := project.NewState()
	ids := make([]core.SourceID, 0, len(tables))
	names := []string{"Ride 1", "Ride 2", "Ride 3", "Ride 4", "Ride 5"}
	for i, t := range tables {
		id := core.NewSourceID()
		name := "Ride"
		if i < len(names) {
			name = names[i]
		}
		state.AddDataset(id, name, t)
		ids = append(ids, id)
	}
	return state, ids
}
