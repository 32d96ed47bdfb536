// Command tune searches for solver.Params that win self-play races against
// a fixed baseline more convincingly, using CMA-ES over the scorer's
// ahead bias and the opening-boost distance threshold.
package main

import "github.com/pthm-cable/podracer/solver"

// ParamSpec describes one optimizable solver parameter: its bounds and the
// default value CMA-ES starts its search from.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// ParamVector is the ordered set of parameters the search tunes. Population
// size is intentionally excluded: it changes the shape of the search space
// itself rather than a scoring weight, and the per-turn time budget already
// bounds how large it can usefully be.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the standard set of tunable solver parameters.
func NewParamVector() *ParamVector {
	defaults := solver.DefaultParams()
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "ahead_bias", Min: 0.5, Max: 8.0, Default: defaults.AheadBias},
			{Name: "boost_opening_min_distance", Min: 0, Max: 10000, Default: defaults.BoostOpeningMinDistance},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ToParams builds a solver.Params from a raw parameter vector, carrying
// populationSize through unchanged since it is not part of the search.
func (pv *ParamVector) ToParams(populationSize int, values []float64) solver.Params {
	clamped := pv.Clamp(values)
	return solver.Params{
		PopulationSize:          populationSize,
		AheadBias:               clamped[0],
		BoostOpeningMinDistance: clamped[1],
	}
}
