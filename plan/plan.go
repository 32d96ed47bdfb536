// Package plan defines the Move/Turn/Plan move-plan data model the solver
// searches over and the physics engine consumes, plus the Randomize/Mutate
// operators the solver's evolutionary search drives.
package plan

// Horizon is the number of future turns a Plan simulates; fixed by the
// game's turn budget, not a tuning knob.
const Horizon = 4

// Rotation and thrust caps are part of the protocol.
const (
	MaxRotation = 18
	MaxThrust   = 100
	BoostThrust = 650
)

// Move is one pod's command for one turn. Rotation is applied first, then
// either shield (overrides thrust and boost), or boost (replaces thrust
// with BoostThrust if still available), or raw thrust.
type Move struct {
	Rotation  int
	Thrust    int
	UseBoost  bool
	UseShield bool
}

// Turn is the ordered pair of Moves for the two owned pods on a single
// simulated turn.
type Turn [2]Move

// Plan is a fixed-horizon sequence of Turns with a cached score. The cache
// is only valid relative to the live-pod snapshot it was last scored
// against; the solver re-scores on every real turn because the world
// evolves between calls.
type Plan struct {
	Turns [Horizon]Turn
	Score int
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Randomize overwrites every field of m with a fresh random draw. Rotation
// and thrust are tri-modally biased toward their extremes and zero, an
// intentional bias preserved from the original search, not a defect.
func Randomize(m *Move, r *RNG) {
	// Bias toward {-18, 0, 18}: draw wide, snap the high tail to 0.
	rot := r.Intn(-2*MaxRotation, 3*MaxRotation)
	if rot > 2*MaxRotation {
		m.Rotation = 0
	} else {
		m.Rotation = clampInt(rot, -MaxRotation, MaxRotation)
	}

	// Bias toward {0, 100}.
	thrust := r.Intn(-MaxThrust/2, 2*MaxThrust)
	m.Thrust = clampInt(thrust, 0, MaxThrust)

	if r.Chance(2, 5) {
		m.UseShield = !m.UseShield
	}
	if r.Chance(2, 5) {
		m.UseBoost = !m.UseBoost
	}
}

// Mutation attribute weights: rotation and thrust are equally likely,
// shield is rare, boost is never chosen here; it is only ever set by a
// full Randomize (population init, or a shifted plan's fresh tail turn) or
// by the solver's boost-opening override.
const (
	weightRotation = 5
	weightThrust   = 5
	weightShield   = 1
	totalWeight    = weightRotation + weightThrust + weightShield
)

// Mutate changes exactly one attribute of m, chosen by the weighted draw
// above. Shield flips with the same ~40% chance as a full Randomize, to
// keep the bit sticky rather than thrashing every mutation.
func Mutate(m *Move, r *RNG) {
	i := r.Intn(0, totalWeight)
	switch {
	case i < weightRotation:
		rot := r.Intn(-2*MaxRotation, 3*MaxRotation)
		if rot > 2*MaxRotation {
			m.Rotation = 0
		} else {
			m.Rotation = clampInt(rot, -MaxRotation, MaxRotation)
		}
	case i < weightRotation+weightThrust:
		thrust := r.Intn(-MaxThrust/2, 2*MaxThrust)
		m.Thrust = clampInt(thrust, 0, MaxThrust)
	default:
		if r.Chance(2, 5) {
			m.UseShield = !m.UseShield
		}
	}
}
