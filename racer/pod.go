// Package racer defines the mutable per-pod racing state the physics engine
// and scorer operate on.
package racer

import "github.com/pthm-cable/podracer/geometry"

// ShieldLockTurns is how many turns (including the activation turn) a
// shield activation locks thrust for. Part of the protocol, not a tuning
// knob.
const ShieldLockTurns = 4

// Pod is one racer's mutable state. It is a plain value record: simulation
// code clones the live four-pod array by value rather than sharing
// pointers. The working set is tiny and copyable, so there is no benefit
// to reference-counted ownership here.
type Pod struct {
	Position geometry.Vector
	Velocity geometry.Vector

	// FacingDeg is the pod's facing angle in degrees, in [0, 360).
	FacingDeg float64

	// NextCheckpoint is the index, within the track's checkpoint sequence,
	// of the next checkpoint this pod must pass.
	NextCheckpoint int

	// TotalCheckpoints is the number of checkpoints passed so far,
	// monotonically non-decreasing.
	TotalCheckpoints int

	// BoostAvailable is true until the pod's once-per-race boost is spent.
	BoostAvailable bool

	// ShieldCooldown is in [0, ShieldLockTurns]; while > 0 the pod cannot
	// thrust. Its collision mass is given by Mass.
	ShieldCooldown int

	// Score is scorer scratch space, recomputed every time the scorer
	// rates a post-simulation world; callers must not rely on a stale
	// value surviving across simulations.
	Score int
}

// New returns a pod in its race-start state: boost available, no
// checkpoints passed yet, shield not active.
func New(pos geometry.Vector) Pod {
	return Pod{
		Position:       pos,
		BoostAvailable: true,
	}
}

// Mass returns the pod's collision mass: 10 while its shield is freshly
// active (cooldown at its maximum), 1 otherwise.
func (p Pod) Mass() float64 {
	if p.ShieldCooldown == ShieldLockTurns {
		return 10
	}
	return 1
}

// Clone returns an independent copy of p. Pod already has value semantics,
// so this is just p itself; it exists to make call sites that rely on the
// copy-not-alias guarantee self-documenting.
func (p Pod) Clone() Pod {
	return p
}

// AdvanceCheckpoint records that the pod reports a new nextCheckpointId from
// the protocol, incrementing TotalCheckpoints when it differs from the
// stored value. It is the per-turn bookkeeping the driver performs when
// ingesting live input; the physics engine has its own internal
// checkpoint-crossing detection for simulated turns.
func (p *Pod) AdvanceCheckpoint(nextCheckpointID int) {
	if nextCheckpointID != p.NextCheckpoint {
		p.TotalCheckpoints++
	}
	p.NextCheckpoint = nextCheckpointID
}
