// Package legacy ports the original bot line's first, simplest steering
// rule: angle-gated thrust with no lookahead. It exists as a reference
// fallback strategy (wired into cmd/podracer behind a flag), not as part
// of the evolutionary solver's hot path; useful for A/B comparison and
// for a "something always ships" behavior if the solver package were ever
// unavailable.
package legacy

import (
	"github.com/pthm-cable/podracer/geometry"
)

// BrakingDistance is the distance to the next checkpoint at which thrust
// starts tapering off, carried over unchanged from the original rule.
const BrakingDistance = 1200.0

// BoostMinDistance is how far the next checkpoint must be before a boost
// is even considered.
const BoostMinDistance = 5000.0

// OpponentAlignmentThreshold: the boost is withheld if the opponent sits
// close enough to the checkpoint line (|dot| too high) that boosting
// would ram them rather than clear ground.
const OpponentAlignmentThreshold = 0.8

// State is the steering rule's memory across turns; whether the boost
// has been spent, mirroring the original's hasUsedBoost.
type State struct {
	BoostUsed bool
}

// Decide picks a target point, thrust, and whether to boost, given the
// pod's position, the next checkpoint, the angle (in degrees, signed) from
// the pod's facing to that checkpoint, whether the first lap has
// completed, and the opponent racer's position.
//
// angleToCheckpoint follows the original convention: positive means the
// checkpoint is to the pod's right, so Rotate(-angle) undoes the turn to
// recover the pod's current facing direction.
func (s *State) Decide(pos, checkpoint geometry.Vector, angleToCheckpoint float64, firstLapOver bool, opponent geometry.Vector) (target geometry.Vector, thrust int, boost bool) {
	dist := pos.Distance(checkpoint)
	target = checkpoint

	switch {
	case absf(angleToCheckpoint) < 5:
		thrust = 100
		if firstLapOver && !s.BoostUsed && dist > BoostMinDistance && s.opponentClearOfLine(pos, checkpoint, opponent) {
			boost = true
			s.BoostUsed = true
		}
		if dist < BrakingDistance {
			thrust = int(100*(dist/BrakingDistance) + 10.0)
		}
	case absf(angleToCheckpoint) > 90:
		thrust = 0
	default:
		toCheckpoint := checkpoint.Sub(pos).Normalize()
		facing := toCheckpoint.Rotate(-angleToCheckpoint).Normalize()
		steering := toCheckpoint.Sub(facing).Normalize().Scale(100)
		target = checkpoint.Add(steering)

		thrust = 100
		if dist < BrakingDistance {
			thrust = int(100 * (90.0 - absf(angleToCheckpoint)) / 90.0)
		}
	}

	thrust = clampInt(thrust, 0, 100)
	return target, thrust, boost
}

// opponentClearOfLine withholds the boost when the opponent sits nearly
// on the pod-to-checkpoint line in either direction, to avoid boosting
// straight into them.
func (s *State) opponentClearOfLine(pos, checkpoint, opponent geometry.Vector) bool {
	toCheckpoint := checkpoint.Sub(pos).Normalize()
	toOpponent := opponent.Sub(pos).Normalize()
	return absf(toCheckpoint.Dot(toOpponent)) < OpponentAlignmentThreshold
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
