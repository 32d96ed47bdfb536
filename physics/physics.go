// Package physics implements the game's single-turn advance rule: rotate,
// thrust, move-with-collisions, friction, snap-to-integers. It is the
// simulator the solver clones the live pods against for every candidate
// plan it evaluates.
package physics

import (
	"math"

	"github.com/pthm-cable/podracer/geometry"
	"github.com/pthm-cable/podracer/plan"
	"github.com/pthm-cable/podracer/racer"
	"github.com/pthm-cable/podracer/track"
)

// Constants below are part of the protocol, not tuning knobs; named once
// here per the design notes rather than scattered as magic numbers.
const (
	PodRadius         = 400.0
	Friction          = 0.85
	MinReboundImpulse = 120.0
	epsilon           = 1e-5
)

// World is the four racing pods: indices 0 and 1 are the owning side,
// indices 2 and 3 are the opponent side. The simulator treats the
// opponent's future moves as unknown and models them as zero rotation,
// zero thrust for the horizon being explored.
type World = [4]racer.Pod

// AdvanceTurn applies one full simulated turn to pods in place, given the
// owning side's Move pair. Opponent pods receive the zero Move.
func AdvanceTurn(pods *World, turn plan.Turn, tr track.Track) {
	advance(pods, [4]plan.Move{turn[0], turn[1], {}, {}}, tr)
}

// AdvanceTurnVersus is AdvanceTurn with explicit moves for both sides, for
// self-play evaluation where the opponent's commands are known rather than
// modeled as zero.
func AdvanceTurnVersus(pods *World, own, opp plan.Turn, tr track.Track) {
	advance(pods, [4]plan.Move{own[0], own[1], opp[0], opp[1]}, tr)
}

func advance(pods *World, moves [4]plan.Move, tr track.Track) {
	rotate(pods, moves)
	applyThrust(pods, moves)
	moveWithCollisions(pods, tr)
	applyFriction(pods)
	finalize(pods)
}

// rotate is step A: new angle = (angle + move.rotation) mod 360.
func rotate(pods *World, moves [4]plan.Move) {
	for i := range pods {
		a := math.Mod(pods[i].FacingDeg+float64(moves[i].Rotation), 360)
		if a < 0 {
			a += 360
		}
		pods[i].FacingDeg = a
	}
}

// applyThrust is step B: shield management runs first (activating sets the
// cooldown to its maximum, otherwise it ticks down). Only while the shield
// is inactive, boost replaces thrust with BoostThrust while available,
// otherwise raw thrust is applied along the pod's facing direction.
func applyThrust(pods *World, moves [4]plan.Move) {
	for i := range pods {
		p := &pods[i]
		m := moves[i]

		ManageShield(p, m.UseShield)
		if p.ShieldCooldown > 0 {
			continue
		}

		dir := geometry.FromAngle(p.FacingDeg)
		thrust := float64(m.Thrust)
		if m.UseBoost && p.BoostAvailable {
			thrust = plan.BoostThrust
			p.BoostAvailable = false
		}
		p.Velocity = p.Velocity.Add(dir.Scale(thrust))
	}
}

// ManageShield activates the shield (locking thrust and mass-10 for
// ShieldLockTurns turns) or, if it is already counting down, ticks the
// cooldown toward zero. A fresh activation always wins over an in-progress
// cooldown. Exported so the driver's real-turn bookkeeping and the
// simulator's lookahead share one rule instead of two copies of it.
func ManageShield(p *racer.Pod, activate bool) {
	if activate {
		p.ShieldCooldown = racer.ShieldLockTurns
		return
	}
	if p.ShieldCooldown > 0 {
		p.ShieldCooldown--
	}
}

// moveWithCollisions is step C: advance simulated time from 0 to 1 via
// iterative soonest-collision detection, applying the rebound rule at each
// collision and checkpoint-crossing detection at every sub-advance.
func moveWithCollisions(pods *World, tr track.Track) {
	remaining := 1.0
	for remaining > epsilon {
		dt := remaining
		ci, cj := -1, -1

		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				t, ok := timeToCollision(pods[i], pods[j])
				if !ok {
					continue
				}
				if t < dt {
					dt = t
					ci, cj = i, j
				}
			}
		}

		for i := range pods {
			pods[i].Position = pods[i].Position.Add(pods[i].Velocity.Scale(dt))
			crossCheckpointIfNeeded(&pods[i], tr)
		}

		if ci >= 0 {
			rebound(&pods[ci], &pods[cj])
		}

		remaining -= dt
	}
}

// crossCheckpointIfNeeded advances p's next-checkpoint index (and total
// count) if p's new position lies within the checkpoint radius of the
// checkpoint it is heading toward.
func crossCheckpointIfNeeded(p *racer.Pod, tr track.Track) {
	cp := tr.Checkpoint(p.NextCheckpoint)
	if p.Position.DistanceSq(cp) < track.CheckpointRadius*track.CheckpointRadius {
		p.NextCheckpoint = (p.NextCheckpoint + 1) % tr.CheckpointCount()
		p.TotalCheckpoints++
	}
}

// timeToCollision solves ||(p_j - p_i) + tau*(v_j - v_i)||^2 = (2*PodRadius)^2
// for the smallest tau > epsilon, reporting whether such a root exists; the
// caller compares it against the time left in the turn. Numerical edges (near-zero relative velocity,
// negative discriminant, non-positive root) are treated as "no collision",
// matching the game's physical non-events.
func timeToCollision(a, b racer.Pod) (float64, bool) {
	dp := b.Position.Sub(a.Position)
	dv := b.Velocity.Sub(a.Velocity)

	qa := dv.Dot(dv)
	if qa < epsilon {
		return 0, false
	}

	qb := -2 * dp.Dot(dv)
	qc := dp.Dot(dp) - 4*PodRadius*PodRadius

	discriminant := qb*qb - 4*qa*qc
	if discriminant < 0 {
		return 0, false
	}

	t := (qb - math.Sqrt(discriminant)) / (2 * qa)
	if t <= epsilon {
		return 0, false
	}
	return t, true
}

// rebound applies the game's collision impulse, with its magnitude clamped
// to [-MinReboundImpulse, MinReboundImpulse].
func rebound(a, b *racer.Pod) {
	massA := a.Mass()
	massB := b.Mass()

	d := b.Position.Sub(a.Position)
	dist := d.Length()
	if dist == 0 {
		return
	}
	n := d.Scale(1 / dist)
	dv := b.Velocity.Sub(a.Velocity)

	reducedMass := massA * massB / (massA + massB)
	impulse := -2 * reducedMass * dv.Dot(n)
	impulse = clampFloat(impulse, -MinReboundImpulse, MinReboundImpulse)

	a.Velocity = a.Velocity.Add(n.Scale(-impulse / massA))
	b.Velocity = b.Velocity.Add(n.Scale(impulse / massB))
}

// applyFriction is step D: every pod's velocity is scaled by Friction.
func applyFriction(pods *World) {
	for i := range pods {
		pods[i].Velocity = pods[i].Velocity.Scale(Friction)
	}
}

// finalize is step E: positions and velocities are snapped to the nearest
// integer, half-away-from-zero.
func finalize(pods *World) {
	for i := range pods {
		pods[i].Position = geometry.Vector{X: roundHalfAwayFromZero(pods[i].Position.X), Y: roundHalfAwayFromZero(pods[i].Position.Y)}
		pods[i].Velocity = geometry.Vector{X: roundHalfAwayFromZero(pods[i].Velocity.X), Y: roundHalfAwayFromZero(pods[i].Velocity.Y)}
	}
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return math.Floor(v + 0.5)
	}
	return math.Ceil(v - 0.5)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
