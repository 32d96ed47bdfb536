// Package track models the immutable course a race is run on.
package track

import "github.com/pthm-cable/podracer/geometry"

// Track is the immutable course description: an ordered checkpoint sequence
// traversed Laps times.
type Track struct {
	checkpoints []geometry.Vector
	laps        int
	maxCP       int
}

// New builds a Track from a parsed header. It panics if checkpoints has
// fewer than 2 entries or laps is not positive; both are protocol
// invariants the caller (protocol.Reader) is responsible for enforcing
// before construction.
func New(laps int, checkpoints []geometry.Vector) Track {
	if laps <= 0 {
		panic("track: laps must be positive")
	}
	if len(checkpoints) < 2 {
		panic("track: need at least 2 checkpoints")
	}
	cps := make([]geometry.Vector, len(checkpoints))
	copy(cps, checkpoints)
	return Track{
		checkpoints: cps,
		laps:        laps,
		maxCP:       len(cps) * laps,
	}
}

// Checkpoint returns the checkpoint position at index i, wrapping modulo the
// checkpoint count.
func (t Track) Checkpoint(i int) geometry.Vector {
	return t.checkpoints[i%len(t.checkpoints)]
}

// CheckpointCount returns the number of distinct checkpoints in one lap.
func (t Track) CheckpointCount() int {
	return len(t.checkpoints)
}

// Laps returns the number of laps in the race.
func (t Track) Laps() int {
	return t.laps
}

// MaxCheckpoints returns CheckpointCount() * Laps(), the race's target
// checkpoint-pass count for victory.
func (t Track) MaxCheckpoints() int {
	return t.maxCP
}

// FirstHeading returns the checkpoint a fresh pod should face at the start
// of the race: index 1 modulo the checkpoint count.
func (t Track) FirstHeading() geometry.Vector {
	return t.Checkpoint(1 % len(t.checkpoints))
}

// CheckpointRadius is the disk radius within which a pod is considered to
// have passed a checkpoint. Part of the protocol, not a tuning knob.
const CheckpointRadius = 600.0
