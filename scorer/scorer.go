// Package scorer rates a post-simulation world from the owning side's
// perspective.
package scorer

import (
	"math"

	"github.com/pthm-cable/podracer/physics"
	"github.com/pthm-cable/podracer/track"
)

// Checkpoint factor dominates in-track distance so that passing one more
// checkpoint always outscores any amount of positional jockeying.
const checkpointFactor = 30000

// DefaultAheadBias is the weight of racing ahead over blocking the
// opponent used when a caller has no tuned value to supply.
const DefaultAheadBias = 2

// podScore rates a single pod: checkpoints passed outweigh proximity to the
// next checkpoint.
func podScore(p physics.World, i int, tr track.Track) int {
	pod := p[i]
	cp := tr.Checkpoint(pod.NextCheckpoint)
	dist := pod.Position.Distance(cp)
	return checkpointFactor*pod.TotalCheckpoints - int(math.Round(dist))
}

// Rate scores world w (four pods: own 0,1 then opponent 2,3) from the
// owning side's perspective using DefaultAheadBias. See RateWeighted for a
// tunable bias, as used by the parameter search in cmd/tune.
func Rate(w physics.World, tr track.Track) float64 {
	return RateWeighted(w, tr, DefaultAheadBias)
}

// RateWeighted is Rate with an explicit ahead-bias weight.
//
// +Inf means the own racer has won; -Inf means the opponent racer has
// won. An opponent victory rates as badly as possible so the search never
// trades a real position for a line that lets the opponent finish.
func RateWeighted(w physics.World, tr track.Track, aheadBias float64) float64 {
	s0 := podScore(w, 0, tr)
	s1 := podScore(w, 1, tr)
	ownRacerIdx, ownInterceptorIdx := 0, 1
	if s1 > s0 {
		ownRacerIdx, ownInterceptorIdx = 1, 0
	}

	s2 := podScore(w, 2, tr)
	s3 := podScore(w, 3, tr)
	oppRacerIdx := 2
	if s3 > s2 {
		oppRacerIdx = 3
	}

	ownRacer := w[ownRacerIdx]
	ownInterceptor := w[ownInterceptorIdx]
	oppRacer := w[oppRacerIdx]

	maxCP := tr.MaxCheckpoints()
	if ownRacer.TotalCheckpoints > maxCP {
		return math.Inf(1)
	}
	if oppRacer.TotalCheckpoints > maxCP {
		return math.Inf(-1)
	}

	ownRacerScore := podScore(w, ownRacerIdx, tr)
	oppRacerScore := podScore(w, oppRacerIdx, tr)
	aheadScore := float64(ownRacerScore - oppRacerScore)

	var interceptorScore float64
	if ownRacer.NextCheckpoint == oppRacer.NextCheckpoint {
		interceptorScore = -ownInterceptor.Position.Distance(oppRacer.Position)
	} else {
		target := tr.Checkpoint(oppRacer.NextCheckpoint)
		interceptorScore = -ownInterceptor.Position.Distance(target)
	}

	return aheadBias*aheadScore + interceptorScore
}
