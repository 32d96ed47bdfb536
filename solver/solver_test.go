package solver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/podracer/geometry"
	"github.com/pthm-cable/podracer/physics"
	"github.com/pthm-cable/podracer/plan"
	"github.com/pthm-cable/podracer/racer"
	"github.com/pthm-cable/podracer/track"
)

func worldNear(tr track.Track) physics.World {
	return physics.World{
		racer.New(geometry.Vector{X: 0, Y: 0}),
		racer.New(geometry.Vector{X: 500, Y: 500}),
		racer.New(geometry.Vector{X: -5000, Y: -5000}),
		racer.New(geometry.Vector{X: -5500, Y: -5000}),
	}
}

func shortTrack() track.Track {
	return track.New(3, []geometry.Vector{{X: 0, Y: 0}, {X: 4000, Y: 0}, {X: 4000, Y: 4000}})
}

func TestSolveReturnsAZeroTimeBudgetPlanWithoutHanging(t *testing.T) {
	tr := shortTrack()
	s := New(tr, 1, DefaultParams())
	w := worldNear(tr)

	p, stats := s.Solve(w, 0)
	assert.NotNil(t, p)
	// A zero budget's deadline is the start time itself, which the deadline
	// check before the first round never precedes, so no round runs.
	assert.Equal(t, 0, stats.Iterations)
}

func TestSolveImprovesOrMatchesScoreAsBudgetGrows(t *testing.T) {
	tr := shortTrack()
	s := New(tr, 1, DefaultParams())
	w := worldNear(tr)

	quick, _ := s.Solve(w, 0)

	s2 := New(tr, 1, DefaultParams())
	longer, stats := s2.Solve(w, 5*time.Millisecond)

	assert.GreaterOrEqual(t, longer.Score, quick.Score-1)
	assert.Positive(t, stats.Iterations)
}

func TestSolveHonorsACustomPopulationSize(t *testing.T) {
	tr := shortTrack()
	params := DefaultParams()
	params.PopulationSize = 3
	s := New(tr, 1, params)
	assert.Len(t, s.population, 6)

	w := worldNear(tr)
	_, stats := s.Solve(w, 2*time.Millisecond)
	assert.Positive(t, stats.Iterations)
}

func TestFirstTurnBoostSetsBoostWhenCheckpointsAreFar(t *testing.T) {
	tr := track.New(1, []geometry.Vector{{X: 0, Y: 0}, {X: 10000, Y: 0}})
	s := New(tr, 1, DefaultParams())
	for _, p := range s.incumbents() {
		assert.True(t, p.Turns[0][0].UseBoost)
		assert.True(t, p.Turns[0][1].UseBoost)
	}
}

func TestFirstTurnBoostSkippedWhenCheckpointsAreClose(t *testing.T) {
	tr := track.New(1, []geometry.Vector{{X: 0, Y: 0}, {X: 100, Y: 0}})
	params := DefaultParams()
	s := &Solver{
		population: make([]plan.Plan, 2*params.PopulationSize),
		params:     params,
		rng:        plan.NewRNG(1),
		tr:         tr,
	}
	s.initPopulation()
	// Randomize already flips UseBoost at random, so the override must leave
	// every incumbent's opening boost bit exactly as initialization set it.
	before := append([]plan.Plan(nil), s.incumbents()...)
	s.firstTurnBoost()
	for i, p := range s.incumbents() {
		assert.Equal(t, before[i].Turns[0][0].UseBoost, p.Turns[0][0].UseBoost)
	}
}

func TestMutateOneTouchesExactlyOneMove(t *testing.T) {
	r := plan.NewRNG(3)
	var p plan.Plan
	before := p
	mutateOne(&p, r)

	changed := 0
	for t := 0; t < plan.Horizon; t++ {
		for pod := 0; pod < 2; pod++ {
			if p.Turns[t][pod] != before.Turns[t][pod] {
				changed++
			}
		}
	}
	assert.LessOrEqual(t, changed, 1)
}

func TestSortByScoreDescendingOrdersInPlace(t *testing.T) {
	pop := make([]plan.Plan, 4)
	pop[0].Score = 3
	pop[1].Score = 10
	pop[2].Score = -5
	pop[3].Score = 1
	sortByScoreDescending(pop)
	assert.Equal(t, []int{10, 3, 1, -5}, []int{pop[0].Score, pop[1].Score, pop[2].Score, pop[3].Score})
}
