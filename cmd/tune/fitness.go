package main

import (
	"math"
	"sync"
	"time"

	"github.com/pthm-cable/podracer/geometry"
	"github.com/pthm-cable/podracer/physics"
	"github.com/pthm-cable/podracer/racer"
	"github.com/pthm-cable/podracer/scorer"
	"github.com/pthm-cable/podracer/solver"
	"github.com/pthm-cable/podracer/track"
)

// turnsPerRace bounds each self-play evaluation to a fixed number of real
// turns rather than racing to an actual finish, which keeps evaluation
// time predictable regardless of how well a candidate performs.
const turnsPerRace = 80

// FitnessEvaluator runs headless self-play races and scores a candidate
// parameter set by its average margin against a fixed baseline.
type FitnessEvaluator struct {
	baseline       solver.Params
	populationSize int
	perTurnBudget  time.Duration
	tracks         []track.Track
	seeds          []uint32
}

// NewFitnessEvaluator builds an evaluator that races candidates against
// baseline across every (track, seed) pair.
func NewFitnessEvaluator(baseline solver.Params, populationSize int, perTurnBudget time.Duration, tracks []track.Track, seeds []uint32) *FitnessEvaluator {
	return &FitnessEvaluator{
		baseline:       baseline,
		populationSize: populationSize,
		perTurnBudget:  perTurnBudget,
		tracks:         tracks,
		seeds:          seeds,
	}
}

// Evaluate races candidate against the baseline over every configured
// track and seed in parallel, returning the negative mean margin; lower
// is better, matching gonum/optimize's minimization convention.
func (fe *FitnessEvaluator) Evaluate(candidate solver.Params) float64 {
	type job struct {
		tr   track.Track
		seed uint32
	}
	var jobs []job
	for _, tr := range fe.tracks {
		for _, seed := range fe.seeds {
			jobs = append(jobs, job{tr, seed})
		}
	}

	margins := make([]float64, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			margins[i] = fe.raceOnce(j.tr, j.seed, candidate)
		}(i, j)
	}
	wg.Wait()

	var total float64
	for _, m := range margins {
		total += m
	}
	return -total / float64(len(margins))
}

// raceOnce plays candidate (seats 0,1) against the baseline (seats 2,3)
// for turnsPerRace turns and returns the final world's score from the
// candidate's perspective; positive means the candidate finished ahead.
func (fe *FitnessEvaluator) raceOnce(tr track.Track, seed uint32, candidate solver.Params) float64 {
	world := startingWorld(tr)
	candidateSolver := solver.New(tr, seed, candidate)
	baselineSolver := solver.New(tr, seed+1, fe.baseline)

	for t := 0; t < turnsPerRace; t++ {
		candidatePlan, _ := candidateSolver.Solve(world, fe.perTurnBudget)
		// The solver always races seats 0 and 1, so the baseline gets the
		// world with the two sides swapped.
		swapped := physics.World{world[2], world[3], world[0], world[1]}
		baselinePlan, _ := baselineSolver.Solve(swapped, fe.perTurnBudget)

		physics.AdvanceTurnVersus(&world, candidatePlan.Turns[0], baselinePlan.Turns[0], tr)

		if math.IsInf(scorer.Rate(world, tr), 0) {
			break
		}
	}

	score := scorer.Rate(world, tr)
	if math.IsInf(score, 1) {
		return 1e9
	}
	if math.IsInf(score, -1) {
		return -1e9
	}
	return score
}

// startingWorld places two pairs of pods at the track's start line, nose
// to tail, mirroring how a real match hands off the grid at turn zero.
func startingWorld(tr track.Track) physics.World {
	start := tr.Checkpoint(0)
	offsets := [4]geometry.Vector{
		{X: 0, Y: -400}, {X: 0, Y: 400},
		{X: -400, Y: -400}, {X: -400, Y: 400},
	}
	var w physics.World
	for i, off := range offsets {
		w[i] = racer.New(start.Add(off))
	}
	return w
}
