// Package solver runs the fixed-horizon evolutionary search that picks a
// move for the owning side's two pods each turn: shift last turn's winning
// plans forward, mutate scratch copies under a wall clock budget, keep the
// best.
package solver

import (
	"math"
	"time"

	"github.com/pthm-cable/podracer/physics"
	"github.com/pthm-cable/podracer/plan"
	"github.com/pthm-cable/podracer/scorer"
	"github.com/pthm-cable/podracer/track"
)

// Params controls the search's population shape and scoring weights. The
// zero value is not usable; start from DefaultParams and override what a
// caller (the driver's config, or cmd/tune's parameter search) needs to
// change.
type Params struct {
	// PopulationSize is the number of incumbent plans carried turn to
	// turn. The search keeps twice this many slots: the incumbents and a
	// scratch mutant for each.
	PopulationSize int
	// AheadBias weights racing ahead over blocking the opponent when
	// rating a simulated world; passed straight through to
	// scorer.RateWeighted.
	AheadBias float64
	// BoostOpeningMinDistance is the distance between the first two
	// checkpoints above which every incumbent's first turn opens with
	// boost.
	BoostOpeningMinDistance float64
}

// DefaultParams mirrors the fixed constants the search this package is
// modeled on used.
func DefaultParams() Params {
	return Params{
		PopulationSize:          6,
		AheadBias:               scorer.DefaultAheadBias,
		BoostOpeningMinDistance: 3000,
	}
}

// Solver holds the population of candidate plans across turns. Zero value
// is not ready to use; call New.
type Solver struct {
	population []plan.Plan
	params     Params
	rng        *plan.RNG
	tr         track.Track
}

// New builds a solver seeded with a freshly randomized, boost-opened
// population for the given track.
func New(tr track.Track, seed uint32, params Params) *Solver {
	s := &Solver{
		population: make([]plan.Plan, 2*params.PopulationSize),
		params:     params,
		rng:        plan.NewRNG(seed),
		tr:         tr,
	}
	s.initPopulation()
	s.firstTurnBoost()
	return s
}

func (s *Solver) incumbents() []plan.Plan {
	return s.population[:s.params.PopulationSize]
}

func (s *Solver) initPopulation() {
	for i := range s.population {
		for t := 0; t < plan.Horizon; t++ {
			for pod := 0; pod < 2; pod++ {
				plan.Randomize(&s.population[i].Turns[t][pod], s.rng)
			}
		}
	}
}

func (s *Solver) firstTurnBoost() {
	if s.tr.CheckpointCount() < 2 {
		return
	}
	minSq := s.params.BoostOpeningMinDistance * s.params.BoostOpeningMinDistance
	d := s.tr.Checkpoint(0).DistanceSq(s.tr.Checkpoint(1))
	if d <= minSq {
		return
	}
	for i := range s.incumbents() {
		s.population[i].Turns[0][0].UseBoost = true
		s.population[i].Turns[0][1].UseBoost = true
	}
}

// Stats reports how much work a Solve call actually did, for telemetry.
// It has no effect on the returned plan.
type Stats struct {
	Iterations int
	Elapsed    time.Duration
	WorstScore int
}

// Solve spends up to budget simulating and mutating the population against
// the live world snapshot, returning the best plan found. The same Solver
// must be reused turn over turn; it carries the previous turn's winning
// plans forward as this turn's starting population.
func (s *Solver) Solve(live physics.World, budget time.Duration) (plan.Plan, Stats) {
	start := time.Now()
	deadline := start.Add(budget)
	n := s.params.PopulationSize

	for i := 0; i < n; i++ {
		shiftByOneTurn(&s.population[i], s.rng)
		s.population[i].Score = s.score(s.population[i], live)
	}
	sortByScoreDescending(s.population[:n])

	var iterations int
	for time.Now().Before(deadline) {
		for i := 0; i < n; i++ {
			mutant := s.population[i]
			mutateOne(&mutant, s.rng)
			mutant.Score = s.score(mutant, live)
			s.population[n+i] = mutant
		}
		sortByScoreDescending(s.population)
		iterations++
	}

	worstIdx := n - 1
	if iterations > 0 {
		worstIdx = len(s.population) - 1
	}
	stats := Stats{
		Iterations: iterations,
		Elapsed:    time.Since(start),
		WorstScore: s.population[worstIdx].Score,
	}
	return s.population[0], stats
}

// victoryScore and defeatScore stand in for the scorer's +Inf/-Inf victory
// verdicts. Converting an infinite float64 to int is implementation-defined
// in Go (not a saturating cast), so the sentinel float values are
// special-cased here rather than trusted to survive the conversion.
const (
	victoryScore = math.MaxInt32
	defeatScore  = math.MinInt32
)

// score clones the live world, plays the plan's moves forward through the
// physics engine, and rates the resulting world from the owning side's
// perspective.
func (s *Solver) score(p plan.Plan, live physics.World) int {
	w := live
	for t := 0; t < plan.Horizon; t++ {
		physics.AdvanceTurn(&w, p.Turns[t], s.tr)
	}
	rated := scorer.RateWeighted(w, s.tr, s.params.AheadBias)
	switch {
	case math.IsInf(rated, 1):
		return victoryScore
	case math.IsInf(rated, -1):
		return defeatScore
	default:
		return int(rated)
	}
}

// shiftByOneTurn drops turn 0 (already played), shifts turns 1..H-1 back by
// one slot, and fills the newly-opened final turn with a fresh random move
// pair; the population ages forward in lockstep with the real match.
func shiftByOneTurn(p *plan.Plan, r *plan.RNG) {
	for t := 1; t < plan.Horizon; t++ {
		p.Turns[t-1] = p.Turns[t]
	}
	last := &p.Turns[plan.Horizon-1]
	for pod := 0; pod < 2; pod++ {
		plan.Randomize(&last[pod], r)
	}
}

// mutateOne perturbs a single randomly chosen (turn, pod) move within the
// plan, leaving the rest untouched.
func mutateOne(p *plan.Plan, r *plan.RNG) {
	slot := r.Intn(0, plan.Horizon*2)
	t, pod := slot/2, slot%2
	plan.Mutate(&p.Turns[t][pod], r)
}

// sortByScoreDescending sorts the full population buffer in place.
// Insertion sort is plenty for a population this small and runs inside the
// tight per-turn time budget without allocating.
func sortByScoreDescending(pop []plan.Plan) {
	for i := 1; i < len(pop); i++ {
		cur := pop[i]
		j := i - 1
		for j >= 0 && pop[j].Score < cur.Score {
			pop[j+1] = pop[j]
			j--
		}
		pop[j+1] = cur
	}
}
