// Package driver wires the protocol, physics, and solver packages into the
// per-turn loop the match host drives: ingest pod states, ask the solver
// for a plan, emit the chosen turn's moves, update bookkeeping.
package driver

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/pthm-cable/podracer/config"
	"github.com/pthm-cable/podracer/geometry"
	"github.com/pthm-cable/podracer/legacy"
	"github.com/pthm-cable/podracer/physics"
	"github.com/pthm-cable/podracer/plan"
	"github.com/pthm-cable/podracer/protocol"
	"github.com/pthm-cable/podracer/racer"
	"github.com/pthm-cable/podracer/solver"
	"github.com/pthm-cable/podracer/telemetry"
	"github.com/pthm-cable/podracer/track"
)

// logWriter is the destination for plain diagnostic text. Defaults to
// discarding output; call SetLogWriter to direct it at a real sink
// (stderr, a file, ...). Never stdout; that stream belongs to the wire
// protocol.
var logWriter io.Writer = io.Discard

// SetLogWriter redirects diagnostic output.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

func logf(format string, args ...interface{}) {
	fmt.Fprintf(logWriter, format+"\n", args...)
}

// Driver runs the match loop: one Run call per process lifetime, one
// internal turn per Reader/Writer round trip. It carries the four pods'
// state forward between turns itself; BoostAvailable, ShieldCooldown,
// and TotalCheckpoints are bookkeeping the host's wire format does not
// fully restate every turn.
type Driver struct {
	cfg    *config.Config
	reader *protocol.Reader
	writer *protocol.Writer
	solve  *solver.Solver
	tr     track.Track
	world  physics.World
	turn   int

	Trace  *telemetry.Collector
	Log    *telemetry.Logger
	Replay *telemetry.ReplayRecorder

	// Fallback, when set, supplies the legacy angle-gated steering rule
	// for the one case the evolutionary search cannot cover: the opening
	// turn's budget expiring before a single improvement round has run,
	// when there is no previous turn's plan worth shifting forward.
	Fallback *legacy.State
}

// New constructs a Driver. The track is read from r's header before any
// per-turn loop can begin, so construction itself can fail on malformed
// input.
func New(cfg *config.Config, r io.Reader, w io.Writer, seed uint32) (*Driver, error) {
	reader := protocol.NewReader(r)
	tr, err := reader.ReadHeader()
	if err != nil {
		return nil, err
	}
	var world physics.World
	for i := range world {
		world[i] = racer.New(geometry.Vector{})
	}
	return &Driver{
		cfg:    cfg,
		reader: reader,
		writer: protocol.NewWriter(w),
		solve:  solver.New(tr, seed, solverParams(cfg)),
		tr:     tr,
		world:  world,
	}, nil
}

// solverParams translates the loaded config's solver section into the
// search's own Params type, keeping the solver package ignorant of the
// config package.
func solverParams(cfg *config.Config) solver.Params {
	return solver.Params{
		PopulationSize:          cfg.Solver.PopulationSize,
		AheadBias:               cfg.Solver.AheadBias,
		BoostOpeningMinDistance: cfg.Solver.BoostOpeningMin,
	}
}

// Run drives turns until the input channel closes or a fatal error
// occurs. It returns nil when the host closes the channel at a turn
// boundary (io.EOF, a clean shutdown), and the fatal error otherwise.
func (d *Driver) Run() error {
	for {
		err := d.step()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (d *Driver) step() error {
	states, err := d.reader.ReadTurn()
	if err != nil {
		return err
	}

	ingest(&d.world, states)
	if d.turn == 0 {
		overrideFirstTurnAngle(&d.world, d.tr)
	}

	budget := time.Duration(d.cfg.EffectiveBudgetMs(d.turn == 0)) * time.Millisecond
	chosen, stats := d.solve.Solve(d.world, budget)
	logf("turn %d: budget=%s iterations=%d elapsed=%s chosen score=%d", d.turn, budget, stats.Iterations, stats.Elapsed, chosen.Score)
	d.recordTrace(budget, stats, chosen)
	d.recordReplayFrame(states, chosen.Turns[0])

	useFallback := d.Fallback != nil && d.turn == 0 && stats.Iterations == 0
	if useFallback {
		logf("turn 0: opening search starved, steering on the legacy rule")
		if err := d.emitFallback(); err != nil {
			return err
		}
	} else if err := d.emit(chosen.Turns[0], d.world); err != nil {
		return err
	}
	if err := d.writer.Flush(); err != nil {
		return err
	}

	if !useFallback {
		applyBookkeeping(chosen.Turns[0], &d.world)
	}
	d.turn++
	return nil
}

// emitFallback steers both own pods with the legacy rule, bypassing the
// plan population entirely. Boost spend is recorded the same way the
// normal bookkeeping path does it.
func (d *Driver) emitFallback() error {
	for i := 0; i < 2; i++ {
		pod := d.world[i]
		cp := d.tr.Checkpoint(pod.NextCheckpoint)
		firstLapOver := pod.TotalCheckpoints >= d.tr.CheckpointCount()
		target, thrust, boost := d.Fallback.Decide(pod.Position, cp, signedAngleTo(pod, cp), firstLapOver, d.world[2].Position)

		power := protocol.Power{Boost: boost && pod.BoostAvailable, Thrust: thrust}
		if err := d.writer.WriteMove(target, power); err != nil {
			return err
		}
		if power.Boost {
			d.world[i].BoostAvailable = false
		}
		physics.ManageShield(&d.world[i], false)
	}
	return nil
}

// signedAngleTo returns the degrees pod must turn to face target, in
// [-180, 180), positive when the target sits to the pod's right.
func signedAngleTo(pod racer.Pod, target geometry.Vector) float64 {
	desired := geometry.AngleDeg(target.Sub(pod.Position))
	return math.Mod(desired-pod.FacingDeg+540, 360) - 180
}

// WriteReplayHeader records the track layout to d.Replay, if set. Callers
// wire Replay in after New returns, so this must be invoked explicitly
// before Run; Run itself never calls it, since a Driver built without
// replay recording must not pay even the header-marshal cost.
func (d *Driver) WriteReplayHeader() error {
	if d.Replay == nil {
		return nil
	}
	cps := make([][2]int, d.tr.CheckpointCount())
	for i := range cps {
		cp := d.tr.Checkpoint(i)
		cps[i] = [2]int{int(cp.X), int(cp.Y)}
	}
	return d.Replay.WriteHeader(telemetry.ReplayHeader{Laps: d.tr.Laps(), Checkpoints: cps})
}

// recordReplayFrame appends one turn's reported pod states and emitted
// moves to the optional Replay recorder.
func (d *Driver) recordReplayFrame(states [4]protocol.PodState, turn plan.Turn) {
	if d.Replay == nil {
		return
	}
	var frame telemetry.ReplayFrame
	frame.Turn = d.turn
	for i, s := range states {
		frame.Pods[i] = telemetry.ReplayPod{
			X:              int(s.Position.X),
			Y:              int(s.Position.Y),
			FacingDeg:      s.FacingDeg,
			NextCheckpoint: s.NextCheckpoint,
			Shield:         d.world[i].ShieldCooldown > 0,
		}
	}
	for i := 0; i < 2; i++ {
		target, power := moveToOutput(d.world[i], turn[i])
		frame.Moves[i] = telemetry.ReplayMove{
			TargetX: int(target.X),
			TargetY: int(target.Y),
			Power:   power.String(),
		}
	}
	if err := d.Replay.WriteFrame(frame); err != nil {
		logf("turn %d: writing replay frame: %v", d.turn, err)
	}
}

// recordTrace feeds one turn's search outcome to the optional Trace
// collector and Log sink. Both are nil-safe: a Driver built without
// telemetry wired in pays nothing beyond this no-op check.
func (d *Driver) recordTrace(budget time.Duration, stats solver.Stats, chosen plan.Plan) {
	if d.Trace == nil && d.Log == nil {
		return
	}
	row := telemetry.TurnTrace{
		Turn:          d.turn,
		BudgetMs:      float64(budget) / float64(time.Millisecond),
		ElapsedMs:     float64(stats.Elapsed) / float64(time.Millisecond),
		Iterations:    stats.Iterations,
		BestScore:     chosen.Score,
		WorstScore:    stats.WorstScore,
		ChosenBoost0:  chosen.Turns[0][0].UseBoost,
		ChosenShield0: chosen.Turns[0][0].UseShield,
		ChosenBoost1:  chosen.Turns[0][1].UseBoost,
		ChosenShield1: chosen.Turns[0][1].UseShield,
	}
	if d.Trace != nil {
		d.Trace.Record(row)
	}
	if stats.Iterations == 0 {
		d.Log.BudgetExceededBeforeFirstIteration(d.turn)
	} else {
		d.Log.TurnCompleted(row)
	}
}

// emit writes both of the owning side's lines for the chosen turn's Move
// pair, in the order the game expects (own 0, then own 1).
func (d *Driver) emit(turn plan.Turn, world physics.World) error {
	for i := 0; i < 2; i++ {
		move := turn[i]
		pod := world[i]
		target, power := moveToOutput(pod, move)
		if err := d.writer.WriteMove(target, power); err != nil {
			return err
		}
	}
	return nil
}

// moveToOutput converts a simulated Move into the wire's target-point
// representation: the effective post-rotation facing, projected 10000
// units out and rounded.
func moveToOutput(pod racer.Pod, move plan.Move) (geometry.Vector, protocol.Power) {
	effectiveAngle := pod.FacingDeg + float64(move.Rotation)
	dir := geometry.FromAngle(effectiveAngle)
	target := pod.Position.Add(dir.Scale(10000))
	target = geometry.Vector{X: roundNearest(target.X), Y: roundNearest(target.Y)}

	power := protocol.Power{Shield: move.UseShield, Boost: move.UseBoost && pod.BoostAvailable, Thrust: move.Thrust}
	return target, power
}

func roundNearest(v float64) float64 {
	if v >= 0 {
		return float64(int(v + 0.5))
	}
	return float64(int(v - 0.5))
}

// applyBookkeeping advances the owning pods' shield cooldown and boost
// availability to reflect the move that was actually emitted, so next
// turn's ingested state lines up with what the host will report back.
func applyBookkeeping(turn plan.Turn, world *physics.World) {
	for i := 0; i < 2; i++ {
		pod := &world[i]
		move := turn[i]
		physics.ManageShield(pod, move.UseShield)
		if pod.ShieldCooldown == 0 && move.UseBoost && pod.BoostAvailable {
			pod.BoostAvailable = false
		}
	}
}

// ingest folds the host's reported per-turn fields into the persistent
// world, via AdvanceCheckpoint so TotalCheckpoints keeps accumulating
// across turns instead of resetting; BoostAvailable and ShieldCooldown
// are left untouched here; they are this side's own bookkeeping, not
// something the host restates.
func ingest(world *physics.World, states [4]protocol.PodState) {
	for i, s := range states {
		pod := &world[i]
		pod.Position = s.Position
		pod.Velocity = s.Velocity
		pod.FacingDeg = float64(s.FacingDeg)
		pod.AdvanceCheckpoint(s.NextCheckpoint)
	}
}

// overrideFirstTurnAngle sets every pod's facing toward the track's
// advertised first-heading checkpoint; the host reports no meaningful
// angle before the first turn's thrust has been applied.
func overrideFirstTurnAngle(world *physics.World, tr track.Track) {
	target := tr.FirstHeading()
	for i := range world {
		dir := target.Sub(world[i].Position)
		world[i].FacingDeg = geometry.AngleDeg(dir)
	}
}
