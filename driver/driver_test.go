package driver

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/podracer/config"
	"github.com/pthm-cable/podracer/geometry"
	"github.com/pthm-cable/podracer/legacy"
	"github.com/pthm-cable/podracer/physics"
	"github.com/pthm-cable/podracer/plan"
	"github.com/pthm-cable/podracer/protocol"
	"github.com/pthm-cable/podracer/racer"
	"github.com/pthm-cable/podracer/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Timing.TurnBudgetMs = 0
	cfg.Timing.FirstTurnBudgetMs = 0
	return cfg
}

func TestNewReadsHeaderBeforeAnyTurn(t *testing.T) {
	input := "3 2 0 0 5000 0\n"
	d, err := New(testConfig(t), strings.NewReader(input), &bytes.Buffer{}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, d.tr.CheckpointCount())
}

func TestNewPropagatesMalformedHeader(t *testing.T) {
	_, err := New(testConfig(t), strings.NewReader("not-a-number"), &bytes.Buffer{}, 1)
	assert.Error(t, err)
}

func TestStepLogsChosenScoreToTheInjectedWriter(t *testing.T) {
	var logBuf bytes.Buffer
	SetLogWriter(&logBuf)
	t.Cleanup(func() { SetLogWriter(io.Discard) })

	input := "3 2 0 0 5000 0\n" +
		"0 0 0 0 0 1\n" +
		"100 100 0 0 0 1\n" +
		"-5000 -5000 0 0 0 0\n" +
		"-5500 -5000 0 0 0 0\n"
	d, err := New(testConfig(t), strings.NewReader(input), &bytes.Buffer{}, 1)
	require.NoError(t, err)
	require.NoError(t, d.step())

	assert.Contains(t, logBuf.String(), "turn 0")
}

func TestStepEmitsTwoLinesPerTurn(t *testing.T) {
	input := "3 2 0 0 5000 0\n" +
		"0 0 0 0 0 1\n" +
		"100 100 0 0 0 1\n" +
		"-5000 -5000 0 0 0 0\n" +
		"-5500 -5000 0 0 0 0\n"
	var out bytes.Buffer
	d, err := New(testConfig(t), strings.NewReader(input), &out, 1)
	require.NoError(t, err)

	require.NoError(t, d.step())
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
}

func TestRunReturnsNilOnCleanEOF(t *testing.T) {
	input := "3 2 0 0 5000 0\n"
	d, err := New(testConfig(t), strings.NewReader(input), &bytes.Buffer{}, 1)
	require.NoError(t, err)
	assert.NoError(t, d.Run())
}

func TestMoveToOutputProjectsTenThousandUnitsAlongEffectiveAngle(t *testing.T) {
	pod := racer.New(geometry.Vector{X: 1000, Y: 1000})
	pod.FacingDeg = 0
	move := plan.Move{Rotation: 18, Thrust: 50}

	target, power := moveToOutput(pod, move)
	assert.InDelta(t, 10511, target.X, 1)
	assert.InDelta(t, 4090, target.Y, 1)
	assert.Equal(t, "50", power.String())
}

func TestApplyBookkeepingLocksShieldAndSpendsBoost(t *testing.T) {
	var world physics.World
	world[0] = racer.New(geometry.Vector{})
	world[1] = racer.New(geometry.Vector{})

	turn := plan.Turn{{UseShield: true}, {UseBoost: true}}
	applyBookkeeping(turn, &world)

	assert.Equal(t, racer.ShieldLockTurns, world[0].ShieldCooldown)
	assert.False(t, world[1].BoostAvailable)
}

func TestIngestCopiesProtocolFieldsAndAccumulatesCheckpoints(t *testing.T) {
	var w physics.World
	for i := range w {
		w[i] = racer.New(geometry.Vector{})
	}
	w[0].NextCheckpoint = 1

	states := [4]protocol.PodState{
		{Position: geometry.Vector{X: 1, Y: 2}, Velocity: geometry.Vector{X: 3, Y: 4}, FacingDeg: 90, NextCheckpoint: 2},
	}
	ingest(&w, states)

	assert.Equal(t, geometry.Vector{X: 1, Y: 2}, w[0].Position)
	assert.Equal(t, geometry.Vector{X: 3, Y: 4}, w[0].Velocity)
	assert.Equal(t, 90.0, w[0].FacingDeg)
	assert.Equal(t, 2, w[0].NextCheckpoint)
	assert.Equal(t, 1, w[0].TotalCheckpoints)
}

func TestReplayRecordingWritesHeaderAndOneFramePerStep(t *testing.T) {
	input := "3 2 0 0 5000 0\n" +
		"0 0 0 0 0 1\n" +
		"100 100 0 0 0 1\n" +
		"-5000 -5000 0 0 0 0\n" +
		"-5500 -5000 0 0 0 0\n"
	d, err := New(testConfig(t), strings.NewReader(input), &bytes.Buffer{}, 1)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "match.jsonl")
	rec, err := telemetry.NewReplayRecorder(path)
	require.NoError(t, err)
	d.Replay = rec
	require.NoError(t, d.WriteReplayHeader())
	require.NoError(t, d.step())
	require.NoError(t, rec.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"laps":3`)
	assert.Contains(t, lines[1], `"turn":0`)
}

func TestSignedAngleToIsPositiveWhenTargetIsRightOfFacing(t *testing.T) {
	pod := racer.New(geometry.Vector{X: 0, Y: 0})
	pod.FacingDeg = 0

	// Straight ahead.
	assert.InDelta(t, 0, signedAngleTo(pod, geometry.Vector{X: 1000, Y: 0}), 1e-6)
	// Below the facing line in screen coordinates: a right turn.
	assert.InDelta(t, 90, signedAngleTo(pod, geometry.Vector{X: 0, Y: 1000}), 1e-6)
	// Above it: a left turn.
	assert.InDelta(t, -90, signedAngleTo(pod, geometry.Vector{X: 0, Y: -1000}), 1e-6)
}

func TestEmitFallbackWritesTwoLegacySteeredLines(t *testing.T) {
	input := "3 2 0 0 5000 0\n"
	var out bytes.Buffer
	d, err := New(testConfig(t), strings.NewReader(input), &out, 1)
	require.NoError(t, err)
	d.Fallback = &legacy.State{}

	for i := range d.world {
		d.world[i] = racer.New(geometry.Vector{X: float64(-1000 * i), Y: 0})
	}
	d.world[0].NextCheckpoint = 1
	d.world[1].NextCheckpoint = 1

	require.NoError(t, d.emitFallback())
	require.NoError(t, d.writer.Flush())

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	// Pod 0 faces its checkpoint dead-on and far away: full thrust.
	assert.Equal(t, "5000 0 100 100", lines[0])
}

func TestIngestPreservesBoostAndShieldAcrossTurns(t *testing.T) {
	var w physics.World
	for i := range w {
		w[i] = racer.New(geometry.Vector{})
	}
	w[0].BoostAvailable = false
	w[0].ShieldCooldown = 2

	var states [4]protocol.PodState
	ingest(&w, states)

	assert.False(t, w[0].BoostAvailable)
	assert.Equal(t, 2, w[0].ShieldCooldown)
}
