package protocol

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/podracer/geometry"
)

func TestReadHeaderParsesLapsAndCheckpoints(t *testing.T) {
	r := NewReader(strings.NewReader("3 2 0 0 5000 0"))
	tr, err := r.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Laps())
	assert.Equal(t, 2, tr.CheckpointCount())
	assert.Equal(t, geometry.Vector{X: 5000, Y: 0}, tr.Checkpoint(1))
}

func TestReadHeaderRejectsTooFewCheckpoints(t *testing.T) {
	r := NewReader(strings.NewReader("1 1 0 0"))
	_, err := r.ReadHeader()
	assert.Error(t, err)
}

func TestReadHeaderWrapsNonNumericToken(t *testing.T) {
	r := NewReader(strings.NewReader("abc"))
	_, err := r.ReadHeader()
	assert.ErrorContains(t, err, "input-malformed")
}

func TestReadHeaderReportsEndOfInput(t *testing.T) {
	r := NewReader(strings.NewReader("1"))
	_, err := r.ReadHeader()
	assert.ErrorContains(t, err, "input-malformed")
}

func TestReadTurnParsesFourPodLines(t *testing.T) {
	input := "0 0 10 0 45 1\n" +
		"100 100 0 0 90 2\n" +
		"-5000 -5000 0 0 0 0\n" +
		"-6000 -5000 0 0 0 0\n"
	r := NewReader(strings.NewReader(input))
	states, err := r.ReadTurn()
	require.NoError(t, err)

	assert.Equal(t, geometry.Vector{X: 0, Y: 0}, states[0].Position)
	assert.Equal(t, geometry.Vector{X: 10, Y: 0}, states[0].Velocity)
	assert.Equal(t, 45, states[0].FacingDeg)
	assert.Equal(t, 1, states[0].NextCheckpoint)
	assert.Equal(t, 2, states[1].NextCheckpoint)
}

func TestReadTurnReportsCleanEOFAtTurnBoundary(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, err := r.ReadTurn()
	assert.Equal(t, io.EOF, err)
}

func TestReadTurnReportsMalformedOnPartialTurn(t *testing.T) {
	r := NewReader(strings.NewReader("0 0 0"))
	_, err := r.ReadTurn()
	assert.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
	assert.ErrorContains(t, err, "input-malformed")
}

func TestPowerStringPrefersShieldThenBoostThenThrust(t *testing.T) {
	assert.Equal(t, "SHIELD", Power{Shield: true, Boost: true, Thrust: 50}.String())
	assert.Equal(t, "BOOST", Power{Boost: true, Thrust: 50}.String())
	assert.Equal(t, "50", Power{Thrust: 50}.String())
}

func TestWriteMoveFormatsTargetAndRepeatsPower(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteMove(geometry.Vector{X: 1000, Y: -500}, Power{Thrust: 75}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "1000 -500 75 75\n", buf.String())
}

func TestHeaderAndTurnRoundTripThroughReaderAndWriter(t *testing.T) {
	input := "3 2 0 0 5000 0\n" +
		"0 0 0 0 0 1\n" +
		"1 1 0 0 0 1\n" +
		"2 2 0 0 0 1\n" +
		"3 3 0 0 0 1\n"
	r := NewReader(strings.NewReader(input))
	tr, err := r.ReadHeader()
	require.NoError(t, err)
	states, err := r.ReadTurn()
	require.NoError(t, err)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, s := range states[:2] {
		require.NoError(t, w.WriteMove(s.Position, Power{Thrust: 0}))
	}
	require.NoError(t, w.Flush())

	assert.Equal(t, 2, tr.CheckpointCount())
	assert.Equal(t, "0 0 0 0\n1 1 0 0\n", buf.String())
}
