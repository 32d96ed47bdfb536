package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/podracer/geometry"
)

func sampleCheckpoints() []geometry.Vector {
	return []geometry.Vector{
		{X: 0, Y: 0},
		{X: 10000, Y: 0},
		{X: 10000, Y: 5000},
	}
}

func TestNewDerivesMaxCheckpoints(t *testing.T) {
	tr := New(3, sampleCheckpoints())
	assert.Equal(t, 3, tr.CheckpointCount())
	assert.Equal(t, 9, tr.MaxCheckpoints())
	assert.Equal(t, 3, tr.Laps())
}

func TestCheckpointWrapsModuloCount(t *testing.T) {
	tr := New(2, sampleCheckpoints())
	assert.Equal(t, tr.Checkpoint(0), tr.Checkpoint(3))
	assert.Equal(t, tr.Checkpoint(1), tr.Checkpoint(4))
}

func TestFirstHeadingIsCheckpointOne(t *testing.T) {
	tr := New(1, sampleCheckpoints())
	assert.Equal(t, tr.Checkpoint(1), tr.FirstHeading())
}

func TestNewPanicsOnInvalidInput(t *testing.T) {
	require.Panics(t, func() { New(0, sampleCheckpoints()) })
	require.Panics(t, func() { New(1, []geometry.Vector{{X: 0, Y: 0}}) })
}
