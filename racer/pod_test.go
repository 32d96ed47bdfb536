package racer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/podracer/geometry"
)

func TestNewPodStartsWithBoostAvailable(t *testing.T) {
	p := New(geometry.Vector{X: 1, Y: 2})
	assert.True(t, p.BoostAvailable)
	assert.Equal(t, 0, p.TotalCheckpoints)
	assert.Equal(t, 0, p.ShieldCooldown)
}

func TestMassReflectsShieldCooldown(t *testing.T) {
	p := New(geometry.Vector{})
	assert.Equal(t, float64(1), p.Mass())

	p.ShieldCooldown = ShieldLockTurns
	assert.Equal(t, float64(10), p.Mass())

	p.ShieldCooldown = ShieldLockTurns - 1
	assert.Equal(t, float64(1), p.Mass())
}

func TestAdvanceCheckpointIncrementsOnChange(t *testing.T) {
	p := New(geometry.Vector{})
	p.AdvanceCheckpoint(0)
	assert.Equal(t, 0, p.TotalCheckpoints)

	p.AdvanceCheckpoint(1)
	assert.Equal(t, 1, p.TotalCheckpoints)
	assert.Equal(t, 1, p.NextCheckpoint)

	p.AdvanceCheckpoint(1)
	assert.Equal(t, 1, p.TotalCheckpoints, "no change, no increment")
}

func TestCloneIsIndependentValue(t *testing.T) {
	p := New(geometry.Vector{X: 5, Y: 5})
	c := p.Clone()
	c.Position.X = 100
	assert.Equal(t, float64(5), p.Position.X)
}
