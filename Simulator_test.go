package surfaceinput

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatorEmptyUntilEnabled(t *testing.T) {
	sim := NewSimulator(Dimensions{Width: 1024, Height: 768})
	sim.Touch(Contact{ID: 1})

	snap, err := sim.GetState()
	require.NoError(t, err)
	assert.Empty(t, snap)

	require.NoError(t, sim.EnableInput())
	snap, err = sim.GetState()
	require.NoError(t, err)
	assert.Len(t, snap, 1)
}

func TestSimulatorTouchMovesExistingContact(t *testing.T) {
	sim := NewSimulator(Dimensions{Width: 1024, Height: 768})
	require.NoError(t, sim.EnableInput())

	sim.Touch(Contact{ID: 1, X: 1})
	sim.Touch(Contact{ID: 2, X: 2})
	sim.Touch(Contact{ID: 1, X: 10})

	snap, err := sim.GetState()
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, Contact{ID: 1, X: 10}, snap[0])
	assert.Equal(t, Contact{ID: 2, X: 2}, snap[1])

	assert.True(t, sim.Lift(1))
	assert.False(t, sim.Lift(1))
}

func TestSimulatorFailNextIsOneShot(t *testing.T) {
	sim := NewSimulator(Dimensions{Width: 1024, Height: 768})
	require.NoError(t, sim.EnableInput())

	boom := errors.New("boom")
	sim.FailNext(boom)
	_, err := sim.GetState()
	assert.ErrorIs(t, err, boom)

	_, err = sim.GetState()
	assert.NoError(t, err)
}

func TestSimulatorClosed(t *testing.T) {
	sim := NewSimulator(Dimensions{Width: 1024, Height: 768})
	require.NoError(t, sim.Close())

	assert.Error(t, sim.EnableInput())
	_, err := sim.GetState()
	assert.Error(t, err)
}

func TestSimulatorSwipe(t *testing.T) {
	sim := NewSimulator(Dimensions{Width: 1024, Height: 768})
	require.NoError(t, sim.EnableInput())

	var xs []float64
	sim.Swipe(Contact{ID: 3, X: 100, Y: 50}, Vector2D{X: 200, Y: 50}, func() {
		snap, err := sim.GetState()
		require.NoError(t, err)
		require.Len(t, snap, 1)
		xs = append(xs, snap[0].X)
	})

	require.Len(t, xs, 11)
	assert.Equal(t, 100.0, xs[0])
	assert.Equal(t, 200.0, xs[len(xs)-1])
	for i := 1; i < len(xs); i++ {
		assert.Greater(t, xs[i], xs[i-1])
	}

	snap, err := sim.GetState()
	require.NoError(t, err)
	assert.Empty(t, snap)
}
