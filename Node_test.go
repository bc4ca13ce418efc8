package surfaceinput

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuldippatel.dev/surfaceinput/internal/log"
)

var on = Inputs{Enable: true, NormalizeValues: true}

func newTestNode(t *testing.T, cfg Config) (*Node, *Simulator, *Target) {
	t.Helper()
	target, _, devices := newTestTarget(42)
	node, err := NewNode(target, cfg, WithNodeLogger(log.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = node.Close() })
	return node, devices.sim, target
}

func assertAligned(t *testing.T, frame Frame, n int) {
	t.Helper()
	assert.Len(t, frame.IDs, n)
	assert.Len(t, frame.Positions, n)
	assert.Len(t, frame.Sizes, n)
	assert.Len(t, frame.Rotations, n)
}

func TestEvaluateProjectsContacts(t *testing.T) {
	node, sim, _ := newTestNode(t, DefaultConfig())

	sim.Touch(Contact{ID: 4, X: 512, Y: 384, Bounds: Size{Width: 1024, Height: 768}})
	sim.Touch(Contact{ID: 9, X: 0, Y: 0, Orientation: math.Pi})

	require.NoError(t, node.Evaluate(on))
	frame := node.Frame()
	assertAligned(t, frame, 2)

	assert.Equal(t, []int{4, 9}, frame.IDs)
	assert.Equal(t, Vector2D{X: 0, Y: 0}, frame.Positions[0])
	assert.Equal(t, Vector2D{X: 1, Y: 1}, frame.Sizes[0])
	assert.Equal(t, 1.0, frame.Rotations[0])
	assert.Equal(t, Vector2D{X: -1, Y: 1}, frame.Positions[1])
	assert.InDelta(t, 0.5, frame.Rotations[1], 1e-12)

	contacts := node.Contacts()
	require.Len(t, contacts, 2)
	assert.Equal(t, 9, contacts[1].ID)
	assert.Equal(t, frame.Positions[1], contacts[1].Position)
}

func TestEvaluateResizesEveryCycle(t *testing.T) {
	node, sim, _ := newTestNode(t, DefaultConfig())

	for id := 1; id <= 5; id++ {
		sim.Touch(Contact{ID: id, X: float64(id * 10), Y: 5})
	}
	require.NoError(t, node.Evaluate(on))
	assertAligned(t, node.Frame(), 5)

	sim.Lift(2)
	sim.Lift(4)
	require.NoError(t, node.Evaluate(on))
	frame := node.Frame()
	assertAligned(t, frame, 3)
	assert.Equal(t, []int{1, 3, 5}, frame.IDs)

	sim.Clear()
	require.NoError(t, node.Evaluate(on))
	assertAligned(t, node.Frame(), 0)
}

func TestEvaluateDisabledKeepsLastFrame(t *testing.T) {
	node, sim, _ := newTestNode(t, DefaultConfig())

	sim.Touch(Contact{ID: 1, X: 100, Y: 200, Bounds: Size{Width: 10, Height: 20}, Orientation: 1})
	require.NoError(t, node.Evaluate(on))
	before := node.Frame()

	sim.Clear()
	sim.Touch(Contact{ID: 2, X: 900, Y: 20})
	require.NoError(t, node.Evaluate(Inputs{Enable: false, NormalizeValues: true}))
	require.NoError(t, node.Evaluate(Inputs{Enable: false, NormalizeValues: false}))

	assert.Equal(t, before, node.Frame())

	require.NoError(t, node.Evaluate(on))
	assert.Equal(t, []int{2}, node.Frame().IDs)
}

func TestEvaluateRawPositions(t *testing.T) {
	node, sim, _ := newTestNode(t, DefaultConfig())

	sim.Touch(Contact{ID: 1, X: 333, Y: 444, Bounds: Size{Width: 512, Height: 384}})
	require.NoError(t, node.Evaluate(Inputs{Enable: true, NormalizeValues: false}))

	frame := node.Frame()
	assert.Equal(t, Vector2D{X: 333, Y: 444}, frame.Positions[0])
	assert.Equal(t, Vector2D{X: 0.5, Y: 0.5}, frame.Sizes[0])
}

func TestEvaluatePollFailureKeepsLastFrame(t *testing.T) {
	node, sim, _ := newTestNode(t, DefaultConfig())

	sim.Touch(Contact{ID: 1, X: 1, Y: 1})
	require.NoError(t, node.Evaluate(on))
	before := node.Frame()

	sim.FailNext(errors.New("usb reset"))
	err := node.Evaluate(on)
	assert.ErrorIs(t, err, ErrPollFailed)
	assert.Equal(t, before, node.Frame())

	require.NoError(t, node.Evaluate(on))
}

func TestFrameIsACopy(t *testing.T) {
	node, sim, _ := newTestNode(t, DefaultConfig())

	sim.Touch(Contact{ID: 1, X: 512, Y: 384})
	require.NoError(t, node.Evaluate(on))

	frame := node.Frame()
	frame.IDs[0] = 99
	frame.Positions[0].X = 99

	assert.Equal(t, []int{1}, node.Frame().IDs)
	assert.Equal(t, 0.0, node.Frame().Positions[0].X)
}

func TestTouchPointVariantUsesSurfaceSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = VariantTouchPoint
	node, sim, _ := newTestNode(t, cfg)

	sim.Touch(Contact{ID: 1, X: 960, Y: 540, Bounds: Size{Width: 192, Height: 108}})
	require.NoError(t, node.Evaluate(on))

	frame := node.Frame()
	assert.Equal(t, Vector2D{X: 0, Y: 0}, frame.Positions[0])
	assert.InDelta(t, 0.1, frame.Sizes[0].X, 1e-12)
	assert.InDelta(t, 0.1, frame.Sizes[0].Y, 1e-12)
}

func TestTouchPointReferenceIsCapturedOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = VariantTouchPoint
	node, sim, _ := newTestNode(t, cfg)

	sim.SetScreenSize(Dimensions{Width: 1000, Height: 1000})
	sim.Touch(Contact{ID: 1, X: 960, Y: 540})
	require.NoError(t, node.Evaluate(on))

	assert.Equal(t, Vector2D{X: 0, Y: 0}, node.Frame().Positions[0])
}

func TestTouchPointRefreshReference(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = VariantTouchPoint
	cfg.RefreshReference = true
	node, sim, _ := newTestNode(t, cfg)

	sim.SetScreenSize(Dimensions{Width: 1000, Height: 1000})
	sim.Touch(Contact{ID: 1, X: 500, Y: 500, Bounds: Size{Width: 100, Height: 100}})
	require.NoError(t, node.Evaluate(on))

	frame := node.Frame()
	assert.Equal(t, Vector2D{X: 0, Y: 0}, frame.Positions[0])
	assert.InDelta(t, 0.1, frame.Sizes[0].X, 1e-12)
}

func TestConfiguredReferenceOverridesVariant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Reference = &Reference{
		Position: Dimensions{Width: 512, Height: 512},
		Size:     Dimensions{Width: 512, Height: 384},
	}
	node, sim, _ := newTestNode(t, cfg)

	sim.Touch(Contact{ID: 1, X: 256, Y: 256, Bounds: Size{Width: 256, Height: 192}})
	require.NoError(t, node.Evaluate(on))

	frame := node.Frame()
	assert.Equal(t, Vector2D{X: 0, Y: 0}, frame.Positions[0])
	assert.Equal(t, Vector2D{X: 0.5, Y: 0.5}, frame.Sizes[0])
}

func TestNodesShareTarget(t *testing.T) {
	target, _, devices := newTestTarget(42)

	a, err := NewNode(target, DefaultConfig(), WithNodeLogger(log.Discard()))
	require.NoError(t, err)
	b, err := NewNode(target, DefaultConfig(), WithNodeLogger(log.Discard()))
	require.NoError(t, err)
	assert.Len(t, devices.handles, 1)

	devices.sim.Touch(Contact{ID: 1, X: 512, Y: 384})

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
	assert.ErrorIs(t, a.Evaluate(on), ErrDisposed)

	require.NoError(t, b.Evaluate(on))
	assert.Equal(t, []int{1}, b.Frame().IDs)

	require.NoError(t, b.Close())
	assert.Equal(t, StateDisposed, target.State())
}

func TestNewNodeFailsWithoutDevice(t *testing.T) {
	target, windows, devices := newTestTarget(42)
	devices.err = errors.New("simulator not running")

	_, err := NewNode(target, DefaultConfig(), WithNodeLogger(log.Discard()))
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
	assert.Zero(t, target.Refs())
	assert.Equal(t, StateUninitialized, target.State())
	require.Len(t, windows.created, 1)
	assert.Equal(t, 1, windows.created[0].closes)
}

func TestNewNodeRejectsInvalidConfig(t *testing.T) {
	target, _, devices := newTestTarget(42)
	cfg := DefaultConfig()
	cfg.Variant = "hologram"

	_, err := NewNode(target, cfg, WithNodeLogger(log.Discard()))
	assert.Error(t, err)
	assert.Empty(t, devices.handles)
}
