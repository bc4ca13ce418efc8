package surfaceinput

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacyNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(LegacyReference)
	require.NoError(t, err)
	return n
}

func TestNormalizePositionLegacy(t *testing.T) {
	n := legacyNormalizer(t)

	tests := []struct {
		name string
		x, y float64
		want Vector2D
	}{
		{"center", 512, 384, Vector2D{X: 0, Y: 0}},
		{"top left", 0, 0, Vector2D{X: -1, Y: 1}},
		{"bottom right", 1024, 768, Vector2D{X: 1, Y: -1}},
		{"quarter", 256, 192, Vector2D{X: -0.5, Y: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(Contact{X: tt.x, Y: tt.y}, true)
			assert.InDelta(t, tt.want.X, got.Position.X, 1e-12)
			assert.InDelta(t, tt.want.Y, got.Position.Y, 1e-12)
		})
	}
}

func TestNormalizePositionPassthrough(t *testing.T) {
	n := legacyNormalizer(t)

	got := n.Normalize(Contact{ID: 3, X: 731.5, Y: 12.25}, false)
	assert.Equal(t, Vector2D{X: 731.5, Y: 12.25}, got.Position)
	assert.Equal(t, 3, got.ID)
}

func TestNormalizeSizeIgnoresPositionToggle(t *testing.T) {
	n := legacyNormalizer(t)
	c := Contact{Bounds: Size{Width: 1024, Height: 768}}

	for _, normalize := range []bool{true, false} {
		got := n.Normalize(c, normalize)
		assert.Equal(t, Vector2D{X: 1, Y: 1}, got.Size)
	}

	got := n.Normalize(Contact{Bounds: Size{Width: 32, Height: 48}}, true)
	assert.InDelta(t, 0.03125, got.Size.X, 1e-12)
	assert.InDelta(t, 0.0625, got.Size.Y, 1e-12)
}

func TestNormalizeSeparateReferences(t *testing.T) {
	n, err := NewNormalizer(Reference{
		Position: Dimensions{Width: 512, Height: 512},
		Size:     Dimensions{Width: 512, Height: 384},
	})
	require.NoError(t, err)

	got := n.Normalize(Contact{X: 256, Y: 256, Bounds: Size{Width: 512, Height: 384}}, true)
	assert.Equal(t, Vector2D{X: 0, Y: 0}, got.Position)
	assert.Equal(t, Vector2D{X: 1, Y: 1}, got.Size)
}

func TestRotation(t *testing.T) {
	// Zero orientation is the one value that lands on 1, not 0.
	assert.Equal(t, 1.0, Rotation(0))
	assert.InDelta(t, 0.5, Rotation(math.Pi), 1e-12)
	assert.InDelta(t, 0.75, Rotation(math.Pi/2), 1e-12)
	assert.InDelta(t, 0.0, Rotation(2*math.Pi), 1e-12)

	for o := 0.01; o <= 2*math.Pi; o += 0.01 {
		r := Rotation(o)
		assert.GreaterOrEqual(t, r, 0.0)
		assert.Less(t, r, 1.0)
	}
}

func TestRotationIgnoresPositionToggle(t *testing.T) {
	n := legacyNormalizer(t)
	c := Contact{Orientation: math.Pi}

	assert.Equal(t, n.Normalize(c, true).Rotation, n.Normalize(c, false).Rotation)
}

func TestNewNormalizerRejectsZeroReference(t *testing.T) {
	_, err := NewNormalizer(Reference{Position: Dimensions{Width: 1024, Height: 768}})
	assert.Error(t, err)

	_, err = NewNormalizer(Reference{Size: Dimensions{Width: 1024, Height: 768}})
	assert.Error(t, err)
}
