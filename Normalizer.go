package surfaceinput

import (
	"fmt"
	"math"
)

// Dimensions Width and height used as a normalization denominator.
type Dimensions struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Valid reports whether both sides are positive.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// Reference Denominators for position and size normalization. They are
// kept apart so either axis can be tuned without touching the other.
type Reference struct {
	Position Dimensions `yaml:"position"`
	Size     Dimensions `yaml:"size"`
}

// LegacyReference The fixed 1024x768 surface of the contact API: positions
// are divided by half of it, sizes by all of it.
var LegacyReference = Reference{
	Position: Dimensions{Width: 1024, Height: 768},
	Size:     Dimensions{Width: 1024, Height: 768},
}

// Variant Selects where reference dimensions come from.
type Variant string

const (
	// VariantLegacy uses LegacyReference.
	VariantLegacy Variant = "legacy"
	// VariantTouchPoint uses the device's primary surface size.
	VariantTouchPoint Variant = "touchpoint"
)

// Normalizer Maps contacts from device pixels into output space. It is pure
// apart from the reference it was built with.
type Normalizer struct {
	ref Reference
}

// NewNormalizer Builds a normalizer over ref.
func NewNormalizer(ref Reference) (*Normalizer, error) {
	if !ref.Position.Valid() {
		return nil, fmt.Errorf("position reference must be positive, got %vx%v", ref.Position.Width, ref.Position.Height)
	}
	if !ref.Size.Valid() {
		return nil, fmt.Errorf("size reference must be positive, got %vx%v", ref.Size.Width, ref.Size.Height)
	}
	return &Normalizer{ref: ref}, nil
}

// Reference Returns the reference in use.
func (n *Normalizer) Reference() Reference {
	return n.ref
}

// Normalize Maps c. With normalizePosition the position lands in [-1, 1]
// with y pointing up; otherwise it is passed through in pixels. Size and
// rotation are always normalized.
func (n *Normalizer) Normalize(c Contact, normalizePosition bool) NormalizedContact {
	pos := Vector2D{X: c.X, Y: c.Y}
	if normalizePosition {
		pos.X = c.X/(n.ref.Position.Width/2) - 1
		pos.Y = (2 - c.Y/(n.ref.Position.Height/2)) - 1
	}

	return NormalizedContact{
		ID:       c.ID,
		Position: pos,
		Size: Vector2D{
			X: c.Bounds.Width / n.ref.Size.Width,
			Y: c.Bounds.Height / n.ref.Size.Height,
		},
		Rotation: Rotation(c.Orientation),
	}
}

// Rotation Maps a device orientation in radians to 1 - o/2π. An orientation
// of 0 yields exactly 1.
func Rotation(orientation float64) float64 {
	return 1 - orientation/(2*math.Pi)
}
