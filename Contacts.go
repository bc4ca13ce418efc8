package surfaceinput

///----------Contacts-----------///

// Vector2D A pair of coordinates.
type Vector2D struct {
	X float64
	Y float64
}

// Size Width and height of a touch's bounding extent.
type Size struct {
	Width  float64
	Height float64
}

// Contact One active touch as the hardware reports it, in device pixel space.
// ID is stable for the lifetime of a physical touch and unique among the
// contacts of one snapshot. Orientation is in radians, 0 to 2π.
type Contact struct {
	ID          int
	X           float64
	Y           float64
	Bounds      Size
	Orientation float64
}

// Snapshot An ordered point-in-time read of all active contacts.
type Snapshot []Contact

// Clone returns a copy that shares no memory with s.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// NormalizedContact A Contact mapped into output space for one cycle.
type NormalizedContact struct {
	ID       int
	Position Vector2D
	Size     Vector2D
	Rotation float64
}
