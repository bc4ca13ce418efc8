package surfaceinput

import "math"

///----------Touch Contacts-----------///

// TouchContactB One multitouch protocol B slot.
type TouchContactB struct {
	TouchMajor  int32
	TouchMinor  int32
	WidthMajor  int32
	WidthMinor  int32
	Orientation int32
	PositionX   int32
	PositionY   int32
	TrackingId  int32

	Active bool
}

func (c *TouchContactB) reset() {
	*c = TouchContactB{TrackingId: -1}
}

// apply Stores one ABS_MT value. A lift keeps the last axis values, since the
// kernel does not repeat unchanged ones for the next touch in the slot.
func (c *TouchContactB) apply(code uint16, value int32) {
	switch code {
	case absMtTrackingId:
		c.TrackingId = value
		c.Active = value != -1
	case absMtPositionX:
		c.PositionX = value
	case absMtPositionY:
		c.PositionY = value
	case absMtTouchMajor:
		c.TouchMajor = value
	case absMtTouchMinor:
		c.TouchMinor = value
	case absMtWidthMajor:
		c.WidthMajor = value
	case absMtWidthMinor:
		c.WidthMinor = value
	case absMtOrientation:
		c.Orientation = value
	}
}

// AxisRange Minimum and maximum of an absolute axis as the kernel reports it.
type AxisRange struct {
	Min int32
	Max int32
}

// Span Returns the number of distinct values on the axis.
func (r AxisRange) Span() int32 {
	return r.Max - r.Min + 1
}

// SlotSyncer Reads the kernel's current multitouch state, used to recover
// after the event buffer overran.
type SlotSyncer interface {
	// SlotValues Fills values with code's value for every slot.
	SlotValues(code uint16, values []int32) error
	// CurrentSlot Returns the slot later events apply to.
	CurrentSlot() (int32, error)
}

// Per-slot codes restored after SYN_DROPPED, tracking id first.
var resyncCodes = []uint16{
	absMtTrackingId,
	absMtPositionX,
	absMtPositionY,
	absMtTouchMajor,
	absMtTouchMinor,
	absMtWidthMajor,
	absMtWidthMinor,
	absMtOrientation,
}

// SlotTracker Rebuilds the set of active contacts from a protocol B event
// stream. Events accumulate into slots; a SYN_REPORT commits them as the
// current snapshot. It does no locking of its own.
type SlotTracker struct {
	contacts       []TouchContactB
	currSlot       int32
	xRange         AxisRange
	yRange         AxisRange
	orientationMax int32
	dropped        bool
	syncer         SlotSyncer

	committed Snapshot
	frames    uint64
}

// NewSlotTracker Tracks slots contacts with positions reported relative to
// x and y. orientationMax is the ABS_MT_ORIENTATION maximum, or 0 when the
// device does not report orientation.
func NewSlotTracker(slots int32, x, y AxisRange, orientationMax int32) *SlotTracker {
	t := &SlotTracker{
		contacts:       make([]TouchContactB, slots),
		xRange:         x,
		yRange:         y,
		orientationMax: orientationMax,
		committed:      Snapshot{},
	}
	for idx := range t.contacts {
		t.contacts[idx].reset()
	}
	return t
}

// SetSyncer Lets the tracker query s for the real slot state when the
// kernel drops events. Without one, a dropped frame is discarded and slots
// keep their last values.
func (t *SlotTracker) SetSyncer(s SlotSyncer) {
	t.syncer = s
}

// Handle Feeds one input event. It reports whether the event committed a
// new snapshot.
func (t *SlotTracker) Handle(typ, code uint16, value int32) bool {
	if typ == evSyn {
		switch code {
		case synDropped:
			// Kernel buffer overran; what follows until the next report is partial.
			t.dropped = true
		case synReport:
			if t.dropped {
				t.dropped = false
				if !t.resync() {
					return false
				}
			}
			t.commit()
			return true
		}
		return false
	}
	if t.dropped || typ != evAbs {
		return false
	}

	if code == absMtSlot {
		t.currSlot = value
		return false
	}
	if t.currSlot < 0 || int(t.currSlot) >= len(t.contacts) {
		return false
	}

	t.contacts[t.currSlot].apply(code, value)
	return false
}

// resync Overwrites every slot with the kernel's view, like libevdev does
// after SYN_DROPPED. It reports whether the slots are trustworthy again.
func (t *SlotTracker) resync() bool {
	if t.syncer == nil {
		return false
	}

	values := make([]int32, len(t.contacts))
	for _, code := range resyncCodes {
		if err := t.syncer.SlotValues(code, values); err != nil {
			if code == absMtTrackingId {
				return false
			}
			// Axis the device does not report.
			continue
		}
		for idx := range t.contacts {
			t.contacts[idx].apply(code, values[idx])
		}
	}

	if slot, err := t.syncer.CurrentSlot(); err == nil {
		t.currSlot = slot
	}
	return true
}

func (t *SlotTracker) commit() {
	snap := make(Snapshot, 0, len(t.contacts))
	for _, c := range t.contacts {
		if !c.Active {
			continue
		}
		snap = append(snap, t.toContact(c))
	}
	t.committed = snap
	t.frames++
}

func (t *SlotTracker) toContact(c TouchContactB) Contact {
	major, minor := c.TouchMajor, c.TouchMinor
	if major <= 0 {
		major, minor = c.WidthMajor, c.WidthMinor
	}
	if minor <= 0 {
		minor = major
	}

	// Orientation 0 means the major axis points north.
	return Contact{
		ID: int(c.TrackingId),
		X:  float64(c.PositionX - t.xRange.Min),
		Y:  float64(c.PositionY - t.yRange.Min),
		Bounds: Size{
			Width:  float64(minor),
			Height: float64(major),
		},
		Orientation: t.orientationRadians(c.Orientation),
	}
}

// orientationRadians Converts a signed quarter-revolution value into
// radians in [0, 2π).
func (t *SlotTracker) orientationRadians(v int32) float64 {
	if t.orientationMax <= 0 {
		return 0
	}
	return normalizeAngle(float64(v) / float64(t.orientationMax) * math.Pi / 2)
}

// Snapshot Returns the last committed contacts.
func (t *SlotTracker) Snapshot() Snapshot {
	return t.committed.Clone()
}

// Frames Returns how many snapshots have been committed.
func (t *SlotTracker) Frames() uint64 {
	return t.frames
}

// Surface Returns the touch area in device pixels.
func (t *SlotTracker) Surface() Dimensions {
	return Dimensions{
		Width:  float64(t.xRange.Span()),
		Height: float64(t.yRange.Span()),
	}
}
