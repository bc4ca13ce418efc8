package surfaceinput

// Device The hardware capability behind a Target: an open connection to a
// touch surface or its simulator.
//
// GetState must return a snapshot the caller may keep; implementations that
// receive contacts on another goroutine synchronize inside GetState.
type Device interface {
	EnableInput() error
	GetState() (Snapshot, error)
	Close() error
}

// ScreenSizer Implemented by devices that know the pixel size of their
// primary surface.
type ScreenSizer interface {
	ScreenSize() (Dimensions, error)
}

// DeviceOpener Opens a device bound to a native window handle. A zero handle
// requests global capture instead of a window-scoped one.
type DeviceOpener func(handle uintptr) (Device, error)

// SimulatorOpener Returns an opener that always hands out sim.
func SimulatorOpener(sim *Simulator) DeviceOpener {
	return func(uintptr) (Device, error) {
		return sim, nil
	}
}
