package surfaceinput

import "sync/atomic"

// Window A native window the hardware API needs before it can be opened.
// Handle returns 0 until the window is realized.
type Window interface {
	Handle() uintptr
	Close() error
}

// WindowOptions Placement and visibility of the hidden window.
type WindowOptions struct {
	X             int
	Y             int
	Width         int
	Height        int
	Opacity       float64
	ShowInTaskbar bool
}

// DefaultWindowOptions A borderless 512x512 window at the origin that is
// never shown and never listed in the taskbar.
func DefaultWindowOptions() WindowOptions {
	return WindowOptions{
		X:             0,
		Y:             0,
		Width:         512,
		Height:        512,
		Opacity:       0,
		ShowInTaskbar: false,
	}
}

// WindowFactory Creates a native window.
type WindowFactory func(opts WindowOptions) (Window, error)

var headlessHandles atomic.Uintptr

// headlessWindow Stands in for a native window on platforms where the touch
// backend needs none. Its handle is a process-unique token.
type headlessWindow struct {
	handle atomic.Uintptr
}

func newHeadlessWindow(_ WindowOptions) (Window, error) {
	w := &headlessWindow{}
	w.handle.Store(headlessHandles.Add(1))
	return w, nil
}

func (w *headlessWindow) Handle() uintptr {
	return w.handle.Load()
}

func (w *headlessWindow) Close() error {
	w.handle.Store(0)
	return nil
}
