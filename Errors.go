package surfaceinput

import "errors"

var (
	// ErrNotReady is returned when the target is initialized before a native
	// window with a valid handle exists.
	ErrNotReady = errors.New("surfaceinput: native window not ready")

	// ErrDeviceUnavailable is returned when no touch hardware or simulator
	// can be opened.
	ErrDeviceUnavailable = errors.New("surfaceinput: touch device unavailable")

	// ErrDisposed is returned by lifecycle calls on a disposed target.
	ErrDisposed = errors.New("surfaceinput: target disposed")

	// ErrPollFailed wraps a hardware failure during a single cycle.
	ErrPollFailed = errors.New("surfaceinput: contact poll failed")
)
