//go:build !linux

package surfaceinput

import (
	"fmt"
	"runtime"
)

// OpenDefaultDevice Has no hardware backend on this platform.
func OpenDefaultDevice(uintptr) (Device, error) {
	return nil, fmt.Errorf("%w: no touch backend for %s", ErrDeviceUnavailable, runtime.GOOS)
}

// EvdevOpener Has no hardware backend on this platform.
func EvdevOpener(string) DeviceOpener {
	return OpenDefaultDevice
}
