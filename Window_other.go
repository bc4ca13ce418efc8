//go:build !windows

package surfaceinput

// NewHiddenWindow Returns a headless window. Evdev capture is global and
// needs no native window, so only the handle is provided.
func NewHiddenWindow(opts WindowOptions) (Window, error) {
	return newHeadlessWindow(opts)
}
