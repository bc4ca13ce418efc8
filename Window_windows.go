//go:build windows

package surfaceinput

import (
	"fmt"
	"math"
	"sync"
	"unsafe"

	"github.com/AllenDang/w32"
	"golang.org/x/sys/windows"
)

// Ref: WinUser.h
const (
	wsPopup         = 0x80000000
	wsExToolWindow  = 0x00000080
	wsExLayered     = 0x00080000
	wsExAppWindow   = 0x00040000
	lwaAlpha        = 0x00000002
	staticClassName = "STATIC"
)

var (
	user32DLL                  = windows.NewLazyDLL("user32.dll")
	createWindowEx             = user32DLL.NewProc("CreateWindowExW")
	setLayeredWindowAttributes = user32DLL.NewProc("SetLayeredWindowAttributes")
)

// win32Window A hidden popup window. It must be closed from the OS thread
// that created it, so hosts should call runtime.LockOSThread first.
type win32Window struct {
	mu   sync.Mutex
	hwnd w32.HWND
}

// NewHiddenWindow Creates a borderless popup window that is never shown.
// WS_EX_TOOLWINDOW keeps it out of the taskbar unless opts asks otherwise.
func NewHiddenWindow(opts WindowOptions) (Window, error) {
	className, err := windows.UTF16PtrFromString(staticClassName)
	if err != nil {
		return nil, err
	}
	title, err := windows.UTF16PtrFromString("surfaceinput")
	if err != nil {
		return nil, err
	}

	exStyle := uintptr(wsExLayered)
	if opts.ShowInTaskbar {
		exStyle |= wsExAppWindow
	} else {
		exStyle |= wsExToolWindow
	}

	instance := w32.GetModuleHandle("")
	hwnd, _, callErr := createWindowEx.Call(
		exStyle,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		uintptr(wsPopup),
		uintptr(opts.X),
		uintptr(opts.Y),
		uintptr(opts.Width),
		uintptr(opts.Height),
		0,
		0,
		uintptr(instance),
		0,
	)
	if hwnd == 0 {
		return nil, fmt.Errorf("CreateWindowExW: %w", callErr)
	}

	alpha := uintptr(math.Round(clamp01(opts.Opacity) * 255))
	_, _, _ = setLayeredWindowAttributes.Call(hwnd, 0, alpha, lwaAlpha)
	w32.ShowWindow(w32.HWND(hwnd), w32.SW_HIDE)

	return &win32Window{hwnd: w32.HWND(hwnd)}, nil
}

func (w *win32Window) Handle() uintptr {
	w.mu.Lock()
	defer w.mu.Unlock()
	return uintptr(w.hwnd)
}

func (w *win32Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.hwnd == 0 {
		return nil
	}
	ok := w32.DestroyWindow(w.hwnd)
	w.hwnd = 0
	if !ok {
		return fmt.Errorf("DestroyWindow failed: %d", w32.GetLastError())
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
