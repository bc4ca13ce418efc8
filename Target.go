package surfaceinput

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"kuldippatel.dev/surfaceinput/internal/log"
)

// TargetState Lifecycle position of a Target.
type TargetState int

const (
	StateUninitialized TargetState = iota
	StateWindowCreated
	StateTargetInitialized
	StateDisposed
)

func (s TargetState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateWindowCreated:
		return "window-created"
	case StateTargetInitialized:
		return "target-initialized"
	case StateDisposed:
		return "disposed"
	}
	return fmt.Sprintf("TargetState(%d)", int(s))
}

// Target Owns the one hidden window and the one device connection shared by
// every node of a host. Nodes hold it through leases; the last released
// lease disposes it. A disposed Target cannot be reopened.
type Target struct {
	mu sync.Mutex

	state      TargetState
	newWindow  WindowFactory
	windowOpts WindowOptions
	openDevice DeviceOpener
	window     Window
	device     Device
	refs       int
	logger     *slog.Logger
}

// TargetOption Configures a Target.
type TargetOption func(*Target)

// WithWindowFactory Replaces the platform hidden-window factory.
func WithWindowFactory(f WindowFactory, opts WindowOptions) TargetOption {
	return func(t *Target) {
		t.newWindow = f
		t.windowOpts = opts
	}
}

// WithDeviceOpener Replaces the platform default device.
func WithDeviceOpener(open DeviceOpener) TargetOption {
	return func(t *Target) {
		t.openDevice = open
	}
}

// WithLogger Sets the logger; defaults to the package logger.
func WithLogger(l *slog.Logger) TargetOption {
	return func(t *Target) {
		t.logger = l
	}
}

// NewTarget Creates an unopened target. Nothing touches the OS until
// EnsureWindow, Initialize or Acquire is called.
func NewTarget(opts ...TargetOption) *Target {
	t := &Target{
		newWindow:  NewHiddenWindow,
		windowOpts: DefaultWindowOptions(),
		openDevice: OpenDefaultDevice,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.With("component", "target")
	}
	return t
}

// State Reports the lifecycle state.
func (t *Target) State() TargetState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Refs Reports the number of live leases.
func (t *Target) Refs() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refs
}

// EnsureWindow Creates the hidden window once. Later calls are no-ops.
func (t *Target) EnsureWindow() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ensureWindowLocked()
}

func (t *Target) ensureWindowLocked() error {
	if t.state == StateDisposed {
		return ErrDisposed
	}
	if t.window != nil {
		return nil
	}

	w, err := t.newWindow(t.windowOpts)
	if err != nil {
		return fmt.Errorf("create hidden window: %w", err)
	}
	t.window = w
	t.state = StateWindowCreated
	t.logger.Debug("hidden window created", "handle", w.Handle())
	return nil
}

// Initialize Opens the device once the window has a valid handle. It
// returns ErrNotReady without side effects while the handle is zero, and is
// a no-op when the device is already open.
func (t *Target) Initialize() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.initializeLocked()
}

func (t *Target) initializeLocked() error {
	if t.state == StateDisposed {
		return ErrDisposed
	}
	if t.window == nil || t.window.Handle() == 0 {
		return ErrNotReady
	}
	if t.device != nil {
		return nil
	}

	// Zero handle: capture contacts globally, not only over our window.
	dev, err := t.openDevice(0)
	if err != nil {
		if errors.Is(err, ErrDeviceUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if err := dev.EnableInput(); err != nil {
		_ = dev.Close()
		return fmt.Errorf("%w: enable input: %v", ErrDeviceUnavailable, err)
	}

	t.device = dev
	t.state = StateTargetInitialized
	t.logger.Info("touch target initialized")
	return nil
}

// Dispose Releases the device and then the window. Safe to call repeatedly;
// only the first call releases anything.
func (t *Target) Dispose() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disposeLocked()
}

func (t *Target) disposeLocked() error {
	if t.state == StateDisposed {
		return nil
	}
	t.state = StateDisposed
	t.refs = 0

	var errs []error
	if t.device != nil {
		if err := t.device.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close device: %w", err))
		}
		t.device = nil
	}
	if t.window != nil {
		if err := t.window.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close window: %w", err))
		}
		t.window = nil
	}
	t.logger.Info("touch target disposed")
	return errors.Join(errs...)
}

// GetState Reads the current contacts. This is the only place host code
// and the hardware layer meet.
func (t *Target) GetState() (Snapshot, error) {
	t.mu.Lock()
	dev := t.device
	state := t.state
	t.mu.Unlock()

	if state == StateDisposed {
		return nil, ErrDisposed
	}
	if dev == nil {
		return nil, ErrNotReady
	}
	return dev.GetState()
}

// ScreenSize Asks the device for its primary surface size.
func (t *Target) ScreenSize() (Dimensions, error) {
	t.mu.Lock()
	dev := t.device
	t.mu.Unlock()

	if dev == nil {
		return Dimensions{}, ErrNotReady
	}
	sizer, ok := dev.(ScreenSizer)
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: device reports no screen size", ErrDeviceUnavailable)
	}
	return sizer.ScreenSize()
}

// Acquire Opens the target if needed and returns a lease on it.
func (t *Target) Acquire() (*Lease, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureWindowLocked(); err != nil {
		return nil, err
	}
	if err := t.initializeLocked(); err != nil {
		if t.refs == 0 {
			t.closeWindowLocked()
		}
		return nil, err
	}
	t.refs++
	t.logger.Debug("lease acquired", "refs", t.refs)
	return &Lease{target: t}, nil
}

// closeWindowLocked Drops a window no lease holds so a later Acquire
// starts over.
func (t *Target) closeWindowLocked() {
	if t.window == nil || t.device != nil {
		return
	}
	if err := t.window.Close(); err != nil {
		t.logger.Warn("close hidden window failed", "err", err)
	}
	t.window = nil
	t.state = StateUninitialized
}

func (t *Target) release() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateDisposed {
		return nil
	}
	t.refs--
	t.logger.Debug("lease released", "refs", t.refs)
	if t.refs > 0 {
		return nil
	}
	return t.disposeLocked()
}

// Lease One owner's share of a Target.
type Lease struct {
	once   sync.Once
	target *Target
}

// Target Returns the leased target.
func (l *Lease) Target() *Target {
	return l.target
}

// Release Gives the share back. Only the first call counts.
func (l *Lease) Release() error {
	var err error
	l.once.Do(func() {
		err = l.target.release()
	})
	return err
}
