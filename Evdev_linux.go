package surfaceinput

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"kuldippatel.dev/surfaceinput/internal/log"
)

// InputEvent Ref: struct input_event.
type InputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// InputDevice A Linux multitouch input device
type InputDevice struct {
	Name           string
	Path           string
	Slots          int32
	XRange         AxisRange
	YRange         AxisRange
	OrientationMax int32
	AbsInfos       map[int]AbsInfo
	IID            InputID
	File           *os.File
}

// Syscall
func ioctl(fd uintptr, name int, data uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(name), data)
	if errno != 0 {
		return errno
	}
	return nil
}

// Fetch direct-touch multitouch devices
func getInputDevices() ([]*InputDevice, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, err
	}

	var ids []*InputDevice
	for _, path := range paths {
		id, err := openInputDevice(path)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no multitouch device under /dev/input", ErrDeviceUnavailable)
	}
	return ids, nil
}

// Open path and check that it speaks multitouch protocol B on a direct
// (screen-like) surface.
func openInputDevice(path string) (*InputDevice, error) {
	if !isCharDevice(path) {
		return nil, fmt.Errorf("%s: not a character device", path)
	}

	// Probe on the raw descriptor: os.File.Fd would switch it to blocking
	// mode and Close could then no longer interrupt a pending read.
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}

	id, err := probeInputDevice(uintptr(fd))
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	id.Path = path
	id.File = os.NewFile(uintptr(fd), path)
	return id, nil
}

func probeInputDevice(fd uintptr) (*InputDevice, error) {
	// Read Abs data
	absBits := make([]byte, absCnt/8)
	if err := ioctl(fd, EVIOCGBIT(evAbs, len(absBits)), uintptr(unsafe.Pointer(&absBits[0]))); err != nil {
		return nil, err
	}

	// Read Prop data
	propBits := make([]byte, inputPropCnt/8)
	if err := ioctl(fd, EVIOCGPROP(), uintptr(unsafe.Pointer(&propBits[0]))); err != nil {
		return nil, err
	}

	// Read Key data
	keyBits := make([]byte, keyCnt/8)
	if err := ioctl(fd, EVIOCGBIT(evKey, len(keyBits)), uintptr(unsafe.Pointer(&keyBits[0]))); err != nil {
		return nil, err
	}

	// Devices with ABS_MT_SLOT - 1 aren't MT devices, libevdev:libevdev.c#L319
	if hasBit(absBits, absMtSlot-1) ||
		!hasBit(absBits, absMtSlot) ||
		!hasBit(absBits, absMtTrackingId) ||
		!hasBit(absBits, absMtPositionX) ||
		!hasBit(absBits, absMtPositionY) ||
		!hasBit(propBits, inputPropDirect) ||
		!hasBit(keyBits, btnTouch) {
		return nil, errors.New("not a direct multitouch device")
	}

	id := &InputDevice{
		AbsInfos: make(map[int]AbsInfo),
	}

	// Read all AbsInfos
	for i := 0; i <= absMax; i++ {
		if !hasBit(absBits, i) {
			continue
		}

		absInfo, err := getAbsInfo(fd, i)
		if err != nil {
			continue
		}

		switch i {
		case absMtSlot:
			id.Slots = absInfo.Maximum + 1
		case absMtPositionX:
			id.XRange = AxisRange{Min: absInfo.Minimum, Max: absInfo.Maximum}
		case absMtPositionY:
			id.YRange = AxisRange{Min: absInfo.Minimum, Max: absInfo.Maximum}
		case absMtOrientation:
			id.OrientationMax = absInfo.Maximum
		}
		id.AbsInfos[i] = absInfo
	}
	if id.Slots <= 0 {
		return nil, errors.New("device reports no slots")
	}

	iid, err := getInputID(fd)
	if err != nil {
		return nil, err
	}
	id.IID = iid
	id.Name = getDeviceName(fd)
	return id, nil
}

// Determine if a path exist and is a character input device.
func isCharDevice(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// Read Input Device's ABS Data
func getAbsInfo(fd uintptr, key int) (AbsInfo, error) {
	absData := AbsInfo{}

	err := ioctl(fd, EVIOCGABS(key), uintptr(unsafe.Pointer(&absData)))
	if err != nil {
		return AbsInfo{}, err
	}

	return absData, nil
}

// Read Input Device's InputID
func getInputID(fd uintptr) (InputID, error) {
	inputID := InputID{}

	err := ioctl(fd, EVIOCGID(), uintptr(unsafe.Pointer(&inputID)))
	if err != nil {
		return InputID{}, err
	}

	return inputID, nil
}

// Read Event's Device Name
func getDeviceName(fd uintptr) string {
	name := new([uinputMaxNameSize]byte)

	err := ioctl(fd, EVIOCGNAME(), uintptr(unsafe.Pointer(name)))
	if err != nil {
		return "Default"
	}

	idx := bytes.IndexByte(name[:], 0)
	if idx < 0 {
		idx = len(name)
	}
	return string(name[:idx])
}

// Read every slot's value of an ABS_MT code, Ref: struct input_mt_request_layout
func getMtSlotValues(fd uintptr, code uint16, values []int32) error {
	request := make([]int32, len(values)+1)
	request[0] = int32(code)

	err := ioctl(fd, EVIOCGMTSLOTS(len(request)*4), uintptr(unsafe.Pointer(&request[0])))
	if err != nil {
		return err
	}

	copy(values, request[1:])
	return nil
}

// Read Input Event from Input Device
func readInputEvent(f *os.File) (InputEvent, error) {
	event := InputEvent{}
	err := binary.Read(f, binary.LittleEndian, &event)
	return event, err
}

///----------Evdev Device-----------///

// mtSlotReader Queries the kernel's slot state for a SlotTracker resync.
// SyscallConn keeps the descriptor non-blocking.
type mtSlotReader struct {
	dev *InputDevice
}

func (r mtSlotReader) control(fn func(fd uintptr) error) error {
	conn, err := r.dev.File.SyscallConn()
	if err != nil {
		return err
	}
	var opErr error
	if err := conn.Control(func(fd uintptr) { opErr = fn(fd) }); err != nil {
		return err
	}
	return opErr
}

func (r mtSlotReader) SlotValues(code uint16, values []int32) error {
	if _, ok := r.dev.AbsInfos[int(code)]; !ok {
		return fmt.Errorf("axis %#x not reported", code)
	}
	return r.control(func(fd uintptr) error {
		return getMtSlotValues(fd, code, values)
	})
}

func (r mtSlotReader) CurrentSlot() (int32, error) {
	var slot int32
	err := r.control(func(fd uintptr) error {
		info, err := getAbsInfo(fd, absMtSlot)
		slot = info.Value
		return err
	})
	return slot, err
}

// evdevDevice Reads contacts from a kernel input device on a background
// goroutine. GetState is the only point where that goroutine and the
// host meet.
type evdevDevice struct {
	dev    *InputDevice
	logger *slog.Logger

	mu      sync.Mutex
	tracker *SlotTracker
	readErr error
	started bool
	closed  bool

	done chan struct{}
}

func newEvdevDevice(dev *InputDevice) *evdevDevice {
	tracker := NewSlotTracker(dev.Slots, dev.XRange, dev.YRange, dev.OrientationMax)
	tracker.SetSyncer(mtSlotReader{dev: dev})

	return &evdevDevice{
		dev:     dev,
		logger:  log.With("component", "evdev", "device", dev.Name, "path", dev.Path),
		tracker: tracker,
		done:    make(chan struct{}),
	}
}

// OpenDefaultDevice Opens the first direct-touch multitouch device.
func OpenDefaultDevice(uintptr) (Device, error) {
	return EvdevOpener("")(0)
}

// EvdevOpener Returns an opener for the evdev node at path, or for the
// first multitouch device when path is empty. Capture is always global,
// so the window handle is ignored.
func EvdevOpener(path string) DeviceOpener {
	return func(uintptr) (Device, error) {
		if path != "" {
			dev, err := openInputDevice(path)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
			}
			return newEvdevDevice(dev), nil
		}

		devs, err := getInputDevices()
		if err != nil {
			return nil, err
		}
		for _, extra := range devs[1:] {
			_ = extra.File.Close()
		}
		return newEvdevDevice(devs[0]), nil
	}
}

// EnableInput Starts the reader. Calling it again is a no-op.
func (d *evdevDevice) EnableInput() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return os.ErrClosed
	}
	if d.started {
		return nil
	}
	d.started = true
	d.logger.Info("reading contacts",
		"slots", d.dev.Slots,
		"width", d.dev.XRange.Span(),
		"height", d.dev.YRange.Span())
	go d.eventReader()
	return nil
}

func (d *evdevDevice) eventReader() {
	defer close(d.done)

	for {
		inputEvent, err := readInputEvent(d.dev.File)
		if err != nil {
			d.mu.Lock()
			if !d.closed {
				d.readErr = err
				d.logger.Error("input read error", "err", err)
			}
			d.mu.Unlock()
			return
		}

		if inputEvent.Type == evSyn && inputEvent.Code == synDropped {
			d.logger.Warn("kernel dropped events, resyncing slots")
		}

		d.mu.Lock()
		d.tracker.Handle(inputEvent.Type, inputEvent.Code, inputEvent.Value)
		d.mu.Unlock()
	}
}

func (d *evdevDevice) GetState() (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.readErr != nil {
		return nil, d.readErr
	}
	if d.closed {
		return nil, os.ErrClosed
	}
	return d.tracker.Snapshot(), nil
}

func (d *evdevDevice) ScreenSize() (Dimensions, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker.Surface(), nil
}

// Close Closes the device file, which unblocks the reader, then waits for
// the reader to exit.
func (d *evdevDevice) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	started := d.started
	d.mu.Unlock()

	err := d.dev.File.Close()
	if started {
		<-d.done
	}
	return err
}
