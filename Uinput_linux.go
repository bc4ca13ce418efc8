package surfaceinput

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/lunixbochs/struc"
	"golang.org/x/sys/unix"
)

// VirtualSurfaceConfig Shape of a virtual touch surface.
type VirtualSurfaceConfig struct {
	Name           string
	Width          int32
	Height         int32
	Slots          int32
	OrientationMax int32
	MoveDelay      time.Duration
}

// DefaultVirtualSurfaceConfig A 1024x768 table with ten slots.
func DefaultVirtualSurfaceConfig() VirtualSurfaceConfig {
	return VirtualSurfaceConfig{
		Name:           "surfaceinput virtual table",
		Width:          1024,
		Height:         768,
		Slots:          10,
		OrientationMax: 90,
		MoveDelay:      15 * time.Millisecond,
	}
}

// VirtualSurface A protocol B touch screen created through /dev/uinput.
// The kernel lists it under /dev/input like real hardware, so the evdev
// device reads it unchanged.
type VirtualSurface struct {
	mu     sync.Mutex
	fd     int
	cfg    VirtualSurfaceConfig
	active []bool
	btnOn  bool
}

// NewVirtualSurface Creates the uinput device. It needs write access to
// /dev/uinput.
func NewVirtualSurface(cfg VirtualSurfaceConfig) (*VirtualSurface, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Slots <= 0 {
		return nil, fmt.Errorf("virtual surface needs positive size and slots, got %dx%d/%d", cfg.Width, cfg.Height, cfg.Slots)
	}

	//Open UInput
	fd, err := unix.Open("/dev/uinput", unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open /dev/uinput: %w", err)
	}

	if err := setupTypeBDev(uintptr(fd), cfg); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	// Give udev time to create the event node.
	time.Sleep(time.Millisecond * 200)

	return &VirtualSurface{
		fd:     fd,
		cfg:    cfg,
		active: make([]bool, cfg.Slots),
	}, nil
}

func setupTypeBDev(fd uintptr, cfg VirtualSurfaceConfig) error {
	//Setup EV_KEY
	if err := ioctl(fd, UISETEVBIT(), evKey); err != nil {
		return fmt.Errorf("UI_SET_EVBIT EV_KEY: %w", err)
	}
	for _, key := range []uintptr{btnTouch, btnToolFinger} {
		if err := ioctl(fd, UISETKEYBIT(), key); err != nil {
			return fmt.Errorf("UI_SET_KEYBIT %#x: %w", key, err)
		}
	}

	//Setup EV_ABS
	if err := ioctl(fd, UISETEVBIT(), evAbs); err != nil {
		return fmt.Errorf("UI_SET_EVBIT EV_ABS: %w", err)
	}

	var absMins [absCnt]int32
	var absMaxs [absCnt]int32

	absMaxs[absMtSlot] = cfg.Slots - 1
	absMaxs[absMtTrackingId] = 0xFFFF
	absMaxs[absMtPositionX] = cfg.Width - 1
	absMaxs[absMtPositionY] = cfg.Height - 1
	absMaxs[absMtTouchMajor] = max(cfg.Width, cfg.Height)
	absMaxs[absMtTouchMinor] = max(cfg.Width, cfg.Height)
	if cfg.OrientationMax > 0 {
		absMins[absMtOrientation] = -cfg.OrientationMax
		absMaxs[absMtOrientation] = cfg.OrientationMax
	}

	for i := 0; i <= absMax; i++ {
		if absMaxs[i] == 0 {
			continue
		}
		if err := ioctl(fd, UISETABSBIT(), uintptr(i)); err != nil {
			return fmt.Errorf("UI_SET_ABSBIT %#x: %w", i, err)
		}
	}

	//Setup INPUT_PROP_DIRECT
	if err := ioctl(fd, UISETPROPBIT(), inputPropDirect); err != nil {
		return fmt.Errorf("UI_SET_PROPBIT: %w", err)
	}

	//Setup User Device
	uiDev := UinputUserDev{
		Name: toUInputName([]byte(cfg.Name)),
		ID: InputID{
			BusType: busVirtual,
			Vendor:  0x045e,
			Product: 0x5355,
			Version: 1,
		},
		AbsMax: absMaxs,
		AbsMin: absMins,
	}

	//Write to Input Sub-System
	if _, err := unix.Write(int(fd), uInputDevToBytes(uiDev)); err != nil {
		return fmt.Errorf("write uinput_user_dev: %w", err)
	}

	//Declare Input Device
	if err := ioctl(fd, UIDEVCREATE(), 0); err != nil {
		return fmt.Errorf("UI_DEV_CREATE: %w", err)
	}
	return nil
}

func uInputDevToBytes(uiDev UinputUserDev) []byte {
	var buf bytes.Buffer
	_ = struc.PackWithOptions(&buf, &uiDev, &struc.Options{Order: binary.LittleEndian})
	return buf.Bytes()
}

func inputEventToBytes(event InputEvent) []byte {
	var buf bytes.Buffer
	_ = struc.PackWithOptions(&buf, &event, &struc.Options{Order: binary.LittleEndian})
	return buf.Bytes()
}

func (v *VirtualSurface) writeEvent(Type, Code uint16, Value int32) error {
	_, err := unix.Write(v.fd, inputEventToBytes(InputEvent{
		Type:  Type,
		Code:  Code,
		Value: Value,
	}))
	return err
}

// Size Returns the surface size in pixels.
func (v *VirtualSurface) Size() Dimensions {
	return Dimensions{Width: float64(v.cfg.Width), Height: float64(v.cfg.Height)}
}

// Touch Places or moves the contact in slot and commits a frame.
func (v *VirtualSurface) Touch(slot int32, c Contact) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if slot < 0 || slot >= v.cfg.Slots {
		return fmt.Errorf("slot %d out of range [0,%d)", slot, v.cfg.Slots)
	}

	events := [][2]int32{
		{absMtSlot, slot},
		{absMtTrackingId, int32(c.ID)},
		{absMtPositionX, int32(c.X)},
		{absMtPositionY, int32(c.Y)},
		{absMtTouchMajor, int32(c.Bounds.Height)},
		{absMtTouchMinor, int32(c.Bounds.Width)},
	}
	if v.cfg.OrientationMax > 0 {
		events = append(events, [2]int32{absMtOrientation, v.orientationValue(c.Orientation)})
	}
	for _, ev := range events {
		if err := v.writeEvent(evAbs, uint16(ev[0]), ev[1]); err != nil {
			return err
		}
	}
	v.active[slot] = true
	return v.syncLocked()
}

// Lift Ends the contact in slot and commits a frame.
func (v *VirtualSurface) Lift(slot int32) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if slot < 0 || slot >= v.cfg.Slots || !v.active[slot] {
		return nil
	}
	if err := v.writeEvent(evAbs, absMtSlot, slot); err != nil {
		return err
	}
	if err := v.writeEvent(evAbs, absMtTrackingId, -1); err != nil {
		return err
	}
	v.active[slot] = false
	return v.syncLocked()
}

func (v *VirtualSurface) syncLocked() error {
	activeSlots := 0
	for _, a := range v.active {
		if a {
			activeSlots++
		}
	}

	if activeSlots == 0 && v.btnOn { //Button Up
		v.btnOn = false
		if err := v.writeEvent(evKey, btnTouch, 0); err != nil {
			return err
		}
		if err := v.writeEvent(evKey, btnToolFinger, 0); err != nil {
			return err
		}
	} else if activeSlots > 0 && !v.btnOn { //Button Down
		v.btnOn = true
		if err := v.writeEvent(evKey, btnTouch, 1); err != nil {
			return err
		}
		if err := v.writeEvent(evKey, btnToolFinger, 1); err != nil {
			return err
		}
	}

	return v.writeEvent(evSyn, synReport, 0)
}

// orientationValue Maps radians onto the signed quarter-revolution axis.
func (v *VirtualSurface) orientationValue(rad float64) int32 {
	a := normalizeAngle(rad)
	// Values past a half turn wrap to the negative side.
	if a > math.Pi {
		a -= 2 * math.Pi
	}
	return int32(math.Round(a / (math.Pi / 2) * float64(v.cfg.OrientationMax)))
}

// Swipe Drags c in slot to end, pausing MoveDelay between frames, then
// lifts it.
func (v *VirtualSurface) Swipe(slot int32, c Contact, end Vector2D) error {
	for _, p := range MovePath(Vector2D{X: c.X, Y: c.Y}, end) {
		c.X, c.Y = p.X, p.Y
		if err := v.Touch(slot, c); err != nil {
			return err
		}
		time.Sleep(v.cfg.MoveDelay)
	}

	c.X, c.Y = end.X, end.Y
	if err := v.Touch(slot, c); err != nil {
		return err
	}
	time.Sleep(v.cfg.MoveDelay)
	return v.Lift(slot)
}

// Close Destroys the uinput device.
func (v *VirtualSurface) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.fd < 0 {
		return nil
	}
	err := ioctl(uintptr(v.fd), UIDEVDESTROY(), 0)
	_ = unix.Close(v.fd)
	v.fd = -1
	return err
}
