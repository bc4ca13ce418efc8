package surfaceinput

//---------------------------------EVCodes--------------------------------------//

// Ref: input-event-codes.h
const (
	evSyn            = 0x00
	evKey            = 0x01
	evAbs            = 0x03
	btnTouch         = 0x14a
	btnToolFinger    = 0x145
	synReport        = 0
	synDropped       = 3
	absMtSlot        = 0x2f
	absMtTouchMajor  = 0x30
	absMtTouchMinor  = 0x31
	absMtWidthMajor  = 0x32
	absMtWidthMinor  = 0x33
	absMtOrientation = 0x34
	absMtPositionX   = 0x35
	absMtPositionY   = 0x36
	absMtTrackingId  = 0x39
	absMax           = 0x3f
	absCnt           = absMax + 1
	keyMax           = 0x2ff
	keyCnt           = keyMax + 1
	inputPropDirect  = 0x01
	inputPropMax     = 0x1f
	inputPropCnt     = inputPropMax + 1
)

//---------------------------------IOCTL--------------------------------------//

// Ref: ioctl.h
const (
	iocNone  = 0x0
	iocWrite = 0x1
	iocRead  = 0x2

	iocNrbits   = 8
	iocTypebits = 8
	iocSizebits = 14
	iocNrshift  = 0

	iocTypeshift = iocNrshift + iocNrbits
	iocSizeshift = iocTypeshift + iocTypebits
	iocDirshift  = iocSizeshift + iocSizebits
)

func _IOC(dir int, t int, nr int, size int) int {
	return (dir << iocDirshift) | (t << iocTypeshift) |
		(nr << iocNrshift) | (size << iocSizeshift)
}

func _IOR(t int, nr int, size int) int {
	return _IOC(iocRead, t, nr, size)
}

func _IOW(t int, nr int, size int) int {
	return _IOC(iocWrite, t, nr, size)
}

// Ref: input.h
func EVIOCGID() int {
	return _IOR('E', 0x02, 8) //sizeof(struct input_id)
}

func EVIOCGNAME() int {
	return _IOC(iocRead, 'E', 0x06, uinputMaxNameSize)
}

func EVIOCGPROP() int {
	return _IOC(iocRead, 'E', 0x09, inputPropCnt/8)
}

func EVIOCGABS(abs int) int {
	return _IOR('E', 0x40+abs, 24) //sizeof(struct input_absinfo)
}

func EVIOCGMTSLOTS(len int) int {
	return _IOC(iocRead, 'E', 0x0a, len) //sizeof(struct input_mt_request_layout)
}

func EVIOCGBIT(ev, len int) int {
	return _IOC(iocRead, 'E', 0x20+ev, len)
}

//---------------------------------Input--------------------------------------//

type InputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type AbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

//---------------------------------UInput--------------------------------------//

// Ref: uinput.h
const (
	uinputMaxNameSize = 80
	busVirtual        = 0x06
)

type UinputUserDev struct {
	Name       [uinputMaxNameSize]byte
	ID         InputID
	EffectsMax uint32
	AbsMax     [absCnt]int32
	AbsMin     [absCnt]int32
	AbsFuzz    [absCnt]int32
	AbsFlat    [absCnt]int32
}

// Ref: uinput.h
func UISETEVBIT() int {
	return _IOW('U', 100, 4) //sizeof(int)
}

func UISETKEYBIT() int {
	return _IOW('U', 101, 4) //sizeof(int)
}

func UISETABSBIT() int {
	return _IOW('U', 103, 4) //sizeof(int)
}

func UISETPROPBIT() int {
	return _IOW('U', 110, 4) //sizeof(int)
}

func UIDEVCREATE() int {
	return _IOC(iocNone, 'U', 1, 0)
}

func UIDEVDESTROY() int {
	return _IOC(iocNone, 'U', 2, 0)
}

// Determine if a bit set has the specified bit.
func hasBit(bits []byte, key int) bool {
	if key/8 >= len(bits) {
		return false
	}
	return bits[key/8]&(1<<uint(key%8)) != 0
}

func toUInputName(name []byte) [uinputMaxNameSize]byte {
	var fixedSizeName [uinputMaxNameSize]byte
	copy(fixedSizeName[:], name)
	return fixedSizeName
}
