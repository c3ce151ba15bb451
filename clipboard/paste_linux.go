//go:build linux

package clipboard

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"
)

// ioctl constants from linux/uinput.h
const (
	uiSetEvbit  = 0x40045564 // UI_SET_EVBIT
	uiSetKeybit = 0x40045565 // UI_SET_KEYBIT
	uiDevCreate = 0x5501     // UI_DEV_CREATE
)

// input event types from linux/input-event-codes.h
const (
	evSyn = 0x00
	evKey = 0x01
)

const (
	keyLeftCtrl = 29
	keyV        = 47
)

const busUSB = 0x03

type inputEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputUserDev struct {
	Name         [80]byte
	ID           inputID
	FfEffectsMax uint32
	Absmax       [64]int32
	Absmin       [64]int32
	Absfuzz      [64]int32
	Absflat      [64]int32
}

var (
	fd     *os.File
	fdOnce sync.Once
	fdErr  error
)

// Init creates a uinput virtual keyboard used to deliver the paste chord on
// Wayland and X alike. Requires write access to /dev/uinput.
func Init() error {
	fdOnce.Do(func() { fd, fdErr = createVirtualKeyboard() })
	return fdErr
}

func createVirtualKeyboard() (*os.File, error) {
	path := "/dev/uinput"
	if _, err := os.Stat(path); err != nil {
		path = "/dev/input/uinput"
		if _, err := os.Stat(path); err != nil {
			return nil, errors.New("uinput device not found, try: sudo modprobe uinput")
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|syscall.O_NONBLOCK, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	ioctl := func(req, arg uintptr) error {
		if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), req, arg); errno != 0 {
			return errno
		}
		return nil
	}

	if err := ioctl(uiSetEvbit, evKey); err != nil {
		f.Close()
		return nil, err
	}
	if err := ioctl(uiSetEvbit, evSyn); err != nil {
		f.Close()
		return nil, err
	}
	// Register all standard keys so udev classifies this as a keyboard.
	for code := uintptr(0); code < 256; code++ {
		if err := ioctl(uiSetKeybit, code); err != nil {
			f.Close()
			return nil, err
		}
	}

	dev := uinputUserDev{}
	copy(dev.Name[:], "murmur-paste")
	dev.ID.Bustype = busUSB
	dev.ID.Vendor = 0x4d75 // "mu"
	dev.ID.Product = 0x7221
	dev.ID.Version = 1
	if err := binary.Write(f, binary.LittleEndian, &dev); err != nil {
		f.Close()
		return nil, err
	}
	if err := ioctl(uiDevCreate, 0); err != nil {
		f.Close()
		return nil, err
	}

	// Give the compositor time to recognize the new input device.
	time.Sleep(200 * time.Millisecond)
	return f, nil
}

func writeEvent(typ, code uint16, value int32) error {
	ev := inputEvent{Type: typ, Code: code, Value: value}
	return binary.Write(fd, binary.LittleEndian, &ev)
}

func key(code uint16, down bool) error {
	value := int32(0)
	if down {
		value = 1
	}
	if err := writeEvent(evKey, code, value); err != nil {
		return err
	}
	if err := writeEvent(evSyn, 0, 0); err != nil {
		return err
	}
	// Let the compositor register each transition before the next.
	time.Sleep(5 * time.Millisecond)
	return nil
}

// Paste sends Ctrl+V through the virtual keyboard.
func Paste() error {
	if err := Init(); err != nil {
		return err
	}
	for _, step := range []struct {
		code uint16
		down bool
	}{
		{keyLeftCtrl, true},
		{keyV, true},
		{keyV, false},
		{keyLeftCtrl, false},
	} {
		if err := key(step.code, step.down); err != nil {
			return err
		}
	}
	return nil
}

// Verify confirms the virtual keyboard can be created.
func Verify() (string, error) {
	if err := Init(); err != nil {
		return "", fmt.Errorf("uinput init: %w", err)
	}
	return "uinput virtual keyboard OK (Ctrl+V)", nil
}
