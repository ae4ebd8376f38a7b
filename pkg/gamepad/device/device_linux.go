//go:build linux
// +build linux

package device

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

type jsDevice struct {
	file        *os.File
	index       int
	name        string
	axisCount   uint8
	buttonCount uint8
}

// Open opens /dev/input/js<index>.
func Open(index int) (Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0666)
	if err != nil {
		return nil, err
	}
	d := &jsDevice{file: f, index: index}
	if err = d.queryInfo(); err != nil {
		f.Close()
		return nil, err
	}
	return d, nil
}

// DetectAndOpen opens the first available device starting from startIndex.
// It returns nil, nil when nothing is found.
func DetectAndOpen(startIndex int) (Device, error) {
	for index := startIndex; index < 256; index++ {
		d, err := Open(index)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		return d, nil
	}
	return nil, nil
}

func (d *jsDevice) Close() error     { return d.file.Close() }
func (d *jsDevice) Index() int       { return d.index }
func (d *jsDevice) Name() string     { return d.name }
func (d *jsDevice) AxisCount() int   { return int(d.axisCount) }
func (d *jsDevice) ButtonCount() int { return int(d.buttonCount) }

func (d *jsDevice) ReadEvent() (Event, error) {
	return readRawEvent(d.file)
}

const (
	iocGAXES    uint = 0x80016a11
	iocGBUTTONS uint = 0x80016a12
	iocGNAME    uint = 0x80ff6a13
)

func (d *jsDevice) queryInfo() error {
	if errno := d.ioctl(iocGAXES, unsafe.Pointer(&d.axisCount)); errno != 0 {
		return errno
	}
	if errno := d.ioctl(iocGBUTTONS, unsafe.Pointer(&d.buttonCount)); errno != 0 {
		return errno
	}
	var buf [256]byte
	if errno := d.ioctl(iocGNAME, unsafe.Pointer(&buf)); errno != 0 {
		return errno
	}
	d.name = unix.ByteSliceToString(buf[:])
	return nil
}

func (d *jsDevice) ioctl(req uint, ptr unsafe.Pointer) syscall.Errno {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.file.Fd(), uintptr(req), uintptr(ptr))
	return errno
}
