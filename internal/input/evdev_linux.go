package input

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// _IOW('E', 0x90, int)
const eviocgrab = 0x40044590

var recordSize = int(unsafe.Sizeof(unix.Timeval{})) + 8

// EvdevDevice reads a /dev/input/eventN node without blocking.
type EvdevDevice struct {
	path    string
	fd      int
	grabbed bool
	buf     []byte
}

// OpenDevice opens path non-blocking. With grab set, the device is
// grabbed so its keys do not also reach the desktop session.
func OpenDevice(path string, grab bool) (*EvdevDevice, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	d := &EvdevDevice{path: path, fd: fd, buf: make([]byte, 64*recordSize)}
	if grab {
		if err := unix.IoctlSetInt(fd, eviocgrab, 1); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("EVIOCGRAB %s: %w", path, err)
		}
		d.grabbed = true
	}
	return d, nil
}

func (d *EvdevDevice) ReadEvents() ([]RawEvent, error) {
	n, err := unix.Read(d.fd, d.buf)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", d.path, err)
	}
	return decodeEvents(d.buf[:n], recordSize), nil
}

func (d *EvdevDevice) Close() error {
	if d.grabbed {
		_ = unix.IoctlSetInt(d.fd, eviocgrab, 0)
	}
	return unix.Close(d.fd)
}
