//go:build !linux

package input

import "errors"

var errUnsupported = errors.New("evdev input is only available on linux")

type EvdevDevice struct{}

func OpenDevice(path string, grab bool) (*EvdevDevice, error) {
	return nil, errUnsupported
}

func (d *EvdevDevice) ReadEvents() ([]RawEvent, error) {
	return nil, errUnsupported
}

func (d *EvdevDevice) Close() error {
	return nil
}
