package input

import (
	"context"
	"log/slog"
	"time"
)

// Linux input event types and key values.
const (
	EvKey = 0x01

	valueRelease = 0
	valuePress   = 1
	valueRepeat  = 2
)

// RawEvent is one decoded input_event record.
type RawEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// Device is a non-blocking event source. ReadEvents returns whatever is
// pending, possibly nothing.
type Device interface {
	ReadEvents() ([]RawEvent, error)
}

const (
	DefaultQuantum = 10 * time.Millisecond
	errorBackoff   = time.Second
)

type Dispatcher struct {
	dev     Device
	keys    KeyMap
	quantum time.Duration
	backoff time.Duration
	logger  *slog.Logger
}

func NewDispatcher(dev Device, keys KeyMap, quantum time.Duration, logger *slog.Logger) *Dispatcher {
	if quantum <= 0 {
		quantum = DefaultQuantum
	}
	return &Dispatcher{
		dev:     dev,
		keys:    keys,
		quantum: quantum,
		backoff: errorBackoff,
		logger:  logger,
	}
}

// Run polls the device until ctx is cancelled, calling onKey once per
// key-down of a mapped code. Release and autorepeat events are ignored.
func (d *Dispatcher) Run(ctx context.Context, onKey func(Key)) error {
	d.logger.Info("input dispatcher started", "quantum", d.quantum, "mapped_keys", len(d.keys))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("input dispatcher stopped")
			return nil
		case <-timer.C:
		}

		wait := d.quantum
		events, err := d.dev.ReadEvents()
		if err != nil {
			d.logger.Warn("read input device", "err", err, "retry_in", d.backoff)
			wait = d.backoff
		}
		d.deliver(events, onKey)

		timer.Reset(wait)
	}
}

func (d *Dispatcher) deliver(events []RawEvent, onKey func(Key)) {
	for _, ev := range events {
		if ev.Type != EvKey || ev.Value != valuePress {
			continue
		}
		k, ok := d.keys.Lookup(ev.Code)
		if !ok {
			continue
		}
		d.logger.Debug("key", "code", ev.Code, "key", k)
		onKey(k)
	}
}
