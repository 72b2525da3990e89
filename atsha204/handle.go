package atsha204

import (
	"fmt"
	"io"

	"github.com/imrehg/libatsha204/atsha204/lock"
	"github.com/imrehg/libatsha204/atsha204/transport"
)

// Handle is a session instance over one transport. Its transport variant
// is fixed for its lifetime (spec §3 invariant); physical transports
// hold a cross-process lock for as long as the handle is open, emulator
// transports never do.
type Handle struct {
	t  Transport
	lk *lock.Lock

	cfg Config

	snCached  bool
	sn        BigInt
	originSet bool
	keyOrigin uint32
}

// NewHandle wraps an already-open, non-lock-owning transport (a file
// emulator, a server-side emulator, or a test fake) in a Handle. Callers
// driving physical hardware should use OpenUSB, OpenNativeI2C, or
// OpenMPSSE instead, which acquire the cross-process lock before the bus
// is opened (Design Notes §9, "Lock-then-open coupling").
func NewHandle(cfg Config, t Transport) (*Handle, error) {
	if t == nil {
		return nil, newErr("new_handle", ErrInvalidInput, nil)
	}
	if t.LockOwning() {
		return nil, newErr("new_handle", ErrInvalidInput,
			fmt.Errorf("lock-owning transport %T must be opened via an Open* constructor", t))
	}
	return &Handle{t: t, cfg: cfg}, nil
}

// OpenUSB opens the chip over the USB bridge at (vid, pid), acquiring
// the cross-process lock first.
func OpenUSB(cfg Config, vid, pid uint16) (*Handle, error) {
	return openLocked(cfg, func() (Transport, error) {
		return transport.NewUSB(vid, pid)
	})
}

// OpenNativeI2C opens the chip over a native Linux I2C bus descriptor
// (e.g. /dev/i2c-1) at the given 7-bit slave address, acquiring the
// cross-process lock first.
func OpenNativeI2C(cfg Config, devicePath string, address uint8) (*Handle, error) {
	return openLocked(cfg, func() (Transport, error) {
		return transport.NewNativeI2C(devicePath, address)
	})
}

// OpenMPSSE opens the chip over an MPSSE-style I2C adapter: bus is the
// caller's already-open byte link to the FTDI/MPSSE bridge, which this
// package does not implement (spec §1 "Out of scope" — the bottom-layer
// adapter itself is an external collaborator; this only supplies the
// wake/idle framing glue on top of it).
func OpenMPSSE(cfg Config, bus io.ReadWriteCloser) (*Handle, error) {
	return openLocked(cfg, func() (Transport, error) {
		return transport.NewMPSSE(bus), nil
	})
}

func openLocked(cfg Config, open func() (Transport, error)) (*Handle, error) {
	lk, err := lock.Acquire(lock.DefaultPath, lock.DefaultTimeout, lock.DefaultBackoff)
	if err != nil {
		return nil, newErr("open", ErrCommunication, err)
	}

	t, err := open()
	if err != nil {
		lk.Release()
		return nil, newErr("open", ErrCommunication, err)
	}

	return &Handle{t: t, lk: lk, cfg: cfg}, nil
}

// Close releases the transport, releases the cross-process lock (if
// held), and zeroes any cached secret material before returning (spec §5
// "Resource ownership": transport, lock, secret material — zeroed
// first).
func (h *Handle) Close() error {
	for i := range h.sn.data {
		h.sn.data[i] = 0
	}
	h.sn = BigInt{}
	h.keyOrigin = 0

	var closeErr error
	if h.t != nil {
		closeErr = h.t.Close()
	}
	if h.lk != nil {
		if err := h.lk.Release(); err != nil && closeErr == nil {
			closeErr = err
		}
	}
	return closeErr
}
