package transport

import (
	"fmt"
	"io"
	"time"
)

// MPSSE is a byte transport over an MPSSE-style I2C adapter (e.g. an
// FTDI FT232H bit-banging I2C via libmpsse). This package does not bind
// to a concrete MPSSE/FTDI library: the actual adapter driver is an
// external collaborator out of this module's scope (spec §1), and no
// MPSSE/FTDI binding appears anywhere in this codebase's pack to ground
// one on (see DESIGN.md). Instead, MPSSE wraps whatever byte-oriented
// bus handle the caller already has open — matching
// original_source/src/libatsha204/api.c's atsha_open_i2c_dev, which
// itself only wraps an opaque MPSSE context (SendAcks/Close) without
// reimplementing the USB-to-I2C bridge protocol.
type MPSSE struct {
	bus io.ReadWriteCloser
}

// NewMPSSE wraps an already-initialized MPSSE/I2C bus handle.
func NewMPSSE(bus io.ReadWriteCloser) *MPSSE {
	return &MPSSE{bus: bus}
}

// Wake writes a zero byte, mirroring the native-I2C wake condition,
// waits for the chip's turn-on window, then reads back its wake response
// and confirms the wake-ok status, the way the teacher's Wake() checks
// data[0] != 0x11 (atecc608/atecc608.go).
func (m *MPSSE) Wake() error {
	if _, err := m.bus.Write([]byte{0x00}); err != nil {
		return fmt.Errorf("mpsse: wake write: %w", err)
	}
	time.Sleep(wakeSettleDelay)

	raw, err := m.Receive()
	if err != nil {
		return fmt.Errorf("mpsse: wake confirm: %w", err)
	}
	return confirmWake(raw)
}

// Send writes a fully framed command, then waits the chip's worst-case
// execution time before the caller's Receive, mirroring the teacher's
// ExecuteCmd sleep between writing a command and reading its response.
func (m *MPSSE) Send(frame []byte) error {
	if _, err := m.bus.Write(frame); err != nil {
		return fmt.Errorf("mpsse: send: %w", err)
	}
	time.Sleep(cmdExecutionDelay)
	return nil
}

// Receive reads one response frame using the same declared-length framing
// NativeI2C uses.
func (m *MPSSE) Receive() ([]byte, error) {
	lenBuf := make([]byte, 1)
	if _, err := io.ReadFull(m.bus, lenBuf); err != nil {
		return nil, fmt.Errorf("mpsse: receive length: %w", err)
	}

	total := int(lenBuf[0])
	if total < 1 {
		return nil, fmt.Errorf("mpsse: invalid declared length %d", total)
	}

	rest := make([]byte, total-1)
	if total > 1 {
		if _, err := io.ReadFull(m.bus, rest); err != nil {
			return nil, fmt.Errorf("mpsse: receive body: %w", err)
		}
	}

	return append(lenBuf, rest...), nil
}

// Idle writes the opcode-less idle command.
func (m *MPSSE) Idle() error {
	if _, err := m.bus.Write([]byte{0x02}); err != nil {
		return fmt.Errorf("mpsse: idle: %w", err)
	}
	return nil
}

// LockOwning reports true: MPSSE reaches a physical chip.
func (m *MPSSE) LockOwning() bool { return true }

// Close closes the underlying bus handle.
func (m *MPSSE) Close() error {
	return m.bus.Close()
}
