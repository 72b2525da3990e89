package transport

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// i2cSlave is the ioctl request number Linux's i2c-dev driver uses to
// bind a slave address to an open bus file descriptor.
// (linux/i2c-dev.h I2C_SLAVE)
const i2cSlave = 0x0703

// NativeI2C is a byte transport over a native Linux I2C bus character
// device (e.g. /dev/i2c-1), opened and bound the way
// original_source/src/libatsha204/api.c's atsha_open_ni2c_dev does:
// open(2) the device node, then ioctl(I2C_SLAVE) to bind the chip's
// 7-bit address, after which plain read(2)/write(2) carry frames.
type NativeI2C struct {
	fd      int
	address uint8
}

// NewNativeI2C opens devicePath and binds address as the I2C slave.
func NewNativeI2C(devicePath string, address uint8) (*NativeI2C, error) {
	fd, err := unix.Open(devicePath, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("nativei2c: open %s: %w", devicePath, err)
	}

	if err := unix.IoctlSetInt(fd, i2cSlave, int(address)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("nativei2c: bind address 0x%02x: %w", address, err)
	}

	return &NativeI2C{fd: fd, address: address}, nil
}

// Wake writes a single zero byte, which the chip's I2C front-end decodes
// as a wake condition, waits for its turn-on window, then reads back its
// wake response and confirms the wake-ok status, the way the teacher's
// Wake() checks data[0] != 0x11 (atecc608/atecc608.go).
func (n *NativeI2C) Wake() error {
	if _, err := unix.Write(n.fd, []byte{0x00}); err != nil {
		return fmt.Errorf("nativei2c: wake write: %w", err)
	}
	time.Sleep(wakeSettleDelay)

	raw, err := n.Receive()
	if err != nil {
		return fmt.Errorf("nativei2c: wake confirm: %w", err)
	}
	return confirmWake(raw)
}

// Send writes a fully framed command, then waits the chip's worst-case
// execution time before the caller's Receive, mirroring the teacher's
// ExecuteCmd sleep between writing a command and reading its response.
func (n *NativeI2C) Send(frame []byte) error {
	if _, err := unix.Write(n.fd, frame); err != nil {
		return fmt.Errorf("nativei2c: send: %w", err)
	}
	time.Sleep(cmdExecutionDelay)
	return nil
}

// Receive reads one response frame. The first byte read is the frame's
// declared length, so this first reads that length byte, then reads the
// remainder — mirroring the two-step read the teacher driver performs
// over its shared output FIFO (atecc608/atecc608.go ExecuteCmd).
func (n *NativeI2C) Receive() ([]byte, error) {
	lenBuf := make([]byte, 1)
	if _, err := unix.Read(n.fd, lenBuf); err != nil {
		return nil, fmt.Errorf("nativei2c: receive length: %w", err)
	}

	total := int(lenBuf[0])
	if total < 1 {
		return nil, fmt.Errorf("nativei2c: invalid declared length %d", total)
	}

	rest := make([]byte, total-1)
	if total > 1 {
		if _, err := unix.Read(n.fd, rest); err != nil {
			return nil, fmt.Errorf("nativei2c: receive body: %w", err)
		}
	}

	return append(lenBuf, rest...), nil
}

// Idle writes the opcode-less idle command.
func (n *NativeI2C) Idle() error {
	if _, err := unix.Write(n.fd, []byte{0x02}); err != nil {
		return fmt.Errorf("nativei2c: idle: %w", err)
	}
	return nil
}

// LockOwning reports true: native I2C is a physical-chip transport.
func (n *NativeI2C) LockOwning() bool { return true }

// Close closes the bus file descriptor.
func (n *NativeI2C) Close() error {
	return unix.Close(n.fd)
}
