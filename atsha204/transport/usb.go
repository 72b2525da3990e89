// Package transport provides the byte-level transport variants a
// atsha204.Handle can be built over: a USB bridge, a native Linux I2C
// bus descriptor, and an MPSSE-style I2C adapter. Each satisfies
// atsha204.Transport structurally (Wake/Send/Receive/Idle/LockOwning/
// Close) without importing the atsha204 package, keeping this package a
// dependency leaf.
//
// Per spec §1, the actual protocol these variants speak to real silicon
// is out of this module's scope — only the narrow transport boundary the
// session driver consumes is implemented here.
package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/google/gousb"
)

// Timing for the bridge device. There are no default USB identifiers:
// VID/PID are always passed to NewUSB.
const (
	DefaultReadTimeout = 2 * time.Second
	wakeSettleDelay    = 3 * time.Millisecond

	// cmdExecutionDelay mirrors the teacher driver's worst-case command
	// execution wait (atecc608/atecc608.go ExecuteCmd's
	// CmdMaxExecutionTime sleep between writing a command and reading
	// its response).
	cmdExecutionDelay = 250 * time.Millisecond
)

// USB is a byte transport over a USB-to-chip bridge, opened via gousb
// (ground: guiperry-HASHER/internal/driver/device/usb_device.go's
// context/device/config/interface/endpoint lifecycle).
type USB struct {
	ctx    *gousb.Context
	device *gousb.Device
	config *gousb.Config
	intf   *gousb.Interface
	out    *gousb.OutEndpoint
	in     *gousb.InEndpoint

	readTimeout time.Duration
}

// NewUSB opens the USB bridge device matching (vid, pid), claims its
// interface, and resolves its bulk in/out endpoints.
func NewUSB(vid, pid uint16) (*USB, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("usb: open device: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("usb: device %04x:%04x not found", vid, pid)
	}

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usb: set config: %w", err)
	}

	intf, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usb: claim interface: %w", err)
	}

	out, err := intf.OutEndpoint(1)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usb: out endpoint: %w", err)
	}

	in, err := intf.InEndpoint(1)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usb: in endpoint: %w", err)
	}

	return &USB{
		ctx:         ctx,
		device:      dev,
		config:      cfg,
		intf:        intf,
		out:         out,
		in:          in,
		readTimeout: DefaultReadTimeout,
	}, nil
}

// Wake toggles the bus by writing a zero byte, waits the device's
// turn-on window, then reads back its wake response and confirms the
// wake-ok status, the way the teacher's Wake() checks data[0] != 0x11
// (atecc608/atecc608.go).
func (u *USB) Wake() error {
	if _, err := u.out.Write([]byte{0x00}); err != nil {
		return fmt.Errorf("usb: wake write: %w", err)
	}
	time.Sleep(wakeSettleDelay)

	raw, err := u.Receive()
	if err != nil {
		return fmt.Errorf("usb: wake confirm: %w", err)
	}
	return confirmWake(raw)
}

// Send writes a fully framed command, then waits the chip's worst-case
// execution time before the caller's Receive, mirroring the teacher's
// ExecuteCmd sleep between writing a command and reading its response.
func (u *USB) Send(frame []byte) error {
	if _, err := u.out.Write(frame); err != nil {
		return fmt.Errorf("usb: send: %w", err)
	}
	time.Sleep(cmdExecutionDelay)
	return nil
}

// Receive reads one response frame, bounded by readTimeout.
func (u *USB) Receive() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), u.readTimeout)
	defer cancel()

	buf := make([]byte, 128)
	n, err := u.in.ReadContext(ctx, buf)
	if err != nil {
		return nil, fmt.Errorf("usb: receive: %w", err)
	}
	return buf[:n], nil
}

// Idle writes the opcode-less idle command.
func (u *USB) Idle() error {
	if _, err := u.out.Write([]byte{0x02}); err != nil {
		return fmt.Errorf("usb: idle: %w", err)
	}
	return nil
}

// LockOwning reports true: USB is a physical-chip transport.
func (u *USB) LockOwning() bool { return true }

// Close releases the interface, config, device, and USB context.
func (u *USB) Close() error {
	if u.intf != nil {
		u.intf.Close()
	}
	if u.config != nil {
		u.config.Close()
	}
	if u.device != nil {
		u.device.Close()
	}
	if u.ctx != nil {
		u.ctx.Close()
	}
	return nil
}
