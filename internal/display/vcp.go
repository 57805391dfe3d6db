package display

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// VCPHandle is the register read/write capability of one display. The
// Linux implementation speaks DDC/CI over i2c-dev; tests substitute
// fakes.
type VCPHandle interface {
	GetVCP(feature byte) (uint16, error)
	SetVCP(feature byte, value uint16) error
	Close() error
}

const (
	i2cSlaveIoctl = 0x0703 // I2C_SLAVE from linux/i2c-dev.h

	ddcAddr  = 0x37 // DDC/CI device address
	edidAddr = 0x50 // EDID EEPROM address
	hostAddr = 0x51 // source address byte in DDC/CI frames

	// Monitors need a moment between the VCP request and the reply
	// becoming readable (DDC/CI spec says 40ms minimum).
	vcpReplyDelay = 50 * time.Millisecond
)

// i2cHandle talks DDC/CI to one monitor through an /dev/i2c-* device.
// Calls on a single handle must be serialized by the caller; the
// protocol is not safe under concurrent access to one device.
type i2cHandle struct {
	bus  string
	file *os.File
}

func openI2C(bus string) (*i2cHandle, error) {
	f, err := os.OpenFile(bus, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", bus, err)
	}
	return &i2cHandle{bus: bus, file: f}, nil
}

func (h *i2cHandle) setSlave(addr int) error {
	if err := unix.IoctlSetInt(int(h.file.Fd()), i2cSlaveIoctl, addr); err != nil {
		return fmt.Errorf("selecting i2c address 0x%02x on %s: %w", addr, h.bus, err)
	}
	return nil
}

// ddcChecksum is the XOR of the destination address (0x37 shifted for
// write, i.e. 0x6E) and every frame byte.
func ddcChecksum(data []byte) byte {
	checksum := byte(0x6E)
	for _, b := range data {
		checksum ^= b
	}
	return checksum
}

// GetVCP reads the current value of a VCP feature register.
func (h *i2cHandle) GetVCP(feature byte) (uint16, error) {
	if err := h.setSlave(ddcAddr); err != nil {
		return 0, err
	}

	request := []byte{hostAddr, 0x82, 0x01, feature}
	request = append(request, ddcChecksum(request))
	if _, err := h.file.Write(request); err != nil {
		return 0, fmt.Errorf("writing VCP request to %s: %w", h.bus, err)
	}

	time.Sleep(vcpReplyDelay)

	reply := make([]byte, 11)
	n, err := h.file.Read(reply)
	if err != nil {
		return 0, fmt.Errorf("reading VCP reply from %s: %w", h.bus, err)
	}
	if n < 10 || reply[0] != 0x6E || reply[2] != 0x02 || reply[4] != feature {
		return 0, fmt.Errorf("malformed VCP reply from %s: % x", h.bus, reply[:n])
	}
	if reply[3] != 0x00 {
		return 0, fmt.Errorf("display on %s does not support VCP feature 0x%02x", h.bus, feature)
	}

	return uint16(reply[8])<<8 | uint16(reply[9]), nil
}

// SetVCP writes a VCP feature register.
func (h *i2cHandle) SetVCP(feature byte, value uint16) error {
	if err := h.setSlave(ddcAddr); err != nil {
		return err
	}

	frame := []byte{hostAddr, 0x84, 0x03, feature, byte(value >> 8), byte(value & 0xFF)}
	frame = append(frame, ddcChecksum(frame))
	if _, err := h.file.Write(frame); err != nil {
		return fmt.Errorf("writing VCP 0x%02x to %s: %w", feature, h.bus, err)
	}
	return nil
}

func (h *i2cHandle) Close() error {
	return h.file.Close()
}

// readEDID fetches the 128-byte base EDID block from the monitor's
// EEPROM. Failure usually just means there is no monitor behind this
// i2c bus.
func (h *i2cHandle) readEDID() ([]byte, error) {
	if err := h.setSlave(edidAddr); err != nil {
		return nil, err
	}

	// Reset the EEPROM's read offset before reading the block.
	if _, err := h.file.Write([]byte{0x00}); err != nil {
		return nil, fmt.Errorf("seeking EDID on %s: %w", h.bus, err)
	}

	edid := make([]byte, 128)
	if _, err := h.file.Read(edid); err != nil {
		return nil, fmt.Errorf("reading EDID from %s: %w", h.bus, err)
	}
	return edid, nil
}
