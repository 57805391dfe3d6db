// Package input defines the video input sources a monitor can be switched to.
package input

import (
	"fmt"
	"strconv"
	"strings"
)

// Source is a video input source, encoded as the value written to the
// DDC/CI input-select register. Only the low byte is significant on the
// wire; the type is wider because some monitors report vendor bits in
// the high byte.
type Source uint16

// Standard VCP input source codes (VESA MCCS, feature 0x60).
const (
	Vga1         Source = 0x01
	Vga2         Source = 0x02
	Dvi1         Source = 0x03
	Dvi2         Source = 0x04
	DisplayPort1 Source = 0x0F
	DisplayPort2 Source = 0x10
	Hdmi1        Source = 0x11
	Hdmi2        Source = 0x12
	UsbC         Source = 0x1B
)

var names = map[Source]string{
	Vga1:         "Vga1",
	Vga2:         "Vga2",
	Dvi1:         "Dvi1",
	Dvi2:         "Dvi2",
	DisplayPort1: "DisplayPort1",
	DisplayPort2: "DisplayPort2",
	Hdmi1:        "Hdmi1",
	Hdmi2:        "Hdmi2",
	UsbC:         "UsbC",
}

// Parse resolves a configured input source. It accepts a symbolic name
// (case-insensitive) or a raw register value, decimal or 0x-prefixed hex,
// so users can target inputs we have no name for.
func Parse(s string) (Source, error) {
	trimmed := strings.TrimSpace(s)
	for src, name := range names {
		if strings.EqualFold(name, trimmed) {
			return src, nil
		}
	}

	value, err := strconv.ParseUint(trimmed, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("unknown input source %q", s)
	}
	return Source(value), nil
}

// Value returns the raw register value to write to the input-select register.
func (s Source) Value() uint16 {
	return uint16(s)
}

// Matches reports whether a value read back from the input-select register
// refers to this source. Per the MCCS convention only the low byte of the
// readout carries the input code.
func (s Source) Matches(raw uint16) bool {
	return raw&0xff == uint16(s)&0xff
}

func (s Source) String() string {
	if name, ok := names[s]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", uint16(s))
}
