package display

import (
	"fmt"
	"strings"
)

var edidHeader = []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

// parseEDID extracts display identity from a 128-byte base EDID block.
// Monitors populate the descriptor blocks unevenly, so every field is
// optional; the caller falls back to the bus path when all are empty.
func parseEDID(edid []byte) (Metadata, error) {
	if len(edid) < 128 {
		return Metadata{}, fmt.Errorf("EDID block too short: %d bytes", len(edid))
	}
	for i, b := range edidHeader {
		if edid[i] != b {
			return Metadata{}, fmt.Errorf("invalid EDID header: % x", edid[:8])
		}
	}

	meta := Metadata{
		ManufacturerID: decodeManufacturerID(edid[8], edid[9]),
	}

	// Four 18-byte descriptor blocks at offsets 54, 72, 90, 108. Display
	// descriptors start with 00 00 00 <tag>.
	for offset := 54; offset <= 108; offset += 18 {
		block := edid[offset : offset+18]
		if block[0] != 0 || block[1] != 0 || block[2] != 0 {
			continue // detailed timing descriptor
		}
		text := decodeDescriptorText(block[5:18])
		switch block[3] {
		case 0xFC:
			meta.ModelName = text
		case 0xFF:
			meta.SerialNumber = text
		}
	}

	// Fall back to the numeric serial when no serial descriptor exists.
	if meta.SerialNumber == "" {
		serial := uint32(edid[12]) | uint32(edid[13])<<8 | uint32(edid[14])<<16 | uint32(edid[15])<<24
		if serial != 0 {
			meta.SerialNumber = fmt.Sprintf("%d", serial)
		}
	}

	return meta, nil
}

// decodeManufacturerID unpacks the three-letter PNP id from its
// two-byte, 5-bits-per-letter encoding.
func decodeManufacturerID(hi, lo byte) string {
	code := uint16(hi)<<8 | uint16(lo)
	letters := []byte{
		byte(code>>10&0x1F) + 'A' - 1,
		byte(code>>5&0x1F) + 'A' - 1,
		byte(code&0x1F) + 'A' - 1,
	}
	for _, l := range letters {
		if l < 'A' || l > 'Z' {
			return ""
		}
	}
	return string(letters)
}

// decodeDescriptorText decodes a 13-byte descriptor string, which is
// newline-terminated and space-padded.
func decodeDescriptorText(raw []byte) string {
	if i := strings.IndexByte(string(raw), '\n'); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(string(raw))
}
