package display

import (
	"testing"
)

// buildEDID assembles a minimal valid base EDID block.
func buildEDID(mfgHi, mfgLo byte, modelName, serial string) []byte {
	edid := make([]byte, 128)
	copy(edid, edidHeader)
	edid[8] = mfgHi
	edid[9] = mfgLo

	descriptor := func(offset int, tag byte, text string) {
		// 00 00 00 <tag> 00 then 13 bytes of newline-terminated text
		edid[offset+3] = tag
		payload := []byte(text + "\n")
		for len(payload) < 13 {
			payload = append(payload, ' ')
		}
		copy(edid[offset+5:offset+18], payload[:13])
	}
	if modelName != "" {
		descriptor(54, 0xFC, modelName)
	}
	if serial != "" {
		descriptor(72, 0xFF, serial)
	}
	return edid
}

func TestParseEDID(t *testing.T) {
	// "DEL" packs to 0x10AC
	const delHi, delLo = 0x10, 0xAC

	t.Run("full metadata", func(t *testing.T) {
		meta, err := parseEDID(buildEDID(delHi, delLo, "DELL U2720Q", "ABC123"))
		if err != nil {
			t.Fatalf("parseEDID failed: %v", err)
		}
		if meta.ManufacturerID != "DEL" {
			t.Errorf("Expected manufacturer DEL, got %q", meta.ManufacturerID)
		}
		if meta.ModelName != "DELL U2720Q" {
			t.Errorf("Expected model DELL U2720Q, got %q", meta.ModelName)
		}
		if meta.SerialNumber != "ABC123" {
			t.Errorf("Expected serial ABC123, got %q", meta.SerialNumber)
		}
	})

	t.Run("numeric serial fallback", func(t *testing.T) {
		edid := buildEDID(delHi, delLo, "DELL U2720Q", "")
		edid[12] = 0x39
		edid[13] = 0x30
		meta, err := parseEDID(edid)
		if err != nil {
			t.Fatalf("parseEDID failed: %v", err)
		}
		if meta.SerialNumber != "12345" {
			t.Errorf("Expected serial 12345, got %q", meta.SerialNumber)
		}
	})

	t.Run("rejects bad header", func(t *testing.T) {
		edid := buildEDID(delHi, delLo, "X", "")
		edid[0] = 0xAA
		if _, err := parseEDID(edid); err == nil {
			t.Error("Expected error for corrupt header")
		}
	})

	t.Run("rejects short block", func(t *testing.T) {
		if _, err := parseEDID(make([]byte, 64)); err == nil {
			t.Error("Expected error for short EDID")
		}
	})
}

func TestDecodeManufacturerID(t *testing.T) {
	if got := decodeManufacturerID(0x10, 0xAC); got != "DEL" {
		t.Errorf("Expected DEL, got %q", got)
	}
	// All-zero letters are out of range
	if got := decodeManufacturerID(0x00, 0x00); got != "" {
		t.Errorf("Expected empty id for zero bytes, got %q", got)
	}
}
