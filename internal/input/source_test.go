package input

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Source
		wantErr bool
	}{
		{name: "symbolic name", in: "Hdmi1", want: Hdmi1},
		{name: "case insensitive", in: "displayport1", want: DisplayPort1},
		{name: "surrounding whitespace", in: "  UsbC  ", want: UsbC},
		{name: "decimal value", in: "17", want: Hdmi1},
		{name: "hex value", in: "0x0f", want: DisplayPort1},
		{name: "unnamed raw value", in: "0x20", want: Source(0x20)},
		{name: "garbage", in: "FireWire", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	t.Run("matches exact value", func(t *testing.T) {
		if !Hdmi1.Matches(0x11) {
			t.Error("Hdmi1 should match 0x11")
		}
	})

	t.Run("ignores high byte of readout", func(t *testing.T) {
		if !Hdmi1.Matches(0xFF11) {
			t.Error("Hdmi1 should match 0xFF11, only the low byte is significant")
		}
	})

	t.Run("rejects different input", func(t *testing.T) {
		if Hdmi1.Matches(0x12) {
			t.Error("Hdmi1 should not match 0x12")
		}
	})
}

func TestString(t *testing.T) {
	if got := DisplayPort1.String(); got != "DisplayPort1" {
		t.Errorf("Expected DisplayPort1, got %s", got)
	}
	if got := Source(0x20).String(); got != "0x20" {
		t.Errorf("Expected 0x20, got %s", got)
	}
}
