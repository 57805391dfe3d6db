// Package display identifies connected monitors and switches their
// active video input over DDC/CI.
package display

import (
	"fmt"
	"strings"
)

// Metadata is the OS-reported identity of a physical display. Which
// fields are populated varies by platform and connection; label
// construction tolerates any subset being empty.
type Metadata struct {
	ManufacturerID string
	ModelName      string
	SerialNumber   string
	OpaqueID       string // platform identifier, e.g. the i2c bus path
}

// Display is one connected monitor: its identity plus the register
// read/write handle used to switch inputs.
type Display struct {
	Info   Metadata
	Handle VCPHandle
}

// Name returns a human-meaningful label for the display, built from
// whichever metadata fields are populated. Monitors rarely report a
// canonical identifier, so the label is best-effort and only unique
// per display set on a good day (see NamesUnique).
func (d *Display) Name() string {
	return fmt.Sprintf("'%s'", d.baseName())
}

// NameWithOrdinal returns the label with an " #<n>" suffix inside the
// quotes, for disambiguating displays whose plain labels collide.
func (d *Display) NameWithOrdinal(ordinal int) string {
	return fmt.Sprintf("'%s #%d'", d.baseName(), ordinal)
}

func (d *Display) baseName() string {
	fields := []string{d.Info.ManufacturerID, d.Info.ModelName, d.Info.SerialNumber}
	var parts []string
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return d.Info.OpaqueID
	}
	return strings.Join(parts, " ")
}

// NamesUnique reports whether every display in the set has a distinct
// plain label. Callers use this to decide whether to switch to
// ordinal-qualified labels; assigning the ordinals is their business.
func NamesUnique(displays []*Display) bool {
	seen := make(map[string]struct{}, len(displays))
	for _, d := range displays {
		name := d.Name()
		if _, ok := seen[name]; ok {
			return false
		}
		seen[name] = struct{}{}
	}
	return true
}

// Close releases the hardware handles of all displays in the set.
func Close(displays []*Display) {
	for _, d := range displays {
		if d.Handle != nil {
			_ = d.Handle.Close()
		}
	}
}
