package display

import (
	"fmt"
	"path/filepath"

	"github.com/rajohns08/display-switch/internal/logger"
)

// Detect enumerates DDC/CI-capable displays by probing every i2c bus
// for an EDID. Buses without a monitor behind them (SMBus controllers,
// GPU aux channels) simply fail the probe and are skipped.
//
// The returned handles stay open; callers own them for the duration of
// a switch attempt and release them with Close.
func Detect() ([]*Display, error) {
	buses, err := filepath.Glob("/dev/i2c-*")
	if err != nil {
		return nil, fmt.Errorf("listing i2c buses: %w", err)
	}

	var displays []*Display
	for _, bus := range buses {
		handle, err := openI2C(bus)
		if err != nil {
			logger.Debugf("Skipping %s: %v", bus, err)
			continue
		}

		edid, err := handle.readEDID()
		if err != nil {
			logger.Debugf("No EDID on %s: %v", bus, err)
			_ = handle.Close()
			continue
		}

		meta, err := parseEDID(edid)
		if err != nil {
			logger.Debugf("Ignoring %s: %v", bus, err)
			_ = handle.Close()
			continue
		}
		meta.OpaqueID = bus

		d := &Display{Info: meta, Handle: handle}
		logger.Debugf("Detected display %s on %s", d.Name(), bus)
		displays = append(displays, d)
	}

	if len(displays) == 0 {
		return nil, fmt.Errorf("no DDC/CI capable displays found")
	}
	return displays, nil
}
