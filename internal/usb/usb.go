// Package usb watches for a specific USB device appearing or
// disappearing, the trigger for input switching.
package usb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/rajohns08/display-switch/internal/logger"
)

// ID identifies a USB device by vendor and product id.
type ID struct {
	Vendor  uint16
	Product uint16
}

// ParseID parses a "vid:pid" pair in hex, e.g. "1050:0407".
func ParseID(s string) (ID, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return ID{}, fmt.Errorf("invalid USB device id %q, expected vid:pid", s)
	}
	vendor, err := strconv.ParseUint(parts[0], 16, 16)
	if err != nil {
		return ID{}, fmt.Errorf("invalid vendor id in %q: %w", s, err)
	}
	product, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return ID{}, fmt.Errorf("invalid product id in %q: %w", s, err)
	}
	return ID{Vendor: uint16(vendor), Product: uint16(product)}, nil
}

func (id ID) String() string {
	return fmt.Sprintf("%04x:%04x", id.Vendor, id.Product)
}

// Event is a presence change of the watched device.
type Event int

const (
	Connected Event = iota
	Disconnected
)

func (e Event) String() string {
	if e == Connected {
		return "connected"
	}
	return "disconnected"
}

// Watcher emits an Event whenever the watched device's presence
// changes. Detection rides on fsnotify over the /dev/bus/usb device
// nodes; presence itself is resolved through sysfs, which knows the
// vendor/product ids.
type Watcher struct {
	id        ID
	devPath   string
	sysfsPath string
	events    chan Event
}

func NewWatcher(id ID) *Watcher {
	return &Watcher{
		id:        id,
		devPath:   "/dev/bus/usb",
		sysfsPath: "/sys/bus/usb/devices",
		events:    make(chan Event, 10),
	}
}

// Events returns the channel presence changes are delivered on.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Run watches until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating USB watcher: %w", err)
	}
	defer func() {
		if err := fw.Close(); err != nil {
			logger.Errorf("Closing USB watcher: %v", err)
		}
	}()

	if err := fw.Add(w.devPath); err != nil {
		return fmt.Errorf("watching %s: %w", w.devPath, err)
	}
	buses, _ := filepath.Glob(filepath.Join(w.devPath, "*"))
	for _, bus := range buses {
		if err := fw.Add(bus); err != nil {
			logger.Warnf("Could not watch USB bus %s: %v", bus, err)
		}
	}

	present := w.devicePresent()
	logger.Debugf("USB device %s initially %s", w.id, presenceWord(present))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("USB watcher event channel closed")
			}
			// A new bus directory needs its own watch; device nodes are
			// created one level below /dev/bus/usb.
			if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == w.devPath {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.Add(event.Name); err != nil {
						logger.Warnf("Could not watch USB bus %s: %v", event.Name, err)
					}
				}
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}

			nowPresent := w.devicePresent()
			if nowPresent == present {
				continue
			}
			present = nowPresent

			change := Disconnected
			if present {
				change = Connected
			}
			logger.Debugf("USB device %s %s", w.id, change)
			select {
			case w.events <- change:
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("USB watcher error channel closed")
			}
			logger.Warnf("USB watcher: %v", err)
		}
	}
}

// devicePresent scans sysfs for a device with the watched vendor and
// product ids.
func (w *Watcher) devicePresent() bool {
	entries, err := os.ReadDir(w.sysfsPath)
	if err != nil {
		logger.Warnf("Could not scan %s: %v", w.sysfsPath, err)
		return false
	}

	for _, entry := range entries {
		dir := filepath.Join(w.sysfsPath, entry.Name())
		vendor, err := readSysfsID(filepath.Join(dir, "idVendor"))
		if err != nil {
			continue // interfaces and hubs without ids
		}
		product, err := readSysfsID(filepath.Join(dir, "idProduct"))
		if err != nil {
			continue
		}
		if vendor == w.id.Vendor && product == w.id.Product {
			return true
		}
	}
	return false
}

func readSysfsID(path string) (uint16, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return uint16(value), nil
}

func presenceWord(present bool) string {
	if present {
		return "present"
	}
	return "absent"
}
