// Package daemon wires the event sources to the switch executor and
// owns the retry policy the executor deliberately leaves out.
package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rajohns08/display-switch/internal/command"
	"github.com/rajohns08/display-switch/internal/config"
	"github.com/rajohns08/display-switch/internal/display"
	"github.com/rajohns08/display-switch/internal/input"
	"github.com/rajohns08/display-switch/internal/logger"
	"github.com/rajohns08/display-switch/internal/power"
	"github.com/rajohns08/display-switch/internal/usb"
)

// Daemon reacts to USB presence and wake events by switching every
// configured display and running the configured hook command.
type Daemon struct {
	cfg *config.Config

	// seams for tests
	detect     func() ([]*display.Display, error)
	runCommand func(string) error
	retryDelay time.Duration

	mu            sync.Mutex
	lastDirection *config.Direction
}

// New creates a daemon for the given configuration.
func New(cfg *config.Config) *Daemon {
	return &Daemon{
		cfg:        cfg,
		detect:     display.Detect,
		runCommand: command.Run,
		retryDelay: display.RetryDelay,
	}
}

// Run blocks until the context is canceled, dispatching switch
// decisions as events arrive.
func (d *Daemon) Run(ctx context.Context) error {
	if d.cfg.UsbDevice.ID == "" {
		return fmt.Errorf("no usb_device.id configured")
	}
	id, err := usb.ParseID(d.cfg.UsbDevice.ID)
	if err != nil {
		return err
	}

	usbWatcher := usb.NewWatcher(id)
	watcherErr := make(chan error, 2)
	go func() {
		watcherErr <- usbWatcher.Run(ctx)
	}()

	// Wake events re-apply the last switch; losing them degrades the
	// experience but does not break switching, so a missing system bus
	// is only a warning.
	var powerEvents <-chan power.Event
	powerWatcher, err := power.NewWatcher()
	if err != nil {
		logger.Warnf("Sleep/wake tracking disabled: %v", err)
	} else {
		defer powerWatcher.Close()
		powerEvents = powerWatcher.Events()
		go func() {
			watcherErr <- powerWatcher.Run(ctx)
		}()
	}

	logger.Infof("Watching USB device %s", id)

	for {
		select {
		case event, ok := <-usbWatcher.Events():
			if !ok {
				return fmt.Errorf("USB watcher stopped")
			}
			direction := config.UsbDisconnected
			if event == usb.Connected {
				direction = config.UsbConnected
			}
			d.Switch(direction)

		case event, ok := <-powerEvents:
			if !ok {
				powerEvents = nil
				continue
			}
			if !event.EnteringSleep {
				d.reapplyLast()
			}

		case err := <-watcherErr:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Switch performs one switch decision: set every display to its
// configured input for the direction, then run the hook command. All
// failures are logged and absorbed; a dead monitor or a broken hook
// must not stop future switches.
func (d *Daemon) Switch(direction config.Direction) {
	d.mu.Lock()
	dir := direction
	d.lastDirection = &dir
	d.mu.Unlock()

	logger.Infof("%s: switching display inputs", direction)
	d.switchDisplays(direction)

	if commandLine := d.cfg.ExecuteCommand(direction); commandLine != "" {
		if err := d.runCommand(commandLine); err != nil {
			logger.Errorf("Error executing external command '%s': %v", commandLine, err)
		}
	}
}

func (d *Daemon) reapplyLast() {
	d.mu.Lock()
	last := d.lastDirection
	d.mu.Unlock()

	if last == nil {
		return
	}
	logger.Infof("Woke up from sleep, re-applying last switch")
	d.Switch(*last)
}

// switchTarget is one display paired with its resolved label and input.
type switchTarget struct {
	display *display.Display
	label   string
	source  input.Source
}

func (d *Daemon) switchDisplays(direction config.Direction) {
	displays, err := d.detect()
	if err != nil {
		logger.Errorf("Display detection failed: %v", err)
		return
	}
	defer display.Close(displays)

	pending := d.resolveTargets(displays, direction)

	attempts := d.cfg.Switch.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts && len(pending) > 0; attempt++ {
		if attempt > 0 {
			logger.Infof("Retrying %d display(s) in %s", len(pending), d.retryDelay)
			time.Sleep(d.retryDelay)
		}

		var failed []switchTarget
		for _, target := range pending {
			result := display.SwitchInput(target.display.Handle, target.source)
			display.LogSwitchResult(target.label, target.source, result)
			if !result.OK() {
				failed = append(failed, target)
			}
		}
		pending = failed
	}

	if len(pending) > 0 {
		logger.Errorf("Giving up on %d display(s) after %d attempt(s)", len(pending), attempts)
	}
}

// resolveTargets labels the display set (with ordinals when plain
// labels collide) and pairs each display with its configured input.
// Displays with nothing configured for this direction are skipped.
func (d *Daemon) resolveTargets(displays []*display.Display, direction config.Direction) []switchTarget {
	unique := display.NamesUnique(displays)

	var targets []switchTarget
	for i, disp := range displays {
		label := disp.Name()
		if !unique {
			label = disp.NameWithOrdinal(i + 1)
		}

		configured, ok := d.cfg.InputSourceFor(label, direction)
		if !ok {
			logger.Debugf("No input configured for display %s on %s", label, direction)
			continue
		}
		source, err := input.Parse(configured)
		if err != nil {
			logger.Errorf("Bad input source for display %s: %v", label, err)
			continue
		}
		targets = append(targets, switchTarget{display: disp, label: label, source: source})
	}
	return targets
}
