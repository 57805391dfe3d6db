package daemon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rajohns08/display-switch/internal/config"
	"github.com/rajohns08/display-switch/internal/display"
)

// flakyHandle fails its first N writes, then succeeds.
type flakyHandle struct {
	failWrites int
	current    uint16
	writes     int
}

func (f *flakyHandle) GetVCP(feature byte) (uint16, error) {
	return f.current, nil
}

func (f *flakyHandle) SetVCP(feature byte, value uint16) error {
	f.writes++
	if f.writes <= f.failWrites {
		return errors.New("nack")
	}
	f.current = value
	return nil
}

func (f *flakyHandle) Close() error { return nil }

func testDaemon(cfg *config.Config, displays []*display.Display) (*Daemon, *[]string) {
	var commands []string
	d := New(cfg)
	d.retryDelay = 0
	d.detect = func() ([]*display.Display, error) { return displays, nil }
	d.runCommand = func(line string) error {
		commands = append(commands, line)
		return nil
	}
	return d, &commands
}

func testConfig() *config.Config {
	return &config.Config{
		Input: config.InputConfig{
			OnUsbConnect:    "Hdmi1",
			OnUsbDisconnect: "DisplayPort1",
		},
		Switch: config.SwitchConfig{RetryAttempts: 3},
	}
}

func TestSwitch(t *testing.T) {
	t.Run("switches every display and runs the hook once", func(t *testing.T) {
		h1 := &flakyHandle{current: 0x0F}
		h2 := &flakyHandle{current: 0x0F}
		displays := []*display.Display{
			{Info: display.Metadata{ModelName: "A"}, Handle: h1},
			{Info: display.Metadata{ModelName: "B"}, Handle: h2},
		}

		cfg := testConfig()
		cfg.Input.OnUsbConnectExecute = "notify-send switched"
		d, commands := testDaemon(cfg, displays)

		d.Switch(config.UsbConnected)

		assert.Equal(t, uint16(0x11), h1.current)
		assert.Equal(t, uint16(0x11), h2.current)
		assert.Equal(t, []string{"notify-send switched"}, *commands)
	})

	t.Run("retries failed displays only", func(t *testing.T) {
		good := &flakyHandle{current: 0x0F}
		bad := &flakyHandle{current: 0x0F, failWrites: 1}
		displays := []*display.Display{
			{Info: display.Metadata{ModelName: "A"}, Handle: good},
			{Info: display.Metadata{ModelName: "B"}, Handle: bad},
		}

		d, _ := testDaemon(testConfig(), displays)
		d.Switch(config.UsbConnected)

		// good switched on the first round; only bad is revisited and
		// its second write succeeds.
		assert.Equal(t, 1, good.writes)
		assert.Equal(t, 2, bad.writes)
		assert.Equal(t, uint16(0x11), bad.current)
	})

	t.Run("gives up after the configured attempts", func(t *testing.T) {
		stubborn := &flakyHandle{current: 0x0F, failWrites: 100}
		displays := []*display.Display{
			{Info: display.Metadata{ModelName: "A"}, Handle: stubborn},
		}

		cfg := testConfig()
		cfg.Switch.RetryAttempts = 2
		d, _ := testDaemon(cfg, displays)

		d.Switch(config.UsbConnected)

		assert.Equal(t, 2, stubborn.writes)
	})

	t.Run("runs the hook even when no display is configured", func(t *testing.T) {
		cfg := &config.Config{
			Input: config.InputConfig{OnUsbDisconnectExecute: "hook"},
		}
		d, commands := testDaemon(cfg, nil)

		d.Switch(config.UsbDisconnected)

		assert.Equal(t, []string{"hook"}, *commands)
	})

	t.Run("wake re-applies the last direction", func(t *testing.T) {
		h := &flakyHandle{current: 0x0F}
		displays := []*display.Display{
			{Info: display.Metadata{ModelName: "A"}, Handle: h},
		}

		d, _ := testDaemon(testConfig(), displays)
		d.Switch(config.UsbConnected)
		h.current = 0x0F // the monitor forgot its input during sleep

		d.reapplyLast()

		assert.Equal(t, uint16(0x11), h.current)
	})

	t.Run("no-op wake before any switch", func(t *testing.T) {
		d, commands := testDaemon(testConfig(), nil)

		d.reapplyLast()

		assert.Empty(t, *commands)
	})
}

func TestResolveTargets(t *testing.T) {
	t.Run("ordinal labels when plain labels collide", func(t *testing.T) {
		twin := display.Metadata{ManufacturerID: "DEL", ModelName: "U2720Q"}
		displays := []*display.Display{
			{Info: twin, Handle: &flakyHandle{}},
			{Info: twin, Handle: &flakyHandle{}},
		}

		d, _ := testDaemon(testConfig(), displays)
		targets := d.resolveTargets(displays, config.UsbConnected)

		assert.Len(t, targets, 2)
		assert.Equal(t, "'DEL U2720Q #1'", targets[0].label)
		assert.Equal(t, "'DEL U2720Q #2'", targets[1].label)
	})

	t.Run("bad input source is skipped", func(t *testing.T) {
		displays := []*display.Display{
			{Info: display.Metadata{ModelName: "A"}, Handle: &flakyHandle{}},
		}

		cfg := testConfig()
		cfg.Input.OnUsbConnect = "NotAnInput"
		d, _ := testDaemon(cfg, displays)

		targets := d.resolveTargets(displays, config.UsbConnected)
		assert.Empty(t, targets)
	})
}
