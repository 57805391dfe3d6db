// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Direction is the switch direction a configuration entry applies to:
// the watched USB device either appeared or went away.
type Direction int

const (
	UsbConnected Direction = iota
	UsbDisconnected
)

func (d Direction) String() string {
	if d == UsbConnected {
		return "USB device connected"
	}
	return "USB device disconnected"
}

// Config represents the application configuration
type Config struct {
	// USB device whose presence drives switching
	UsbDevice UsbDeviceConfig `mapstructure:"usb_device"`

	// Default input sources and hook commands per direction
	Input InputConfig `mapstructure:"input"`

	// Per-monitor overrides, matched by display label substring
	Monitors []MonitorConfig `mapstructure:"monitor"`

	// Retry policy for displays that fail to confirm the switch
	Switch SwitchConfig `mapstructure:"switch"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// UsbDeviceConfig identifies the watched USB device
type UsbDeviceConfig struct {
	ID string `mapstructure:"id"` // "vid:pid", hex, e.g. "1050:0407"
}

// InputConfig contains the default input sources and hook commands
type InputConfig struct {
	OnUsbConnect           string `mapstructure:"on_usb_connect"`
	OnUsbDisconnect        string `mapstructure:"on_usb_disconnect"`
	OnUsbConnectExecute    string `mapstructure:"on_usb_connect_execute"`
	OnUsbDisconnectExecute string `mapstructure:"on_usb_disconnect_execute"`
}

// MonitorConfig overrides the default input sources for monitors whose
// label contains Match (case-insensitive)
type MonitorConfig struct {
	Match           string `mapstructure:"match"`
	OnUsbConnect    string `mapstructure:"on_usb_connect"`
	OnUsbDisconnect string `mapstructure:"on_usb_disconnect"`
}

// SwitchConfig contains the retry policy applied by the daemon scheduler
type SwitchConfig struct {
	RetryAttempts int `mapstructure:"retry_attempts"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		UsbDevice: UsbDeviceConfig{ID: ""},
		Input:     InputConfig{},
		Monitors:  []MonitorConfig{},
		Switch:    SwitchConfig{RetryAttempts: 3},
		Logging:   LoggingConfig{LogLevel: ""},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("display-switch")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		// Config paths in order of precedence
		if home := os.Getenv("HOME"); home != "" {
			viper.AddConfigPath(filepath.Join(home, ".config", "display-switch"))
		}
		viper.AddConfigPath("/etc/display-switch")
		viper.AddConfigPath(".")
	}

	// Set defaults - need to set individual fields for proper merging
	viper.SetDefault("usb_device.id", DefaultConfig.UsbDevice.ID)
	viper.SetDefault("input.on_usb_connect", DefaultConfig.Input.OnUsbConnect)
	viper.SetDefault("input.on_usb_disconnect", DefaultConfig.Input.OnUsbDisconnect)
	viper.SetDefault("input.on_usb_connect_execute", DefaultConfig.Input.OnUsbConnectExecute)
	viper.SetDefault("input.on_usb_disconnect_execute", DefaultConfig.Input.OnUsbDisconnectExecute)
	viper.SetDefault("switch.retry_attempts", DefaultConfig.Switch.RetryAttempts)
	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/display-switch/display-switch.toml"
	}
	return filepath.Join(home, ".config", "display-switch", "display-switch.toml")
}

// InputSourceFor returns the configured input source string for a display
// label and switch direction. Per-monitor overrides win over the defaults;
// an empty result means no switch is configured for that direction.
func (c *Config) InputSourceFor(label string, direction Direction) (string, bool) {
	for _, m := range c.Monitors {
		if m.Match == "" || !strings.Contains(strings.ToLower(label), strings.ToLower(m.Match)) {
			continue
		}
		if source := m.inputSource(direction); source != "" {
			return source, true
		}
	}

	if source := c.Input.inputSource(direction); source != "" {
		return source, true
	}
	return "", false
}

// ExecuteCommand returns the command line configured to run after a switch
// decision in the given direction, or "" when none is configured.
func (c *Config) ExecuteCommand(direction Direction) string {
	if direction == UsbConnected {
		return c.Input.OnUsbConnectExecute
	}
	return c.Input.OnUsbDisconnectExecute
}

func (i InputConfig) inputSource(direction Direction) string {
	if direction == UsbConnected {
		return i.OnUsbConnect
	}
	return i.OnUsbDisconnect
}

func (m MonitorConfig) inputSource(direction Direction) string {
	if direction == UsbConnected {
		return m.OnUsbConnect
	}
	return m.OnUsbDisconnect
}
