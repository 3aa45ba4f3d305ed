package printer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gwillem/printerchess/pkg/gcode"
)

const DefaultConfigFile = "printerchess.json"

// Magnet driver kinds.
const (
	DriverFan   = "fan"   // electromagnet wired as a Klipper generic fan
	DriverServo = "servo" // permanent magnet on a Feetech lift servo
)

// Config holds the printer connection and board placement.
type Config struct {
	MoonrakerURL string          `json:"moonraker_url"`
	WorkArea     gcode.WorkArea  `json:"work_area"`
	Feed         int             `json:"feed"`
	MagnetDriver string          `json:"magnet_driver"`
	MagnetFan    string          `json:"magnet_fan,omitempty"`
	ServoPort    string          `json:"servo_port,omitempty"`
	ServoID      int             `json:"servo_id,omitempty"`
	Hz           int             `json:"hz"`
}

// DefaultConfig returns a workable configuration for a local Moonraker
// with a fan-switched electromagnet.
func DefaultConfig() Config {
	return Config{
		MoonrakerURL: "http://localhost:7125",
		WorkArea:     gcode.DefaultWorkArea(),
		Feed:         12000,
		MagnetDriver: DriverFan,
		MagnetFan:    "magnet",
		Hz:           30,
	}
}

// LoadConfig loads configuration from the default config file.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file. Missing
// fields fall back to defaults.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists.
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}

// NewTransport builds the transport this configuration describes.
func (c *Config) NewTransport() (Transport, error) {
	base := NewMoonraker(c.MoonrakerURL, c.MagnetFan)
	switch c.MagnetDriver {
	case DriverServo:
		lift, err := NewServoLift(base, c.ServoPort, c.ServoID)
		if err != nil {
			return nil, err
		}
		return lift, nil
	case DriverFan, "":
		return base, nil
	}
	return nil, fmt.Errorf("unknown magnet driver %q", c.MagnetDriver)
}
