// Package config loads the simulator configuration.
//
// Configuration is read from a TOML file and then overridden by ODIN75_*
// environment variables:
//
//	[display]
//	fps = 30
//	wpm_min = 10
//	wpm_max = 100
//	color = "#8cd9ff"
//
//	[storage]
//	eeprom = "~/.local/state/odin75/eeprom.yaml"
//
//	[log]
//	level = "info"
//	file = "/tmp/odinsim.log"
//
//	[keys]
//	"Ctrl+L" = "LED_INF"
//
// A missing file is not an error; the defaults apply. The firmware has no
// runtime configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/odin75/internal/keycode"
)

// Config is the simulator configuration.
type Config struct {
	Display Display `toml:"display"`
	Storage Storage `toml:"storage"`
	Log     Log     `toml:"log"`
	Sim     Sim     `toml:"sim"`

	// Keys binds terminal key names to keycode names, on top of the
	// built-in terminal layout.
	Keys map[string]string `toml:"keys"`
}

// Display configures the emulated OLED.
type Display struct {
	FPS    int    `toml:"fps"`
	WPMMin int    `toml:"wpm_min"`
	WPMMax int    `toml:"wpm_max"`
	Color  string `toml:"color"`
}

// Storage configures where the settings word is kept.
type Storage struct {
	// EEPROM is the YAML file standing in for the EEPROM. Empty keeps the
	// settings in memory.
	EEPROM string `toml:"eeprom"`
}

// Log configures diagnostics.
type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Sim configures the simulator loop.
type Sim struct {
	// TickMs is the main loop period in milliseconds.
	TickMs int `toml:"tick_ms"`

	// ReleaseMs is how long a terminal key stays pressed. Terminals only
	// report presses, so releases are synthesised.
	ReleaseMs int `toml:"release_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Display: Display{
			FPS:    30,
			WPMMin: 10,
			WPMMax: 100,
			Color:  "#8cd9ff",
		},
		Log: Log{Level: "info"},
		Sim: Sim{
			TickMs:    1,
			ReleaseMs: 60,
		},
		Keys: map[string]string{},
	}
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	switch {
	case c.Display.FPS < 1 || c.Display.FPS > 1000:
		return &ValidationError{Path: "display.fps", Value: c.Display.FPS, Message: "must be between 1 and 1000"}
	case c.Display.WPMMin < 0:
		return &ValidationError{Path: "display.wpm_min", Value: c.Display.WPMMin, Message: "must not be negative"}
	case c.Display.WPMMax <= c.Display.WPMMin:
		return &ValidationError{Path: "display.wpm_max", Value: c.Display.WPMMax, Message: "must exceed wpm_min"}
	case c.Sim.TickMs < 1:
		return &ValidationError{Path: "sim.tick_ms", Value: c.Sim.TickMs, Message: "must be positive"}
	case c.Sim.ReleaseMs < 1:
		return &ValidationError{Path: "sim.release_ms", Value: c.Sim.ReleaseMs, Message: "must be positive"}
	}
	if c.Display.Color != "" {
		if _, err := colorful.Hex(c.Display.Color); err != nil {
			return &ValidationError{Path: "display.color", Value: c.Display.Color, Message: "not a #rrggbb colour"}
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log.level", Value: c.Log.Level, Message: "unknown level"}
	}
	return nil
}

// PanelColor returns the lit pixel colour.
func (c *Config) PanelColor() (colorful.Color, bool) {
	if c.Display.Color == "" {
		return colorful.Color{}, false
	}
	col, err := colorful.Hex(c.Display.Color)
	return col, err == nil
}

// Bindings resolves the Keys table against names.
func (c *Config) Bindings(names *keycode.Table) (map[string]keycode.Keycode, error) {
	out := make(map[string]keycode.Keycode, len(c.Keys))
	for key, name := range c.Keys {
		code, err := names.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("keys.%s: %w", key, err)
		}
		out[key] = code
	}
	return out, nil
}
