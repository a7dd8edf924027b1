// Package config loads the mudra YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/publish"
)

// Config is the complete mudra configuration.
type Config struct {
	Camera          capture.Config    `yaml:"camera"`
	Detector        detector.Config   `yaml:"detector"`
	MQTT            publish.Config    `yaml:"mqtt"`
	Menu            gesture.MenuStyle `yaml:"menu"`
	Options         []gesture.Option  `yaml:"options"`
	Display         DisplayConfig     `yaml:"display"`
	Server          ServerConfig      `yaml:"server"`
	MotionThreshold float64           `yaml:"motion_threshold"` // percent of changed pixels; 0 disables the gate
	Log             LogConfig         `yaml:"log"`
}

// DisplayConfig controls the preview window.
type DisplayConfig struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title"`
	QuitKey string `yaml:"quit_key"`
}

// ServerConfig controls the optional status server. An empty Addr disables it.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Camera:   capture.DefaultConfig(),
		Detector: detector.DefaultConfig(),
		MQTT:     publish.DefaultConfig(),
		Menu:     gesture.DefaultMenuStyle(),
		Options:  gesture.DefaultOptions(),
		Display: DisplayConfig{
			Enabled: true,
			Title:   "Gesture-Controlled System",
			QuitKey: "q",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// An empty path yields the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Redacted returns a copy of c with secrets masked, for printing.
func (c *Config) Redacted() *Config {
	r := *c
	r.Options = append([]gesture.Option(nil), c.Options...)
	if r.MQTT.Password != "" {
		r.MQTT.Password = redacted
	}
	return &r
}

const redacted = "********"
