package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/publish"
)

// Validate checks cfg and fills in defaults for optional fields.
func Validate(cfg *Config) error {
	if cfg.Camera.Device < 0 {
		return fmt.Errorf("camera.device must be >= 0")
	}
	if cfg.Camera.Width < 0 || cfg.Camera.Height < 0 {
		return fmt.Errorf("camera.width and camera.height must be >= 0")
	}

	if cfg.Detector.MaxHands < 0 {
		return fmt.Errorf("detector.max_hands must be >= 0")
	}
	if cfg.Detector.MaxHands == 0 {
		cfg.Detector.MaxHands = 2
	}
	if !unit(cfg.Detector.MinConfidence) || !unit(cfg.Detector.MinTrackingConf) {
		return fmt.Errorf("detector confidences must be within [0, 1]")
	}

	if err := validateMQTT(&cfg.MQTT); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if cfg.Menu.CharWidth <= 0 || cfg.Menu.LineHeight <= 0 {
		return fmt.Errorf("menu.char_width and menu.line_height must be > 0")
	}

	if err := ValidateOptions(cfg.Options); err != nil {
		return fmt.Errorf("options: %w", err)
	}

	if cfg.Display.Title == "" {
		cfg.Display.Title = "Gesture-Controlled System"
	}
	if cfg.Display.QuitKey == "" {
		cfg.Display.QuitKey = "q"
	}
	if len(cfg.Display.QuitKey) != 1 {
		return fmt.Errorf("display.quit_key must be a single character, got %q", cfg.Display.QuitKey)
	}

	if cfg.MotionThreshold < 0 || cfg.MotionThreshold > 100 {
		return fmt.Errorf("motion_threshold must be within [0, 100]")
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	switch cfg.Log.Format {
	case "":
		cfg.Log.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}

	return nil
}

func validateMQTT(m *publish.Config) error {
	if m.Host == "" {
		return errors.New("host is required")
	}
	if m.Port <= 0 || m.Port > 65535 {
		return fmt.Errorf("port %d out of range", m.Port)
	}
	if m.Topic == "" {
		return errors.New("topic is required")
	}
	if strings.ContainsAny(m.Topic, "+#") {
		return fmt.Errorf("topic %q must not contain wildcards", m.Topic)
	}
	if m.QoS > 2 {
		return fmt.Errorf("qos must be 0, 1 or 2, got %d", m.QoS)
	}

	defaults := publish.DefaultConfig()
	if m.ConnectTimeout <= 0 {
		m.ConnectTimeout = defaults.ConnectTimeout
	}
	if m.PublishTimeout <= 0 {
		m.PublishTimeout = defaults.PublishTimeout
	}
	return nil
}

// ValidateOptions checks the option list and fills in missing labels.
func ValidateOptions(options []gesture.Option) error {
	if len(options) == 0 {
		return errors.New("at least one option is required")
	}

	seen := make(map[gesture.OptionID]bool, len(options))
	for i := range options {
		o := &options[i]
		if o.ID <= gesture.NoOption {
			return fmt.Errorf("option %q: id must be > 0", o.Name)
		}
		if seen[o.ID] {
			return fmt.Errorf("duplicate option id %d", o.ID)
		}
		seen[o.ID] = true

		if strings.TrimSpace(o.Name) == "" {
			return fmt.Errorf("option %d: name is required", o.ID)
		}
		if o.Min >= o.Max {
			return fmt.Errorf("option %d: min (%d) must be below max (%d)", o.ID, o.Min, o.Max)
		}
		if o.Label == "" {
			o.Label = o.Name
		}
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", s)
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
