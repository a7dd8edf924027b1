package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/gesture"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mudra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.MQTT.Host)
	assert.Equal(t, 1883, cfg.MQTT.Port)
	assert.Equal(t, "gesture-control", cfg.MQTT.Topic)
	assert.Equal(t, "Gesture-Controlled System", cfg.Display.Title)
	assert.Equal(t, "q", cfg.Display.QuitKey)
	assert.True(t, cfg.Camera.Mirror)
	assert.Len(t, cfg.Options, 3)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
camera:
  device: 1
  mirror: false
mqtt:
  host: broker.local
  port: 8883
  topic: home/lights
  publish_timeout: 500ms
options:
  - id: 7
    name: Fan Speed
    min: 1
    max: 5
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Camera.Device)
	assert.False(t, cfg.Camera.Mirror)
	assert.Equal(t, 640, cfg.Camera.Width, "unset fields keep their defaults")
	assert.Equal(t, "broker.local", cfg.MQTT.Host)
	assert.Equal(t, 8883, cfg.MQTT.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.MQTT.PublishTimeout)
	assert.Equal(t, 5*time.Second, cfg.MQTT.ConnectTimeout)

	want := []gesture.Option{{ID: 7, Name: "Fan Speed", Label: "Fan Speed", Min: 1, Max: 5}}
	if diff := cmp.Diff(want, cfg.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "camera: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative device", func(c *Config) { c.Camera.Device = -1 }, "camera.device"},
		{"confidence above one", func(c *Config) { c.Detector.MinConfidence = 1.5 }, "confidences"},
		{"no host", func(c *Config) { c.MQTT.Host = "" }, "host is required"},
		{"port zero", func(c *Config) { c.MQTT.Port = 0 }, "out of range"},
		{"port too high", func(c *Config) { c.MQTT.Port = 70000 }, "out of range"},
		{"wildcard topic", func(c *Config) { c.MQTT.Topic = "a/#" }, "wildcards"},
		{"qos 3", func(c *Config) { c.MQTT.QoS = 3 }, "qos"},
		{"zero char width", func(c *Config) { c.Menu.CharWidth = 0 }, "char_width"},
		{"no options", func(c *Config) { c.Options = nil }, "at least one option"},
		{"zero id", func(c *Config) { c.Options[0].ID = 0 }, "id must be > 0"},
		{"duplicate id", func(c *Config) { c.Options[1].ID = c.Options[0].ID }, "duplicate option id"},
		{"blank name", func(c *Config) { c.Options[0].Name = "  " }, "name is required"},
		{"min equals max", func(c *Config) { c.Options[2].Min = c.Options[2].Max }, "must be below"},
		{"long quit key", func(c *Config) { c.Display.QuitKey = "esc" }, "single character"},
		{"motion threshold", func(c *Config) { c.MotionThreshold = 101 }, "motion_threshold"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "unknown level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_FillsDefaults(t *testing.T) {
	cfg := Default()
	cfg.Detector.MaxHands = 0
	cfg.MQTT.ConnectTimeout = 0
	cfg.MQTT.PublishTimeout = 0
	cfg.Display.Title = ""
	cfg.Display.QuitKey = ""
	cfg.Log.Format = ""
	cfg.Options[0].Label = ""

	require.NoError(t, Validate(cfg))

	assert.Equal(t, 2, cfg.Detector.MaxHands)
	assert.Equal(t, 5*time.Second, cfg.MQTT.ConnectTimeout)
	assert.Equal(t, 2*time.Second, cfg.MQTT.PublishTimeout)
	assert.Equal(t, "Gesture-Controlled System", cfg.Display.Title)
	assert.Equal(t, "q", cfg.Display.QuitKey)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, cfg.Options[0].Name, cfg.Options[0].Label)
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"", "debug", "INFO", "warn", "warning", "error"} {
		_, err := ParseLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.MQTT.Username = "mudra"
	cfg.MQTT.Password = "hunter2"

	data, err := cfg.Redacted().Marshal()
	require.NoError(t, err)

	assert.NotContains(t, string(data), "hunter2")
	assert.Contains(t, string(data), "username: mudra")
	assert.Equal(t, "hunter2", cfg.MQTT.Password, "original left intact")

	plain, err := Default().Redacted().Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "password", "unset password is omitted")
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := Default()
	data, err := cfg.Marshal()
	require.NoError(t, err)

	loaded, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)

	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
