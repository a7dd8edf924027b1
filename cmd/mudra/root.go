package main

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "mudra",
	Short: "Mudra is a gesture-driven control signal publisher",
	Long: `Mudra watches a webcam for hand gestures. A thumbs-up opens the menu,
pointing selects an option, the thumb/index pinch sets its intensity and
showing both hands publishes the selection to an MQTT broker.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("headless", false, "Do not open the preview window")
	rootCmd.PersistentFlags().Int("camera", 0, "Camera device index")
	rootCmd.PersistentFlags().String("broker", "", "MQTT broker as host:port")
}

// loadConfig reads the configuration file and applies command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}
	if headless, _ := flags.GetBool("headless"); headless {
		cfg.Display.Enabled = false
	}
	if flags.Changed("camera") {
		cfg.Camera.Device, _ = flags.GetInt("camera")
	}
	if broker, _ := flags.GetString("broker"); broker != "" {
		host, port, err := parseBroker(broker)
		if err != nil {
			return nil, err
		}
		cfg.MQTT.Host, cfg.MQTT.Port = host, port
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parseBroker splits host:port. A bare host keeps the default port.
func parseBroker(s string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return s, 1883, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("--broker: invalid port %q", portStr)
	}
	return host, port, nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level, _ := config.ParseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
