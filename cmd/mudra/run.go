package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/publish"
	"github.com/ayusman/mudra/internal/server"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gesture session",
	Long:  `Opens the camera and the preview window and publishes committed selections until the quit key is pressed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger := newLogger(cfg.Log, os.Stderr)
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(ctx, cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Running a session is the default action.
	rootCmd.RunE = runCmd.RunE
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	det := newDetector(cfg.Detector, logger)
	defer det.Close()

	pub := publish.NewMQTTPublisher(cfg.MQTT)
	defer pub.Close()
	if err := pub.Connect(ctx); err != nil {
		logger.Warn("broker unavailable, connecting again on first commit",
			"broker", cfg.MQTT.BrokerURL(), "error", err)
	} else {
		logger.Info("connected to broker", "broker", cfg.MQTT.BrokerURL(), "topic", cfg.MQTT.Topic)
	}

	m := metrics.New()

	var board *server.Board
	if cfg.Server.Addr != "" {
		board = server.NewBoard()
		srv := server.New(server.Config{Board: board, Metrics: m.Handler()})
		go func() {
			if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
				logger.Error("status server failed", "error", err)
			}
		}()
	}

	var display overlay.Display = overlay.Headless{}
	if cfg.Display.Enabled {
		display = overlay.NewWindow(cfg.Display.Title, cfg.Display.QuitKey[0])
	}

	var gate *capture.MotionGate
	if cfg.MotionThreshold > 0 {
		gate = capture.NewMotionGate(cfg.MotionThreshold, capture.DefaultMotionHold)
	}

	a, err := app.New(app.Config{
		Camera:         capture.NewCamera(cfg.Camera),
		Detector:       det,
		Publisher:      pub,
		Display:        display,
		Gate:           gate,
		Metrics:        m,
		Board:          board,
		Menu:           cfg.Menu,
		Options:        cfg.Options,
		PublishTimeout: cfg.MQTT.PublishTimeout,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	err = a.Run(ctx)
	if errors.Is(err, capture.ErrCaptureFailed) {
		logger.Error("failed to capture image, ending session", "error", err)
		return nil
	}
	if err != nil {
		return err
	}

	stats := pub.Stats()
	logger.Info("session ended", "published", stats.Published, "publish_errors", stats.Errors)
	return nil
}

// newDetector prefers the MediaPipe service and falls back to a detector that
// never sees hands.
func newDetector(cfg detector.Config, logger *slog.Logger) detector.Detector {
	mp, err := detector.NewMediaPipeDetector(cfg)
	if err != nil {
		logger.Warn("MediaPipe not available, using mock detector", "error", err)
		return detector.NewMockDetector()
	}
	logger.Info("using MediaPipe hand detection")
	return mp
}
