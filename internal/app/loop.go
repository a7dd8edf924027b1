package app

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
)

// Run opens the camera and processes frames until ctx is cancelled, the
// quit key is pressed, or a frame cannot be captured. A capture failure is
// returned wrapping capture.ErrCaptureFailed; the other two return nil.
func (a *App) Run(ctx context.Context) error {
	if err := a.config.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer a.config.Camera.Close()
	defer a.config.Display.Close()
	if a.config.Gate != nil {
		defer a.config.Gate.Close()
	}

	a.log.Info("frame loop started", "mode", a.state.Mode, "fps", a.config.Camera.FPS())

	for {
		select {
		case <-ctx.Done():
			a.log.Info("frame loop stopped", "reason", ctx.Err())
			return nil
		default:
		}

		frame, err := a.config.Camera.ReadFrame()
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}

		quit := a.processFrame(ctx, frame)
		frame.Close()

		if quit {
			a.log.Info("quit key pressed")
			return nil
		}
	}
}

// processFrame runs one captured frame through the pipeline and reports
// whether the user asked to quit.
func (a *App) processFrame(ctx context.Context, frame *gocv.Mat) bool {
	hands := a.detect(frame)

	a.step(ctx, gesture.Frame{
		Hands:  hands,
		Width:  frame.Cols(),
		Height: frame.Rows(),
	})

	overlay.Draw(frame, a.state, hands, a.config.Menu)

	if a.config.Board != nil {
		a.config.Board.Observe(a.state, len(hands), frame)
	}
	return a.config.Display.Show(frame)
}

// detect returns the hands in frame. Frames held back by the motion gate and
// frames the detector fails on count as frames without hands.
func (a *App) detect(frame *gocv.Mat) []detector.HandLandmarks {
	m := a.config.Metrics

	if !a.config.Gate.Allow(frame) {
		m.Frame(outcomeSkipped)
		return nil
	}

	start := time.Now()
	hands, err := a.config.Detector.Detect(frame)
	m.Detect.Observe(time.Since(start).Seconds())

	if err != nil {
		m.Frame(outcomeDetectError)
		a.log.Warn("hand detection failed", "error", err)
		return nil
	}
	if len(hands) == 0 {
		m.Frame(outcomeNoHands)
		return nil
	}
	m.Frame(outcomeHands)
	return hands
}
