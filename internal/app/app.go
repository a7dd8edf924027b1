// Package app runs the mudra frame loop: capture, detect, interpret,
// publish and draw, one frame at a time.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/publish"
	"github.com/ayusman/mudra/internal/server"
)

// DefaultPublishTimeout bounds a single publish when none is configured.
const DefaultPublishTimeout = 2 * time.Second

// Frame outcomes recorded in metrics.
const (
	outcomeSkipped     = "skipped"
	outcomeNoHands     = "no_hands"
	outcomeHands       = "hands"
	outcomeDetectError = "detect_error"
)

// Config holds the collaborators of an App. Camera, Detector and Publisher
// are required.
type Config struct {
	Camera    capture.Camera
	Detector  detector.Detector
	Publisher publish.Publisher

	Display overlay.Display     // nil runs headless
	Gate    *capture.MotionGate // nil processes every frame
	Metrics *metrics.Metrics
	Board   *server.Board

	Menu           gesture.MenuStyle
	Options        []gesture.Option
	PublishTimeout time.Duration
	Logger         *slog.Logger
}

// App owns the interaction state and drives it from camera frames.
type App struct {
	config Config
	interp *gesture.Interpreter
	state  gesture.State
	log    *slog.Logger
}

// New creates an App in the AwaitingStart mode.
func New(config Config) (*App, error) {
	switch {
	case config.Camera == nil:
		return nil, errors.New("app: camera is required")
	case config.Detector == nil:
		return nil, errors.New("app: detector is required")
	case config.Publisher == nil:
		return nil, errors.New("app: publisher is required")
	}

	if config.Display == nil {
		config.Display = overlay.Headless{}
	}
	if config.Metrics == nil {
		config.Metrics = metrics.New()
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = DefaultPublishTimeout
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Menu == (gesture.MenuStyle{}) {
		config.Menu = gesture.DefaultMenuStyle()
	}
	if len(config.Options) == 0 {
		config.Options = gesture.DefaultOptions()
	}

	return &App{
		config: config,
		interp: gesture.NewInterpreter(config.Menu),
		state:  gesture.NewState(config.Options),
		log:    config.Logger,
	}, nil
}

// State returns the current interaction state.
func (a *App) State() gesture.State {
	return a.state
}

// step advances the state machine by one frame and acts on the event it
// produced.
func (a *App) step(ctx context.Context, f gesture.Frame) *gesture.Event {
	prev := a.state.Mode

	next, ev, trig := a.interp.Step(a.state, f)
	a.state = next

	if prev != next.Mode {
		a.log.Debug("transition", "from", prev, "to", next.Mode, "trigger", trig)
	}
	a.config.Metrics.Transition(prev.String(), next.Mode.String())

	if ev != nil {
		a.handle(ctx, ev)
	}
	return ev
}

func (a *App) handle(ctx context.Context, ev *gesture.Event) {
	switch ev.Kind {
	case gesture.EventStarted:
		a.log.Info("session started")

	case gesture.EventSelected:
		a.log.Info("option selected", "option", ev.Option)

	case gesture.EventAdjusted:
		a.config.Metrics.SetIntensity(int(ev.Option), ev.Intensity)
		a.log.Debug("intensity adjusted", "option", ev.Option, "intensity", ev.Intensity)

	case gesture.EventCommitted:
		err := a.publish(ctx, ev)
		a.config.Metrics.Commit(err == nil)
		if err != nil {
			a.log.Error("publish failed", "option", ev.Option, "intensity", ev.Intensity, "error", err)
			return
		}
		a.log.Info("selection published", "option", ev.Option, "intensity", ev.Intensity)
	}
}

func (a *App) publish(ctx context.Context, ev *gesture.Event) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.PublishTimeout)
	defer cancel()

	msg := publish.Message{
		Intensity:      ev.Intensity,
		SelectedOption: int(ev.Option),
	}
	if err := a.config.Publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish %+v: %w", msg, err)
	}
	return nil
}
