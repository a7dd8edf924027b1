// Package overlay draws the interaction state onto camera frames.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// StartPrompt is shown while waiting for the start gesture.
const StartPrompt = "Show Thumbs-up Gesture to Start"

// Colors are RGB; gocv converts them to OpenCV's BGR scalars when drawing.
var (
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 0}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

// Positions of the status lines.
var (
	FeedbackAt = image.Point{X: 50, Y: 100}
	ReadoutAt  = image.Point{X: 50, Y: 150}
)

const (
	fontFace  = gocv.FontHersheySimplex
	fontScale = 1.0
	thickness = 2
)

// Text is one line of overlay text.
type Text struct {
	Body  string
	At    image.Point
	Color color.RGBA
}

// Compose returns the text lines for state s on a frame of the given size.
func Compose(s gesture.State, width, height int, style gesture.MenuStyle) []Text {
	switch s.Mode {
	case gesture.AwaitingStart:
		return []Text{{Body: StartPrompt, At: FeedbackAt, Color: White}}

	case gesture.ShowingMenu:
		entries := gesture.Layout(width, height, s.Options, style)
		lines := make([]Text, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, Text{Body: e.Text, At: e.Origin, Color: White})
		}
		return lines

	case gesture.ControllingValue:
		var lines []Text
		if s.Feedback != "" {
			lines = append(lines, Text{Body: s.Feedback, At: FeedbackAt, Color: Green})
		}
		if opt, ok := s.SelectedOption(); ok {
			lines = append(lines, Text{Body: Readout(opt, s.LastIntensity), At: ReadoutAt, Color: Yellow})
		}
		return lines
	}
	return nil
}

// Readout formats the intensity line. Options whose range is not 0-100 also
// show the mapped level.
func Readout(opt gesture.Option, intensity int) string {
	line := fmt.Sprintf("%s: %d%%", opt.DisplayLabel(), intensity)
	if opt.Min != 0 || opt.Max != 100 {
		line += fmt.Sprintf(" (%d)", opt.Level(intensity))
	}
	return line
}

// Draw renders the hand skeletons and the state text onto frame.
func Draw(frame *gocv.Mat, s gesture.State, hands []detector.HandLandmarks, style gesture.MenuStyle) {
	width, height := frame.Cols(), frame.Rows()

	for i := range hands {
		DrawHand(frame, &hands[i])
	}

	for _, t := range Compose(s, width, height, style) {
		gocv.PutText(frame, t.Body, t.At, fontFace, fontScale, t.Color, thickness)
	}
}

// DrawHand draws the landmark skeleton of one hand.
func DrawHand(frame *gocv.Mat, hand *detector.HandLandmarks) {
	width, height := frame.Cols(), frame.Rows()

	pixel := func(i int) image.Point {
		x, y := hand.Points[i].Pixel(width, height)
		return image.Pt(int(x), int(y))
	}

	for _, c := range detector.Connections {
		gocv.Line(frame, pixel(c[0]), pixel(c[1]), Green, 2)
	}
	for i := range hand.Points {
		gocv.Circle(frame, pixel(i), 4, Red, -1)
	}
}
