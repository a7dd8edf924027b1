package overlay

import (
	"gocv.io/x/gocv"
)

// Display shows annotated frames and reports whether the user asked to quit.
type Display interface {
	// Show presents frame and returns true once the quit key was pressed.
	Show(frame *gocv.Mat) bool
	Close() error
}

// Window is a Display backed by an OpenCV window.
type Window struct {
	window  *gocv.Window
	quitKey int
}

// NewWindow opens a window with the given title. quitKey is the key that
// ends the session.
func NewWindow(title string, quitKey byte) *Window {
	return &Window{
		window:  gocv.NewWindow(title),
		quitKey: int(quitKey),
	}
}

// Show displays frame and polls the keyboard for one millisecond.
func (w *Window) Show(frame *gocv.Mat) bool {
	w.window.IMShow(*frame)
	return QuitPressed(w.window.WaitKey(1), w.quitKey)
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.window.Close()
}

// QuitPressed reports whether the WaitKey result matches quitKey.
func QuitPressed(key, quitKey int) bool {
	return key >= 0 && key&0xFF == quitKey
}

// Headless is a Display that shows nothing and never quits.
type Headless struct{}

// Show implements Display.
func (Headless) Show(*gocv.Mat) bool { return false }

// Close implements Display.
func (Headless) Close() error { return nil }
