package gesture

import (
	"fmt"
	"image"

	"github.com/ayusman/mudra/internal/detector"
)

// MenuStyle controls where menu entries are drawn. Box widths are estimated
// from the entry name length, so the layout needs no font metrics.
type MenuStyle struct {
	OriginX    int `yaml:"origin_x"`
	OriginY    int `yaml:"origin_y"`    // baseline of the first entry
	LineHeight int `yaml:"line_height"` // baseline to baseline
	CharWidth  int `yaml:"char_width"`
	Ascent     int `yaml:"ascent"`  // box extent above the baseline
	Descent    int `yaml:"descent"` // box extent below the baseline
}

// DefaultMenuStyle matches the 1.0 scale Hershey simplex font.
func DefaultMenuStyle() MenuStyle {
	return MenuStyle{
		OriginX:    50,
		OriginY:    150,
		LineHeight: 50,
		CharWidth:  20,
		Ascent:     30,
		Descent:    10,
	}
}

// MenuEntry is the layout of one option for the current frame.
type MenuEntry struct {
	Option OptionID
	Text   string
	Origin image.Point     // text baseline start
	Box    image.Rectangle // hit area, clipped to the frame
}

// Layout computes the menu for a frame of the given size. Entries follow the
// order of options. It is recomputed every frame and never cached.
func Layout(width, height int, options []Option, style MenuStyle) []MenuEntry {
	frame := image.Rect(0, 0, width, height)
	entries := make([]MenuEntry, 0, len(options))

	y := style.OriginY
	for _, o := range options {
		box := image.Rect(
			style.OriginX, y-style.Ascent,
			style.OriginX+len(o.Name)*style.CharWidth, y+style.Descent,
		).Intersect(frame)

		entries = append(entries, MenuEntry{
			Option: o.ID,
			Text:   fmt.Sprintf("%d. %s", o.ID, o.Name),
			Origin: image.Pt(style.OriginX, y),
			Box:    box,
		})
		y += style.LineHeight
	}
	return entries
}

// Contains reports whether the pixel position lies strictly inside the box.
func (e MenuEntry) Contains(x, y float64) bool {
	if e.Box.Empty() {
		return false
	}
	return float64(e.Box.Min.X) < x && x < float64(e.Box.Max.X) &&
		float64(e.Box.Min.Y) < y && y < float64(e.Box.Max.Y)
}

// HitTest returns the entry under the index fingertip of hand, or NoOption.
func HitTest(entries []MenuEntry, hand *detector.HandLandmarks, width, height int) OptionID {
	x, y := hand.Points[detector.IndexTip].Pixel(width, height)
	for _, e := range entries {
		if e.Contains(x, y) {
			return e.Option
		}
	}
	return NoOption
}
