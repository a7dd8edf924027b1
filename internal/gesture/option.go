// Package gesture turns per-frame hand landmarks into interaction state
// changes: start, menu selection, pinch-controlled intensity and commit.
package gesture

import "math"

// OptionID identifies a control target. IDs are positive; NoOption means
// nothing is selected.
type OptionID int

// NoOption is the zero OptionID.
const NoOption OptionID = 0

// Option is one controllable target, e.g. a light or a volume.
type Option struct {
	ID      OptionID `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Label   string   `json:"label" yaml:"label"` // readout label, defaults to Name
	Min     int      `json:"min" yaml:"min"`
	Max     int      `json:"max" yaml:"max"`
	Current int      `json:"current" yaml:"-"`
}

// DefaultOptions returns the stock targets.
func DefaultOptions() []Option {
	return []Option{
		{ID: 1, Name: "Light Intensity", Label: "Intensity", Min: 0, Max: 100},
		{ID: 2, Name: "TV Volume", Label: "Volume", Min: 0, Max: 100},
		{ID: 3, Name: "AC Temperature", Label: "Temperature", Min: 16, Max: 30},
	}
}

// DisplayLabel is the label shown next to the intensity readout.
func (o Option) DisplayLabel() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Name
}

// Level maps a 0-100 intensity onto the option's own range.
func (o Option) Level(intensity int) int {
	span := float64(o.Max - o.Min)
	return o.Min + int(math.Round(span*float64(ClampIntensity(intensity))/100))
}

// ClampIntensity limits v to [0, 100].
func ClampIntensity(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func findOption(options []Option, id OptionID) int {
	for i := range options {
		if options[i].ID == id {
			return i
		}
	}
	return -1
}
