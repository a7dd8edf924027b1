package gesture

import "fmt"

// Mode is the interaction mode.
type Mode int

const (
	AwaitingStart Mode = iota
	ShowingMenu
	ControllingValue
)

func (m Mode) String() string {
	switch m {
	case AwaitingStart:
		return "awaiting_start"
	case ShowingMenu:
		return "showing_menu"
	case ControllingValue:
		return "controlling_value"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// State is the whole interaction state. It is passed into and returned from
// Interpreter.Step once per frame; Step never mutates its input.
type State struct {
	Mode          Mode     `json:"mode"`
	Selected      OptionID `json:"selected_option"`
	LastIntensity int      `json:"last_intensity"`
	Feedback      string   `json:"feedback,omitempty"`
	Options       []Option `json:"options"`
}

// NewState returns the initial state over a copy of options.
func NewState(options []Option) State {
	return State{
		Mode:     AwaitingStart,
		Selected: NoOption,
		Options:  append([]Option(nil), options...),
	}
}

// SelectedOption returns the selected option, if any.
func (s State) SelectedOption() (Option, bool) {
	if s.Selected == NoOption {
		return Option{}, false
	}
	i := findOption(s.Options, s.Selected)
	if i < 0 {
		return Option{}, false
	}
	return s.Options[i], true
}

func (s State) clone() State {
	s.Options = append([]Option(nil), s.Options...)
	return s
}
