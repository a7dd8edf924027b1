package gesture

import "github.com/ayusman/mudra/internal/detector"

// Frame is what the interpreter sees of one captured frame.
type Frame struct {
	Hands  []detector.HandLandmarks
	Width  int
	Height int
}

// Trigger is the condition detected in a frame, relative to the current mode.
type Trigger int

const (
	TriggerNoHands Trigger = iota
	TriggerHands           // hands present, nothing relevant to the mode
	TriggerThumbsUp
	TriggerMenuHit
	TriggerMenuMiss
	TriggerOneHand
	TriggerTwoHands // two or more
)

var triggerNames = [...]string{"no_hands", "hands", "thumbs_up", "menu_hit", "menu_miss", "one_hand", "two_hands"}

func (t Trigger) String() string {
	if int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return "unknown"
}

// EventKind classifies the output of a step.
type EventKind int

const (
	EventStarted EventKind = iota + 1
	EventSelected
	EventAdjusted
	EventCommitted
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventSelected:
		return "selected"
	case EventAdjusted:
		return "adjusted"
	case EventCommitted:
		return "committed"
	}
	return "none"
}

// Event is the optional output of a step. Only EventCommitted is published.
type Event struct {
	Kind      EventKind
	Option    OptionID
	Intensity int
}

// effect applies a transition's side effect to the next state.
type effect func(s *State, f Frame, hit OptionID) *Event

type transition struct {
	next   Mode
	effect effect
}

// transitions is the complete table: (mode, trigger) -> (next mode, effect).
// Pairs not listed leave the state unchanged.
var transitions = map[Mode]map[Trigger]transition{
	AwaitingStart: {
		TriggerThumbsUp: {next: ShowingMenu, effect: start},
	},
	ShowingMenu: {
		TriggerMenuHit:  {next: ControllingValue, effect: selectOption},
		TriggerMenuMiss: {next: ShowingMenu, effect: clearSelection},
	},
	ControllingValue: {
		TriggerOneHand:  {next: ControllingValue, effect: adjust},
		TriggerTwoHands: {next: ShowingMenu, effect: commit},
	},
}

// Interpreter advances the interaction state one frame at a time.
type Interpreter struct {
	Style MenuStyle
}

// NewInterpreter creates an Interpreter laying the menu out with style.
func NewInterpreter(style MenuStyle) *Interpreter {
	return &Interpreter{Style: style}
}

// Step computes the state after frame f and the event it produced, if any.
// The returned trigger is what the frame was classified as.
func (in *Interpreter) Step(s State, f Frame) (State, *Event, Trigger) {
	trig, hit := in.classify(s, f)

	t, ok := transitions[s.Mode][trig]
	if !ok {
		return s, nil, trig
	}

	next := s.clone()
	next.Mode = t.next
	return next, t.effect(&next, f, hit), trig
}

func (in *Interpreter) classify(s State, f Frame) (Trigger, OptionID) {
	if len(f.Hands) == 0 {
		return TriggerNoHands, NoOption
	}

	switch s.Mode {
	case AwaitingStart:
		if IsThumbsUp(f.Hands) {
			return TriggerThumbsUp, NoOption
		}
	case ShowingMenu:
		entries := Layout(f.Width, f.Height, s.Options, in.Style)
		hit, hits := NoOption, 0
		for i := range f.Hands {
			if id := HitTest(entries, &f.Hands[i], f.Width, f.Height); id != NoOption {
				hit = id
				hits++
			}
		}
		if hits == 1 {
			return TriggerMenuHit, hit
		}
		return TriggerMenuMiss, NoOption
	case ControllingValue:
		if len(f.Hands) == 1 {
			return TriggerOneHand, NoOption
		}
		return TriggerTwoHands, NoOption
	}
	return TriggerHands, NoOption
}

func start(s *State, _ Frame, _ OptionID) *Event {
	return &Event{Kind: EventStarted}
}

func selectOption(s *State, _ Frame, hit OptionID) *Event {
	s.Selected = hit
	if o, ok := s.SelectedOption(); ok {
		s.Feedback = "Selected option: " + o.Name
	}
	return &Event{Kind: EventSelected, Option: hit, Intensity: s.LastIntensity}
}

func clearSelection(s *State, _ Frame, _ OptionID) *Event {
	s.Selected = NoOption
	s.Feedback = ""
	return nil
}

func adjust(s *State, f Frame, _ OptionID) *Event {
	s.LastIntensity = Intensity(PinchDistance(&f.Hands[0]))
	if i := findOption(s.Options, s.Selected); i >= 0 {
		s.Options[i].Current = s.LastIntensity
	}
	return &Event{Kind: EventAdjusted, Option: s.Selected, Intensity: s.LastIntensity}
}

func commit(s *State, _ Frame, _ OptionID) *Event {
	selected := s.Selected
	s.Selected = NoOption
	s.Feedback = ""
	if selected == NoOption {
		return nil
	}
	return &Event{Kind: EventCommitted, Option: selected, Intensity: s.LastIntensity}
}
