package control

// Kind identifies a discrete input event.
type Kind int

const (
	KindNone Kind = iota
	KindQuit
	KindBrightnessDown
	KindBrightnessUp
	KindWarmer
	KindColder
	KindToggle
	KindRedraw
	KindFailure
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindQuit:
		return "quit"
	case KindBrightnessDown:
		return "brightness_down"
	case KindBrightnessUp:
		return "brightness_up"
	case KindWarmer:
		return "warmer"
	case KindColder:
		return "colder"
	case KindToggle:
		return "toggle"
	case KindRedraw:
		return "redraw"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String for the user-bindable kinds.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "quit":
		return KindQuit, true
	case "brightness_down":
		return KindBrightnessDown, true
	case "brightness_up":
		return KindBrightnessUp, true
	case "warmer":
		return KindWarmer, true
	case "colder":
		return KindColder, true
	case "toggle":
		return KindToggle, true
	}
	return KindNone, false
}

// Adjusts reports whether the kind takes a step.
func (k Kind) Adjusts() bool {
	switch k {
	case KindBrightnessDown, KindBrightnessUp, KindWarmer, KindColder:
		return true
	}
	return false
}

// Event is a single input event. Step is used by the adjust kinds, Err by
// KindFailure.
type Event struct {
	Kind Kind
	Step int
	Err  error
}

// Quit ends the session.
func Quit() Event { return Event{Kind: KindQuit} }

// Toggle flips the power flag.
func Toggle() Event { return Event{Kind: KindToggle} }

// Redraw repaints the screen without touching the state.
func Redraw() Event { return Event{Kind: KindRedraw} }

// BrightnessDown lowers brightness by step.
func BrightnessDown(step int) Event { return Event{Kind: KindBrightnessDown, Step: step} }

// BrightnessUp raises brightness by step.
func BrightnessUp(step int) Event { return Event{Kind: KindBrightnessUp, Step: step} }

// Warmer lowers the raw temperature by step.
func Warmer(step int) Event { return Event{Kind: KindWarmer, Step: step} }

// Colder raises the raw temperature by step.
func Colder(step int) Event { return Event{Kind: KindColder, Step: step} }

// Failure reports an error raised outside the loop, such as a background push.
func Failure(err error) Event { return Event{Kind: KindFailure, Err: err} }
