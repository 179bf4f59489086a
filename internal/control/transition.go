package control

import "github.com/dokzlo13/keylight/internal/light"

// Outcome is what applying an event did to the session.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeChanged
	OutcomeStop
	OutcomeFailed
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeChanged:
		return "changed"
	case OutcomeStop:
		return "stop"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Apply mutates state according to ev and reports the outcome.
// Lower temperature values are warmer. Events with an unknown kind are
// ignored.
func Apply(state *light.State, ev Event) Outcome {
	switch ev.Kind {
	case KindQuit:
		return OutcomeStop
	case KindFailure:
		return OutcomeFailed
	case KindBrightnessDown:
		state.AdjustBrightness(-ev.Step)
	case KindBrightnessUp:
		state.AdjustBrightness(ev.Step)
	case KindWarmer:
		state.AdjustTemperature(-ev.Step)
	case KindColder:
		state.AdjustTemperature(ev.Step)
	case KindToggle:
		state.TogglePower()
	default:
		return OutcomeNone
	}
	return OutcomeChanged
}
