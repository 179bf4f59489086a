// Package light holds the in-memory model of the key light.
//
// Brightness and temperature are stored in device-native units and are
// re-clamped on every mutation, so a Snapshot is always within range.
package light

import "math"

// Device-native ranges.
const (
	MinBrightness  = 0
	MaxBrightness  = 100
	MinTemperature = 143
	MaxTemperature = 344

	// Kelvin at MaxTemperature, and the span up to MinTemperature (7000 K).
	warmestKelvin = 2900
	kelvinSpan    = 4100
)

// State is the mutable light model. It is owned by a single writer.
type State struct {
	on          bool
	brightness  int
	temperature int
}

// New creates a State, clamping brightness and temperature into range.
func New(on bool, brightness, temperature int) *State {
	return &State{
		on:          on,
		brightness:  clamp(brightness, MinBrightness, MaxBrightness),
		temperature: clamp(temperature, MinTemperature, MaxTemperature),
	}
}

// FromSnapshot creates a State from a snapshot value.
func FromSnapshot(s Snapshot) *State {
	return New(s.On, s.Brightness, s.Temperature)
}

// SetPower sets the power flag.
func (s *State) SetPower(on bool) {
	s.on = on
}

// TogglePower flips the power flag and returns the new value.
func (s *State) TogglePower() bool {
	s.on = !s.on
	return s.on
}

// AdjustBrightness adds delta to brightness, saturating at the range bounds.
func (s *State) AdjustBrightness(delta int) {
	s.brightness = adjust(s.brightness, delta, MinBrightness, MaxBrightness)
}

// AdjustTemperature adds delta to temperature, saturating at the range bounds.
func (s *State) AdjustTemperature(delta int) {
	s.temperature = adjust(s.temperature, delta, MinTemperature, MaxTemperature)
}

// Snapshot returns a read-only copy of the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		On:          s.on,
		Brightness:  s.brightness,
		Temperature: s.temperature,
	}
}

// Snapshot is an immutable view of the light, used for rendering and as the
// desired state of a push.
type Snapshot struct {
	On          bool
	Brightness  int
	Temperature int
}

// Ratio returns the temperature position in [0,1], 0 at MinTemperature.
func (s Snapshot) Ratio() float64 {
	return TemperatureRatio(s.Temperature)
}

// Kelvin returns the display temperature in Kelvin.
func (s Snapshot) Kelvin() int {
	return Kelvin(s.Temperature)
}

// TemperatureRatio maps a device temperature onto [0,1].
func TemperatureRatio(temperature int) float64 {
	t := clamp(temperature, MinTemperature, MaxTemperature)
	return float64(t-MinTemperature) / float64(MaxTemperature-MinTemperature)
}

// Kelvin converts a device temperature into Kelvin:
// floor(4100 * (1 - ratio) + 2900).
func Kelvin(temperature int) int {
	ratio := TemperatureRatio(temperature)
	return int(math.Floor(kelvinSpan*(1-ratio) + warmestKelvin))
}

// adjust adds delta to v within [lo,hi]. The delta is bounded to the span
// first so that the sum cannot overflow.
func adjust(v, delta, lo, hi int) int {
	span := hi - lo
	return clamp(v+clamp(delta, -span, span), lo, hi)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
