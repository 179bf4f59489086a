package device

import "github.com/dokzlo13/keylight/internal/light"

// Light is a single light entry as reported by the device.
// Power is encoded as an integer (0 or 1), not a JSON boolean.
type Light struct {
	On          int `json:"on"`
	Brightness  int `json:"brightness"`
	Temperature int `json:"temperature"`
}

// Lights is the wrapper object used for both GET and PUT bodies.
type Lights struct {
	NumberOfLights int     `json:"numberOfLights"`
	Lights         []Light `json:"lights"`
}

// FromSnapshot encodes a snapshot into its wire form.
func FromSnapshot(s light.Snapshot) Light {
	on := 0
	if s.On {
		on = 1
	}
	return Light{
		On:          on,
		Brightness:  s.Brightness,
		Temperature: s.Temperature,
	}
}

// Snapshot decodes the wire form. Any non-zero On counts as on; values are
// clamped into the device ranges.
func (l Light) Snapshot() light.Snapshot {
	return light.New(l.On != 0, l.Brightness, l.Temperature).Snapshot()
}

// newLights wraps a single light for a PUT request.
func newLights(l Light) Lights {
	return Lights{
		NumberOfLights: 1,
		Lights:         []Light{l},
	}
}
