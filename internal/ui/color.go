package ui

import "math"

// KelvinRGB approximates the color of a black body at the given temperature
// (Tanner Helland's fit, valid for 1000 K to 40000 K).
func KelvinRGB(kelvin int) (r, g, b uint8) {
	t := float64(kelvin) / 100

	var rf, gf, bf float64

	if t <= 66 {
		rf = 255
		gf = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		rf = 329.698727446 * math.Pow(t-60, -0.1332047592)
		gf = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}

	switch {
	case t >= 66:
		bf = 255
	case t <= 19:
		bf = 0
	default:
		bf = 138.5177312231*math.Log(t-10) - 305.0447927307
	}

	return channel(rf), channel(gf), channel(bf)
}

func channel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
