package sim

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	emberColor, _ = colorful.Hex("#ff5a1f")
	hotColor, _   = colorful.Hex("#cfdcff")
)

const (
	destroyedColor = "#444444"
	inertColor     = "#9a9a9a"

	// maxLogLuminosity maps the brightest expected star to the hot end
	maxLogLuminosity = 30.0
)

// ClassifyColor returns a display color for a body as a hex string.
// Luminous bodies blend from ember to blue-white with brightness;
// dark bodies get a hue picked from the order of magnitude of their mass.
func ClassifyColor(b *Body) string {
	if !b.Exists() {
		return destroyedColor
	}
	if b.Luminosity > 0 {
		t := math.Log10(1+b.Luminosity) / maxLogLuminosity
		t = math.Max(0, math.Min(1, t))
		return emberColor.BlendLab(hotColor, t).Clamped().Hex()
	}
	if b.Mass <= 0 {
		return inertColor
	}
	hue := math.Mod(math.Log10(b.Mass)*37, 360)
	if hue < 0 {
		hue += 360
	}
	return colorful.Hcl(hue, 0.4, 0.7).Clamped().Hex()
}
