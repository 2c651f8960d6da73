package okcolor

import (
	"image/color"
	"math"
)

// LinearRGBA holds unassociated linear-light sRGB components in [0, 1].
type LinearRGBA struct {
	R float64
	G float64
	B float64
	A uint16
}

var LinearRGBAModel = color.ModelFunc(linearRGBAConvert)

func linearRGBAConvert(c color.Color) color.Color {
	if _, ok := c.(LinearRGBA); ok {
		return c
	}

	return sRGBToLinearRGB(color.NRGBA64Model.Convert(c).(color.NRGBA64))
}

// RGBA clips the components to [0, 1] and returns premultiplied sRGB.
func (lc LinearRGBA) RGBA() (uint32, uint32, uint32, uint32) {
	return linearRGBToSRGB(lc).RGBA()
}

func linearRGBToSRGB(lc LinearRGBA) color.NRGBA64 {
	return color.NRGBA64{
		R: uint16(math.Round(fromLinear(clamp(lc.R, 0, 1)) * 65535)),
		G: uint16(math.Round(fromLinear(clamp(lc.G, 0, 1)) * 65535)),
		B: uint16(math.Round(fromLinear(clamp(lc.B, 0, 1)) * 65535)),
		A: lc.A,
	}
}

func sRGBToLinearRGB(c color.NRGBA64) LinearRGBA {
	return LinearRGBA{
		R: toLinear(float64(c.R) / 65535),
		G: toLinear(float64(c.G) / 65535),
		B: toLinear(float64(c.B) / 65535),
		A: c.A,
	}
}

// sRGB transfer function and its inverse, on [0, 1].
func toLinear(v float64) float64 {
	if v < 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func fromLinear(v float64) float64 {
	if v < 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
