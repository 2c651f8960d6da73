package okcolor

import (
	"fmt"
	"image"
	"math"
)

// Diff summarizes the perceptual difference between two images of equal
// size.
type Diff struct {
	Pixels int
	// Differing counts pixels further apart than the tolerance.
	Differing int
	// Vanished counts pixels that are visible in the reference and fully
	// transparent in the compared image.
	Vanished int

	Mean      float64 // mean OKLab distance
	Max       float64 // largest OKLab distance
	MeanDL    float64 // mean signed lightness difference, compared minus reference
	MeanDHue  float64 // mean hue angle difference in radians, over chromatic pixels
	chromatic int
}

// Matches reports whether no pixel differs beyond the tolerance.
func (d Diff) Matches() bool {
	return d.Differing == 0
}

// Compare measures how far got is from want, pixel by pixel.
func Compare(want, got image.Image, tol float64) (Diff, error) {
	wb, gb := want.Bounds(), got.Bounds()
	if wb.Dx() != gb.Dx() || wb.Dy() != gb.Dy() {
		return Diff{}, fmt.Errorf("could not compare %dx%d image to %dx%d", wb.Dx(), wb.Dy(), gb.Dx(), gb.Dy())
	}

	var d Diff
	var sum, sumDL, sumDHue float64
	for y := 0; y < wb.Dy(); y++ {
		for x := 0; x < wb.Dx(); x++ {
			w := labConvert(want.At(wb.Min.X+x, wb.Min.Y+y)).(Lab)
			g := labConvert(got.At(gb.Min.X+x, gb.Min.Y+y)).(Lab)

			dist := w.Distance(g)
			sum += dist
			sumDL += g.L - w.L
			d.Max = max(d.Max, dist)
			if dist > tol {
				d.Differing++
			}
			if w.Alpha != 0 && g.Alpha == 0 {
				d.Vanished++
			}
			if w.Chroma() > chromaEps && g.Chroma() > chromaEps {
				sumDHue += hueDistance(math.Atan2(w.B, w.A), math.Atan2(g.B, g.A))
				d.chromatic++
			}
			d.Pixels++
		}
	}

	if d.Pixels > 0 {
		d.Mean = sum / float64(d.Pixels)
		d.MeanDL = sumDL / float64(d.Pixels)
	}
	if d.chromatic > 0 {
		d.MeanDHue = sumDHue / float64(d.chromatic)
	}
	return d, nil
}

const chromaEps = 0.02

func hueDistance(h1, h2 float64) float64 {
	dh := math.Abs(h1 - h2)
	if dh > math.Pi {
		dh = 2*math.Pi - dh
	}
	return dh
}
