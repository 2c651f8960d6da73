package imageio

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Fit scales img down so that it fits within bounds, keeping its aspect
// ratio. A zero bound leaves that dimension free. Images that already fit
// are returned unchanged.
func Fit(img image.Image, bounds image.Point) image.Image {
	srcBounds := img.Bounds()
	srcWidth := float64(srcBounds.Dx())
	srcHeight := float64(srcBounds.Dy())
	if srcWidth == 0 || srcHeight == 0 {
		return img
	}

	scale := 1.0
	if bounds.X > 0 {
		scale = min(scale, float64(bounds.X)/srcWidth)
	}
	if bounds.Y > 0 {
		scale = min(scale, float64(bounds.Y)/srcHeight)
	}
	if scale >= 1 {
		return img
	}

	destSize := image.Rect(0, 0,
		max(int(math.Round(srcWidth*scale)), 1),
		max(int(math.Round(srcHeight*scale)), 1))
	dest := image.NewRGBA64(destSize)
	draw.CatmullRom.Scale(dest, destSize, img, srcBounds, draw.Src, nil)
	return dest
}
