// Package imageio reads source images and writes displayed surfaces.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load decodes the image file at path, returning it with its format name.
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("could not open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image %q: %w", path, err)
	}
	return img, format, nil
}

// ReadFile opens path and hands it to read.
func ReadFile(path string, read func(r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", path, err)
	}
	defer f.Close()

	if err := read(f); err != nil {
		return fmt.Errorf("could not read %q: %w", path, err)
	}
	return nil
}

// Frame is one fully composed animation frame.
type Frame struct {
	Image *image.NRGBA
	Delay int // 100ths of a second
}

// LoadFrames decodes the GIF animation at path.
func LoadFrames(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open animation: %w", err)
	}
	defer f.Close()

	frames, err := DecodeFrames(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode animation %q: %w", path, err)
	}
	return frames, nil
}

// DecodeFrames reads every frame of a GIF and composes it over the previous
// ones according to its disposal method, yielding what a viewer shows at
// each step.
func DecodeFrames(r io.Reader) ([]Frame, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("no frames")
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewNRGBA(bounds)

	frames := make([]Frame, 0, len(g.Image))
	for i, pm := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var restore *image.NRGBA
		if disposal == gif.DisposalPrevious {
			restore = image.NewNRGBA(bounds)
			copy(restore.Pix, canvas.Pix)
		}

		draw.Draw(canvas, pm.Bounds(), pm, pm.Bounds().Min, draw.Over)

		frame := image.NewNRGBA(bounds)
		copy(frame.Pix, canvas.Pix)
		var delay int
		if i < len(g.Delay) {
			delay = g.Delay[i]
		}
		frames = append(frames, Frame{Image: frame, Delay: delay})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, pm.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = restore
		}
	}
	return frames, nil
}

// TestCard generates a w x h image of color bars, opaque on top and fading
// towards transparent below. Channels stay off the extremes so that a
// wrong alpha interpretation changes how every bar looks.
func TestCard(w, h int) *image.NRGBA {
	const hi, lo = 0xc0, 0x40
	bars := []color.NRGBA{
		{R: hi, G: hi, B: hi},
		{R: hi, G: hi, B: lo},
		{R: lo, G: hi, B: hi},
		{R: lo, G: hi, B: lo},
		{R: hi, G: lo, B: hi},
		{R: hi, G: lo, B: lo},
		{R: lo, G: lo, B: hi},
		{R: lo, G: lo, B: lo},
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		a := uint8(0xff)
		if y >= h/2 {
			a = uint8(0xff - (y-h/2)*0xff/max(h-h/2, 1))
		}
		for x := range w {
			c := bars[x*len(bars)/w]
			c.A = a
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
