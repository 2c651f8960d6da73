package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

var formats = []string{"png", "gif", "jpeg", "bmp", "tiff"}

// CanEncode reports whether Save supports format.
func CanEncode(format string) bool {
	return slices.Contains(formats, format)
}

// Save encodes img as format into dir/name.<format> and returns the path.
func Save(img image.Image, format, dir, name string, overwrite bool) (string, error) {
	if !CanEncode(format) {
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
	return WriteFile(dir, name+"."+format, overwrite, func(w io.Writer) error {
		return encode(w, img, format)
	})
}

// SaveAnimation writes frames as an animated GIF into dir/name.gif. Delays
// are in 100ths of a second.
func SaveAnimation(frames []image.Image, delays []int, dir, name string, overwrite bool) (string, error) {
	if len(frames) == 0 {
		return "", fmt.Errorf("no frames to save")
	}
	anim := &gif.GIF{LoopCount: 0}
	for i, f := range frames {
		pm := image.NewPaletted(f.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pm, pm.Rect, f, f.Bounds().Min)
		anim.Image = append(anim.Image, pm)
		var d int
		if i < len(delays) {
			d = delays[i]
		}
		anim.Delay = append(anim.Delay, d)
	}
	return WriteFile(dir, name+".gif", overwrite, func(w io.Writer) error {
		if err := gif.EncodeAll(w, anim); err != nil {
			return fmt.Errorf("could not encode GIF animation: %w", err)
		}
		return nil
	})
}

// WriteFile writes dir/name through a temporary file that is renamed into
// place once write succeeded. Unless overwrite is set an existing
// destination is an error.
func WriteFile(dir, name string, overwrite bool, write func(w io.Writer) error) (path string, err error) {
	path = filepath.Join(dir, name)
	if !overwrite {
		if err := checkDest(path); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create destination folder %q: %w", dir, err)
	}

	outFile, err := os.CreateTemp(dir, name+".*")
	if err != nil {
		return "", fmt.Errorf("could not create temporary destination %q: %w", name, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", name, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", name, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), path); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", name, defErr)
			}
		}
		if err != nil {
			_ = os.Remove(outFile.Name())
			path = ""
		}
	}()

	if err = write(outFile); err != nil {
		return "", err
	}

	canRename = true
	return path, nil
}

func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "gif":
		if err := gif.Encode(w, img, nil); err != nil {
			return fmt.Errorf("could not encode GIF: %w", err)
		}
	case "jpeg":
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: 100}); err != nil {
			return fmt.Errorf("could not encode JPEG: %w", err)
		}
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestSpeed,
			BufferPool:       pngPool,
		}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode PNG: %w", err)
		}
	case "bmp":
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("could not encode BMP: %w", err)
		}
	case "tiff":
		if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("could not encode TIFF: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	return nil
}

func checkDest(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("destination file already exists: %q", info.Name())
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}

// ParseHexColor parses #RGB, #RGBA, #RRGGBB or #RRGGBBAA.
func ParseHexColor(s string) (color.NRGBA, error) {
	var c color.NRGBA
	var n int
	var err error
	switch len(s) {
	case 4:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A = 0xff
	case 5:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A)
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A |= c.A << 4
	case 7:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
		c.A = 0xff
	case 9:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
	default:
		return c, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("could not read color %q: %w", s, err)
	} else if n < 3 {
		return color.NRGBA{}, fmt.Errorf("insufficient color fields in %q: %d", s, n)
	}
	return c, nil
}
