package pixel

import (
	"fmt"
	"strings"
)

// AlphaHandling selects whether Convert translates between straight and
// premultiplied alpha.
type AlphaHandling uint8

const (
	// AlphaCorrect converts between alpha representations and treats
	// opaque sources as fully opaque.
	AlphaCorrect AlphaHandling = iota
	// AlphaNaive copies channel values unchanged across alpha modes and
	// reads the pad byte of opaque sources as if it held alpha.
	AlphaNaive
)

func (h AlphaHandling) String() string {
	if h == AlphaNaive {
		return "naive"
	}
	return "correct"
}

func ParseAlphaHandling(s string) (AlphaHandling, error) {
	switch strings.ToLower(s) {
	case "correct", "":
		return AlphaCorrect, nil
	case "naive":
		return AlphaNaive, nil
	}
	return AlphaCorrect, fmt.Errorf("unknown alpha handling %q", s)
}

func (h AlphaHandling) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *AlphaHandling) UnmarshalText(text []byte) error {
	v, err := ParseAlphaHandling(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Options control the conversion path. The zero value is the correct path.
type Options struct {
	Alpha AlphaHandling `yaml:"alpha"`
	// ReinterpretChannels decodes the source memory using the destination
	// layout instead of the source's own.
	ReinterpretChannels bool `yaml:"reinterpret"`
}

// Correct is the conversion path that preserves appearance.
var Correct = Options{}

// Naive copies memory as if source and destination shared an encoding.
var Naive = Options{Alpha: AlphaNaive, ReinterpretChannels: true}

func (o Options) String() string {
	if o.ReinterpretChannels {
		return o.Alpha.String() + ", reinterpret"
	}
	return o.Alpha.String()
}

// Convert writes every pixel of src into dst, translating from the source
// encoding to the destination encoding. Only the first Width pixels of each
// destination row are written. Nothing is written when an error is returned.
func Convert(dst, src *Buffer, opts Options) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := dst.Validate(); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if src.Width != dst.Width || src.Height != dst.Height {
		return &DimensionMismatchError{
			SrcWidth: src.Width, SrcHeight: src.Height,
			DstWidth: dst.Width, DstHeight: dst.Height,
		}
	}

	se, de := src.Encoding, dst.Encoding
	decodeLayout := se.layout()
	if opts.ReinterpretChannels {
		decodeLayout = de.layout()
	}
	encodeLayout := de.layout()
	naive := opts.Alpha == AlphaNaive

	var op func(rgba) rgba
	if !naive {
		switch {
		case se.Alpha == AlphaStraight && de.Alpha == AlphaPremultiplied:
			op = rgba.premultiply
		case se.Alpha == AlphaPremultiplied && de.Alpha != AlphaPremultiplied:
			op = rgba.unpremultiply
		}
	}

	for y := 0; y < src.Height; y++ {
		si, di := src.PixOffset(0, y), dst.PixOffset(0, y)
		for x := 0; x < src.Width; x++ {
			c := decode(src.load(si+x), decodeLayout, se.Alpha, naive)
			if op != nil {
				c = op(c)
			}
			dst.store(di+x, encode(c, encodeLayout, de.Alpha))
		}
	}
	return nil
}

// ConvertTo allocates a buffer for target and converts src into it.
func ConvertTo(src *Buffer, target Encoding, opts Options) (*Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	dst, err := NewBuffer(src.Width, src.Height, target)
	if err != nil {
		return nil, err
	}
	if err := Convert(dst, src, opts); err != nil {
		return nil, err
	}
	return dst, nil
}

type rgba struct {
	r, g, b, a uint8
}

func decode(px [4]byte, l layout, mode AlphaMode, naive bool) rgba {
	c := rgba{r: px[l.r], g: px[l.g], b: px[l.b], a: px[l.a]}
	if mode == AlphaNone && !naive {
		c.a = 0xff
	}
	return c
}

func encode(c rgba, l layout, mode AlphaMode) (px [4]byte) {
	px[l.r], px[l.g], px[l.b] = c.r, c.g, c.b
	if mode != AlphaNone {
		px[l.a] = c.a
	}
	return px
}

// premultiply scales the color channels by alpha, truncating.
func (c rgba) premultiply() rgba {
	a := uint32(c.a)
	return rgba{
		r: uint8(uint32(c.r) * a / 0xff),
		g: uint8(uint32(c.g) * a / 0xff),
		b: uint8(uint32(c.b) * a / 0xff),
		a: c.a,
	}
}

// unpremultiply divides the color channels by alpha. Fully transparent
// pixels become zero and channels above alpha clamp to 255.
func (c rgba) unpremultiply() rgba {
	if c.a == 0 {
		return rgba{}
	}
	a := uint32(c.a)
	div := func(v uint8) uint8 {
		n := uint32(v) * 0xff / a
		if n > 0xff {
			return 0xff
		}
		return uint8(n)
	}
	return rgba{r: div(c.r), g: div(c.g), b: div(c.b), a: c.a}
}
