package pixel

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

var _ image.Image = (*Buffer)(nil)

func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

func (b *Buffer) ColorModel() color.Model {
	if b.Encoding.Alpha == AlphaPremultiplied {
		return color.RGBAModel
	}
	return color.NRGBAModel
}

// At decodes the pixel at (x, y) the way a display bound to the buffer's
// encoding reads it. Premultiplied channels above alpha saturate.
func (b *Buffer) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(b.Bounds())) {
		return color.NRGBA{}
	}

	c := decode(b.load(b.PixOffset(x, y)), b.Encoding.layout(), b.Encoding.Alpha, false)
	if b.Encoding.Alpha != AlphaPremultiplied {
		return color.NRGBA{R: c.r, G: c.g, B: c.b, A: c.a}
	}
	return color.RGBA{R: min(c.r, c.a), G: min(c.g, c.a), B: min(c.b, c.a), A: c.a}
}

// Draw renders img into a new buffer of encoding enc, as drawing onto a
// freshly allocated typed image would. Straight encodings keep unassociated
// colors, premultiplied encodings keep associated colors and opaque
// encodings composite over black, leaving the pad byte zero.
//
// Packed encodings with an explicit byte order are backed by bytes.
func Draw(img image.Image, enc Encoding) (*Buffer, error) {
	if err := enc.Validate(); err != nil {
		return nil, err
	}

	sr := img.Bounds()
	r := image.Rect(0, 0, sr.Dx(), sr.Dy())

	var buf *Buffer
	var err error
	if enc.Unit == Packed32 && enc.ByteOrder == NativeOrder {
		buf, err = NewBuffer(r.Dx(), r.Dy(), enc)
	} else {
		buf, err = NewByteBuffer(r.Dx(), r.Dy(), enc)
	}
	if err != nil {
		return nil, err
	}

	var pix []uint8
	var stride int
	switch enc.Alpha {
	case AlphaStraight:
		dst := image.NewNRGBA(r)
		draw.Draw(dst, r, img, sr.Min, draw.Src)
		pix, stride = dst.Pix, dst.Stride
	case AlphaPremultiplied:
		dst := image.NewRGBA(r)
		draw.Draw(dst, r, img, sr.Min, draw.Src)
		pix, stride = dst.Pix, dst.Stride
	default:
		dst := image.NewRGBA(r)
		draw.Draw(dst, r, img, sr.Min, draw.Over)
		pix, stride = dst.Pix, dst.Stride
	}

	l := enc.layout()
	for y := 0; y < buf.Height; y++ {
		row := pix[y*stride:]
		for x := 0; x < buf.Width; x++ {
			p := row[x*4 : x*4+4]
			c := rgba{r: p[0], g: p[1], b: p[2], a: p[3]}
			buf.store(buf.PixOffset(x, y), encode(c, l, enc.Alpha))
		}
	}
	return buf, nil
}

// Copy returns the pixels of img as straight ARGB words, the default
// integer representation handed out by image readers.
func Copy(img image.Image) (*Buffer, error) {
	return Draw(img, IntARGB)
}

// Reorder returns a byte-backed copy of a packed buffer laid out in the
// given byte order, as writing its words through an ordered int view of a
// byte buffer would.
func Reorder(b *Buffer, order ByteOrder) (*Buffer, error) {
	if b.Encoding.Unit != Packed32 {
		return nil, &UnsupportedFormatError{Encoding: b.Encoding, Reason: "byte order applies to packed units only"}
	}
	dst, err := NewByteBuffer(b.Width, b.Height, b.Encoding.WithByteOrder(order))
	if err != nil {
		return nil, err
	}
	if err := Convert(dst, b, Correct); err != nil {
		return nil, fmt.Errorf("could not reorder to %s: %w", order, err)
	}
	return dst, nil
}
