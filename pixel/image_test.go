package pixel

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCard is 2x2: opaque red, half transparent dim green, transparent blue,
// opaque white.
func testCard() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(10, 20, 12, 22))
	img.SetNRGBA(10, 20, color.NRGBA{R: 0xff, A: 0xff})
	img.SetNRGBA(11, 20, color.NRGBA{G: 0x80, A: 0x80})
	img.SetNRGBA(10, 21, color.NRGBA{B: 0xff, A: 0x00})
	img.SetNRGBA(11, 21, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	return img
}

func TestDrawWords(t *testing.T) {
	tests := []struct {
		enc  Encoding
		want []uint32
	}{
		{IntARGB, []uint32{0xffff0000, 0x80008000, 0x00000000, 0xffffffff}},
		{IntARGBPre, []uint32{0xffff0000, 0x80004000, 0x00000000, 0xffffffff}},
		{IntRGB, []uint32{0x00ff0000, 0x00004000, 0x00000000, 0x00ffffff}},
		{IntBGR, []uint32{0x000000ff, 0x00004000, 0x00000000, 0x00ffffff}},
	}
	for _, tt := range tests {
		t.Run(tt.enc.String(), func(t *testing.T) {
			buf, err := Draw(testCard(), tt.enc)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 2, 2), buf.Bounds())
			assert.Equal(t, tt.want, buf.Words)
		})
	}
}

func TestDrawBytes(t *testing.T) {
	buf, err := Draw(testCard(), ByteABGR)
	require.NoError(t, err)
	assert.Nil(t, buf.Words)
	assert.Equal(t, []byte{0x80, 0x00, 0x80, 0x00}, buf.Bytes[4:8])

	le, err := Draw(testCard(), IntARGBPre.WithByteOrder(LittleEndian))
	require.NoError(t, err)
	require.NotNil(t, le.Bytes)
	assert.Equal(t, []byte{0x00, 0x40, 0x00, 0x80}, le.Bytes[4:8])

	_, err = Draw(testCard(), Encoding{Order: RGBA, Unit: Packed32})
	var ufe *UnsupportedFormatError
	assert.ErrorAs(t, err, &ufe)
}

func TestBufferAt(t *testing.T) {
	straight, err := Draw(testCard(), ByteRGBA)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBAModel, straight.ColorModel())
	assert.Equal(t, color.NRGBA{G: 0x80, A: 0x80}, straight.At(1, 0))
	assert.Equal(t, color.NRGBA{}, straight.At(5, 5))

	opaque, err := Draw(testCard(), IntRGB)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 0x40, A: 0xff}, opaque.At(1, 0))

	pre := &Buffer{Width: 1, Height: 1, Stride: 1, Encoding: IntARGBPre, Words: []uint32{0x80ff4000}}
	assert.Equal(t, color.RGBAModel, pre.ColorModel())
	assert.Equal(t, color.RGBA{R: 0x80, G: 0x40, A: 0x80}, pre.At(0, 0))
}

func sameColors(t *testing.T, want, got image.Image) {
	t.Helper()
	require.Equal(t, want.Bounds(), got.Bounds())
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			w := color.RGBAModel.Convert(want.At(x, y)).(color.RGBA)
			g := color.RGBAModel.Convert(got.At(x, y)).(color.RGBA)
			assert.InDelta(t, int(w.R), int(g.R), 1, "x=%d y=%d", x, y)
			assert.InDelta(t, int(w.G), int(g.G), 1, "x=%d y=%d", x, y)
			assert.InDelta(t, int(w.B), int(g.B), 1, "x=%d y=%d", x, y)
			assert.Equal(t, w.A, g.A, "x=%d y=%d", x, y)
		}
	}
}

func TestCatalogRun(t *testing.T) {
	img := testCard()
	ref, err := Draw(img, IntARGBPre)
	require.NoError(t, err)

	for _, c := range TesterCatalog {
		t.Run(c.Name, func(t *testing.T) {
			out, err := c.Run(img)
			require.NoError(t, err)
			assert.Equal(t, c.Target, out.Encoding)

			switch c.Expected {
			case OK:
				sameColors(t, ref, out)
			case Blank:
				for y := 0; y < 2; y++ {
					for x := 0; x < 2; x++ {
						_, _, _, a := out.At(x, y).RGBA()
						assert.Zero(t, a)
					}
				}
			case WrongColors:
				// opaque red shows up with the wrong channels
				assert.NotEqual(t, ref.At(0, 0), out.At(0, 0))
			case WrongAlpha:
				// half transparent green is displayed with the wrong intensity
				// (0x80 where 0x40 is right, or the other way around)
				_, wg, _, _ := ref.At(1, 0).RGBA()
				_, gg, _, _ := out.At(1, 0).RGBA()
				assert.NotEqual(t, wg, gg)
			}
		})
	}
}

func TestCopyCaseNeedsARGB(t *testing.T) {
	c := Case{Name: "bad", Source: IntRGB, Target: IntARGB, Copy: true}
	_, err := c.Prepare(testCard())
	assert.Error(t, err)

	_, err = c.Run(testCard())
	assert.Error(t, err)
}
