package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	card := TestCard(16, 8)

	for _, format := range []string{"png", "bmp", "tiff"} {
		t.Run(format, func(t *testing.T) {
			path, err := Save(card, format, dir, "card", false)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "card."+format), path)

			img, got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, format, got)
			assert.Equal(t, card.Bounds(), img.Bounds())

			want := color.NRGBAModel.Convert(card.At(3, 1)).(color.NRGBA)
			back := color.NRGBAModel.Convert(img.At(3, 1)).(color.NRGBA)
			assert.Equal(t, want, back)
		})
	}

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.*.*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestSaveNoOverwrite(t *testing.T) {
	dir := t.TempDir()
	card := TestCard(4, 4)

	_, err := Save(card, "png", dir, "card", false)
	require.NoError(t, err)

	_, err = Save(card, "png", dir, "card", false)
	assert.ErrorContains(t, err, "already exists")

	_, err = Save(card, "png", dir, "card", true)
	assert.NoError(t, err)

	_, err = Save(card, "webp", dir, "card", true)
	assert.Error(t, err)
	assert.False(t, CanEncode("webp"))
}

func TestWriteFileFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteFile(dir, "broken.bin", false, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDecodeFrames(t *testing.T) {
	pal := color.Palette{color.Transparent, color.NRGBA{R: 0xff, A: 0xff}, color.NRGBA{B: 0xff, A: 0xff}}

	first := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
	for i := range first.Pix {
		first.Pix[i] = 1
	}
	// second frame only covers the top left corner
	second := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	for i := range second.Pix {
		second.Pix[i] = 2
	}

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, &gif.GIF{
		Image:    []*image.Paletted{first, second},
		Delay:    []int{5, 7},
		Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
		Config:   image.Config{Width: 4, Height: 4, ColorModel: pal},
	}))

	frames, err := DecodeFrames(&buf)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, 7, frames[1].Delay)
	assert.Equal(t, color.NRGBA{B: 0xff, A: 0xff}, frames[1].Image.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, frames[1].Image.NRGBAAt(3, 3))
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, frames[0].Image.NRGBAAt(0, 0))
}

func TestSaveAnimation(t *testing.T) {
	dir := t.TempDir()
	frames := []image.Image{TestCard(8, 8), TestCard(8, 8)}
	path, err := SaveAnimation(frames, []int{10}, dir, "anim", false)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, g.Image, 2)
	assert.Equal(t, []int{10, 0}, g.Delay)

	_, err = SaveAnimation(nil, nil, dir, "empty", false)
	assert.Error(t, err)
}

func TestFit(t *testing.T) {
	card := TestCard(40, 20)

	assert.Same(t, card, Fit(card, image.Point{}))
	assert.Same(t, card, Fit(card, image.Pt(100, 100)))
	assert.Equal(t, image.Rect(0, 0, 20, 10), Fit(card, image.Pt(20, 20)).Bounds())
	assert.Equal(t, image.Rect(0, 0, 10, 5), Fit(card, image.Pt(0, 5)).Bounds())
}

func TestTestCard(t *testing.T) {
	card := TestCard(8, 4)
	assert.Equal(t, color.NRGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff}, card.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}, card.NRGBAAt(7, 0))
	assert.Less(t, card.NRGBAAt(0, 3).A, uint8(0xff))
}

func TestParseHexColor(t *testing.T) {
	tests := map[string]color.NRGBA{
		"#fff":      {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		"#1238":     {R: 0x11, G: 0x22, B: 0x33, A: 0x88},
		"#e0e0e0":   {R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff},
		"#40404080": {R: 0x40, G: 0x40, B: 0x40, A: 0x80},
	}
	for in, want := range tests {
		got, err := ParseHexColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "fff", "#ggg", "#12345"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestComposite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	img.SetNRGBA(5, 5, color.NRGBA{R: 0xff, A: 0xff})
	img.SetNRGBA(6, 5, color.NRGBA{R: 0xff, A: 0x00})

	bg := color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	out := Composite(img, bg)
	assert.Equal(t, image.Rect(0, 0, 2, 1), out.Bounds())
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, out.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}, out.RGBAAt(1, 0))

	solid := Solid(3, 2, color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff})
	assert.Equal(t, color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}, solid.NRGBAAt(2, 1))
}
