package view

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"pixbench/config"
	"pixbench/dump"
	"pixbench/imageio"
	"pixbench/pixel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	cfg.View.Fit = "16x16"
	return cfg
}

func opaqueImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 16))
	for y := range 16 {
		for x := range 32 {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 16), B: 0x80, A: 0xff})
		}
	}
	return img
}

func TestRunMenu(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Dump = true

	shown, err := Run(cfg, opaqueImage(), Menu)
	require.NoError(t, err)
	require.Len(t, shown, len(Menu))

	for _, s := range shown {
		img, _, err := imageio.Load(s.Path)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds(), s.Step.Name)

		if s.Step.Clear {
			assert.Equal(t, color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}, color.NRGBAModel.Convert(img.At(3, 3)))
		}
		if s.Step.Surface {
			buf, err := dump.Load(s.Dump)
			require.NoError(t, err)
			assert.Equal(t, s.Step.Case.Target, buf.Encoding)
		} else {
			assert.Empty(t, s.Dump)
		}
	}

	assert.Equal(t, pixel.OK, shown[1].Predicted)
	assert.Equal(t, pixel.WrongAlpha, shown[9].Predicted)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "view", "10-oneCopy.png"), shown[9].Path)
}

func TestOpaqueStepsLookAlike(t *testing.T) {
	img := opaqueImage()
	want, err := pixel.Draw(img, pixel.IntARGBPre)
	require.NoError(t, err)

	// with an opaque image only byte order mistakes would be visible
	for _, step := range Menu {
		if step.Clear || step.Case.Classify() == pixel.WrongColors {
			continue
		}
		out, err := show(step, img)
		require.NoError(t, err, step.Name)
		for _, p := range []image.Point{{0, 0}, {17, 3}, {31, 15}} {
			assert.Equal(t, want.At(p.X, p.Y), color.RGBAModel.Convert(out.At(p.X, p.Y)), "%s at %v", step.Name, p)
		}
	}
}

func TestRunFailingStep(t *testing.T) {
	cfg := testConfig(t)
	steps := []Step{
		{Name: "broken", Case: pixel.Case{Source: pixel.IntRGB, Target: pixel.IntARGB, Copy: true}},
		Menu[1],
	}

	shown, err := Run(cfg, opaqueImage(), steps)
	assert.ErrorContains(t, err, "broken")
	require.Len(t, shown, 1)
	assert.Equal(t, "oldDraw", shown[0].Step.Name)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&CLICmd{}).Validate(nil))
	assert.NoError(t, (&CLICmd{Fit: "640x480"}).Validate(nil))
	assert.Error(t, (&CLICmd{Fit: "big"}).Validate(nil))
}
