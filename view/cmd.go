// Package view steps through the ways of getting a decoded image onto a
// display, clearing the display between them.
package view

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"pixbench/config"
	"pixbench/display"
	"pixbench/dump"
	"pixbench/imageio"
	"pixbench/logger"
	"pixbench/pixel"

	"github.com/alecthomas/kong"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ClearColor fills the display between steps.
var ClearColor = color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}

// Step is one menu entry.
type Step struct {
	Name        string
	Description string
	Case        pixel.Case
	// Clear shows a solid ClearColor image instead of the decoded one.
	Clear bool
	// Surface marks steps that update a pixel buffer in place rather than
	// writing into a new image.
	Surface bool
}

var clearStep = Step{
	Name:  "clear",
	Case:  pixel.Case{Source: pixel.IntARGB, Target: pixel.IntARGB, Options: pixel.Options{Alpha: pixel.AlphaNaive}, Copy: true},
	Clear: true,
}

// Menu is the order in which steps are shown.
var Menu = []Step{
	clearStep,
	{
		Name:        "oldDraw",
		Description: "Drawing to intermediate image; writing to display image.",
		Case:        pixel.Case{Source: pixel.IntARGBPre, Target: pixel.IntARGBPre, Options: pixel.Options{Alpha: pixel.AlphaNaive}},
	},
	clearStep,
	{
		Name:        "oldCopy",
		Description: "Copying to intermediate array; writing to display image.",
		Case:        pixel.Case{Source: pixel.IntARGB, Target: pixel.IntARGB, Options: pixel.Options{Alpha: pixel.AlphaNaive}, Copy: true},
	},
	clearStep,
	{
		Name:        "newDraw",
		Description: "Drawing to intermediate image; updating pixel buffer.",
		Case:        pixel.Case{Source: pixel.IntARGBPre, Target: pixel.ByteBGRAPre, Options: pixel.Naive},
		Surface:     true,
	},
	clearStep,
	{
		Name:        "newCopy",
		Description: "Copying to intermediate array; updating pixel buffer.",
		Case:        pixel.Case{Source: pixel.IntARGB, Target: pixel.ByteBGRAPre, Options: pixel.Naive, Copy: true},
		Surface:     true,
	},
	clearStep,
	{
		Name:        "oneCopy",
		Description: "Copying directly to integer pixel buffer.",
		Case:        pixel.Case{Source: pixel.IntARGB, Target: pixel.IntARGBPre, Options: pixel.Options{Alpha: pixel.AlphaNaive}, Copy: true},
		Surface:     true,
	},
}

type CLICmd struct {
	Image string `arg:"" optional:"" help:"Image to view" type:"existingfile"`
	Fit   string `help:"Bound the displayed size, as WIDTHxHEIGHT"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if _, err := config.ParseSize(c.Fit); err != nil {
		return err
	}
	return nil
}

func (c *CLICmd) Run(cfg *config.Config) error {
	if c.Image != "" {
		cfg.View.Image = c.Image
	}
	if c.Fit != "" {
		cfg.View.Fit = c.Fit
	}

	img, _, err := imageio.Load(cfg.View.Image)
	if err != nil {
		return err
	}
	_, err = Run(cfg, img, Menu)
	return err
}

// Shown is what a step put on the display.
type Shown struct {
	Index     int
	Step      Step
	Predicted pixel.Outcome
	Path      string
	Dump      string
}

// Run shows img through every step, writing each displayed image into the
// view output directory. A failing step is logged and skipped.
func Run(cfg *config.Config, img image.Image, steps []Step) ([]Shown, error) {
	size, err := config.ParseSize(cfg.View.Fit)
	if err != nil {
		return nil, err
	}
	bg, err := imageio.ParseHexColor(cfg.Output.Background)
	if err != nil {
		return nil, err
	}
	img = imageio.Fit(img, size)
	b := img.Bounds()
	solid := imageio.Solid(b.Dx(), b.Dy(), ClearColor)
	dir := filepath.Join(cfg.Output.Dir, "view")

	var shown []Shown
	var errs error
	for i, step := range steps {
		s := Shown{Index: i, Step: step, Predicted: step.Case.Classify()}
		log := logger.Log.With(zap.Int("index", i+1), zap.String("step", step.Name))
		if step.Description != "" {
			log.Info(step.Name + ": " + step.Description)
		}

		src := img
		if step.Clear {
			src = solid
		}
		out, err := show(step, src)
		if err == nil {
			name := fmt.Sprintf("%02d-%s", i+1, step.Name)
			s.Path, err = imageio.Save(imageio.Composite(out, bg), cfg.Output.Format, dir, name, cfg.Output.Overwrite)
			if err == nil && step.Surface && cfg.Output.Dump {
				s.Dump, err = dump.Save(out, dir, name, cfg.Output.Overwrite)
			}
		}
		if err != nil {
			log.Error("could not show step", zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%02d %s: %w", i+1, step.Name, err))
			continue
		}

		log.Debug("shown", zap.String("file", s.Path), zap.Stringer("predicted", s.Predicted))
		shown = append(shown, s)
	}
	return shown, errs
}

// show produces the buffer a step leaves on the display.
func show(step Step, img image.Image) (*pixel.Buffer, error) {
	if !step.Surface {
		return step.Case.Run(img)
	}

	src, err := step.Case.Prepare(img)
	if err != nil {
		return nil, err
	}
	buf, err := pixel.NewBuffer(src.Width, src.Height, step.Case.Target)
	if err != nil {
		return nil, err
	}
	surface := display.NewSurface(buf)

	var convErr error
	surface.Update(func(buf *pixel.Buffer) image.Rectangle {
		if convErr = pixel.Convert(buf, src, step.Case.Options); convErr != nil {
			return image.Rectangle{}
		}
		return buf.Bounds()
	})
	if convErr != nil {
		return nil, convErr
	}
	if surface.Present() != buf.Bounds() {
		return nil, fmt.Errorf("surface was not fully updated")
	}
	return surface.Snapshot(), nil
}
