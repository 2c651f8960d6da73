// Package tester runs a conversion catalog against one image and writes
// what each entry displays.
package tester

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"pixbench/config"
	"pixbench/dump"
	"pixbench/imageio"
	"pixbench/logger"
	"pixbench/okcolor"
	"pixbench/parallel"
	"pixbench/pixel"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
)

const (
	cardWidth  = 320
	cardHeight = 160

	// OKLab distance below which two displayed pixels look the same.
	tolerance = 0.02

	maxExtraTab = 24
)

type CLICmd struct {
	Image   string `arg:"" optional:"" help:"Image with transparency to test with. A generated test card is used if not given." type:"existingfile"`
	Catalog string `help:"YAML catalog replacing the built-in one" type:"existingfile"`
	Workers int    `help:"Number of parallel workers, 0 for one per CPU" default:"-1"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Workers < -1 {
		return fmt.Errorf("invalid worker count: %d", c.Workers)
	}
	return nil
}

// Result is what one catalog entry produced.
type Result struct {
	Index int
	Case  pixel.Case
	// Diff compares the displayed surfaces, composited over the
	// background. Raw compares the buffers themselves.
	Diff okcolor.Diff
	Raw  okcolor.Diff
	Path string
	Dump string
}

// Reproduced reports whether the displayed surface shows the outcome the
// entry expects: no visible difference for OK entries, some difference for
// the others.
func (r Result) Reproduced() bool {
	return r.Diff.Matches() == (r.Case.Expected == pixel.OK)
}

func (c *CLICmd) Run(cfg *config.Config) error {
	if c.Image != "" {
		cfg.Tester.Image = c.Image
	}
	if c.Catalog != "" {
		cfg.Tester.Catalog = c.Catalog
	}
	if c.Workers >= 0 {
		cfg.Tester.Workers = c.Workers
	}

	var img image.Image = imageio.TestCard(cardWidth, cardHeight)
	if cfg.Tester.Image != "" {
		var err error
		if img, _, err = imageio.Load(cfg.Tester.Image); err != nil {
			return err
		}
	}

	cases := pixel.TesterCatalog
	if cfg.Tester.Catalog != "" {
		var err error
		if cases, err = config.LoadCatalog(cfg.Tester.Catalog); err != nil {
			return err
		}
	}

	results, err := Run(cfg, img, cases)
	for _, r := range results {
		if r.Path == "" {
			continue
		}
		log := logger.Log.With(zap.Int("index", r.Index+1), zap.String("name", r.Case.Name))
		log.Info(Line(r.Index, r.Case),
			zap.String("file", r.Path),
			zap.Float64("mean", r.Diff.Mean),
			zap.Float64("max", r.Diff.Max),
			zap.Int("differing", r.Diff.Differing),
			zap.Int("vanished", r.Raw.Vanished))
		if !r.Reproduced() {
			log.Warn("displayed surface does not show the expected outcome",
				zap.Stringer("expected", r.Case.Expected),
				zap.Bool("matches", r.Diff.Matches()))
		}
	}
	return err
}

// Run converts img through every case and writes the displayed surfaces
// into the tester output directory. Failed entries are reported in the
// returned error and have an empty Path.
func Run(cfg *config.Config, img image.Image, cases []pixel.Case) ([]Result, error) {
	bg, err := imageio.ParseHexColor(cfg.Output.Background)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(cfg.Output.Dir, "tester")

	ref, err := pixel.Draw(img, pixel.IntARGBPre)
	if err != nil {
		return nil, fmt.Errorf("could not render reference: %w", err)
	}
	want := imageio.Composite(ref, bg)
	refs := [2]image.Image{ref, want}

	results := make([]Result, len(cases))
	pool := parallel.Start(cfg.Tester.Workers)
	for i, c := range cases {
		pool.Go(func() error {
			r, err := runCase(cfg, dir, img, refs, bg, i, c)
			if err != nil {
				logger.Log.Error("could not run catalog entry", zap.Int("index", i+1), zap.String("name", c.Name), zap.Error(err))
				return fmt.Errorf("%02d %s: %w", i+1, c.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	return results, pool.Wait()
}

// runCase converts img through c. refs holds the reference buffer and its
// composited form.
func runCase(cfg *config.Config, dir string, img image.Image, refs [2]image.Image, bg color.Color, i int, c pixel.Case) (Result, error) {
	r := Result{Index: i, Case: c}

	out, err := c.Run(img)
	if err != nil {
		return r, err
	}
	if r.Raw, err = okcolor.Compare(refs[0], out, tolerance); err != nil {
		return r, err
	}

	got := imageio.Composite(out, bg)
	if r.Diff, err = okcolor.Compare(refs[1], got, tolerance); err != nil {
		return r, err
	}

	name := fmt.Sprintf("%02d-%s", i+1, c.Name)
	if r.Path, err = imageio.Save(got, cfg.Output.Format, dir, name, cfg.Output.Overwrite); err != nil {
		return r, err
	}
	if cfg.Output.Dump {
		if r.Dump, err = dump.Save(out, dir, name, cfg.Output.Overwrite); err != nil {
			return r, err
		}
	}
	return r, nil
}

// Line formats a catalog entry the way the tester prints it.
func Line(i int, c pixel.Case) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%02d - Source: %s", i+1, c.SourceLabel())
	if sb.Len() < maxExtraTab {
		sb.WriteString("\t\t")
	} else {
		sb.WriteString("\t")
	}
	fmt.Fprintf(&sb, "Target: %s\t%s", c.Target, c.Expected.Message())
	return sb.String()
}
