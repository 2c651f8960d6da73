// Package animate replays a GIF animation through a display surface, either
// allocating a new image per frame or updating a buffer in place.
package animate

import (
	"fmt"
	"image"
	"path/filepath"
	"time"

	"pixbench/config"
	"pixbench/display"
	"pixbench/imageio"
	"pixbench/logger"
	"pixbench/pixel"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
)

type CLICmd struct {
	Image string `arg:"" optional:"" help:"GIF animation to play" type:"existingfile"`
	Loops int    `help:"Number of passes over the animation"`
	Mode  string `help:"Update mode: old allocates an image per frame, new updates a pixel buffer in place" enum:",old,new" default:""`
	Alpha string `help:"Alpha handling when updating the pixel buffer" enum:",correct,naive" default:""`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Loops < 0 {
		return fmt.Errorf("invalid loop count: %d", c.Loops)
	}
	return nil
}

func (c *CLICmd) Run(cfg *config.Config) error {
	if c.Image != "" {
		cfg.Animate.Image = c.Image
	}
	if c.Loops > 0 {
		cfg.Animate.Loops = c.Loops
	}
	if c.Mode != "" {
		cfg.Animate.Mode = c.Mode
	}
	if c.Alpha != "" {
		cfg.Animate.Alpha = c.Alpha
	}

	frames, err := imageio.LoadFrames(cfg.Animate.Image)
	if err != nil {
		return err
	}

	stats, err := Play(cfg, frames)
	if err != nil {
		return err
	}
	logger.Log.Info("animation done",
		zap.String("mode", cfg.Animate.Mode),
		zap.Int("frames", stats.Frames),
		zap.Int("loops", cfg.Animate.Loops),
		zap.Duration("total", stats.Total),
		zap.Duration("per_frame", stats.PerFrame()),
		zap.String("file", stats.Path))
	return nil
}

// Stats summarizes a Play run.
type Stats struct {
	Frames int // frames presented over all loops
	Total  time.Duration
	Path   string
}

func (s Stats) PerFrame() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Frames)
}

// presenter turns one decoded frame into the image the view shows.
type presenter interface {
	present(frame *image.NRGBA) (image.Image, error)
}

// Play runs the configured number of loops over frames and writes the
// frames presented during the first loop as an animated GIF.
func Play(cfg *config.Config, frames []imageio.Frame) (Stats, error) {
	var stats Stats
	if len(frames) == 0 {
		return stats, fmt.Errorf("no frames")
	}
	bg, err := imageio.ParseHexColor(cfg.Output.Background)
	if err != nil {
		return stats, err
	}

	bounds := frames[0].Image.Bounds()
	var p presenter
	switch cfg.Animate.Mode {
	case "old":
		p = oldPresenter{}
	case "new":
		h, err := pixel.ParseAlphaHandling(cfg.Animate.Alpha)
		if err != nil {
			return stats, err
		}
		if p, err = newBufferPresenter(bounds.Dx(), bounds.Dy(), h); err != nil {
			return stats, err
		}
	default:
		return stats, fmt.Errorf("unknown animation mode %q", cfg.Animate.Mode)
	}

	shown := make([]image.Image, 0, len(frames))
	delays := make([]int, 0, len(frames))
	for loop := range cfg.Animate.Loops {
		for i, f := range frames {
			start := time.Now()
			img, err := p.present(f.Image)
			elapsed := time.Since(start)
			if err != nil {
				return stats, fmt.Errorf("could not present frame %d: %w", i, err)
			}
			stats.Frames++
			stats.Total += elapsed
			logger.Log.Debug("frame", zap.Int("loop", loop), zap.Int("index", i), zap.Duration("elapsed", elapsed))

			if loop == 0 {
				shown = append(shown, imageio.Composite(img, bg))
				delays = append(delays, f.Delay)
			}
		}
	}

	name := fmt.Sprintf("animation-%s", cfg.Animate.Mode)
	stats.Path, err = imageio.SaveAnimation(shown, delays, filepath.Join(cfg.Output.Dir, "animate"), name, cfg.Output.Overwrite)
	return stats, err
}

// oldPresenter allocates a fresh INT_ARGB image for every frame.
type oldPresenter struct{}

func (oldPresenter) present(frame *image.NRGBA) (image.Image, error) {
	src, err := pixel.Copy(frame)
	if err != nil {
		return nil, err
	}
	return pixel.ConvertTo(src, pixel.IntARGB, pixel.Correct)
}

// bufferPresenter writes each frame into one of two BYTE_BGRA_PRE surfaces
// in native order, alternating so that the surface being written is never
// the one on display.
type bufferPresenter struct {
	surfaces [2]*display.Surface
	opts     pixel.Options
	next     int
}

func newBufferPresenter(w, h int, alpha pixel.AlphaHandling) (*bufferPresenter, error) {
	p := &bufferPresenter{opts: pixel.Correct}
	if alpha == pixel.AlphaNaive {
		// ints put through a native int view of the byte buffer
		p.opts = pixel.Naive
	}
	for i := range p.surfaces {
		buf, err := pixel.NewByteBuffer(w, h, pixel.ByteBGRAPre)
		if err != nil {
			return nil, err
		}
		p.surfaces[i] = display.NewSurface(buf)
	}
	return p, nil
}

func (p *bufferPresenter) present(frame *image.NRGBA) (image.Image, error) {
	src, err := pixel.Copy(frame)
	if err != nil {
		return nil, err
	}

	s := p.surfaces[p.next]
	p.next = 1 - p.next

	var convErr error
	s.Update(func(buf *pixel.Buffer) image.Rectangle {
		if convErr = pixel.Convert(buf, src, p.opts); convErr != nil {
			return image.Rectangle{}
		}
		return buf.Bounds()
	})
	if convErr != nil {
		return nil, convErr
	}
	if s.Present().Empty() {
		return nil, fmt.Errorf("surface was not updated")
	}
	return s.Snapshot(), nil
}
