// Package inspect prints what the classifier predicts without converting
// any pixels.
package inspect

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"pixbench/config"
	"pixbench/pixel"

	"github.com/alecthomas/kong"
)

type CatalogCmd struct {
	Catalog string `arg:"" optional:"" help:"YAML catalog to print instead of the built-in one" type:"existingfile"`

	out io.Writer `kong:"-"`
}

func (c *CatalogCmd) Run(cfg *config.Config) error {
	path := c.Catalog
	if path == "" {
		path = cfg.Tester.Catalog
	}

	cases := pixel.TesterCatalog
	if path != "" {
		var err error
		if cases, err = config.LoadCatalog(path); err != nil {
			return err
		}
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	return PrintCatalog(out, cases)
}

// PrintCatalog writes one row per case and fails when an expected outcome
// disagrees with the classifier.
func PrintCatalog(w io.Writer, cases []pixel.Case) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tSOURCE\tTARGET\tOPTIONS\tEXPECTED\tPREDICTED\t")

	mismatches := pixel.Check(cases)
	bad := make(map[int]bool, len(mismatches))
	for _, m := range mismatches {
		bad[m.Index] = true
	}

	for i, c := range cases {
		source := c.Source.String()
		if c.Copy {
			source += " (copy)"
		}
		mark := ""
		if bad[i] {
			mark = "!"
		}
		fmt.Fprintf(tw, "%02d\t%s\t%s\t%s\t%s\t%s\t%s%s\t\n", i+1, c.Name, source, c.Target, c.Options, c.Expected, c.Classify(), mark)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(mismatches) > 0 {
		return fmt.Errorf("%d catalog entries disagree with the classifier", len(mismatches))
	}
	return nil
}

type ClassifyCmd struct {
	Source      pixel.Encoding `arg:"" help:"Source encoding, such as INT_ARGB or INT_ARGB_PRE/LE"`
	Target      pixel.Encoding `arg:"" help:"Target encoding, such as BYTE_BGRA_PRE"`
	Naive       bool           `help:"Copy channel values across alpha modes unchanged"`
	Reinterpret bool           `help:"Decode the source memory with the target layout"`

	out io.Writer `kong:"-"`
}

func (c *ClassifyCmd) Validate(kctx *kong.Context) error {
	if err := c.Source.Validate(); err != nil {
		return err
	}
	return c.Target.Validate()
}

func (c *ClassifyCmd) Options() pixel.Options {
	opts := pixel.Options{ReinterpretChannels: c.Reinterpret}
	if c.Naive {
		opts.Alpha = pixel.AlphaNaive
	}
	return opts
}

func (c *ClassifyCmd) Run() error {
	out := c.out
	if out == nil {
		out = os.Stdout
	}
	o := pixel.Classify(c.Source, c.Target, c.Options())
	_, err := fmt.Fprintf(out, "%s -> %s (%s): %s\n", c.Source, c.Target, c.Options(), o.Message())
	return err
}
