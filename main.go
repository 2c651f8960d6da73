package main

import (
	"fmt"
	"os"

	"pixbench/animate"
	"pixbench/config"
	"pixbench/inspect"
	"pixbench/logger"
	"pixbench/tester"
	"pixbench/view"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
)

type cli struct {
	Config   string `help:"Configuration file. Defaults to pixbench.yaml in the working or user config directory." type:"path"`
	LogLevel string `help:"Log level: debug, info, warn or error"`
	LogFile  string `help:"Also log to this file, rotated" type:"path"`
	Output   string `help:"Output directory" short:"o" type:"path"`
	Dump     bool   `help:"Also write raw pixel buffer dumps"`

	Tester   tester.CLICmd       `cmd:"" help:"Convert an image through every catalog entry and write what is displayed"`
	Animate  animate.CLICmd      `cmd:"" help:"Play a GIF animation through a display surface"`
	View     view.CLICmd         `cmd:"" help:"Show an image through each conversion path in turn"`
	Catalog  inspect.CatalogCmd  `cmd:"" help:"Print the conversion catalog with predicted outcomes"`
	Classify inspect.ClassifyCmd `cmd:"" help:"Predict the outcome of one conversion"`
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("pixbench"),
		kong.Description("Pixel format conversion workbench."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(c.Config, config.Overrides{
		LogLevel:  c.LogLevel,
		LogFile:   c.LogFile,
		OutputDir: c.Output,
		Dump:      c.Dump,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	logger.Log.Debug("running", zap.String("command", kctx.Command()), zap.Any("config", cfg))
	if err := kctx.Run(cfg); err != nil {
		logger.Log.Error("command failed", zap.String("command", kctx.Command()), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
