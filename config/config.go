// Package config handles pixbench configuration loading.
package config

// Config holds all settings. Zero values in a file keep the defaults.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
	Tester  TesterConfig  `yaml:"tester"`
	Animate AnimateConfig `yaml:"animate"`
	View    ViewConfig    `yaml:"view"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// OutputConfig controls where displayed surfaces are written.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	Background string `yaml:"background"` // #RGB, #RGBA, #RRGGBB or #RRGGBBAA
	Format     string `yaml:"format"`     // png, gif, jpeg, bmp or tiff
	Overwrite  bool   `yaml:"overwrite"`
	Dump       bool   `yaml:"dump"` // also write raw RIFF buffer dumps
}

type TesterConfig struct {
	Image   string `yaml:"image"` // empty uses a generated test card
	Workers int    `yaml:"workers"`
	Catalog string `yaml:"catalog"` // YAML catalog replacing the built-in one
}

type AnimateConfig struct {
	Image string `yaml:"image"`
	Loops int    `yaml:"loops"`
	Mode  string `yaml:"mode"`  // old or new
	Alpha string `yaml:"alpha"` // correct or naive
}

type ViewConfig struct {
	Image string `yaml:"image"`
	// Fit bounds the displayed size, as WIDTHxHEIGHT. Empty keeps the
	// decoded size.
	Fit string `yaml:"fit"`
}

// Default returns a Config with the built-in settings.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Dir:        "out",
			Background: "#e0e0e0",
			Format:     "png",
		},
		Tester: TesterConfig{
			Workers: 0,
		},
		Animate: AnimateConfig{
			Image: "animation.gif",
			Loops: 1,
			Mode:  "new",
			Alpha: "naive",
		},
		View: ViewConfig{
			Image: "image.jpg",
			Fit:   "800x600",
		},
	}
}
