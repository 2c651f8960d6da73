package config

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"pixbench/imageio"
	"pixbench/pixel"

	"gopkg.in/yaml.v3"
)

const fileName = "pixbench.yaml"

// Overrides are command line values that take priority over the file.
// Empty fields leave the loaded value alone.
type Overrides struct {
	LogLevel  string
	LogFile   string
	OutputDir string
	Dump      bool
}

// Load loads configuration with priority: defaults < file < flags. An empty
// path searches the working directory and ConfigDir.
func Load(path string, flags Overrides) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("could not load config from %s: %w", path, err)
		}
	}

	applyFlags(cfg, flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	candidates := []string{
		fileName,
		filepath.Join(ConfigDir(), fileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "pixbench")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "pixbench")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "pixbench")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "pixbench")
	}
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyFlags(cfg *Config, flags Overrides) {
	if flags.LogLevel != "" {
		cfg.Logging.Level = flags.LogLevel
	}
	if flags.LogFile != "" {
		cfg.Logging.File = flags.LogFile
	}
	if flags.OutputDir != "" {
		cfg.Output.Dir = flags.OutputDir
	}
	if flags.Dump {
		cfg.Output.Dump = true
	}
}

// Validate checks every setting that is parsed later on.
func (c *Config) Validate() error {
	var errs []error

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Logging.Level))
	}

	if _, err := imageio.ParseHexColor(c.Output.Background); err != nil {
		errs = append(errs, fmt.Errorf("output background: %w", err))
	}
	if !imageio.CanEncode(c.Output.Format) {
		errs = append(errs, fmt.Errorf("unsupported output format %q", c.Output.Format))
	}
	if c.Output.Dir == "" {
		errs = append(errs, errors.New("no output directory"))
	}

	if c.Tester.Workers < 0 {
		errs = append(errs, fmt.Errorf("invalid worker count: %d", c.Tester.Workers))
	}

	if c.Animate.Loops < 1 {
		errs = append(errs, fmt.Errorf("invalid loop count: %d", c.Animate.Loops))
	}
	if c.Animate.Mode != "old" && c.Animate.Mode != "new" {
		errs = append(errs, fmt.Errorf("unknown animation mode %q", c.Animate.Mode))
	}
	if _, err := pixel.ParseAlphaHandling(c.Animate.Alpha); err != nil {
		errs = append(errs, err)
	}

	if _, err := ParseSize(c.View.Fit); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ParseSize parses WIDTHxHEIGHT. An empty string is the zero point.
func ParseSize(s string) (image.Point, error) {
	if s == "" {
		return image.Point{}, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	var p image.Point
	if ok {
		_, err := fmt.Sscanf(w+" "+h, "%d %d", &p.X, &p.Y)
		ok = err == nil
	}
	if !ok || p.X < 0 || p.Y < 0 || (p.X == 0 && p.Y == 0) {
		return image.Point{}, fmt.Errorf("invalid size %q, should be WIDTHxHEIGHT", s)
	}
	return p, nil
}

type catalogEntry struct {
	Name       string          `yaml:"name"`
	Source     *pixel.Encoding `yaml:"source"`
	SourceName string          `yaml:"source_name"`
	Target     *pixel.Encoding `yaml:"target"`
	Options    pixel.Options   `yaml:"options"`
	Copy       bool            `yaml:"copy"`
	Expected   *pixel.Outcome  `yaml:"expected"`
}

// LoadCatalog reads a YAML conversion catalog. Source and target are
// required. A missing expected outcome is taken from pixel.Classify.
//
//	cases:
//	  - name: drawWritePre
//	    source: INT_ARGB
//	    target: INT_ARGB_PRE
//	    options: {alpha: naive}
//	    expected: WRONG_ALPHA
func LoadCatalog(path string) ([]pixel.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read catalog: %w", err)
	}

	var f struct {
		Cases []catalogEntry `yaml:"cases"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("could not parse catalog %s: %w", path, err)
	}
	if len(f.Cases) == 0 {
		return nil, fmt.Errorf("catalog %s has no cases", path)
	}

	cases := make([]pixel.Case, 0, len(f.Cases))
	for i, e := range f.Cases {
		switch {
		case e.Name == "":
			return nil, fmt.Errorf("catalog %s: case %d has no name", path, i+1)
		case e.Source == nil:
			return nil, fmt.Errorf("catalog %s: case %q has no source", path, e.Name)
		case e.Target == nil:
			return nil, fmt.Errorf("catalog %s: case %q has no target", path, e.Name)
		}

		c := pixel.Case{
			Name:       e.Name,
			Source:     *e.Source,
			SourceName: e.SourceName,
			Target:     *e.Target,
			Options:    e.Options,
			Copy:       e.Copy,
		}
		if e.Expected != nil {
			c.Expected = *e.Expected
		} else {
			c.Expected = c.Classify()
		}
		cases = append(cases, c)
	}
	return cases, nil
}
