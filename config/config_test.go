package config

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"pixbench/pixel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, "#e0e0e0", cfg.Output.Background)
	assert.Equal(t, "png", cfg.Output.Format)
	assert.False(t, cfg.Output.Dump)
	assert.Equal(t, 1, cfg.Animate.Loops)
	assert.Equal(t, "new", cfg.Animate.Mode)
	assert.Equal(t, "naive", cfg.Animate.Alpha)
	assert.Equal(t, "800x600", cfg.View.Fit)
}

func TestLoadPriority(t *testing.T) {
	path := writeFile(t, "pixbench.yaml", `
logging:
  level: debug
  file: pixbench.log
output:
  dir: results
  format: tiff
tester:
  workers: 2
animate:
  mode: old
view:
  fit: 320x200
`)

	cfg, err := Load(path, Overrides{LogLevel: "warn", OutputDir: "elsewhere", Dump: true})
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "pixbench.log", cfg.Logging.File)
	assert.Equal(t, "elsewhere", cfg.Output.Dir)
	assert.Equal(t, "tiff", cfg.Output.Format)
	assert.True(t, cfg.Output.Dump)
	assert.Equal(t, "#e0e0e0", cfg.Output.Background)
	assert.Equal(t, 2, cfg.Tester.Workers)
	assert.Equal(t, "old", cfg.Animate.Mode)
	assert.Equal(t, 1, cfg.Animate.Loops)
	assert.Equal(t, "320x200", cfg.View.Fit)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("/nonexistent/pixbench.yaml", Overrides{})
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "output:\n  dir: [unclosed\n"), Overrides{})
	assert.Error(t, err)

	_, err = Load(writeFile(t, "invalid.yaml", "animate:\n  mode: sideways\n  loops: 0\n"), Overrides{})
	assert.ErrorContains(t, err, "sideways")
	assert.ErrorContains(t, err, "loop count")
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	assert.Empty(t, findConfigFile())

	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("output:\n  format: bmp\n"), 0o644))
	assert.Equal(t, fileName, findConfigFile())

	cfg, err := Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "bmp", cfg.Output.Format)
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	assert.NotEmpty(t, dir)
	assert.True(t, filepath.IsAbs(dir), dir)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"log level":  func(c *Config) { c.Logging.Level = "loud" },
		"background": func(c *Config) { c.Output.Background = "gray" },
		"format":     func(c *Config) { c.Output.Format = "webp" },
		"dir":        func(c *Config) { c.Output.Dir = "" },
		"workers":    func(c *Config) { c.Tester.Workers = -1 },
		"alpha":      func(c *Config) { c.Animate.Alpha = "fancy" },
		"fit":        func(c *Config) { c.View.Fit = "huge" },
	}
	for name, breakIt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			breakIt(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseSize(t *testing.T) {
	p, err := ParseSize("640x480")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(640, 480), p)

	p, err = ParseSize("0X300")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(0, 300), p)

	p, err = ParseSize("")
	require.NoError(t, err)
	assert.Equal(t, image.Point{}, p)

	for _, bad := range []string{"640", "0x0", "-1x5", "axb"} {
		_, err := ParseSize(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadCatalog(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
cases:
  - name: drawWritePre
    source: INT_ARGB
    target: INT_ARGB_PRE
    options: {alpha: naive}
    expected: Wrong alpha
  - name: nioCopyPut
    source: INT_ARGB/LE
    source_name: INT_ARGB
    target: BYTE_BGRA_PRE
    options: {alpha: naive, reinterpret: true}
    copy: true
`)

	cases, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, pixel.TesterCatalog[1], cases[0])
	assert.Equal(t, pixel.TesterCatalog[11], cases[1])
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := map[string]string{
		"empty":          "cases: []\n",
		"no name":        "cases:\n  - source: INT_RGB\n    target: INT_ARGB\n",
		"no source":      "cases:\n  - name: x\n    target: INT_ARGB\n",
		"no target":      "cases:\n  - name: x\n    source: INT_RGB\n",
		"bad encoding":   "cases:\n  - name: x\n    source: INT_RGBA\n    target: INT_ARGB\n",
		"bad outcome":    "cases:\n  - name: x\n    source: INT_RGB\n    target: INT_ARGB\n    expected: fine\n",
		"bad byte order": "cases:\n  - name: x\n    source: BYTE_RGBA/LE\n    target: INT_ARGB\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCatalog(writeFile(t, "catalog.yaml", content))
			assert.Error(t, err)
		})
	}

	_, err := LoadCatalog("/nonexistent/catalog.yaml")
	assert.Error(t, err)
}
