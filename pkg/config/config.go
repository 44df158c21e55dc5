package config

import (
	"time"

	"github.com/arthur-debert/luadb/pkg/errors"
)

// Config is the complete luadb configuration
type Config struct {
	Output  Output  `koanf:"output"`
	Mod     Mod     `koanf:"mod"`
	Sources Sources `koanf:"sources"`
	Schema  Schema  `koanf:"schema"`
	Report  Report  `koanf:"report"`
	Watch   Watch   `koanf:"watch"`
}

// Output controls where and how files are written
type Output struct {
	Dir           string `koanf:"dir"`
	Force         bool   `koanf:"force"`
	Transactional bool   `koanf:"transactional"`
	EscapeStrings bool   `koanf:"escape_strings"`
}

// Mod describes the mod being converted
type Mod struct {
	Base        bool   `koanf:"base"`
	CorePrefix  string `koanf:"core_prefix"`
	ScriptCheck string `koanf:"script_check"`
}

// Sources lists what to convert
type Sources struct {
	Paths     []string `koanf:"paths"`
	LoadOrder string   `koanf:"load_order"`
	DataDir   string   `koanf:"data_dir"`
	Jobs      int      `koanf:"jobs"`
}

// Schema locates the table definitions
type Schema struct {
	Path string `koanf:"path"`
}

// Report configures the optional run report file
type Report struct {
	Path   string `koanf:"path"`
	Format string `koanf:"format"`
}

// Watch configures watch mode
type Watch struct {
	Debounce time.Duration `koanf:"debounce"`
}

var reportFormats = map[string]bool{"": true, "yaml": true, "toml": true, "xml": true, "json": true}

// Validate checks the configuration for values no run can use
func (c *Config) Validate() error {
	if len(c.Sources.Paths) == 0 && c.Sources.LoadOrder == "" {
		return errors.New(errors.ErrConfigValid,
			"no sources: pass source paths or set sources.load_order")
	}
	if c.Sources.Jobs < 1 {
		return errors.Newf(errors.ErrConfigValid, "sources.jobs must be at least 1, got %d", c.Sources.Jobs).
			WithDetail("key", "sources.jobs")
	}
	if c.Output.Dir == "" {
		return errors.New(errors.ErrConfigValid, "output.dir must not be empty").
			WithDetail("key", "output.dir")
	}
	if !reportFormats[c.Report.Format] {
		return errors.Newf(errors.ErrConfigValid, "unknown report format %q", c.Report.Format).
			WithDetail("key", "report.format")
	}
	if c.Watch.Debounce < 0 {
		return errors.New(errors.ErrConfigValid, "watch.debounce must not be negative").
			WithDetail("key", "watch.debounce")
	}
	return nil
}
