package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/logging"
	"github.com/arthur-debert/luadb/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read as configuration
const EnvPrefix = "LUADB_"

// ProjectConfigFiles are looked up in the working directory, first match wins
var ProjectConfigFiles = []string{"luadb.toml", ".luadb.toml"}

// LoadOptions selects the files and overrides merged on top of the defaults
type LoadOptions struct {
	// ConfigFile replaces the project config lookup when set
	ConfigFile string

	// Overrides are dotted keys set on the command line; they win over
	// everything else
	Overrides map[string]interface{}
}

// Load builds the configuration from, in increasing priority: embedded
// defaults, the user config, the project config, LUADB_* environment
// variables and explicit overrides.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config
	userPath := paths.UserConfigPath()
	if _, err := os.Stat(userPath); err == nil {
		if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load user config from %s", userPath).
				WithDetail("path", userPath)
		}
		logger.Debug().Str("path", userPath).Msg("Loaded user config")
	}

	// 3. Project config
	projectPath, err := projectConfigPath(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if projectPath != "" {
		if err := k.Load(file.Provider(projectPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", projectPath).
				WithDetail("path", projectPath)
		}
		logger.Debug().Str("path", projectPath).Msg("Loaded project config")
	}

	// 4. Env vars: LUADB_OUTPUT_DIR -> output.dir, LUADB_MOD_CORE_PREFIX -> mod.core_prefix
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 5. Command line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply command line overrides")
		}
	}

	// 6. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	cfg.expandPaths()
	return &cfg, nil
}

func projectConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", explicit).
				WithDetail("path", explicit)
		}
		return explicit, nil
	}
	for _, name := range ProjectConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}

func (c *Config) expandPaths() {
	c.Output.Dir = paths.ExpandHome(c.Output.Dir)
	c.Sources.LoadOrder = paths.ExpandHome(c.Sources.LoadOrder)
	c.Sources.DataDir = paths.ExpandHome(c.Sources.DataDir)
	c.Schema.Path = paths.ExpandHome(c.Schema.Path)
	c.Report.Path = paths.ExpandHome(c.Report.Path)
	for i, p := range c.Sources.Paths {
		c.Sources.Paths[i] = paths.ExpandHome(p)
	}
}
