package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	talerr "github.com/amterp/tally/internal/errors"
	"github.com/amterp/tally/internal/filter"
	"github.com/amterp/tally/internal/model"
	"github.com/amterp/tally/internal/version"
)

// Config is the user configuration, stored as TOML.
type Config struct {
	TallySchema  string            `toml:"tally_schema"`
	DefaultTitle string            `toml:"default_title"`
	Editor       string            `toml:"editor,omitempty"` // for `tally config`; falls back to $VISUAL, $EDITOR
	Serve        ServeConfig       `toml:"serve"`
	Filter       FilterConfig      `toml:"filter"`
	Log          LogConfig         `toml:"log"`
	Palette      map[string]string `toml:"palette,omitempty"`
}

// ServeConfig configures the web interface.
type ServeConfig struct {
	Port        int  `toml:"port"`
	OpenBrowser bool `toml:"open_browser"`
}

// FilterConfig configures the filter engine.
type FilterConfig struct {
	Match string `toml:"match"` // "exact" or "fold"
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
	File   string `toml:"file,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		TallySchema:  version.CurrentConfigSchema(),
		DefaultTitle: model.DefaultTitle,
		Serve: ServeConfig{
			Port:        3000,
			OpenBrowser: true,
		},
		Filter: FilterConfig{Match: string(filter.MatchExact)},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the config at path over the defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := Decode(data, path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML data into cfg and validates the result. path is used only
// in error messages.
func Decode(data []byte, path string, cfg *Config) error {
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	// Hand-written files may omit the schema; anything else must match.
	if cfg.TallySchema == "" {
		cfg.TallySchema = version.CurrentConfigSchema()
	}
	if cfg.TallySchema != version.CurrentConfigSchema() {
		return version.InvalidConfigSchema(path, cfg.TallySchema)
	}

	return cfg.Validate()
}

// Validate checks field values that TOML decoding cannot.
func (c *Config) Validate() error {
	if _, ok := filter.ParseMatchMode(c.Filter.Match); !ok {
		return talerr.InvalidField("filter.match", fmt.Sprintf("%q is not one of exact, fold", c.Filter.Match))
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return talerr.InvalidField("serve.port", fmt.Sprintf("%d is out of range", c.Serve.Port))
	}
	for name, hex := range c.Palette {
		if _, err := model.ParseColor(name); err != nil {
			return talerr.InvalidColor(name)
		}
		if hex != "" && !isHexColor(hex) {
			return talerr.InvalidField("palette."+name, fmt.Sprintf("%q is not a #rrggbb color", hex))
		}
	}
	return nil
}

// MatchMode returns the configured filter match mode.
func (c *Config) MatchMode() filter.MatchMode {
	mode, _ := filter.ParseMatchMode(c.Filter.Match)
	return mode
}

// ResolvedPalette returns the default palette with configured overrides.
func (c *Config) ResolvedPalette() model.Palette {
	overrides := make(model.Palette, len(c.Palette))
	for name, hex := range c.Palette {
		if color, err := model.ParseColor(name); err == nil {
			overrides[color] = hex
		}
	}
	return model.DefaultPalette().Merge(overrides)
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	cfg.TallySchema = version.CurrentConfigSchema()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	return strings.Trim(strings.ToLower(s[1:]), "0123456789abcdef") == ""
}
