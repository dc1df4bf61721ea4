// Package config loads schemagraph settings from TOML or YAML files.
//
// Files are decoded over [Default], so a file only needs the keys it
// changes:
//
//	palette = ["#1f77b4", "#ff7f0e"]
//
//	[layout]
//	engine = "dot"
//	direction = "TB"
//
//	[cache]
//	backend = "sqlite"
//	ttl = "72h"
//	namespace = "billing"
//
// Command-line flags override file values.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/schemagraph/pkg/cache"
	"github.com/matzehuels/schemagraph/pkg/errors"
	"github.com/matzehuels/schemagraph/pkg/graph"
	"github.com/matzehuels/schemagraph/pkg/layout"
	"github.com/matzehuels/schemagraph/pkg/route"
)

// Config is the complete configuration.
type Config struct {
	Palette []string `toml:"palette" yaml:"palette" validate:"min=1,dive,hexcolor"`
	Layout  Layout   `toml:"layout" yaml:"layout"`
	Route   Route    `toml:"route" yaml:"route"`
	Cache   Cache    `toml:"cache" yaml:"cache"`
}

// Layout configures node placement.
type Layout struct {
	Engine     string  `toml:"engine" yaml:"engine" validate:"oneof=layered dot"`
	Direction  string  `toml:"direction" yaml:"direction" validate:"oneof=LR TB"`
	NodeSep    float64 `toml:"nodesep" yaml:"nodesep" validate:"gt=0"`
	RankSep    float64 `toml:"ranksep" yaml:"ranksep" validate:"gt=0"`
	Sweeps     int     `toml:"sweeps" yaml:"sweeps" validate:"gte=0"`
	NodeWidth  float64 `toml:"node_width" yaml:"node_width" validate:"gt=0"`
	NodeHeight float64 `toml:"node_height" yaml:"node_height" validate:"gt=0"`
}

// Route configures edge paths. Zero is not a valid setting for any field:
// the router treats it as unset.
type Route struct {
	Spacing      float64 `toml:"spacing" yaml:"spacing" validate:"gt=0"`
	CornerRadius float64 `toml:"corner_radius" yaml:"corner_radius" validate:"gt=0"`
	Gap          float64 `toml:"gap" yaml:"gap" validate:"gt=0"`
}

// Cache configures the result cache.
type Cache struct {
	Backend    string        `toml:"backend" yaml:"backend" validate:"oneof=file sqlite redis none"`
	Dir        string        `toml:"dir" yaml:"dir"`
	SQLitePath string        `toml:"sqlite_path" yaml:"sqlite_path"`
	RedisURL   string        `toml:"redis_url" yaml:"redis_url" validate:"omitempty,url"`
	TTL        time.Duration `toml:"ttl" yaml:"ttl" validate:"gte=0"`

	// Namespace prefixes every key so several projects can share one
	// sqlite or redis backend.
	Namespace string `toml:"namespace" yaml:"namespace" validate:"omitempty,max=64,printascii"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Palette: append([]string(nil), graph.DefaultPalette...),
		Layout: Layout{
			Engine:     layout.DefaultEngine,
			Direction:  string(layout.DirectionLR),
			NodeSep:    layout.DefaultNodeSep,
			RankSep:    layout.DefaultRankSep,
			NodeWidth:  graph.NodeWidth,
			NodeHeight: graph.NodeHeight,
		},
		Route: Route{
			Spacing:      route.DefaultSpacing,
			CornerRadius: route.DefaultRadius,
			Gap:          route.DefaultGap,
		},
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     cache.TTLLayout,
		},
	}
}

// Load reads path over the defaults and validates the result. The format
// follows the extension: .toml, or .yaml/.yml. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Normalize canonicalizes case-insensitive values.
func (c *Config) Normalize() {
	c.Layout.Engine = strings.ToLower(c.Layout.Engine)
	c.Layout.Direction = strings.ToUpper(c.Layout.Direction)
	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("toml"), ",", 2)[0]
	})
	return v
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(errors.ErrCodeInvalidConfig, "invalid config: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color, got %q", field, fe.Value())
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be %s %s, got %v", field, map[string]string{"gt": ">", "gte": ">="}[fe.Tag()], fe.Param(), fe.Value())
	case "printascii":
		return fmt.Sprintf("%s must be printable ASCII, got %q", field, fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", field, fe.Value())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// DefaultPath returns $XDG_CONFIG_HOME/schemagraph/config.toml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "schemagraph", "config.toml"), nil
}

// Resolve loads explicit if set, else the default path if that file
// exists, else returns [Default]. The second result is the file used.
func Resolve(explicit string) (Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	path, err := DefaultPath()
	if err != nil {
		return Default(), "", nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// GraphPalette returns the node palette.
func (c Config) GraphPalette() graph.Palette { return graph.Palette(c.Palette) }

// LayoutOptions returns the layout engine options.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		Direction: layout.Direction(c.Layout.Direction),
		NodeSep:   c.Layout.NodeSep,
		RankSep:   c.Layout.RankSep,
		Sweeps:    c.Layout.Sweeps,
	}
}

// RouteOptions returns the edge router options.
func (c Config) RouteOptions() route.Options {
	return route.Options{
		Spacing: c.Route.Spacing,
		Radius:  c.Route.CornerRadius,
		Gap:     c.Route.Gap,
	}
}

// Keyer returns the cache key generator, scoped to the configured
// namespace if any.
func (c Config) Keyer() cache.Keyer {
	return cache.NewScopedKeyer(nil, c.Cache.Namespace)
}

// CacheConfig returns the cache backend settings.
func (c Config) CacheConfig() cache.Config {
	return cache.Config{
		Backend:    c.Cache.Backend,
		Dir:        c.Cache.Dir,
		SQLitePath: c.Cache.SQLitePath,
		RedisURL:   c.Cache.RedisURL,
	}
}
