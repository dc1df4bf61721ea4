package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/schemagraph/pkg/cache"
	"github.com/matzehuels/schemagraph/pkg/errors"
	"github.com/matzehuels/schemagraph/pkg/layout"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
palette = ["#112233", "#abc"]

[layout]
engine = "DOT"
direction = "tb"
ranksep = 80

[cache]
backend = "sqlite"
ttl = "72h"
namespace = "billing"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout.Engine != "dot" || cfg.Layout.Direction != "TB" {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.RankSep != 80 || cfg.Layout.NodeSep != layout.DefaultNodeSep {
		t.Errorf("separations = %v / %v", cfg.Layout.RankSep, cfg.Layout.NodeSep)
	}
	if len(cfg.Palette) != 2 || cfg.GraphPalette().At(3) != "#abc" {
		t.Errorf("palette = %v", cfg.Palette)
	}
	if cfg.Cache.Backend != "sqlite" || cfg.Cache.TTL != 72*time.Hour || cfg.Cache.Namespace != "billing" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yml", `
layout:
  direction: LR
  nodesep: 40
route:
  spacing: 10
cache:
  backend: redis
  redis_url: redis://cache:6379/1
  ttl: 30m
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout.NodeSep != 40 || cfg.Route.Spacing != 10 || cfg.Route.Gap != 20 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Cache.TTL != 30*time.Minute || cfg.CacheConfig().RedisURL != "redis://cache:6379/1" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout.Engine != layout.DefaultEngine {
		t.Errorf("engine = %q, want default", cfg.Layout.Engine)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.Code
		msg     string
	}{
		{"unknown toml key", "c.toml", "[layout]\nspacing = 3\n", errors.ErrCodeInvalidConfig, "unknown key"},
		{"unknown yaml key", "c.yaml", "layout:\n  colour: red\n", errors.ErrCodeInvalidConfig, ""},
		{"bad engine", "c.toml", "[layout]\nengine = \"elk\"\n", errors.ErrCodeInvalidConfig, "layout.engine must be one of"},
		{"bad color", "c.toml", "palette = [\"red\"]\n", errors.ErrCodeInvalidConfig, "palette[0] must be a hex color"},
		{"empty palette", "c.toml", "palette = []\n", errors.ErrCodeInvalidConfig, "palette must have at least 1"},
		{"zero width", "c.yaml", "layout:\n  node_width: 0\n", errors.ErrCodeInvalidConfig, "layout.node_width must be >"},
		{"zero nodesep", "c.toml", "[layout]\nnodesep = 0\n", errors.ErrCodeInvalidConfig, "layout.nodesep must be >"},
		{"zero ranksep", "c.yaml", "layout:\n  ranksep: 0\n", errors.ErrCodeInvalidConfig, "layout.ranksep must be >"},
		{"zero spacing", "c.toml", "[route]\nspacing = 0\n", errors.ErrCodeInvalidConfig, "route.spacing must be >"},
		{"zero radius", "c.toml", "[route]\ncorner_radius = 0\n", errors.ErrCodeInvalidConfig, "route.corner_radius must be >"},
		{"bad namespace", "c.toml", "[cache]\nnamespace = \"caf\u00e9\"\n", errors.ErrCodeInvalidConfig, "cache.namespace must be printable ASCII"},
		{"bad syntax", "c.toml", "[layout\n", errors.ErrCodeInvalidConfig, ""},
		{"bad extension", "c.ini", "x=1", errors.ErrCodeInvalidConfig, "unsupported config format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if !errors.Is(err, tt.code) {
				t.Fatalf("Load() error = %v, want code %s", err, tt.code)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("Load() error = %q, want it to contain %q", err, tt.msg)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestResolve(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, used, err := Resolve("")
	if err != nil || used != "" {
		t.Fatalf("Resolve(\"\") = %q, %v", used, err)
	}
	if cfg.Layout.Engine != layout.DefaultEngine {
		t.Errorf("engine = %q", cfg.Layout.Engine)
	}

	path := writeFile(t, "explicit.toml", "[layout]\nengine = \"dot\"\n")
	cfg, used, err = Resolve(path)
	if err != nil || used != path || cfg.Layout.Engine != "dot" {
		t.Errorf("Resolve(explicit) = %+v, %q, %v", cfg.Layout, used, err)
	}
}

func TestOptionConversions(t *testing.T) {
	cfg := Default()
	cfg.Layout.Direction = "TB"
	cfg.Route.CornerRadius = 8

	lo := cfg.LayoutOptions()
	if lo.Direction != layout.DirectionTB || lo.NodeSep != layout.DefaultNodeSep {
		t.Errorf("LayoutOptions() = %+v", lo)
	}
	if ro := cfg.RouteOptions(); ro.Radius != 8 {
		t.Errorf("RouteOptions() = %+v", ro)
	}
	if cc := cfg.CacheConfig(); cc.Backend != "file" {
		t.Errorf("CacheConfig() = %+v", cc)
	}
}

func TestKeyer(t *testing.T) {
	cfg := Default()
	if _, ok := cfg.Keyer().(cache.DefaultKeyer); !ok {
		t.Errorf("Keyer() without namespace = %T, want DefaultKeyer", cfg.Keyer())
	}

	cfg.Cache.Namespace = "billing"
	key := cfg.Keyer().LayoutKey("h", cache.LayoutKeyOpts{})
	if want := "billing:" + cache.NewDefaultKeyer().LayoutKey("h", cache.LayoutKeyOpts{}); key != want {
		t.Errorf("LayoutKey = %s, want %s", key, want)
	}
}
