package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/schemagraph/pkg/cache"
	"github.com/matzehuels/schemagraph/pkg/config"
	"github.com/matzehuels/schemagraph/pkg/graph"
	"github.com/matzehuels/schemagraph/pkg/view"
)

const testDataset = `[
  {"id": "A", "titulo": "Accounts", "propiedades_esquema": {"keys": ["id"], "timestamps": [], "fields": []},
   "relaciones": [{"relacion_a_db_id": "B", "nombre_propiedad": "owner"}]},
  {"id": "B", "titulo": "Users", "propiedades_esquema": {"keys": ["id"], "timestamps": [], "fields": []},
   "relaciones": []}
]`

// execute runs the CLI with an isolated config directory.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var logs bytes.Buffer
	root := New(&logs, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func writeDataset(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(testDataset), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLayoutCommandPayload(t *testing.T) {
	dir := t.TempDir()
	input := writeDataset(t, dir, "schemas.json")
	metrics := filepath.Join(dir, "metrics.prom")

	if err := execute(t, "layout", input, "--routes", "--no-cache", "--metrics-file", metrics); err != nil {
		t.Fatalf("layout: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "schemas.payload.json"))
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	var p view.Payload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if len(p.Nodes) != 2 || len(p.Edges) != 1 || len(p.Routes) != 1 {
		t.Errorf("payload has %d nodes, %d edges, %d routes; want 2, 1, 1", len(p.Nodes), len(p.Edges), len(p.Routes))
	}
	if p.Edges[0].ID != "e-0-A-to-B-owner" {
		t.Errorf("edge id = %q, want e-0-A-to-B-owner", p.Edges[0].ID)
	}

	prom, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(prom), "schemagraph_ingest_runs_total") {
		t.Errorf("metrics file missing ingest counter:\n%s", prom)
	}
}

func TestLayoutCommandBatch(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	a := writeDataset(t, dir, "one.json")
	b := writeDataset(t, dir, "two.json")

	if err := execute(t, "layout", a, b, "--emit", "graph", "-o", out, "--direction", "tb"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	for _, name := range []string{"one.graph.json", "two.graph.json"} {
		g, err := graph.ReadGraphFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(g.Nodes) != 2 {
			t.Fatalf("%s has %d nodes, want 2", name, len(g.Nodes))
		}
		if g.Nodes[1].Position.Y <= g.Nodes[0].Position.Y {
			t.Errorf("%s: TB layout should put B below A, got %v and %v", name, g.Nodes[0].Position, g.Nodes[1].Position)
		}
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeDataset(t, dir, "schemas.json")

	tests := []struct {
		name string
		args []string
	}{
		{"missing input", []string{"layout", filepath.Join(dir, "missing.json"), "--no-cache"}},
		{"bad emit", []string{"layout", input, "--emit", "svg", "--no-cache"}},
		{"bad engine", []string{"layout", input, "--engine", "neato", "--no-cache"}},
		{"output file for batch", []string{"layout", input, input, "-o", filepath.Join(dir, "out.json")}},
		{"bad config", []string{"layout", input, "--config", filepath.Join(dir, "missing.toml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLayoutCommandConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeDataset(t, dir, "schemas.json")
	cfg := filepath.Join(dir, "config.toml")
	conf := "palette = [\"#112233\"]\n\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(cfg, []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "layout", input, "--config", cfg, "--emit", "graph"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	g, err := graph.ReadGraphFile(filepath.Join(dir, "schemas.graph.json"))
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range g.Nodes {
		if n.Color != "#112233" {
			t.Errorf("node %s color = %s, want the configured palette", n.ID, n.Color)
		}
	}
}

func TestNewRunnerNamespace(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)

	cfg := config.Default()
	if _, ok := c.newRunner(cache.NewNullCache(), cfg).Keyer.(cache.DefaultKeyer); !ok {
		t.Error("runner without namespace should use the default keyer")
	}

	cfg.Cache.Namespace = "shop"
	scoped, ok := c.newRunner(cache.NewNullCache(), cfg).Keyer.(*cache.ScopedKeyer)
	if !ok || scoped.Namespace() != "shop:" {
		t.Errorf("runner keyer = %#v, want the shop namespace", scoped)
	}
}

// complete runs cobra's hidden completion command and returns its output.
func complete(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs(append([]string{cobra.ShellCompRequestCmd}, args...))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("complete %v: %v", args, err)
	}
	return out.String()
}

func TestFlagCompletions(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"layout", "--engine", ""}, []string{"layered", "dot"}},
		{[]string{"layout", "--format", ""}, []string{"json", "bson", "extjson"}},
		{[]string{"layout", "--emit", ""}, []string{"graph", "payload"}},
		{[]string{"explore", "--direction", ""}, []string{"LR", "TB"}},
		{[]string{"explore", "--engine", ""}, []string{"layered", "dot"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[:2], " "), func(t *testing.T) {
			lines := strings.Split(complete(t, tt.args...), "\n")
			for _, want := range tt.want {
				found := false
				for _, l := range lines {
					if l == want {
						found = true
					}
				}
				if !found {
					t.Errorf("completions %q missing %q", lines, want)
				}
			}
		})
	}
}

func TestDatasetArgCompletion(t *testing.T) {
	out := complete(t, "layout", "")
	for _, ext := range datasetExtensions {
		if !strings.Contains(out, ext+"\n") {
			t.Errorf("completions missing extension %q:\n%s", ext, out)
		}
	}
	if !strings.Contains(out, fmt.Sprintf(":%d", cobra.ShellCompDirectiveFilterFileExt)) {
		t.Errorf("completions should filter by extension:\n%s", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"completion", "bash"})
	root.SetOut(&out)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("completion bash: %v", err)
	}
	if !strings.Contains(out.String(), "schemagraph") {
		t.Error("bash completion script should mention the program")
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		input, output, emit, want string
	}{
		{"data/schemas.json", "", "payload", filepath.Join("data", "schemas.payload.json")},
		{"schemas.bson", "", "graph", "schemas.graph.json"},
		{"data/schemas.json", dir, "payload", filepath.Join(dir, "schemas.payload.json")},
		{"data/schemas.json", "out.json", "payload", "out.json"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.output, tt.emit); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.input, tt.output, tt.emit, got, tt.want)
		}
	}
}

func TestCacheLocation(t *testing.T) {
	tests := []struct {
		cfg  cache.Config
		want string
	}{
		{cache.Config{Backend: cache.BackendFile, Dir: "/tmp/sg"}, "/tmp/sg"},
		{cache.Config{Backend: cache.BackendSQLite, SQLitePath: "/tmp/sg.db"}, "/tmp/sg.db"},
		{cache.Config{Backend: cache.BackendRedis}, cache.DefaultRedisURL},
		{cache.Config{Backend: cache.BackendNone}, ""},
	}
	for _, tt := range tests {
		if got := cacheLocation(tt.cfg); got != tt.want {
			t.Errorf("cacheLocation(%s) = %q, want %q", tt.cfg.Backend, got, tt.want)
		}
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeDataset(t, dir, "schemas.json")
	cfg := filepath.Join(dir, "config.toml")
	cacheDir := filepath.Join(dir, "cache")
	conf := "[cache]\nbackend = \"file\"\ndir = \"" + filepath.ToSlash(cacheDir) + "\"\n"
	if err := os.WriteFile(cfg, []byte(conf), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "layout", input, "--config", cfg); err != nil {
		t.Fatalf("layout: %v", err)
	}
	entries, _ := os.ReadDir(cacheDir)
	if len(entries) == 0 {
		t.Fatal("layout should populate the cache")
	}

	if err := execute(t, "cache", "clear", "--config", cfg); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, _ = os.ReadDir(cacheDir)
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after clear", len(entries))
	}
}

func TestRenderCard(t *testing.T) {
	n := view.Node{Node: graph.Node{
		ID: "A", Label: "Accounts", Color: "#3b82f6",
		Keys: []string{"account_id"}, Timestamps: []string{}, Fields: []string{"balance"},
	}}

	collapsed := renderCard(n, true, false)
	for _, want := range []string{"Accounts", "+", sectionPK, "account_id", sectionTimestamps, "none"} {
		if !strings.Contains(collapsed, want) {
			t.Errorf("collapsed card missing %q:\n%s", want, collapsed)
		}
	}
	if strings.Contains(collapsed, "balance") {
		t.Error("collapsed card should hide attributes")
	}

	expanded := renderCard(n, false, true)
	if !strings.Contains(expanded, sectionAttributes) || !strings.Contains(expanded, "balance") {
		t.Errorf("expanded card should list attributes:\n%s", expanded)
	}
	if !strings.Contains(expanded, "▸") {
		t.Error("focused card should show the cursor")
	}

	details := renderDetails(n)
	for _, want := range []string{"Details", "Accounts", "account_id", "balance", "esc close"} {
		if !strings.Contains(details, want) {
			t.Errorf("details missing %q:\n%s", want, details)
		}
	}
}
