package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/scenegen/pkg/catalog"
	"github.com/matzehuels/scenegen/pkg/errors"
	setio "github.com/matzehuels/scenegen/pkg/io"
	"github.com/matzehuels/scenegen/pkg/placement"
)

// runCLI executes the root command with args and returns what the command
// wrote to its output stream. The user cache directory points at a temporary
// directory for the duration of the test.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenegen.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"generate", "place", "verify", "preview", "graph", "inspect", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag not registered")
	}
}

func TestPlaceVerifyPreviewGraph(t *testing.T) {
	dir := t.TempDir()
	setPath := filepath.Join(dir, "set.json")

	if _, err := runCLI(t, "place", "--seed", "9", "--count", "4", "-o", setPath); err != nil {
		t.Fatalf("place error: %v", err)
	}
	set, err := setio.ImportJSON(setPath)
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 4 {
		t.Errorf("placed %d items, want 4", set.Len())
	}
	if set.Seed != placement.DeriveSeed(9, 0) {
		t.Errorf("Seed = %d, want %d", set.Seed, placement.DeriveSeed(9, 0))
	}

	if _, err := runCLI(t, "verify", "--constraints", setPath); err != nil {
		t.Errorf("verify error: %v", err)
	}

	if _, err := runCLI(t, "preview", "--sampled", setPath); err != nil {
		t.Fatalf("preview error: %v", err)
	}
	svg, err := os.ReadFile(filepath.Join(dir, "set_footprint.svg"))
	if err != nil {
		t.Fatalf("footprint not written: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("footprint is not SVG: %.60s", svg)
	}

	if _, err := runCLI(t, "graph", "-f", "dot", setPath); err != nil {
		t.Fatalf("graph error: %v", err)
	}
	dot, err := os.ReadFile(filepath.Join(dir, "set_constraints.dot"))
	if err != nil {
		t.Fatalf("graph not written: %v", err)
	}
	if !strings.HasPrefix(string(dot), "digraph constraints {") {
		t.Errorf("graph = %.40s", dot)
	}
}

func TestPlaceTestIndex(t *testing.T) {
	setPath := filepath.Join(t.TempDir(), "set.json")
	if _, err := runCLI(t, "place", "--seed", "9", "--test", "3", "--count", "2", "--no-cache", "-o", setPath); err != nil {
		t.Fatalf("place error: %v", err)
	}
	set, err := setio.ImportJSON(setPath)
	if err != nil {
		t.Fatal(err)
	}
	if set.Seed != placement.DeriveSeed(9, 3) {
		t.Errorf("Seed = %d, want %d", set.Seed, placement.DeriveSeed(9, 3))
	}

	if _, err := runCLI(t, "place", "--test", "-1"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("place --test -1 error = %v, want INVALID_INPUT", err)
	}
}

func TestVerifyRejectsTampered(t *testing.T) {
	set, err := placement.Generate(context.Background(), placement.NewSampler(2), placement.Options{Count: 3})
	if err != nil {
		t.Fatal(err)
	}
	set.Items[2].HalfExtents.Z /= 2
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := setio.ExportJSON(set, path); err != nil {
		t.Fatal(err)
	}

	_, err = runCLI(t, "verify", path)
	if !errors.Is(err, errors.ErrCodeViolation) {
		t.Errorf("verify error = %v, want PLACEMENT_VIOLATION", err)
	}
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "catalog.db")
	_, err := runCLI(t, "generate",
		"--tests", "2", "--angles", "2", "--count", "3",
		"--out", dir, "--preview", "--no-cache",
		"--catalog", "sqlite://"+db)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	for _, name := range []string{
		"test0_0_scene.json", "test0_1_scene.json",
		"test1_0_scene.json", "test1_1_scene.json",
		"test0_footprint.svg", "test1_footprint.svg",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "test1_0_scene.json"))
	if err != nil {
		t.Fatal(err)
	}
	var desc struct {
		Objects []json.RawMessage `json:"objects"`
	}
	if err := json.Unmarshal(data, &desc); err != nil {
		t.Fatal(err)
	}
	if len(desc.Objects) != 3 {
		t.Errorf("scene holds %d objects, want 3", len(desc.Objects))
	}

	store, err := catalog.OpenSQLite(db)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	recs, err := store.List(context.Background(), uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("catalog holds %d records, want 2", len(recs))
	}
}

func TestGenerateUsesConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, `
[pipeline]
tests = 1
angles = 3
output_dir = "`+filepath.ToSlash(dir)+`"

[pipeline.placement]
count = 2

[cache]
backend = "none"
`)
	if _, err := runCLI(t, "--config", cfg, "generate", "--angles", "1"); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "test0_0_scene.json")); err != nil {
		t.Errorf("configured output dir not used: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "test0_1_scene.json")); err == nil {
		t.Error("--angles 1 should override the configured 3 angles")
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	setPath := filepath.Join(dir, "set.json")
	if _, err := runCLI(t, "place", "--count", "2", "-o", setPath); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unsupported preview format", []string{"preview", "-f", "gif", setPath}, errors.ErrCodeUnsupported},
		{"unsupported graph format", []string{"graph", "-f", "pdf", setPath}, errors.ErrCodeUnsupported},
		{"bad catalog", []string{"generate", "--out", dir, "--catalog", "postgres://x"}, errors.ErrCodeUnsupported},
		{"infeasible", []string{"generate", "--out", dir, "--count", "50", "--max-attempts", "500"}, errors.ErrCodeInfeasible},
		{"bad options", []string{"generate", "--out", dir, "--tests", "-2"}, errors.ErrCodeInvalidOptions},
		{"unsupported config", []string{"--config", filepath.Join(dir, "set.json"), "place"}, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestMissingConfig(t *testing.T) {
	if _, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "place"); err == nil {
		t.Error("missing config file should fail")
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := runCLI(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s error: %v", shell, err)
		}
		if !strings.Contains(out, appName) {
			t.Errorf("completion %s output does not mention %s", shell, appName)
		}
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		explicit, input, suffix, format string
		want                            string
	}{
		{"out.svg", "set.json", "_footprint", "svg", "out.svg"},
		{"", "runs/set.json", "_footprint", "svg", "runs/set_footprint.svg"},
		{"", "set", "_constraints", "dot", "set_constraints.dot"},
		{"", "-", "_footprint", "png", "-"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.explicit, tt.input, tt.suffix, tt.format); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %q) = %q, want %q", tt.explicit, tt.input, tt.suffix, tt.format, got, tt.want)
		}
	}
}
