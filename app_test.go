package main

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/chazu/kerf/pkg/config"
	"gopkg.in/yaml.v3"
)

func newTestApp() *App {
	return NewApp(config.Default())
}

func readExample(t *testing.T, name string) string {
	t.Helper()
	source, err := os.ReadFile("examples/" + name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(source)
}

func requireNoErrors(t *testing.T, result EvalResult) {
	t.Helper()
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
}

// TestE2EPocketExample exercises the full pipeline: Lisp source → engine →
// graph → kernel → report and meshes.
func TestE2EPocketExample(t *testing.T) {
	result := newTestApp().Evaluate(readExample(t, "pocket.kerf"))
	requireNoErrors(t, result)

	if len(result.Parts) != 1 || len(result.Meshes) != 1 {
		t.Fatalf("expected 1 part and 1 mesh, got %d and %d", len(result.Parts), len(result.Meshes))
	}
	p := result.Parts[0]
	if p.Name != "pocket" {
		t.Errorf("expected part name 'pocket', got %q", p.Name)
	}
	if math.Abs(p.Volume-3.5) > 1e-9 {
		t.Errorf("pocket volume = %.9f, want 3.5", p.Volume)
	}
	if p.Triangles == 0 || len(result.Meshes[0].Indices) != 3*p.Triangles {
		t.Errorf("triangle count %d does not match the mesh", p.Triangles)
	}
	if p.Diagnostics == nil {
		t.Fatal("expected diagnostics from the cut")
	}
	if p.Diagnostics.Operation != "cut" || !p.Diagnostics.Closed {
		t.Errorf("diagnostics = %+v, want a closed cut", p.Diagnostics)
	}
	if p.Diagnostics.RunID == "" {
		t.Error("diagnostics should carry a run ID")
	}
	for j, want := range [3]float64{2, 2, 1} {
		if math.Abs(p.Min[j]) > 1e-5 || math.Abs(p.Max[j]-want) > 1e-5 {
			t.Errorf("bounds = %v..%v, want the slab", p.Min, p.Max)
			break
		}
	}
}

// TestE2ECubesExample checks the four operations on the offset cubes.
func TestE2ECubesExample(t *testing.T) {
	result := newTestApp().Evaluate(readExample(t, "cubes.kerf"))
	requireNoErrors(t, result)

	want := []struct {
		name   string
		volume float64
	}{
		{"fused", 1.875},
		{"cut", 0.875},
		{"common", 0.125},
		{"outline", 0},
	}
	if len(result.Parts) != len(want) {
		t.Fatalf("expected %d parts, got %d", len(want), len(result.Parts))
	}
	for i, w := range want {
		p := result.Parts[i]
		if p.Name != w.name {
			t.Errorf("part %d is %q, want %q", i, p.Name, w.name)
		}
		if math.Abs(p.Volume-w.volume) > 1e-9 {
			t.Errorf("%s volume = %.9f, want %.3f", p.Name, p.Volume, w.volume)
		}
		if p.Color == "" || result.Meshes[i].Color != p.Color {
			t.Errorf("%s: mesh and report colors differ", p.Name)
		}
	}

	outline := result.Parts[3]
	if outline.Triangles != 0 {
		t.Errorf("section should have no triangles, got %d", outline.Triangles)
	}
	if outline.Diagnostics == nil || outline.Diagnostics.SectionEdges != 6 {
		t.Errorf("section diagnostics = %+v, want 6 section edges", outline.Diagnostics)
	}
}

// TestE2EBracketExampleValidates runs the bracket script through the engine
// and graph validation.
func TestE2EBracketExampleValidates(t *testing.T) {
	app := newTestApp()
	run := app.engine.Run(readExample(t, "bracket.kerf"))
	if len(run.Errors) > 0 {
		t.Fatalf("errors: %v", run.Errors)
	}
	if run.Graph.Defaults.Segments != 16 {
		t.Errorf("segments = %d, want 16 from the script", run.Graph.Defaults.Segments)
	}
	if run.Graph.MustLookup("bracket") == nil {
		t.Fatal("missing bracket")
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	result := newTestApp().Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	result := newTestApp().Evaluate("(defpart \"test\"")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2ESingleBox ensures a minimal emitted box renders one mesh.
func TestE2ESingleBox(t *testing.T) {
	source := `(emit (defpart "shelf" (box 600 300 18)))`
	result := newTestApp().Evaluate(source)
	requireNoErrors(t, result)

	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if result.Meshes[0].PartName != "shelf" {
		t.Errorf("expected part name 'shelf', got %q", result.Meshes[0].PartName)
	}
	if v := result.Parts[0].Volume; math.Abs(v-600*300*18) > 1e-6 {
		t.Errorf("volume = %f, want %d", v, 600*300*18)
	}
	if result.Parts[0].Diagnostics != nil {
		t.Error("a primitive has no Boolean diagnostics")
	}
}

// TestE2ESdfxBackend runs the same script on the SDF kernel, which reports
// bounds and meshes but no exact mass properties.
func TestE2ESdfxBackend(t *testing.T) {
	cfg, err := config.Parse("[kernel]\nbackend = sdfx\ncells = 32\n")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	result := NewApp(cfg).Evaluate(`(emit (defpart "cube" (box 1 1 1)))`)
	requireNoErrors(t, result)

	p := result.Parts[0]
	if p.Volume != 0 || p.Diagnostics != nil {
		t.Errorf("sdfx part = %+v, want no measurements", p)
	}
	if p.Triangles == 0 {
		t.Error("sdfx mesh should have triangles")
	}
	if math.Abs(p.Max[0]-1) > 1e-6 {
		t.Errorf("max x = %f, want 1", p.Max[0])
	}
}

func TestWriteReport(t *testing.T) {
	result := newTestApp().Evaluate(readExample(t, "pocket.kerf"))
	requireNoErrors(t, result)

	var buf bytes.Buffer
	if err := writeReport(&buf, result); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"parts:", "name: pocket", "operation: cut", "closed: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "vertices") {
		t.Error("report should not include raw meshes")
	}

	var back struct {
		Parts []struct {
			Name   string  `yaml:"name"`
			Volume float64 `yaml:"volume"`
		} `yaml:"parts"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("report is not valid YAML: %v", err)
	}
	if len(back.Parts) != 1 || back.Parts[0].Name != "pocket" {
		t.Errorf("decoded parts = %+v", back.Parts)
	}
}
