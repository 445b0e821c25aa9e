package main

import (
	"context"
	"log"

	"github.com/chazu/kerf/pkg/boolean"
	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/brep"
	"github.com/chazu/kerf/pkg/tessellate"
	"github.com/samber/lo"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App evaluates scripts into measured, tessellated parts.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the serializable mesh format of one part.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line" yaml:"line,omitempty"`
	Col     int    `json:"col" yaml:"col,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// PartReport describes one emitted part.
type PartReport struct {
	Name        string             `json:"name" yaml:"name"`
	Color       string             `json:"color" yaml:"color"`
	Volume      float64            `json:"volume" yaml:"volume"`
	Area        float64            `json:"area" yaml:"area"`
	Min         [3]float64         `json:"min" yaml:"min,flow"`
	Max         [3]float64         `json:"max" yaml:"max,flow"`
	Triangles   int                `json:"triangles" yaml:"triangles"`
	Diagnostics *DiagnosticsReport `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// DiagnosticsReport summarises the last Boolean run that produced a part.
type DiagnosticsReport struct {
	RunID         string   `json:"runId" yaml:"run_id"`
	Operation     string   `json:"operation" yaml:"operation"`
	Closed        bool     `json:"closed" yaml:"closed"`
	Interferences int      `json:"interferences" yaml:"interferences"`
	SectionEdges  int      `json:"sectionEdges" yaml:"section_edges,omitempty"`
	SplitFaces    int      `json:"splitFaces" yaml:"split_faces"`
	Warnings      []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Parts    []PartReport    `json:"parts" yaml:"parts"`
	Meshes   []MeshData      `json:"meshes" yaml:"-"`
	Errors   []EvalErrorData `json:"errors" yaml:"errors,omitempty"`
	Warnings []EvalErrorData `json:"warnings" yaml:"warnings,omitempty"`
}

// NewApp creates an App with the engine and kernel cfg describes. Extra
// options reach the Boolean runs of the brep kernel.
func NewApp(cfg *config.Config, opts ...boolean.Option) *App {
	return &App{
		engine: cfg.NewEngine(),
		kernel: cfg.NewKernel(opts...),
	}
}

// Evaluate takes Lisp source and returns part reports, meshes and errors.
func (a *App) Evaluate(source string) EvalResult {
	return a.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate with Boolean runs abandoned once ctx is done.
func (a *App) EvaluateContext(ctx context.Context, source string) EvalResult {
	result := EvalResult{
		Parts:    []PartReport{},
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a validated design graph.
	run := a.engine.Run(source)
	for _, w := range run.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Line: w.Line, Col: w.Col, Message: w.Message})
	}
	if len(run.Errors) > 0 {
		for _, e := range run.Errors {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 2: Build every emitted part with the kernel.
	k := a.kernel
	if bk, ok := k.(*brep.Kernel); ok {
		k = bk.WithContext(ctx)
	}
	parts, err := tessellate.Evaluate(run.Graph, k)
	if err != nil {
		log.Printf("Evaluate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "evaluation failed: " + err.Error(),
		})
		return result
	}

	// Step 3: Measure and tessellate each part.
	measure, _ := k.(kernel.Measurer)
	for i, p := range parts {
		color := colorPalette[i%len(colorPalette)]

		m, err := k.ToMesh(p.Solid)
		if err != nil {
			log.Printf("Tessellate error: %v", err)
			result.Errors = append(result.Errors, EvalErrorData{
				Message: "tessellation of " + p.Name + " failed: " + err.Error(),
			})
			return result
		}
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: p.Name,
			Color:    color,
		})

		pr := PartReport{Name: p.Name, Color: color, Triangles: m.TriangleCount()}
		pr.Min, pr.Max = p.Solid.BoundingBox()
		if measure != nil {
			pr.Volume = measure.Volume(p.Solid)
			pr.Area = measure.Area(p.Solid)
		}
		if bs, ok := p.Solid.(*brep.Solid); ok && bs.Diagnostics != nil {
			pr.Diagnostics = diagnosticsReport(bs.Diagnostics)
		}
		result.Parts = append(result.Parts, pr)
	}

	return result
}

func diagnosticsReport(d *boolean.Diagnostics) *DiagnosticsReport {
	return &DiagnosticsReport{
		RunID:         d.RunID,
		Operation:     d.Operation.String(),
		Closed:        d.Closed,
		Interferences: d.Interferences,
		SectionEdges:  d.SectionEdges,
		SplitFaces:    d.SplitFaces,
		Warnings:      lo.Map(d.Warnings, func(w boolean.Warning, _ int) string { return w.String() }),
	}
}
