package boolean

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/chazu/kerf/pkg/topo"
)

const tracerName = "github.com/chazu/kerf/pkg/boolean"

// ----------------------------------------------------------------------------
// Entry points
// ----------------------------------------------------------------------------

// PerformBoolean computes op between a and b. Solid operations need closed
// valid operands; Section accepts any shapes with faces. The context is
// checked between pipeline phases only.
//
// The result shape is always a compound. Recoverable degeneracies are
// reported in Result.Diagnostics; errors are returned only for invalid
// inputs, unclassifiable points, strict-mode open results and a done
// context.
func PerformBoolean(ctx context.Context, a, b topo.Shape, op Operation, opts ...Option) (*Result, error) {
	o := gatherOptions(opts...)
	runID := uuid.NewString()
	log := o.Logger.With(slog.String("run", runID), slog.String("op", op.String()))

	ctx, span := otel.Tracer(tracerName).Start(ctx, "boolean.PerformBoolean",
		trace.WithAttributes(
			attribute.String("kerf.run_id", runID),
			attribute.String("kerf.op", op.String()),
		),
	)
	defer span.End()

	start := time.Now()
	log.Info("boolean started", slog.Int("workers", o.Workers), slog.Float64("tolerance", o.Tolerance))
	res, err := perform(ctx, a, b, op, o, log, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "boolean failed")
		o.Metrics.observeRun(op, "error", nil)
		log.Error("boolean failed", slog.Duration("duration", time.Since(start)), slog.Any("error", err))
		return nil, err
	}
	res.Diagnostics.RunID = runID

	outcome := "closed"
	if !res.Diagnostics.Closed {
		outcome = "open"
	}
	o.Metrics.observeRun(op, outcome, res.Diagnostics.Warnings)
	span.SetAttributes(
		attribute.Int("kerf.interferences", res.Diagnostics.Interferences),
		attribute.Int("kerf.warnings", len(res.Diagnostics.Warnings)),
		attribute.Bool("kerf.closed", res.Diagnostics.Closed),
	)
	span.SetStatus(codes.Ok, outcome)
	log.Info("boolean finished",
		slog.Duration("duration", time.Since(start)),
		slog.Bool("closed", res.Diagnostics.Closed),
		slog.Int("warnings", len(res.Diagnostics.Warnings)),
	)
	return res, nil
}

// Fuse returns the union of a and b.
func Fuse(a, b topo.Shape, opts ...Option) (*Result, error) {
	return PerformBoolean(context.Background(), a, b, OpFuse, opts...)
}

// Common returns the intersection of a and b.
func Common(a, b topo.Shape, opts ...Option) (*Result, error) {
	return PerformBoolean(context.Background(), a, b, OpCommon, opts...)
}

// Cut returns a minus b.
func Cut(a, b topo.Shape, opts ...Option) (*Result, error) {
	return PerformBoolean(context.Background(), a, b, OpCut, opts...)
}

// Section returns the edges and vertices where the boundaries of a and b
// meet.
func Section(a, b topo.Shape, opts ...Option) (*Result, error) {
	return PerformBoolean(context.Background(), a, b, OpSection, opts...)
}

// ----------------------------------------------------------------------------
// Pipeline
// ----------------------------------------------------------------------------

type phase struct {
	name string
	run  func() error
}

// Prepare validates the operands and runs the pipeline up to and including
// classification. The returned DS exposes the intermediate tables.
func Prepare(ctx context.Context, a, b topo.Shape, op Operation, opts ...Option) (*DS, error) {
	o := gatherOptions(opts...)
	if err := checkOperands(a, b, op); err != nil {
		return nil, err
	}
	ds, err := newDS(a, b, o)
	if err != nil {
		return nil, err
	}
	if err := runPhases(ctx, ds.phases(op), o, o.Logger, nil); err != nil {
		return nil, err
	}
	return ds, nil
}

func perform(ctx context.Context, a, b topo.Shape, op Operation, o Options, log *slog.Logger, span trace.Span) (*Result, error) {
	if err := checkOperands(a, b, op); err != nil {
		return nil, err
	}
	ds, err := newDS(a, b, o)
	if err != nil {
		return nil, err
	}

	res := &Result{Diagnostics: Diagnostics{Operation: op}}
	assemble := phase{name: "assemble", run: func() error {
		if op == OpSection {
			shape, n, closed := ds.assembleSection()
			res.Shape, res.Diagnostics.SectionEdges, res.Diagnostics.Closed = shape, n, closed
			return nil
		}
		shape, closed, err := ds.assembleSolids(op)
		if err != nil {
			return err
		}
		res.Shape, res.Diagnostics.Closed = shape, closed
		res.Diagnostics.SectionEdges = len(ds.sectionEdges())
		return nil
	}}
	if err := runPhases(ctx, append(ds.phases(op), assemble), o, log, span); err != nil {
		return nil, err
	}

	d := &res.Diagnostics
	d.Warnings = ds.warnings
	d.Interferences = len(ds.interferences)
	d.DegenerateBlocks = ds.degenerateBlocks
	d.SplitFaces = ds.splitFaces
	return res, nil
}

// phases returns the pipeline phases op needs before assembly.
func (ds *DS) phases(op Operation) []phase {
	ps := []phase{
		{name: "intersect", run: func() error { ds.intersect(); return nil }},
		{name: "paves", run: func() error {
			ds.makePaves()
			ds.makeCommonBlocks()
			return nil
		}},
	}
	if op.IsSolid() {
		ps = append(ps,
			phase{name: "split", run: ds.rebuildFaces},
			phase{name: "classify", run: ds.classify},
		)
	}
	return ps
}

func runPhases(ctx context.Context, ps []phase, o Options, log *slog.Logger, span trace.Span) error {
	for _, ph := range ps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("boolean: before %s: %w", ph.name, err)
		}
		start := time.Now()
		err := ph.run()
		d := time.Since(start)
		o.Metrics.observePhase(ph.name, d)
		if span != nil {
			span.AddEvent(ph.name, trace.WithAttributes(attribute.Int64("duration_us", d.Microseconds())))
		}
		if err != nil {
			return err
		}
		log.Debug("phase finished", slog.String("phase", ph.name), slog.Duration("duration", d))
	}
	return nil
}

func checkOperands(a, b topo.Shape, op Operation) error {
	for _, s := range []struct {
		name  string
		shape topo.Shape
	}{{"A", a}, {"B", b}} {
		if s.shape.IsNull() {
			return fmt.Errorf("boolean: operand %s is null: %w", s.name, ErrInvalidInput)
		}
		if len(topo.Explore(s.shape, topo.Face)) == 0 {
			return fmt.Errorf("boolean: operand %s: %w", s.name, ErrEmptyOperand)
		}
		if !op.IsSolid() {
			continue
		}
		if len(topo.Explore(s.shape, topo.Solid)) == 0 {
			return fmt.Errorf("boolean: %s needs solids, operand %s is a %s: %w", op, s.name, s.shape.Kind(), ErrInvalidInput)
		}
		if r := topo.ValidateAll(s.shape); !r.OK() {
			return fmt.Errorf("boolean: operand %s: %v: %w", s.name, r.Errors[0], ErrInvalidInput)
		}
	}
	return nil
}

// ----------------------------------------------------------------------------
// Intersection merge
// ----------------------------------------------------------------------------

// intersect runs every candidate pair and merges the outcomes in task
// order: points first, so that section edge ends snap to them, then
// segments.
func (ds *DS) intersect() {
	tasks := ds.candidatePairs()
	results := make([]pairResult, len(tasks))
	parallel(len(tasks), ds.opts.Workers, func(i int) {
		results[i] = ds.intersectPair(tasks[i])
	})

	for i, t := range tasks {
		r := results[i]
		for _, hp := range r.points {
			var pv *poolVertex
			if t.kind == KindVF {
				pv = ds.vertices[t.i]
			} else {
				pv = ds.pool.at(hp.p, math.Max(hp.tol, ds.opts.Tolerance))
			}
			idx := ds.addInterference(Interference{
				Kind:      t.kind,
				Index1:    t.i,
				Index2:    t.j,
				Param1:    hp.t1,
				Param2:    hp.t2,
				Vertex:    pv.v,
				Tolerance: pv.tol,
			})
			if pv.src < 0 {
				pv.src = idx
			}
		}
		if r.coincident && len(r.segments) == 0 {
			ds.addInterference(Interference{Kind: t.kind, Index1: t.i, Index2: t.j, Coincident: true, Tolerance: ds.opts.Tolerance})
		}
	}

	for i, t := range tasks {
		r := results[i]
		if len(r.segments) == 0 {
			continue
		}
		in := Interference{Kind: t.kind, Index1: t.i, Index2: t.j, Coincident: r.coincident, Tolerance: ds.opts.Tolerance}
		for _, s := range r.segments {
			v1 := ds.pool.at(s.line.Point(s.t0), ds.opts.Tolerance)
			v2 := ds.pool.at(s.line.Point(s.t1), ds.opts.Tolerance)
			t0, t1 := s.line.Project(v1.p), s.line.Project(v2.p)
			if v1 == v2 || t1 <= t0 {
				ds.degenerateBlocks++
				ds.warn(Warning{Kind: WarnDegenerateBlock, ShapeID: v1.v.ID(), Message: fmt.Sprintf("%s section segment collapsed to a point", t.kind)})
				continue
			}
			in.Edges = append(in.Edges, ds.addSectionEdge(s.line, t0, t1, v1, v2, s.faces))
			in.Tolerance = math.Max(in.Tolerance, math.Max(v1.tol, v2.tol))
		}
		ds.addInterference(in)
	}
}
