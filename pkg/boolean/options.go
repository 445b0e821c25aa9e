package boolean

import (
	"io"
	"log/slog"
	"math"
	"runtime"

	"github.com/chazu/kerf/pkg/geom"
)

// Defaults applied when no Option overrides them.
const (
	// DefaultTolerance is the working linear tolerance.
	DefaultTolerance = geom.DefaultLinear

	// DefaultToleranceCeiling is the vertex tolerance above which a
	// widening is reported as a ToleranceIncrease warning.
	DefaultToleranceCeiling = 1e-4

	// DefaultStrict is false: results that cannot be closed are returned
	// as open shells with warnings instead of failing.
	DefaultStrict = false
)

const (
	panicToleranceInvalid = "boolean: WithTolerance: tolerance must be finite and positive"
	panicCeilingInvalid   = "boolean: WithToleranceCeiling: ceiling must be finite and positive"
	panicWorkersInvalid   = "boolean: WithWorkers: workers must be positive"
)

// Option configures a Boolean run.
type Option func(*Options)

// Options is the effective configuration of a run.
type Options struct {
	Tolerance        float64         // DefaultTolerance
	ToleranceCeiling float64         // DefaultToleranceCeiling
	Workers          int             // runtime.GOMAXPROCS(0)
	Strict           bool            // DefaultStrict
	Logger           *slog.Logger    // discards by default
	Metrics          *Metrics        // nil disables metrics
	Classifier       PointClassifier // ray parity classifier by default
}

func defaultOptions() Options {
	return Options{
		Tolerance:        DefaultTolerance,
		ToleranceCeiling: DefaultToleranceCeiling,
		Workers:          runtime.GOMAXPROCS(0),
		Strict:           DefaultStrict,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.Classifier == nil {
		o.Classifier = NewRayClassifier()
	}
	return o
}

// WithTolerance sets the working linear tolerance. It panics on a
// non-positive or non-finite value.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicToleranceInvalid)
	}
	return func(o *Options) { o.Tolerance = tol }
}

// WithToleranceCeiling sets the widening threshold for ToleranceIncrease
// warnings.
func WithToleranceCeiling(c float64) Option {
	if math.IsNaN(c) || math.IsInf(c, 0) || c <= 0 {
		panic(panicCeilingInvalid)
	}
	return func(o *Options) { o.ToleranceCeiling = c }
}

// WithWorkers bounds the number of goroutines used by each parallel phase.
func WithWorkers(n int) Option {
	if n <= 0 {
		panic(panicWorkersInvalid)
	}
	return func(o *Options) { o.Workers = n }
}

// WithStrict makes an unclosable result fail with ErrNotWellDefined.
func WithStrict() Option {
	return func(o *Options) { o.Strict = true }
}

// WithBestEffort returns open results with OpenShell warnings. This is the
// default.
func WithBestEffort() Option {
	return func(o *Options) { o.Strict = false }
}

// WithLogger sets the structured logger for phase events. A nil logger is
// ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics records run metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithClassifier replaces the point membership classifier.
func WithClassifier(c PointClassifier) Option {
	return func(o *Options) { o.Classifier = c }
}
