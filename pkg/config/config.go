// Package config reads kerf's INI-style configuration file.
//
//	[engine]
//	timeout = 5s
//
//	[kernel]
//	backend = brep
//	tolerance = 1e-7
//	tolerance-ceiling = 1e-4
//	workers = 4
//	strict = false
//	segments = 24
//	rings = 12
//	cells = 200
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/chazu/kerf/pkg/boolean"
	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/graph"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/brep"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"gopkg.in/gcfg.v1"
)

// Kernel backends.
const (
	BackendBrep = "brep"
	BackendSdfx = "sdfx"
)

type EngineConfig struct {
	Timeout string

	duration time.Duration
}

func (ec *EngineConfig) CheckInit() error {
	if ec.Timeout == "" {
		ec.duration = engine.EvalTimeout
		return nil
	}
	d, err := time.ParseDuration(ec.Timeout)
	if err != nil {
		return fmt.Errorf("engine timeout %q: %w", ec.Timeout, err)
	}
	if d <= 0 {
		return fmt.Errorf("engine timeout must be positive, but is %s", d)
	}
	ec.duration = d
	return nil
}

type KernelConfig struct {
	Backend          string
	Tolerance        float64
	ToleranceCeiling float64 `gcfg:"tolerance-ceiling"`
	Workers          int
	Strict           bool
	Segments         int
	Rings            int
	Cells            int
}

func (kc *KernelConfig) CheckInit() error {
	switch kc.Backend {
	case BackendBrep, BackendSdfx:
	case "":
		kc.Backend = BackendBrep
	default:
		return fmt.Errorf("kernel backend must be %q or %q, but is %q", BackendBrep, BackendSdfx, kc.Backend)
	}

	if !finitePositive(kc.Tolerance) {
		return fmt.Errorf("kernel tolerance must be finite and positive, but is %g", kc.Tolerance)
	} else if !finitePositive(kc.ToleranceCeiling) {
		return fmt.Errorf("kernel tolerance-ceiling must be finite and positive, but is %g", kc.ToleranceCeiling)
	} else if kc.ToleranceCeiling < kc.Tolerance {
		return fmt.Errorf("kernel tolerance-ceiling %g is below the tolerance %g", kc.ToleranceCeiling, kc.Tolerance)
	}

	if kc.Workers < 0 {
		return fmt.Errorf("kernel workers must not be negative, but is %d", kc.Workers)
	} else if kc.Segments < 3 {
		return fmt.Errorf("kernel segments must be at least 3, but is %d", kc.Segments)
	} else if kc.Rings < 2 {
		return fmt.Errorf("kernel rings must be at least 2, but is %d", kc.Rings)
	} else if kc.Cells < 8 {
		return fmt.Errorf("kernel cells must be at least 8, but is %d", kc.Cells)
	}

	return nil
}

func finitePositive(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x > 0
}

// Config is the whole configuration file.
type Config struct {
	Engine EngineConfig
	Kernel KernelConfig
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Kernel: KernelConfig{
			Backend:          BackendBrep,
			Tolerance:        boolean.DefaultTolerance,
			ToleranceCeiling: boolean.DefaultToleranceCeiling,
			Strict:           boolean.DefaultStrict,
			Segments:         graph.DefaultSegments,
			Rings:            graph.DefaultRings,
			Cells:            sdfx.DefaultMeshCells,
		},
	}
}

// CheckInit validates every section and fills in derived values.
func (c *Config) CheckInit() error {
	if err := c.Engine.CheckInit(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Kernel.CheckInit(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads the file at path over the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadFileInto(c, path); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := c.CheckInit(); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse reads configuration text over the defaults.
func Parse(src string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadStringInto(c, src); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.CheckInit(); err != nil {
		return nil, err
	}
	return c, nil
}

// Options returns the Boolean options the kernel settings ask for.
func (c *Config) Options() []boolean.Option {
	kc := c.Kernel
	opts := []boolean.Option{
		boolean.WithTolerance(kc.Tolerance),
		boolean.WithToleranceCeiling(kc.ToleranceCeiling),
	}
	if kc.Workers > 0 {
		opts = append(opts, boolean.WithWorkers(kc.Workers))
	}
	if kc.Strict {
		opts = append(opts, boolean.WithStrict())
	}
	return opts
}

// Defaults returns the graph defaults the kernel settings ask for.
func (c *Config) Defaults() graph.GlobalDefaults {
	return graph.GlobalDefaults{
		Tolerance: c.Kernel.Tolerance,
		Segments:  c.Kernel.Segments,
		Rings:     c.Kernel.Rings,
		Units:     "mm",
	}
}

// NewEngine returns a script engine with the configured timeout and graph
// defaults.
func (c *Config) NewEngine() *engine.Engine {
	e := engine.NewEngine()
	if c.Engine.duration > 0 {
		e.Timeout = c.Engine.duration
	}
	d := c.Defaults()
	e.Defaults = &d
	return e
}

// NewKernel returns the configured kernel backend. Extra Boolean options
// such as a logger or metrics are appended to the configured ones.
func (c *Config) NewKernel(extra ...boolean.Option) kernel.Kernel {
	if c.Kernel.Backend == BackendSdfx {
		return &sdfx.SdfxKernel{Cells: c.Kernel.Cells}
	}
	return brep.New(append(c.Options(), extra...)...)
}
