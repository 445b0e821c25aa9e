package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chazu/kerf/pkg/boolean"
	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/kernel/brep"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
; kerf settings
[engine]
timeout = 250ms

[kernel]
backend = brep
tolerance = 1e-6
tolerance-ceiling = 1e-3
workers = 3
strict = true
segments = 32
rings = 16
cells = 64
`

func apply(opts []boolean.Option) boolean.Options {
	var o boolean.Options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.CheckInit())
	assert.Equal(t, BackendBrep, c.Kernel.Backend)
	assert.Equal(t, boolean.DefaultTolerance, c.Kernel.Tolerance)
	assert.Equal(t, engine.EvalTimeout, c.NewEngine().Timeout)

	o := apply(c.Options())
	assert.Equal(t, boolean.DefaultTolerance, o.Tolerance)
	assert.Equal(t, boolean.DefaultToleranceCeiling, o.ToleranceCeiling)
	assert.False(t, o.Strict)
	assert.Zero(t, o.Workers, "zero workers leaves the GOMAXPROCS default alone")
}

func TestParse(t *testing.T) {
	c, err := Parse(sample)
	require.NoError(t, err)

	assert.Equal(t, "250ms", c.Engine.Timeout)
	assert.Equal(t, 1e-3, c.Kernel.ToleranceCeiling)
	assert.Equal(t, 64, c.Kernel.Cells)

	o := apply(c.Options())
	assert.Equal(t, 1e-6, o.Tolerance)
	assert.Equal(t, 1e-3, o.ToleranceCeiling)
	assert.Equal(t, 3, o.Workers)
	assert.True(t, o.Strict)

	e := c.NewEngine()
	assert.Equal(t, 250*time.Millisecond, e.Timeout)
	require.NotNil(t, e.Defaults)
	assert.Equal(t, 32, e.Defaults.Segments)
	assert.Equal(t, 16, e.Defaults.Rings)
	assert.Equal(t, 1e-6, e.Defaults.Tolerance)
}

func TestParsePartial(t *testing.T) {
	c, err := Parse("[kernel]\nsegments = 8\n")
	require.NoError(t, err)
	assert.Equal(t, 8, c.Kernel.Segments)
	assert.Equal(t, BackendBrep, c.Kernel.Backend)
	assert.Equal(t, boolean.DefaultTolerance, c.Kernel.Tolerance)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unknown backend", "[kernel]\nbackend = occt\n", "backend"},
		{"zero tolerance", "[kernel]\ntolerance = 0\n", "tolerance must be finite and positive"},
		{"ceiling below tolerance", "[kernel]\ntolerance = 1e-3\ntolerance-ceiling = 1e-4\n", "below the tolerance"},
		{"negative workers", "[kernel]\nworkers = -1\n", "workers"},
		{"too few segments", "[kernel]\nsegments = 2\n", "segments must be at least 3"},
		{"too few rings", "[kernel]\nrings = 1\n", "rings must be at least 2"},
		{"too few cells", "[kernel]\ncells = 4\n", "cells"},
		{"bad timeout", "[engine]\ntimeout = soon\n", "engine timeout"},
		{"negative timeout", "[engine]\ntimeout = -1s\n", "must be positive"},
		{"unknown section", "[viewer]\ncolor = red\n", ""},
		{"unknown variable", "[kernel]\nfacets = 3\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kerf.gcfg")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Kernel.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.gcfg"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.gcfg")
}

func TestNewKernel(t *testing.T) {
	c := Default()
	require.NoError(t, c.CheckInit())
	_, ok := c.NewKernel().(*brep.Kernel)
	assert.True(t, ok, "default backend is brep")

	c, err := Parse("[kernel]\nbackend = sdfx\ncells = 32\n")
	require.NoError(t, err)
	k, ok := c.NewKernel().(*sdfx.SdfxKernel)
	require.True(t, ok, "sdfx backend")
	assert.Equal(t, 32, k.Cells)
}
