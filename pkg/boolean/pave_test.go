package boolean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/kerf/pkg/geom"
)

func TestMergeClosePaves(t *testing.T) {
	a, b := offsetCubes(t)
	ds, err := newDS(a, b, gatherOptions(WithToleranceCeiling(5e-7)))
	require.NoError(t, err)

	e := &ds.edges[0]
	e.tol = 1e-5
	dir, ok := geom.Unit(e.line.Dir)
	require.True(t, ok)
	p1 := e.line.Point(e.first + 0.3*(e.last-e.first))
	p2 := p1.Add(dir.Mul(1e-6))
	tight := ds.pool.at(p1, 1e-7)
	loose := ds.pool.at(p2, 5e-7)
	require.NotSame(t, tight, loose, "the points are farther apart than their tolerances")

	// A section edge leaving the edge from the looser vertex.
	perp, ok := geom.Unit(dir.Cross(geom.V3(0, 0, 1)))
	if !ok {
		perp, _ = geom.Unit(dir.Cross(geom.V3(1, 0, 0)))
	}
	far := ds.pool.at(p2.Add(perp.Mul(0.3)), 1e-7)
	line, length, ok := geom.LineThrough(loose.p, far.p)
	require.True(t, ok)
	sec := ds.addSectionEdge(line, 0, length, loose, far, nil)

	ds.makePaves()

	assert.Same(t, tight, ds.pool.resolve(loose), "the tighter vertex is kept")
	assert.InDelta(t, geom.Dist(p1, p2), tight.tol, 1e-12, "the kept vertex reaches the dropped one")
	assert.Empty(t, ds.pool.tree.SearchIntersect(pointRect(p2, 1e-9)), "the dropped vertex leaves the index")
	assert.Same(t, tight, ds.pool.at(p2, 1e-9), "later lookups find the kept vertex")

	blocks := ds.edges[0].blocks
	require.Len(t, blocks, 2)
	assert.Same(t, tight, blocks[0].Pave2.pv)
	assert.Same(t, tight, blocks[1].Pave1.pv)
	assert.True(t, ds.PaveBlocksCover(0))

	s := &ds.edges[sec]
	assert.Same(t, tight, s.v1, "section edge ends follow the merge")
	require.Len(t, s.blocks, 1)
	assert.Same(t, tight, s.blocks[0].Pave1.pv)
	assert.Same(t, far, s.blocks[0].Pave2.pv)
	assert.True(t, ds.PaveBlocksCover(sec))

	d := Diagnostics{Warnings: ds.warnings}
	assert.GreaterOrEqual(t, ds.degenerateBlocks, 1)
	assert.Positive(t, d.Count(WarnDegenerateBlock))
	assert.Positive(t, d.Count(WarnToleranceIncrease), "widening past the ceiling is reported")
}

func TestMergeClosePavesKeepsEndVertex(t *testing.T) {
	a, b := offsetCubes(t)
	ds, err := newDS(a, b, gatherOptions())
	require.NoError(t, err)

	e := &ds.edges[0]
	e.tol = 1e-5
	dir, ok := geom.Unit(e.line.Dir)
	require.True(t, ok)
	end := e.v1
	endTol := end.tol
	near := ds.pool.at(end.p.Add(dir.Mul(2e-6)), 1e-8)
	require.NotSame(t, end, near)

	ds.makePaves()

	assert.Same(t, end, ds.pool.resolve(near), "an end vertex wins over an interior one")
	assert.Greater(t, end.tol, endTol)
	require.Len(t, ds.edges[0].blocks, 1)
	assert.True(t, ds.PaveBlocksCover(0))
	assert.Zero(t, Diagnostics{Warnings: ds.warnings}.Count(WarnToleranceIncrease))
}
