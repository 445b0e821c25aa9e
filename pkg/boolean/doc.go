// Package boolean computes fuse, cut, common and section of two
// boundary-representation shapes.
//
// The pipeline runs in strict phases:
//
//	intersect -> paves -> common blocks -> split faces -> classify -> assemble
//
// Pair intersection, face splitting and patch classification fan out over
// a bounded worker pool; every task writes only its own result slot and
// results are merged in index order, so the output does not depend on
// scheduling. The bookkeeping built during a run (DS) is discarded once
// the result has been assembled.
package boolean
