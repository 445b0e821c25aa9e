// Package geom is the geometry evaluation service used by the Boolean
// engine. It provides vectors, the analytic curves and surfaces that back
// B-Rep edges and faces, bounding boxes, and the planar polygon predicates
// the engine needs in a face's parameter space.
//
// Everything here is a pure function of its inputs: curves and surfaces are
// immutable values that can be shared by any number of topological shapes.
package geom
