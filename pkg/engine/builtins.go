package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/kerf/pkg/boolean"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms kerf Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: sphere-cap -> sphere_cap
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}


// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// number returns the keyword argument key, or else positional argument i.
func (a kwArgs) number(key string, i int) (float64, bool, error) {
	if v, ok := a.kw[key]; ok {
		f, err := toFloat64(v)
		return f, true, err
	}
	if i >= 0 && i < len(a.positional) {
		f, err := toFloat64(a.positional[i])
		return f, true, err
	}
	return 0, false, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number. Floats are accepted when integral.
func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected whole number, got %g", f)
	}
	return int(f), nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_mm) and plain strings ("mm").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (graph.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return graph.ZeroID, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toVec3Args reads a vector given either as one vec3 or as three numbers.
func toVec3Args(args []zygo.Sexp) (geom.Vec3, error) {
	switch len(args) {
	case 1:
		return toVec3(args[0])
	case 3:
		var v geom.Vec3
		for i := range v {
			f, err := toFloat64(args[i])
			if err != nil {
				return geom.Vec3{}, err
			}
			v[i] = f
		}
		return v, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected a vec3 or three numbers, got %d arguments", len(args))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toNodeRefs flattens node references and lists of them.
func toNodeRefs(args []zygo.Sexp) ([]graph.NodeID, error) {
	var ids []graph.NodeID
	for i, a := range args {
		if _, ok := a.(*sexpNodeRef); !ok {
			if items, err := sexpListToSlice(a); err == nil {
				sub, err := toNodeRefs(items)
				if err != nil {
					return nil, err
				}
				ids = append(ids, sub...)
				continue
			}
		}
		id, err := toNodeRef(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ---------------------------------------------------------------------------
// Graph construction
// ---------------------------------------------------------------------------

// builder adds nodes to one evaluation's graph. Anonymous nodes get IDs
// from per-form counters, so the same source always yields the same IDs.
type builder struct {
	g   *graph.DesignGraph
	seq map[string]int
}

func newBuilder(g *graph.DesignGraph) *builder {
	return &builder{g: g, seq: make(map[string]int)}
}

// add creates an anonymous node made by form.
func (b *builder) add(form string, kind graph.NodeKind, data graph.NodeData, children ...graph.NodeID) *sexpNodeRef {
	b.seq[form]++
	id := graph.NewNodeID(fmt.Sprintf("%s/%d", form, b.seq[form]))
	b.g.AddNode(&graph.Node{
		ID:       id,
		Kind:     kind,
		Source:   graph.SourceRef{Form: form},
		Children: children,
		Data:     data,
	})
	return &sexpNodeRef{id: id}
}

// name gives the node id a user-visible name.
func (b *builder) name(id graph.NodeID, name string) error {
	if prev := b.g.Lookup(name); prev != nil {
		if prev.ID == id {
			return nil
		}
		return fmt.Errorf("%q is already defined", name)
	}
	n := b.g.Get(id)
	if n == nil {
		return fmt.Errorf("no node %s", id.Short())
	}
	if n.Name != "" {
		return fmt.Errorf("node is already named %q", n.Name)
	}
	n.Name = name
	b.g.NameIndex[name] = id
	return nil
}

// transform wraps child in a transform node made by form.
func (b *builder) transform(form string, child graph.NodeID, td graph.TransformData) *sexpNodeRef {
	return b.add(form, graph.NodeTransform, td, child)
}

// combine folds operands left to right with op.
func (b *builder) combine(op boolean.Operation, operands []graph.NodeID) *sexpNodeRef {
	acc := &sexpNodeRef{id: operands[0]}
	for _, tool := range operands[1:] {
		acc = b.add(op.String(), graph.NodeBoolean, graph.BooleanData{Op: op}, acc.id, tool)
	}
	return acc
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all kerf DSL builtins into a zygomys environment.
// The builtins operate on the provided DesignGraph, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *graph.DesignGraph) {
	b := newBuilder(g)

	// -----------------------------------------------------------------------
	// (defaults :tolerance 1e-6 :segments 32 :rings 16 :units :mm)
	// -----------------------------------------------------------------------
	env.AddFunction("defaults", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		d := &g.Defaults

		if v, ok := pa.kw["tolerance"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defaults: tolerance: %w", err)
			}
			d.Tolerance = f
		}
		if v, ok := pa.kw["segments"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defaults: segments: %w", err)
			}
			d.Segments = n
		}
		if v, ok := pa.kw["rings"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defaults: rings: %w", err)
			}
			d.Rings = n
		}
		if v, ok := pa.kw["units"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defaults: units: %w", err)
			}
			d.Units = s
		}

		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (box 600 300 18) or (box :size (vec3 600 300 18))
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var (
			size geom.Vec3
			err  error
		)
		if v, ok := pa.kw["size"]; ok {
			size, err = toVec3(v)
		} else {
			size, err = toVec3Args(pa.positional)
		}
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
		}

		return b.add("box", graph.NodePrimitive, graph.BoxData{Dimensions: size}), nil
	})

	// -----------------------------------------------------------------------
	// (sphere 10) or (sphere :radius 10 :segments 32 :rings 16)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sd := graph.SphereData{}

		r, ok, err := pa.number("radius", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
		}
		if !ok {
			return zygo.SexpNull, fmt.Errorf("sphere requires a radius")
		}
		sd.Radius = r
		if v, ok := pa.kw["segments"]; ok {
			if sd.Segments, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: segments: %w", err)
			}
		}
		if v, ok := pa.kw["rings"]; ok {
			if sd.Rings, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: rings: %w", err)
			}
		}

		return b.add("sphere", graph.NodePrimitive, sd), nil
	})

	// -----------------------------------------------------------------------
	// (cylinder 20 5) or (cylinder :height 20 :radius 5 :segments 32)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		cd := graph.CylinderData{}

		h, ok, err := pa.number("height", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		if !ok {
			return zygo.SexpNull, fmt.Errorf("cylinder requires a height")
		}
		r, ok, err := pa.number("radius", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		if !ok {
			return zygo.SexpNull, fmt.Errorf("cylinder requires a radius")
		}
		cd.Height, cd.Radius = h, r
		if v, ok := pa.kw["segments"]; ok {
			if cd.Segments, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: segments: %w", err)
			}
		}

		return b.add("cylinder", graph.NodePrimitive, cd), nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		v, err := toVec3Args(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (place (part "front") :at (vec3 0 0 19) :rotate (vec3 0 0 90))
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a solid reference as first argument")
		}

		childID, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: solid: %w", err)
		}

		td := graph.TransformData{}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
			td.Translation = &vec
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: rotate: %w", err)
			}
			td.Rotation = &vec
		}

		return b.transform("place", childID, td), nil
	})

	// -----------------------------------------------------------------------
	// (translate solid 1 2 3) or (translate solid (vec3 1 2 3))
	// (rotate solid 0 0 90) or (rotate solid (vec3 0 0 90))
	// -----------------------------------------------------------------------
	for _, form := range []string{"translate", "rotate"} {
		form := form
		env.AddFunction(form, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires a solid and a vector", form)
			}
			childID, err := toNodeRef(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: solid: %w", form, err)
			}
			vec, err := toVec3Args(args[1:])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", form, err)
			}

			td := graph.TransformData{Translation: &vec}
			if form == "rotate" {
				td = graph.TransformData{Rotation: &vec}
			}
			return b.transform(form, childID, td), nil
		})
	}

	// -----------------------------------------------------------------------
	// (fuse a b c...), (cut a b c...), (common a b c...): folded left
	// (section a b)
	// -----------------------------------------------------------------------
	for _, op := range []boolean.Operation{boolean.OpFuse, boolean.OpCut, boolean.OpCommon, boolean.OpSection} {
		op := op
		env.AddFunction(op.String(), func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			operands, err := toNodeRefs(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			if len(operands) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least 2 solids, got %d", op, len(operands))
			}
			if op == boolean.OpSection && len(operands) != 2 {
				return zygo.SexpNull, fmt.Errorf("section requires exactly 2 solids, got %d", len(operands))
			}
			return b.combine(op, operands), nil
		})
	}

	// -----------------------------------------------------------------------
	// (defpart "name" (box ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defpart", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defpart requires a name and a body expression")
		}

		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: name: %w", err)
		}
		id, err := toNodeRef(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: body: %w", err)
		}
		if err := b.name(id, partName); err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: %w", err)
		}

		return &sexpNodeRef{id: id, name: partName}, nil
	})

	// -----------------------------------------------------------------------
	// (part "name")
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}

		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}

		n := g.Lookup(partName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
		}

		return &sexpNodeRef{id: n.ID, name: partName}, nil
	})

	// -----------------------------------------------------------------------
	// (emit solid...)
	// -----------------------------------------------------------------------
	env.AddFunction("emit", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ids, err := toNodeRefs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("emit: %w", err)
		}
		if len(ids) == 0 {
			return zygo.SexpNull, fmt.Errorf("emit requires at least one solid")
		}
		for _, id := range ids {
			g.AddRoot(id)
		}
		return &sexpNodeRef{id: ids[len(ids)-1]}, nil
	})

	// -----------------------------------------------------------------------
	// (assembly "name" (place ...) (place ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("assembly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
		}

		asmName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
		}
		if g.Lookup(asmName) != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: %q is already defined", asmName)
		}

		children, err := toNodeRefs(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: child %w", err)
		}

		id := graph.NewNodeID("assembly/" + asmName)
		node := &graph.Node{
			ID:       id,
			Kind:     graph.NodeGroup,
			Name:     asmName,
			Source:   graph.SourceRef{Form: "assembly"},
			Children: children,
			Data:     graph.GroupData{Description: asmName},
		}
		g.AddNode(node)
		g.AddRoot(id)

		return &sexpNodeRef{id: id, name: asmName}, nil
	})
}
