package query

import (
	"github.com/pkg/errors"
	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
)

// Query is an ordered sequence of Cubes interpreted as a disjunction — the
// union of the cubes' satisfying sets, stored in canonical DNF. Order is
// an incidental implementation detail: two queries are equal iff their
// cube multisets are equal under Cube.Equals.
type Query struct {
	cubes []*Cube
}

// From builds a Query from a single constraint: a record (map[string]any,
// parsed through the sugar grammar), a *Cube, or another *Query (whose
// cubes the new Query shares). A nil result means the constraint is
// unsatisfiable (∅), or that it was a Query with no cubes.
func From(constraint any) (*Query, error) {
	cubes, err := toCubes(constraint)
	if err != nil {
		return nil, err
	}
	if len(cubes) == 0 {
		return nil, nil
	}
	return &Query{cubes: cubes}, nil
}

// toCubes normalizes any of the accepted "incoming constraint" shapes
// (Query, Cube, record) into the list of cubes it contributes.
func toCubes(input any) ([]*Cube, error) {
	switch v := input.(type) {
	case nil:
		return nil, nil
	case *Query:
		if v == nil {
			return nil, nil
		}
		return v.cubes, nil
	case *Cube:
		return []*Cube{v}, nil
	case map[string]any:
		c, err := CubeFrom(v)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, nil
		}
		return []*Cube{c}, nil
	default:
		return nil, errors.Errorf("abstract-query: cannot build a query from %T", input)
	}
}

// Cubes returns the cubes of q in their internal (insertion-after-
// absorption) order. The slice is owned by the caller; mutating it does
// not affect q.
func (q *Query) Cubes() []*Cube {
	if q == nil {
		return nil
	}
	out := make([]*Cube, len(q.cubes))
	copy(out, q.cubes)
	return out
}

// orCube absorbs a single incoming cube into q: existing cubes contained
// by nc are dropped; if any existing cube already contains nc, nc itself
// is dropped. Otherwise nc is appended. This is insertion order with
// absorption, not further canonicalization (§4.4).
func (q *Query) orCube(nc *Cube) *Query {
	kept := make([]*Cube, 0, len(q.cubes)+1)
	absorbedNew := false
	for _, existing := range q.cubes {
		if existing.Contains(nc) == tribool.True {
			absorbedNew = true
			kept = append(kept, existing)
			continue
		}
		if nc.Contains(existing) == tribool.True {
			continue
		}
		kept = append(kept, existing)
	}
	if !absorbedNew {
		kept = append(kept, nc)
	}
	return &Query{cubes: kept}
}

// Or returns q ∨ input, absorbing each incoming cube against the current
// disjunction in turn.
func (q *Query) Or(input any) (*Query, error) {
	incoming, err := toCubes(input)
	if err != nil {
		return nil, err
	}
	result := q
	if result == nil {
		result = &Query{}
	}
	for _, nc := range incoming {
		result = result.orCube(nc)
	}
	return result, nil
}

// And returns q ∧ input, distributing the conjunction over q's
// disjunction: the result holds, for every pair of q's cube and an
// incoming cube, their intersection when it is non-empty.
func (q *Query) And(input any) (*Query, error) {
	incoming, err := toCubes(input)
	if err != nil {
		return nil, err
	}
	if q == nil || len(q.cubes) == 0 || len(incoming) == 0 {
		return nil, nil
	}
	var result []*Cube
	for _, a := range q.cubes {
		for _, b := range incoming {
			merged, err := a.Intersect(b)
			if err != nil {
				return nil, err
			}
			if merged != nil {
				result = append(result, merged)
			}
		}
	}
	if len(result) == 0 {
		return nil, nil
	}
	return &Query{cubes: result}, nil
}

// Contains reports whether every cube of other is contained by at least
// one cube of q (§4.4). A nil/empty other is vacuously contained.
func (q *Query) Contains(other *Query) tribool.TriBool {
	if other == nil || len(other.cubes) == 0 {
		return tribool.True
	}
	if q == nil {
		return tribool.False
	}
	results := make([]tribool.TriBool, 0, len(other.cubes))
	for _, oc := range other.cubes {
		witness := false
		sawUnknown := false
		for _, c := range q.cubes {
			r := c.Contains(oc)
			if r == tribool.True {
				witness = true
				break
			}
			if r == tribool.Unknown {
				sawUnknown = true
			}
		}
		switch {
		case witness:
			results = append(results, tribool.True)
		case sawUnknown:
			results = append(results, tribool.Unknown)
		default:
			results = append(results, tribool.False)
		}
	}
	return tribool.And(results...)
}

// ContainsItem reports whether any cube of q accepts record.
func (q *Query) ContainsItem(record map[string]any) tribool.TriBool {
	if q == nil {
		return tribool.False
	}
	sawUnknown := false
	for _, c := range q.cubes {
		r := c.ContainsItem(record)
		if r == tribool.True {
			return tribool.True
		}
		if r == tribool.Unknown {
			sawUnknown = true
		}
	}
	if sawUnknown {
		return tribool.Unknown
	}
	return tribool.False
}

// Predicate returns a closure equivalent to containsItem, suitable for
// use with external filter/iteration libraries (§4.4).
func (q *Query) Predicate() func(map[string]any) tribool.TriBool {
	return func(record map[string]any) tribool.TriBool {
		return q.ContainsItem(record)
	}
}

// EqualsQuery reports cube-multiset equality: every cube of q matches
// exactly one cube of other under Cube.Equals, with none left over.
// Implemented directly (not via Query.from(constraint).equals, which the
// original source's equalsConstraint name would suggest, since that
// source reference is to an undefined local — see SPEC_FULL.md §4).
func (q *Query) EqualsQuery(other *Query) bool {
	qc, oc := q.Cubes(), other.Cubes()
	if len(qc) != len(oc) {
		return false
	}
	used := make([]bool, len(oc))
	for _, c := range qc {
		matched := false
		for i, o := range oc {
			if used[i] {
				continue
			}
			if c.Equals(o) {
				used[i] = true
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

type factorBucket struct {
	dim   string
	r     Range
	count int
}

// FindFactor scans every cube and returns the (dimension, Range) pair
// shared by the most cubes (count > 1), ties broken by first-seen order.
// ok is false if no constraint repeats across more than one cube.
func (q *Query) FindFactor() (dim string, r Range, ok bool) {
	var buckets []*factorBucket
	for _, c := range q.cubes {
		for _, dimName := range c.Dimensions() {
			cr := c.dims[dimName]
			var found *factorBucket
			for _, b := range buckets {
				if b.dim == dimName && b.r.Equals(cr) == tribool.True {
					found = b
					break
				}
			}
			if found != nil {
				found.count++
			} else {
				buckets = append(buckets, &factorBucket{dim: dimName, r: cr, count: 1})
			}
		}
	}
	var best *factorBucket
	for _, b := range buckets {
		if b.count > 1 && (best == nil || b.count > best.count) {
			best = b
		}
	}
	if best == nil {
		return "", nil, false
	}
	return best.dim, best.r, true
}

// Factor partitions q's cubes by whether they carry the given
// dimension→Range constraint: cubes that do have it stripped and go into
// factored; the rest are left untouched in remainder. Either return value
// may be nil.
func (q *Query) Factor(spec map[string]Range) (factored *Query, remainder *Query) {
	factorCube := &Cube{dims: spec}
	var factoredCubes, remainderCubes []*Cube
	for _, c := range q.cubes {
		rem, err := c.RemoveConstraints(factorCube)
		if err == nil {
			factoredCubes = append(factoredCubes, rem)
		} else {
			remainderCubes = append(remainderCubes, c)
		}
	}
	if len(factoredCubes) > 0 {
		factored = &Query{cubes: factoredCubes}
	}
	if len(remainderCubes) > 0 {
		remainder = &Query{cubes: remainderCubes}
	}
	return factored, remainder
}

// Bind substitutes concrete values for parameters found in env across
// every cube, dropping any cube that becomes unsatisfiable. A nil result
// means every cube vanished.
func (q *Query) Bind(env param.Env) *Query {
	if q == nil {
		return nil
	}
	var out []*Cube
	for _, c := range q.cubes {
		b := c.Bind(env)
		if b != nil {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return &Query{cubes: out}
}

// ToExpression renders q through f. With one cube, it renders that cube's
// own conjunction directly; with multiple, it looks for a common factor
// (FindFactor) and, if found, factors it out before combining the
// factored and remainder parts with an or; with no factor, it simply ors
// together every cube's and-expression.
func (q *Query) ToExpression(f Formatter, ctx ...string) (string, error) {
	c := ""
	if len(ctx) > 0 {
		c = ctx[0]
	}
	return q.renderBody(f, c)
}

func (q *Query) renderBody(f Formatter, ctx string) (string, error) {
	if q == nil || len(q.cubes) == 0 {
		return f.OrExpr(), nil
	}
	if len(q.cubes) == 1 {
		return q.cubes[0].ToExpression(f, ctx)
	}

	dim, r, ok := q.FindFactor()
	if !ok {
		subs := make([]string, 0, len(q.cubes))
		for _, c := range q.cubes {
			s, err := c.ToExpression(f, ctx)
			if err != nil {
				return "", err
			}
			subs = append(subs, s)
		}
		return f.OrExpr(subs...), nil
	}

	factored, remainder := q.Factor(map[string]Range{dim: r})
	factorStr, err := r.toExpression(dim, f, ctx)
	if err != nil {
		return "", err
	}
	factoredStr, err := factored.renderBody(f, ctx)
	if err != nil {
		return "", err
	}
	combined := f.AndExpr(factorStr, factoredStr)
	if remainder == nil {
		return combined, nil
	}
	remainderStr, err := remainder.renderBody(f, ctx)
	if err != nil {
		return "", err
	}
	return f.OrExpr(combined, remainderStr), nil
}
