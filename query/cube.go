package query

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
)

// Cube is a conjunction of per-dimension Ranges. Dimension ordering is not
// semantically significant: two cubes are equal iff their dimension/Range
// mappings are equal (§3). A missing dimension is equivalent to
// UnboundedRange on that dimension.
type Cube struct {
	dims map[string]Range
}

// NewCube wraps a dimension→Range mapping as a Cube. The caller must not
// mutate dims afterwards; Cube treats it as owned.
func NewCube(dims map[string]Range) *Cube {
	if dims == nil {
		dims = map[string]Range{}
	}
	return &Cube{dims: dims}
}

// Dimensions returns the sorted dimension names of c, for callers that
// need deterministic iteration (rendering, factor search).
func (c *Cube) Dimensions() []string {
	names := make([]string, 0, len(c.dims))
	for d := range c.dims {
		names = append(names, d)
	}
	sort.Strings(names)
	return names
}

// RangeOn returns the Range constraining dim, or UnboundedRange if c does
// not mention dim.
func (c *Cube) RangeOn(dim string) Range {
	if r, ok := c.dims[dim]; ok {
		return r
	}
	return UnboundedRange()
}

// Contains reports whether every record accepted by other is also
// accepted by c. A dimension c constrains but other leaves unbounded
// means c cannot contain other on that dimension.
func (c *Cube) Contains(other *Cube) tribool.TriBool {
	results := make([]tribool.TriBool, 0, len(c.dims))
	for dim, r := range c.dims {
		results = append(results, r.Contains(other.RangeOn(dim)))
	}
	return tribool.And(results...)
}

// ContainsItem reports whether record satisfies every dimension c
// constrains. A dimension present in c but missing from record fails.
func (c *Cube) ContainsItem(record map[string]any) tribool.TriBool {
	results := make([]tribool.TriBool, 0, len(c.dims))
	for dim, r := range c.dims {
		val, present := record[dim]
		if !present {
			return tribool.False
		}
		results = append(results, r.ContainsItem(val))
	}
	return tribool.And(results...)
}

// Intersect computes the conjunction of c and other: the union of their
// dimensions, with shared dimensions' Ranges intersected. A nil Cube with
// a nil error means the intersection is provably empty.
func (c *Cube) Intersect(other *Cube) (*Cube, error) {
	merged := make(map[string]Range, len(c.dims)+len(other.dims))
	for dim, r := range c.dims {
		merged[dim] = r
	}
	for dim, r := range other.dims {
		if existing, ok := merged[dim]; ok {
			ir, err := existing.Intersect(r)
			if err != nil {
				return nil, err
			}
			if ir == nil {
				return nil, nil
			}
			merged[dim] = ir
		} else {
			merged[dim] = r
		}
	}
	return &Cube{dims: merged}, nil
}

// Equals reports whether c and other constrain exactly the same
// dimensions to pairwise-equal Ranges.
func (c *Cube) Equals(other *Cube) bool {
	if len(c.dims) != len(other.dims) {
		return false
	}
	for dim, r := range c.dims {
		or, ok := other.dims[dim]
		if !ok {
			return false
		}
		if r.Equals(or) != tribool.True {
			return false
		}
	}
	return true
}

// RemoveConstraints returns a new Cube with each dimension in factor
// removed, provided c's Range on that dimension equals (tribool.True)
// factor's Range. It fails (structural error) the moment a dimension
// doesn't match, which is the mechanism Query.Factor uses to partition a
// disjunction into a factored part and a remainder.
func (c *Cube) RemoveConstraints(factor *Cube) (*Cube, error) {
	remaining := make(map[string]Range, len(c.dims))
	for dim, r := range c.dims {
		remaining[dim] = r
	}
	for dim, fr := range factor.dims {
		r, ok := remaining[dim]
		if !ok {
			return nil, errors.Errorf("abstract-query: cube has no constraint on dimension %q to remove", dim)
		}
		if r.Equals(fr) != tribool.True {
			return nil, errors.Errorf("abstract-query: cube's constraint on dimension %q does not equal the factor", dim)
		}
		delete(remaining, dim)
	}
	return &Cube{dims: remaining}, nil
}

// Bind substitutes concrete values for parameters in every dimension. A
// nil result means binding made the cube unsatisfiable.
func (c *Cube) Bind(env param.Env) *Cube {
	out := make(map[string]Range, len(c.dims))
	for dim, r := range c.dims {
		b := r.Bind(env)
		if b == nil {
			return nil
		}
		out[dim] = b
	}
	return &Cube{dims: out}
}

// ToExpression renders c as a conjunction of its dimensions' expressions,
// in a deterministic (sorted) dimension order.
func (c *Cube) ToExpression(f Formatter, ctx string) (string, error) {
	dims := c.Dimensions()
	subs := make([]string, 0, len(dims))
	for _, dim := range dims {
		s, err := c.dims[dim].toExpression(dim, f, ctx)
		if err != nil {
			return "", err
		}
		subs = append(subs, s)
	}
	return f.AndExpr(subs...), nil
}
