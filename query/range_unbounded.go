package query

import (
	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
)

type unboundedRange struct {
	seal
	cmp Comparator
}

// UnboundedRange returns the Range that accepts every value. A missing
// dimension in a Cube is equivalent to this Range.
func UnboundedRange(cmp ...Comparator) Range {
	return &unboundedRange{cmp: pickComparator(cmp)}
}

func (r *unboundedRange) Kind() Kind              { return KindUnbounded }
func (r *unboundedRange) Comparator() Comparator  { return r.cmp }
func (r *unboundedRange) String() string          { return "*" }

func (r *unboundedRange) Contains(other Range) tribool.TriBool {
	return tribool.True
}

func (r *unboundedRange) ContainsItem(value any) tribool.TriBool {
	return tribool.True
}

func (r *unboundedRange) Equals(other Range) tribool.TriBool {
	return tribool.FromBool(other != nil && other.Kind() == KindUnbounded)
}

func (r *unboundedRange) Intersect(other Range) (Range, error) {
	if other == nil {
		return nil, nil
	}
	return other, nil
}

func (r *unboundedRange) Bind(env param.Env) Range {
	return r
}

func (r *unboundedRange) toExpression(dimension string, f Formatter, ctx string) (string, error) {
	return f.OperExpr(dimension, OpEquals, "*", ctx), nil
}

// pickComparator returns the single comparator supplied or the default.
func pickComparator(cmps []Comparator) Comparator {
	if len(cmps) > 0 && cmps[0] != nil {
		return cmps[0]
	}
	return DefaultComparator
}
