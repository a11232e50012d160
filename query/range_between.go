package query

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
)

// betweenRange is a conjunction of one lower and one upper half-bound.
type betweenRange struct {
	seal
	cmp   Comparator
	lower *boundRange
	upper *boundRange
}

// BetweenRange builds a bounded range from a lower half-bound (> or >=)
// and an upper half-bound (< or <=). Either side may be nil to leave that
// side unbounded, in which case the other bound alone is returned.
// Between(x, x) with a strict side is empty (§8 boundary conditions);
// Between(x, x) with both sides inclusive collapses to Equals(x).
func BetweenRange(lower, upper Range) (Range, error) {
	var lo, up *boundRange
	if lower != nil {
		b, ok := lower.(*boundRange)
		if !ok || !b.isLower() {
			return nil, errors.New("abstract-query: Between's lower bound must be a GreaterThan or GreaterThanOrEqual Range")
		}
		lo = b
	}
	if upper != nil {
		b, ok := upper.(*boundRange)
		if !ok || b.isLower() {
			return nil, errors.New("abstract-query: Between's upper bound must be a LessThan or LessThanOrEqual Range")
		}
		up = b
	}
	switch {
	case lo == nil && up == nil:
		return UnboundedRange(), nil
	case lo == nil:
		return up, nil
	case up == nil:
		return lo, nil
	}
	return newBetween(lo, up)
}

// newBetween builds a Between from two already-validated half-bounds,
// collapsing degenerate cases per the boundary conditions in spec.md §8.
func newBetween(lo, up *boundRange) (Range, error) {
	eq := triEquals(lo.cmp, lo.value, up.value)
	if eq == tribool.True {
		if lo.inclusive() && up.inclusive() {
			return EqualsRange(lo.value, lo.cmp), nil
		}
		if !lo.inclusive() || !up.inclusive() {
			return nil, nil
		}
	}
	return &betweenRange{cmp: lo.cmp, lower: lo, upper: up}, nil
}

func (r *betweenRange) Kind() Kind             { return KindBetween }
func (r *betweenRange) Comparator() Comparator { return r.cmp }
func (r *betweenRange) Lower() Range           { return r.lower }
func (r *betweenRange) Upper() Range           { return r.upper }

func (r *betweenRange) String() string {
	return fmt.Sprintf("%s,%s", r.lower, r.upper)
}

func (r *betweenRange) ContainsItem(value any) tribool.TriBool {
	return tribool.And(r.lower.accepts(value), r.upper.accepts(value))
}

func (r *betweenRange) Contains(other Range) tribool.TriBool {
	return tribool.And(r.lower.Contains(other), r.upper.Contains(other))
}

func (r *betweenRange) Equals(other Range) tribool.TriBool {
	o, ok := other.(*betweenRange)
	if !ok {
		return tribool.False
	}
	return tribool.And(r.lower.Equals(o.lower), r.upper.Equals(o.upper))
}

func (r *betweenRange) Intersect(other Range) (Range, error) {
	switch o := other.(type) {
	case *unboundedRange:
		return r, nil
	case *hasElementRange:
		return nil, errMixedCollection
	case *subqueryRange:
		return nil, errMixedRecord
	case *boundRange:
		if o.isLower() {
			lo, err := r.lower.Intersect(o)
			if err != nil || lo == nil {
				return nil, err
			}
			return lo.Intersect(r.upper)
		}
		up, err := r.upper.Intersect(o)
		if err != nil || up == nil {
			return nil, err
		}
		return r.lower.Intersect(up)
	default:
		withLower, err := r.lower.Intersect(other)
		if err != nil {
			return nil, err
		}
		if withLower == nil {
			return nil, nil
		}
		return withLower.Intersect(r.upper)
	}
}

func (r *betweenRange) Bind(env param.Env) Range {
	lo := r.lower.Bind(env)
	up := r.upper.Bind(env)
	if lo == nil || up == nil {
		return nil
	}
	loB, loOk := lo.(*boundRange)
	upB, upOk := up.(*boundRange)
	if !loOk || !upOk {
		return lo
	}
	result, err := newBetween(loB, upB)
	if err != nil || result == nil {
		return nil
	}
	return result
}

func (r *betweenRange) toExpression(dimension string, f Formatter, ctx string) (string, error) {
	lo, err := r.lower.toExpression(dimension, f, ctx)
	if err != nil {
		return "", err
	}
	up, err := r.upper.toExpression(dimension, f, ctx)
	if err != nil {
		return "", err
	}
	return f.AndExpr(lo, up), nil
}
