package query

import (
	"fmt"

	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
)

// boundRange is a single open or closed half-bound: <, <=, >, >=.
type boundRange struct {
	seal
	cmp   Comparator
	kind  Kind
	value any
}

// LessThanRange builds a strict upper bound.
func LessThanRange(value any, cmp ...Comparator) Range {
	return &boundRange{cmp: pickComparator(cmp), kind: KindLessThan, value: value}
}

// LessThanOrEqualRange builds an inclusive upper bound.
func LessThanOrEqualRange(value any, cmp ...Comparator) Range {
	return &boundRange{cmp: pickComparator(cmp), kind: KindLessThanOrEqual, value: value}
}

// GreaterThanRange builds a strict lower bound.
func GreaterThanRange(value any, cmp ...Comparator) Range {
	return &boundRange{cmp: pickComparator(cmp), kind: KindGreaterThan, value: value}
}

// GreaterThanOrEqualRange builds an inclusive lower bound.
func GreaterThanOrEqualRange(value any, cmp ...Comparator) Range {
	return &boundRange{cmp: pickComparator(cmp), kind: KindGreaterThanOrEqual, value: value}
}

func (r *boundRange) Kind() Kind             { return r.kind }
func (r *boundRange) Comparator() Comparator { return r.cmp }
func (r *boundRange) Value() any             { return r.value }

func (r *boundRange) isLower() bool {
	return r.kind == KindGreaterThan || r.kind == KindGreaterThanOrEqual
}

func (r *boundRange) inclusive() bool {
	return r.kind == KindLessThanOrEqual || r.kind == KindGreaterThanOrEqual
}

var boundSymbol = map[Kind]string{
	KindLessThan:           "<",
	KindLessThanOrEqual:    "<=",
	KindGreaterThan:        ">",
	KindGreaterThanOrEqual: ">=",
}

func (r *boundRange) String() string {
	return fmt.Sprintf("%s%v", boundSymbol[r.kind], r.value)
}

// accepts reports the tri-valued "accepts a value as or beyond r's edge"
// relation used throughout Contains: for a lower bound this is ge/gt(x,
// r.value); for an upper bound it is le/lt(x, r.value).
func (r *boundRange) accepts(x any) tribool.TriBool {
	switch r.kind {
	case KindLessThan:
		return triLt(r.cmp, x, r.value)
	case KindLessThanOrEqual:
		return triLe(r.cmp, x, r.value)
	case KindGreaterThan:
		return triGt(r.cmp, x, r.value)
	default: // KindGreaterThanOrEqual
		return triGe(r.cmp, x, r.value)
	}
}

func (r *boundRange) ContainsItem(value any) tribool.TriBool {
	return r.accepts(value)
}

// sameDirectionTighter returns whether this bound's value is at least as tight as
// other's, when both are lower bounds or both are upper bounds.
func (r *boundRange) sameDirectionTighter(other *boundRange) tribool.TriBool {
	if r.isLower() {
		// larger lower bound is tighter
		cmpResult := triGt(r.cmp, r.value, other.value)
		if cmpResult == tribool.Unknown {
			return tribool.Unknown
		}
		if cmpResult == tribool.True {
			return tribool.True
		}
		// equal values: exclusive (>) is tighter than inclusive (>=)
		if triEquals(r.cmp, r.value, other.value) == tribool.True {
			return tribool.FromBool(r.kind == KindGreaterThan && other.kind == KindGreaterThanOrEqual || r.kind == other.kind)
		}
		return tribool.False
	}
	cmpResult := triLt(r.cmp, r.value, other.value)
	if cmpResult == tribool.Unknown {
		return tribool.Unknown
	}
	if cmpResult == tribool.True {
		return tribool.True
	}
	if triEquals(r.cmp, r.value, other.value) == tribool.True {
		return tribool.FromBool(r.kind == KindLessThan && other.kind == KindLessThanOrEqual || r.kind == other.kind)
	}
	return tribool.False
}

func (r *boundRange) Contains(other Range) tribool.TriBool {
	switch o := other.(type) {
	case *unboundedRange:
		return tribool.False
	case *equalsRange:
		return r.accepts(o.value)
	case *boundRange:
		if r.isLower() != o.isLower() {
			// a half-bound never contains an unbounded-on-the-other-side range
			return tribool.False
		}
		return o.sameDirectionTighter(r)
	case *betweenRange:
		if r.isLower() {
			return r.Contains(o.lower)
		}
		return r.Contains(o.upper)
	case *intersectionRange:
		return o.containedBy(r)
	default:
		return tribool.False
	}
}

func (r *boundRange) Equals(other Range) tribool.TriBool {
	o, ok := other.(*boundRange)
	if !ok || o.kind != r.kind {
		return tribool.False
	}
	return triEquals(r.cmp, r.value, o.value)
}

// intersectBounds computes the intersection of two half-bounds, which may
// be same-directional (produces the tighter of the two) or opposite
// (produces a Between, an Equals, or ∅).
func intersectBounds(a, b *boundRange) (Range, error) {
	if a.isLower() == b.isLower() {
		tighter := a.sameDirectionTighter(b)
		switch tighter {
		case tribool.True:
			return a, nil
		case tribool.False:
			return b, nil
		default:
			return newIntersection(a.cmp).addRange(a).addRange(b).resolve()
		}
	}

	lo, up := a, b
	if up.isLower() {
		lo, up = b, a
	}

	samePar, sameName := sameParameter(lo.value, up.value)

	// lo.value compared against up.value
	eq := triEquals(lo.cmp, lo.value, up.value)
	lt := triLt(lo.cmp, lo.value, up.value)

	switch {
	case eq == tribool.True:
		if lo.inclusive() && up.inclusive() {
			return EqualsRange(lo.value, lo.cmp), nil
		}
		return nil, nil
	case lt == tribool.True:
		return newBetween(lo, up)
	case lt == tribool.False && eq == tribool.False:
		return nil, nil
	default:
		// unknown ordering
		if samePar && sameName {
			// same parameter on both edges: GT(p)/GE(p) opposite LT(p)/LE(p)
			// is unsatisfiable unless both inclusive (collapses to Equals(p)).
			if lo.inclusive() && up.inclusive() {
				return EqualsRange(lo.value, lo.cmp), nil
			}
			return nil, nil
		}
		// different parameters (or parameter vs concrete): remains symbolic.
		return newBetween(lo, up)
	}
}

func sameParameter(a, b any) (bothParams bool, sameName bool) {
	pa, aok := isParam(a)
	pb, bok := isParam(b)
	if !aok || !bok {
		return false, false
	}
	return true, pa.Equals(pb)
}

func (r *boundRange) Intersect(other Range) (Range, error) {
	switch o := other.(type) {
	case *unboundedRange:
		return r, nil
	case *equalsRange:
		switch r.accepts(o.value) {
		case tribool.True:
			return o, nil
		case tribool.False:
			return nil, nil
		default:
			return newIntersection(r.cmp).addRange(r).addRange(o).resolve()
		}
	case *boundRange:
		return intersectBounds(r, o)
	case *betweenRange:
		return o.Intersect(r)
	case *intersectionRange:
		return o.Intersect(r)
	case *hasElementRange:
		return nil, errMixedCollection
	case *subqueryRange:
		return nil, errMixedRecord
	default:
		return nil, nil
	}
}

func (r *boundRange) Bind(env param.Env) Range {
	if p, ok := isParam(r.value); ok {
		if v, bound := env.Lookup(p); bound {
			return &boundRange{cmp: r.cmp, kind: r.kind, value: v}
		}
	}
	return r
}

var boundOperator = map[Kind]string{
	KindLessThan:           OpLessThan,
	KindLessThanOrEqual:    OpLessThanOrEqual,
	KindGreaterThan:        OpGreaterThan,
	KindGreaterThanOrEqual: OpGreaterThanOrEqual,
}

func (r *boundRange) toExpression(dimension string, f Formatter, ctx string) (string, error) {
	return f.OperExpr(dimension, boundOperator[r.kind], r.value, ctx), nil
}
