package query

import (
	"fmt"

	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
)

type equalsRange struct {
	seal
	cmp   Comparator
	value any
}

// EqualsRange builds a Range that accepts exactly one value (which may
// itself be a Parameter).
func EqualsRange(value any, cmp ...Comparator) Range {
	return &equalsRange{cmp: pickComparator(cmp), value: value}
}

func (r *equalsRange) Kind() Kind             { return KindEquals }
func (r *equalsRange) Comparator() Comparator { return r.cmp }
func (r *equalsRange) Value() any             { return r.value }
func (r *equalsRange) String() string         { return fmt.Sprintf("=%v", r.value) }

func (r *equalsRange) Contains(other Range) tribool.TriBool {
	switch o := other.(type) {
	case *unboundedRange:
		return tribool.False
	case *equalsRange:
		return triEquals(r.cmp, r.value, o.value)
	case *intersectionRange:
		return o.containedBy(r)
	default:
		return tribool.False
	}
}

func (r *equalsRange) ContainsItem(value any) tribool.TriBool {
	return triEquals(r.cmp, r.value, value)
}

func (r *equalsRange) Equals(other Range) tribool.TriBool {
	o, ok := other.(*equalsRange)
	if !ok {
		return tribool.False
	}
	return triEquals(r.cmp, r.value, o.value)
}

func (r *equalsRange) Intersect(other Range) (Range, error) {
	switch o := other.(type) {
	case *unboundedRange:
		return r, nil
	case *equalsRange:
		switch triEquals(r.cmp, r.value, o.value) {
		case tribool.True:
			return r, nil
		case tribool.False:
			return nil, nil
		default:
			return newIntersection(r.cmp).addRange(r).addRange(o).resolve()
		}
	case *intersectionRange:
		return o.Intersect(r)
	case *boundRange:
		return o.Intersect(r)
	case *betweenRange:
		return o.Intersect(r)
	case *hasElementRange:
		return nil, errMixedCollection
	case *subqueryRange:
		return nil, errMixedRecord
	default:
		return nil, nil
	}
}

func (r *equalsRange) Bind(env param.Env) Range {
	if p, ok := isParam(r.value); ok {
		if v, bound := env.Lookup(p); bound {
			return &equalsRange{cmp: r.cmp, value: v}
		}
	}
	return r
}

func (r *equalsRange) toExpression(dimension string, f Formatter, ctx string) (string, error) {
	return f.OperExpr(dimension, OpEquals, r.value, ctx), nil
}
