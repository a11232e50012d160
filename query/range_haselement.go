package query

import (
	"fmt"

	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
)

// hasElementRange matches a collection value containing at least one
// element accepted by inner.
type hasElementRange struct {
	seal
	inner Range
}

// HasElementRange builds a Range over collection-valued dimensions.
func HasElementRange(inner Range) Range {
	return &hasElementRange{inner: inner}
}

func (r *hasElementRange) Kind() Kind             { return KindHasElement }
func (r *hasElementRange) Comparator() Comparator { return r.inner.Comparator() }
func (r *hasElementRange) Inner() Range           { return r.inner }
func (r *hasElementRange) String() string         { return fmt.Sprintf("has(%v)", r.inner) }

func (r *hasElementRange) ContainsItem(value any) tribool.TriBool {
	elems, ok := asSlice(value)
	if !ok {
		return tribool.False
	}
	sawUnknown := false
	for _, e := range elems {
		c := r.inner.ContainsItem(e)
		if c == tribool.True {
			return tribool.True
		}
		if c == tribool.Unknown {
			sawUnknown = true
		}
	}
	if sawUnknown {
		return tribool.Unknown
	}
	return tribool.False
}

func (r *hasElementRange) Contains(other Range) tribool.TriBool {
	o, ok := other.(*hasElementRange)
	if !ok {
		return tribool.False
	}
	return r.inner.Contains(o.inner)
}

func (r *hasElementRange) Equals(other Range) tribool.TriBool {
	o, ok := other.(*hasElementRange)
	if !ok {
		return tribool.False
	}
	return r.inner.Equals(o.inner)
}

func (r *hasElementRange) Intersect(other Range) (Range, error) {
	switch o := other.(type) {
	case *unboundedRange:
		return r, nil
	case *hasElementRange:
		inner, err := r.inner.Intersect(o.inner)
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, nil
		}
		return HasElementRange(inner), nil
	case *subqueryRange:
		return nil, errMixedRecord
	default:
		return nil, errMixedCollection
	}
}

func (r *hasElementRange) Bind(env param.Env) Range {
	bound := r.inner.Bind(env)
	if bound == nil {
		return nil
	}
	return HasElementRange(bound)
}

// toExpression renders a HasElement as an operExpr using the "has" token
// for a scalar inner Range, or "contains" when the inner Range is itself
// a Subquery (a collection of records rather than of scalars).
func (r *hasElementRange) toExpression(dimension string, f Formatter, ctx string) (string, error) {
	op := OpHas
	if r.inner.Kind() == KindSubquery {
		op = OpContains
	}
	innerStr, err := innerValueExpression(r.inner)
	if err != nil {
		return "", err
	}
	return f.OperExpr(dimension, op, innerStr, ctx), nil
}

// innerValueExpression reduces a HasElement's inner Range to the value
// form operExpr expects: the bare value for Equals, or a textual
// rendering for anything richer.
func innerValueExpression(r Range) (any, error) {
	if e, ok := r.(*equalsRange); ok {
		return e.value, nil
	}
	return fmt.Sprintf("%v", r), nil
}

// asSlice converts a collection value of type []any, []string, []int or
// []float64 into []any for element-wise matching. Values of any other
// type are not treated as collections.
func asSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []int:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}
