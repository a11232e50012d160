package query

import (
	"github.com/pkg/errors"
	"github.com/softwareplumbers/abstract-query-go/param"
)

// operator keys recognized by the single-key constraint-map sugar
// described in spec.md §6.
const (
	sugarLT  = "<"
	sugarLE  = "<="
	sugarGT  = ">"
	sugarGE  = ">="
	sugarEQ  = "="
	sugarAnd = "$and"
	sugarHas = "$has"
)

var sugarOperators = map[string]bool{
	sugarLT: true, sugarLE: true, sugarGT: true, sugarGE: true,
	sugarEQ: true, sugarAnd: true, sugarHas: true,
}

// RangeFrom builds a Range from one of the sugar shapes in spec.md §6:
// a bare scalar, a Parameter, a two-element slice (with nil standing in
// for a missing bound), a single-key operator map, a nested record map
// (dispatched to Subquery), an existing Range, or an existing *Query
// (wrapped as Subquery).
func RangeFrom(input any) (Range, error) {
	switch v := input.(type) {
	case Range:
		return v, nil
	case *param.Parameter:
		return EqualsRange(v), nil
	case *Query:
		return SubqueryRange(v), nil
	case []any:
		return rangeFromSlice(v)
	case map[string]any:
		return rangeFromMap(v)
	default:
		return EqualsRange(v), nil
	}
}

func rangeFromSlice(v []any) (Range, error) {
	switch len(v) {
	case 0:
		return nil, wrongShapeErr(0)
	case 1:
		// A single-element array is treated as an open lower bound
		// ([a,] with the trailing comma omitted); spec.md §9's Open
		// Questions flag the source as ambiguous here.
		return GreaterThanOrEqualRange(v[0]), nil
	case 2:
		lower, upper := v[0], v[1]
		switch {
		case lower == nil && upper == nil:
			return UnboundedRange(), nil
		case upper == nil:
			return GreaterThanOrEqualRange(lower), nil
		case lower == nil:
			return LessThanRange(upper), nil
		default:
			return BetweenRange(GreaterThanOrEqualRange(lower), LessThanRange(upper))
		}
	default:
		return nil, wrongShapeErr(len(v))
	}
}

func rangeFromMap(m map[string]any) (Range, error) {
	if len(m) == 1 {
		for k, v := range m {
			if !sugarOperators[k] {
				break
			}
			switch k {
			case sugarLT:
				return LessThanRange(v), nil
			case sugarLE:
				return LessThanOrEqualRange(v), nil
			case sugarGT:
				return GreaterThanRange(v), nil
			case sugarGE:
				return GreaterThanOrEqualRange(v), nil
			case sugarEQ:
				return EqualsRange(v), nil
			case sugarHas:
				inner, err := RangeFrom(v)
				if err != nil {
					return nil, err
				}
				return HasElementRange(inner), nil
			case sugarAnd:
				list, ok := v.([]any)
				if !ok {
					return nil, errors.New("abstract-query: $and requires a list of ranges")
				}
				return foldAnd(list)
			}
		}
	}
	// Non-operator keys (or more than one key): a nested record.
	q, err := QueryFrom(m)
	if err != nil {
		return nil, err
	}
	return SubqueryRange(q), nil
}

func foldAnd(items []any) (Range, error) {
	acc := UnboundedRange()
	for _, item := range items {
		r, err := RangeFrom(item)
		if err != nil {
			return nil, err
		}
		merged, err := acc.Intersect(r)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			return nil, nil
		}
		acc = merged
	}
	return acc, nil
}

// CubeFrom builds a Cube from a record, parsing every field's value
// through RangeFrom. A nil, nil result means the record is unsatisfiable
// (one of its fields reduced to ∅).
func CubeFrom(record map[string]any) (*Cube, error) {
	dims := make(map[string]Range, len(record))
	for k, v := range record {
		r, err := RangeFrom(v)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, nil
		}
		dims[k] = r
	}
	return &Cube{dims: dims}, nil
}

// QueryFrom wraps CubeFrom's result as a single-cube Query.
func QueryFrom(record map[string]any) (*Query, error) {
	c, err := CubeFrom(record)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	return &Query{cubes: []*Cube{c}}, nil
}
