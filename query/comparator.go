package query

import (
	"fmt"

	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
)

// Comparator is a total order over concrete (non-parameter) values. The
// engine never assumes a particular value representation; it only ever
// asks the comparator whether a < b.
type Comparator func(a, b any) bool

// DefaultComparator orders the builtin scalar kinds (numbers, strings,
// bools) using Go's natural operators. It is used whenever a Range is
// built without an explicit comparator.
func DefaultComparator(a, b any) bool {
	switch x := a.(type) {
	case int:
		y, ok := toFloat(b)
		return ok && float64(x) < y
	case int32:
		y, ok := toFloat(b)
		return ok && float64(x) < y
	case int64:
		y, ok := toFloat(b)
		return ok && float64(x) < y
	case float32:
		y, ok := toFloat(b)
		return ok && float64(x) < y
	case float64:
		y, ok := toFloat(b)
		return ok && x < y
	case string:
		y, ok := b.(string)
		return ok && x < y
	case bool:
		y, ok := b.(bool)
		return ok && !x && y
	default:
		panic(fmt.Sprintf("abstract-query: default comparator cannot order value of type %T", a))
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// comparatorRegistry lets a named comparator be resolved by name so that
// JSON round-tripping a Range built with a non-default comparator can
// recover the same order function. Registration is process-wide and
// optional: unregistered comparators simply fail to round-trip (§4 of
// SPEC_FULL.md) rather than silently falling back to DefaultComparator.
var comparatorRegistry = map[string]Comparator{
	"default": DefaultComparator,
}

// RegisterComparator makes cmp resolvable by name for JSON round-tripping
// of Ranges built with a non-default order.
func RegisterComparator(name string, cmp Comparator) {
	comparatorRegistry[name] = cmp
}

func lookupComparator(name string) (Comparator, bool) {
	cmp, ok := comparatorRegistry[name]
	return cmp, ok
}

// isParam reports whether v is a bound Parameter and returns it.
func isParam(v any) (*param.Parameter, bool) {
	p, ok := v.(*param.Parameter)
	return p, ok
}

// triEquals implements the tri-valued equals(a, b) relation of §4.1.
func triEquals(cmp Comparator, a, b any) tribool.TriBool {
	pa, aIsParam := isParam(a)
	pb, bIsParam := isParam(b)
	switch {
	case aIsParam && bIsParam:
		if pa.Equals(pb) {
			return tribool.True
		}
		return tribool.Unknown
	case aIsParam || bIsParam:
		return tribool.Unknown
	default:
		return tribool.FromBool(!cmp(a, b) && !cmp(b, a))
	}
}

// triLt implements the tri-valued lt(a, b) relation.
func triLt(cmp Comparator, a, b any) tribool.TriBool {
	pa, aIsParam := isParam(a)
	pb, bIsParam := isParam(b)
	switch {
	case aIsParam && bIsParam:
		if pa.Equals(pb) {
			return tribool.False
		}
		return tribool.Unknown
	case aIsParam || bIsParam:
		return tribool.Unknown
	default:
		return tribool.FromBool(cmp(a, b))
	}
}

// triLe implements the tri-valued le(a, b) relation.
func triLe(cmp Comparator, a, b any) tribool.TriBool {
	pa, aIsParam := isParam(a)
	pb, bIsParam := isParam(b)
	switch {
	case aIsParam && bIsParam:
		if pa.Equals(pb) {
			return tribool.True
		}
		return tribool.Unknown
	case aIsParam || bIsParam:
		return tribool.Unknown
	default:
		return tribool.Not(tribool.FromBool(cmp(b, a)))
	}
}

// triGt implements the tri-valued gt(a, b) relation.
func triGt(cmp Comparator, a, b any) tribool.TriBool {
	return triLt(cmp, b, a)
}

// triGe implements the tri-valued ge(a, b) relation.
func triGe(cmp Comparator, a, b any) tribool.TriBool {
	return triLe(cmp, b, a)
}
