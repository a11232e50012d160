// Package query implements the abstract query algebra: Range (a constraint
// on one dimension), Cube (a conjunction of Ranges, one per dimension) and
// Query (a disjunction of Cubes in canonical DNF), together with parameter
// binding, algebraic simplification and a pluggable rendering contract.
//
// Range and Query live in the same package deliberately: Range's Subquery
// arm holds a *Query, and Query's Cubes hold Ranges, so splitting them
// into separate packages would create an import cycle. Keeping the whole
// algebra in one package also mirrors how the teacher keeps its whole
// expression tree (nodes, leaves, operators) in a single expr package.
package query

import (
	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
)

// Kind discriminates the Range variants. It is also the dispatch key used
// by the JSON codec and by the default formatter's operator tokens.
type Kind int

// The Range variants named in SPEC_FULL.md §1.
const (
	KindUnbounded Kind = iota
	KindEquals
	KindLessThan
	KindLessThanOrEqual
	KindGreaterThan
	KindGreaterThanOrEqual
	KindBetween
	KindIntersection
	KindHasElement
	KindSubquery
)

func (k Kind) String() string {
	switch k {
	case KindUnbounded:
		return "unbounded"
	case KindEquals:
		return "equals"
	case KindLessThan:
		return "lessThan"
	case KindLessThanOrEqual:
		return "lessThanOrEqual"
	case KindGreaterThan:
		return "greaterThan"
	case KindGreaterThanOrEqual:
		return "greaterThanOrEqual"
	case KindBetween:
		return "between"
	case KindIntersection:
		return "intersection"
	case KindHasElement:
		return "hasElement"
	case KindSubquery:
		return "subquery"
	default:
		return "undefined"
	}
}

// Range is a constraint on a single dimension's value. It is a sealed sum
// type: the only implementations are the ones in this package, and every
// algebraic operation over a Range dispatches by a type switch rather
// than by virtual method override. The compiler does not check those
// switches for exhaustiveness: a new variant falls into each switch's
// default clause until a case is added for it.
type Range interface {
	// Kind reports which variant this Range is.
	Kind() Kind
	// Comparator returns the total order this Range was built with.
	Comparator() Comparator
	// Contains reports whether every value accepted by other is also
	// accepted by this Range.
	Contains(other Range) tribool.TriBool
	// ContainsItem reports whether value itself satisfies this Range.
	ContainsItem(value any) tribool.TriBool
	// Equals reports structural/semantic equivalence with other.
	Equals(other Range) tribool.TriBool
	// Intersect computes the tightest Range accepted by both this and
	// other. A nil Range with a nil error means the intersection is
	// provably empty (∅); a non-nil error means the two Ranges can never
	// be combined (e.g. HasElement against a scalar Range).
	Intersect(other Range) (Range, error)
	// Bind substitutes concrete values from env for any Parameter this
	// Range references. A nil result means the binding makes the Range
	// unsatisfiable (∅).
	Bind(env param.Env) Range

	// toExpression renders this Range's constraint on dimension through f,
	// given the dotted-path context of any enclosing Subquery.
	toExpression(dimension string, f Formatter, ctx string) (string, error)

	// sealed prevents Range from being implemented outside this package.
	sealed()
}

// seal is embedded by every Range implementation to satisfy the sealed
// interface method without exporting it.
type seal struct{}

func (seal) sealed() {}

// errMixedCollection/errMixedRecord are returned by Intersect (and raised
// by Cube construction) when HasElement or Subquery Ranges are combined
// with an incompatible kind on the same dimension — the two "mixing"
// structural errors named in spec.md §7.1.
