package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
)

// valueHolder is implemented by the Range variants whose value slot may
// hold a Parameter (equalsRange, boundRange): the shapes addRange needs to
// inspect to decide whether a bound is parametric.
type valueHolder interface {
	Value() any
}

// intersectionRange is the deferred-conjunction Range: it holds one
// non-parametric bound plus, per referenced parameter name, the tightest
// bound involving that parameter. It is constructed whenever Intersect
// cannot resolve a concrete Range because truth depends on a parameter's
// eventual value.
type intersectionRange struct {
	seal
	cmp     Comparator
	known   Range
	byParam map[string]Range
}

func newIntersection(cmp Comparator) *intersectionRange {
	return &intersectionRange{cmp: cmp, known: UnboundedRange(cmp), byParam: map[string]Range{}}
}

func (ir *intersectionRange) clone() *intersectionRange {
	m := make(map[string]Range, len(ir.byParam))
	for k, v := range ir.byParam {
		m[k] = v
	}
	return &intersectionRange{cmp: ir.cmp, known: ir.known, byParam: m}
}

// addRange folds r into the builder. It is only ever called on a fresh or
// cloned builder, never on a published intersectionRange, so mutating it
// in place does not violate Range immutability.
func (ir *intersectionRange) addRange(r Range) *intersectionRange {
	if r == nil {
		ir.known = nil
		return ir
	}
	if ir.known == nil {
		return ir
	}

	switch r.Kind() {
	case KindUnbounded:
		return ir
	case KindBetween:
		b := r.(*betweenRange)
		return ir.addRange(b.lower).addRange(b.upper)
	case KindIntersection:
		other := r.(*intersectionRange)
		ir = ir.addRange(other.known)
		for _, v := range other.byParam {
			ir = ir.addRange(v)
		}
		return ir
	default:
		if vh, ok := r.(valueHolder); ok {
			if p, isP := isParam(vh.Value()); isP {
				existing, found := ir.byParam[p.Name]
				var merged Range
				var err error
				if found {
					merged, err = existing.Intersect(r)
				} else {
					merged = r
				}
				if err != nil || merged == nil {
					ir.known = nil
					return ir
				}
				ir.byParam[p.Name] = merged
				return ir
			}
		}
		merged, err := ir.known.Intersect(r)
		if err != nil || merged == nil {
			ir.known = nil
			return ir
		}
		ir.known = merged
		return ir
	}
}

// resolve collapses the builder to its simplest equivalent Range: ∅ if
// empty, the lone contributing bound if there is exactly one, otherwise a
// published intersectionRange.
func (ir *intersectionRange) resolve() (Range, error) {
	if ir.known == nil {
		return nil, nil
	}
	if len(ir.byParam) == 0 {
		return ir.known, nil
	}
	if len(ir.byParam) == 1 && ir.known.Kind() == KindUnbounded {
		for _, v := range ir.byParam {
			return v, nil
		}
	}
	return &intersectionRange{cmp: ir.cmp, known: ir.known, byParam: ir.byParam}, nil
}

func (ir *intersectionRange) Kind() Kind             { return KindIntersection }
func (ir *intersectionRange) Comparator() Comparator { return ir.cmp }

func (ir *intersectionRange) String() string {
	parts := []string{}
	if ir.known.Kind() != KindUnbounded {
		parts = append(parts, fmt.Sprintf("%v", ir.known))
	}
	names := make([]string, 0, len(ir.byParam))
	for name := range ir.byParam {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%v", ir.byParam[name]))
	}
	return strings.Join(parts, "&")
}

func (ir *intersectionRange) ContainsItem(value any) tribool.TriBool {
	results := []tribool.TriBool{ir.known.ContainsItem(value)}
	for _, v := range ir.byParam {
		results = append(results, v.ContainsItem(value))
	}
	return tribool.And(results...)
}

func (ir *intersectionRange) Contains(other Range) tribool.TriBool {
	results := []tribool.TriBool{ir.known.Contains(other)}
	for _, v := range ir.byParam {
		results = append(results, v.Contains(other))
	}
	return tribool.And(results...)
}

// containedBy implements Intersection.containedBy(other) from spec.md
// §4.2: true if other contains the known bound or any parametric bound;
// false only if other's containment is false for the known bound and
// every parametric bound; unknown otherwise.
func (ir *intersectionRange) containedBy(other Range) tribool.TriBool {
	sawUnknown := false
	if c := other.Contains(ir.known); c == tribool.True {
		return tribool.True
	} else if c == tribool.Unknown {
		sawUnknown = true
	}
	for _, v := range ir.byParam {
		c := other.Contains(v)
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

func (ir *intersectionRange) Equals(other Range) tribool.TriBool {
	o, ok := other.(*intersectionRange)
	if !ok {
		return tribool.False
	}
	if len(ir.byParam) != len(o.byParam) {
		return tribool.False
	}
	results := []tribool.TriBool{ir.known.Equals(o.known)}
	for name, v := range ir.byParam {
		ov, found := o.byParam[name]
		if !found {
			return tribool.False
		}
		results = append(results, v.Equals(ov))
	}
	return tribool.And(results...)
}

func (ir *intersectionRange) Intersect(other Range) (Range, error) {
	switch other.(type) {
	case *hasElementRange:
		return nil, errMixedCollection
	case *subqueryRange:
		return nil, errMixedRecord
	}
	b := ir.clone().addRange(other)
	return b.resolve()
}

func (ir *intersectionRange) toExpression(dimension string, f Formatter, ctx string) (string, error) {
	subs := []string{}
	if ir.known.Kind() != KindUnbounded {
		s, err := ir.known.toExpression(dimension, f, ctx)
		if err != nil {
			return "", err
		}
		subs = append(subs, s)
	}
	names := make([]string, 0, len(ir.byParam))
	for name := range ir.byParam {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s, err := ir.byParam[name].toExpression(dimension, f, ctx)
		if err != nil {
			return "", err
		}
		subs = append(subs, s)
	}
	return f.AndExpr(subs...), nil
}

func (ir *intersectionRange) Bind(env param.Env) Range {
	b := newIntersection(ir.cmp)
	b = b.addRange(ir.known.Bind(env))
	for _, v := range ir.byParam {
		bound := v.Bind(env)
		if bound == nil {
			return nil
		}
		b = b.addRange(bound)
	}
	r, err := b.resolve()
	if err != nil {
		return nil
	}
	return r
}
