package query

import (
	"fmt"

	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
)

// subqueryRange matches a record-valued dimension that itself satisfies a
// nested Query.
type subqueryRange struct {
	seal
	q *Query
}

// SubqueryRange builds a Range over record-valued dimensions.
func SubqueryRange(q *Query) Range {
	return &subqueryRange{q: q}
}

func (r *subqueryRange) Kind() Kind             { return KindSubquery }
func (r *subqueryRange) Comparator() Comparator { return DefaultComparator }
func (r *subqueryRange) Query() *Query          { return r.q }
func (r *subqueryRange) String() string         { return fmt.Sprintf("(%v)", r.q) }

func (r *subqueryRange) ContainsItem(value any) tribool.TriBool {
	rec, ok := value.(map[string]any)
	if !ok {
		return tribool.False
	}
	return r.q.ContainsItem(rec)
}

func (r *subqueryRange) Contains(other Range) tribool.TriBool {
	o, ok := other.(*subqueryRange)
	if !ok {
		return tribool.False
	}
	return r.q.Contains(o.q)
}

func (r *subqueryRange) Equals(other Range) tribool.TriBool {
	o, ok := other.(*subqueryRange)
	if !ok {
		return tribool.False
	}
	return tribool.FromBool(r.q.EqualsQuery(o.q))
}

func (r *subqueryRange) Intersect(other Range) (Range, error) {
	switch o := other.(type) {
	case *unboundedRange:
		return r, nil
	case *subqueryRange:
		q, err := r.q.And(o.q)
		if err != nil {
			return nil, err
		}
		if q == nil {
			return nil, nil
		}
		return SubqueryRange(q), nil
	case *hasElementRange:
		return nil, errMixedRecord
	default:
		return nil, errMixedRecord
	}
}

func (r *subqueryRange) Bind(env param.Env) Range {
	bound := r.q.Bind(env)
	if bound == nil {
		return nil
	}
	return SubqueryRange(bound)
}

// toExpression always wraps the nested query's rendering in parentheses:
// a Subquery is a grouping clause regardless of whether its own body ends
// up disjunctive, matching the worked example in spec.md §8.2.
func (r *subqueryRange) toExpression(dimension string, f Formatter, ctx string) (string, error) {
	body, err := r.q.renderBody(f, qualify(ctx, dimension))
	if err != nil {
		return "", err
	}
	return "(" + body + ")", nil
}
