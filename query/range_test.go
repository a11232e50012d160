package query

import (
	"testing"

	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allRanges(t *testing.T) map[string]Range {
	t.Helper()
	between, err := BetweenRange(GreaterThanOrEqualRange(1), LessThanRange(10))
	require.NoError(t, err)
	return map[string]Range{
		"unbounded":  UnboundedRange(),
		"equals":     EqualsRange(5),
		"lessThan":   LessThanRange(5),
		"lessEq":     LessThanOrEqualRange(5),
		"greater":    GreaterThanRange(5),
		"greaterEq":  GreaterThanOrEqualRange(5),
		"between":    between,
		"hasElement": HasElementRange(EqualsRange(5)),
	}
}

func TestRangeReflexivity(t *testing.T) {
	for name, r := range allRanges(t) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tribool.True, r.Contains(r))
			assert.Equal(t, tribool.True, r.Equals(r))
			merged, err := r.Intersect(r)
			require.NoError(t, err)
			require.NotNil(t, merged)
			assert.Equal(t, tribool.True, merged.Equals(r))
		})
	}
}

func TestBetweenBoundaryConditions(t *testing.T) {
	strictUpper, err := BetweenRange(GreaterThanOrEqualRange(5), LessThanRange(5))
	require.NoError(t, err)
	assert.Nil(t, strictUpper)

	bothInclusive, err := BetweenRange(GreaterThanOrEqualRange(5), LessThanOrEqualRange(5))
	require.NoError(t, err)
	require.NotNil(t, bothInclusive)
	assert.Equal(t, KindEquals, bothInclusive.Kind())
}

func TestLessThanGreaterThanSameValueIsEmpty(t *testing.T) {
	lt := LessThanRange(5)
	gt := GreaterThanRange(5)
	empty, err := lt.Intersect(gt)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestLessThanGreaterThanSameParameterIsEmpty(t *testing.T) {
	p := param.MustOf("v")
	lt := LessThanRange(p)
	gt := GreaterThanRange(p)
	empty, err := lt.Intersect(gt)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestIntersectionSingleContributorSimplifies(t *testing.T) {
	p := param.MustOf("p")
	ir := newIntersection(DefaultComparator).addRange(GreaterThanRange(p))
	r, err := ir.resolve()
	require.NoError(t, err)
	assert.Equal(t, KindGreaterThan, r.Kind())
	assert.Equal(t, tribool.True, r.Equals(GreaterThanRange(p)))
}

func TestEqualsAgainstBoundRangeDoesNotRecurse(t *testing.T) {
	eq := EqualsRange(5)
	ge := GreaterThanOrEqualRange(1)

	in, err := eq.Intersect(ge)
	require.NoError(t, err)
	require.NotNil(t, in)
	assert.Equal(t, tribool.True, in.Equals(eq))

	out, err := ge.Intersect(eq)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, tribool.True, out.Equals(eq))

	outside := EqualsRange(0)
	empty, err := ge.Intersect(outside)
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestHasElementContainsItem(t *testing.T) {
	r := HasElementRange(EqualsRange("peanut"))
	assert.Equal(t, tribool.True, r.ContainsItem([]any{"almond", "peanut"}))
	assert.Equal(t, tribool.False, r.ContainsItem([]any{"almond", "cashew"}))
}

func TestSubqueryContainsItem(t *testing.T) {
	nested, err := From(map[string]any{"nuts": "brazil"})
	require.NoError(t, err)
	r := SubqueryRange(nested)
	assert.Equal(t, tribool.True, r.ContainsItem(map[string]any{"nuts": "brazil"}))
	assert.Equal(t, tribool.False, r.ContainsItem(map[string]any{"nuts": "almond"}))
}

func TestMixedCollectionAndRecordErrors(t *testing.T) {
	_, err := HasElementRange(EqualsRange(1)).Intersect(EqualsRange(1))
	assert.ErrorIs(t, err, errMixedCollection)

	nested, err := From(map[string]any{"a": 1})
	require.NoError(t, err)
	_, err = SubqueryRange(nested).Intersect(EqualsRange(1))
	assert.ErrorIs(t, err, errMixedRecord)
}

func TestBindSubstitutesParameter(t *testing.T) {
	r := EqualsRange(param.MustOf("x"))
	bound := r.Bind(param.Env{"x": 42})
	require.NotNil(t, bound)
	assert.Equal(t, tribool.True, bound.Equals(EqualsRange(42)))

	unbound := r.Bind(param.Env{})
	assert.Equal(t, tribool.True, unbound.Equals(r))
}
