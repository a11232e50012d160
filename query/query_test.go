package query

import (
	"testing"

	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustQuery(t *testing.T, constraint any) *Query {
	t.Helper()
	q, err := From(constraint)
	require.NoError(t, err)
	require.NotNil(t, q)
	return q
}

func TestBasicOrAndFactoringRendering(t *testing.T) {
	q := mustQuery(t, map[string]any{"x": []any{nil, 2}, "y": 4})
	q2, err := q.And(map[string]any{"z": 5})
	require.NoError(t, err)
	q3, err := q2.Or(map[string]any{"x": []any{6, 8}, "y": 3, "z": 99})
	require.NoError(t, err)

	got, err := q3.ToExpression(DefaultFormatter{})
	require.NoError(t, err)
	assert.Equal(t, "(x<2 and y=4 and z=5 or x>=6 and x<8 and y=3 and z=99)", got)
}

func TestNestedSubqueryRendering(t *testing.T) {
	q := mustQuery(t, map[string]any{
		"x": []any{nil, 2},
		"y": map[string]any{
			"alpha": []any{2, 6},
			"beta":  map[string]any{"nuts": "brazil"},
		},
	})
	got, err := q.ToExpression(DefaultFormatter{})
	require.NoError(t, err)
	assert.Equal(t, `x<2 and (y.alpha>=2 and y.alpha<6 and (y.beta.nuts="brazil"))`, got)
}

func TestHasElementRetainsDistinctParameters(t *testing.T) {
	p1 := param.MustOf("param1")
	p2 := param.MustOf("param2")

	q := mustQuery(t, map[string]any{
		"x": []any{nil, 2},
		"y": map[string]any{
			"alpha": []any{2, 6},
			"nuts":  map[string]any{"$has": p1},
		},
	})
	q2, err := q.And(map[string]any{
		"y": map[string]any{"nuts": map[string]any{"$has": p2}},
	})
	require.NoError(t, err)
	require.NotNil(t, q2)
	assert.Len(t, q2.Cubes(), 1)

	got, err := q2.ToExpression(DefaultFormatter{})
	require.NoError(t, err)
	assert.Contains(t, got, "$param1")
	assert.Contains(t, got, "$param2")
}

func TestFactoring(t *testing.T) {
	q := mustQuery(t, map[string]any{"x": 2, "y": []any{3, 4}, "z": 8})
	q, _ = q.Or(map[string]any{"x": 2, "y": []any{nil, 4}, "z": 7})
	q, _ = q.Or(map[string]any{"x": 3, "y": []any{3, nil}, "z": 7})

	xEq := EqualsRange(2)
	factored, remainder := q.Factor(map[string]Range{"x": xEq})

	wantFactored := mustQuery(t, map[string]any{"y": []any{3, 4}, "z": 8})
	wantFactored, _ = wantFactored.Or(map[string]any{"y": []any{nil, 4}, "z": 7})
	wantRemainder := mustQuery(t, map[string]any{"x": 3, "y": []any{3, nil}, "z": 7})

	require.NotNil(t, factored)
	require.NotNil(t, remainder)
	assert.True(t, factored.EqualsQuery(wantFactored))
	assert.True(t, remainder.EqualsQuery(wantRemainder))
}

func TestParametricContainmentIsUnknown(t *testing.T) {
	p1 := param.MustOf("p1")
	p2 := param.MustOf("p2")
	p3 := param.MustOf("p3")

	q2 := mustQuery(t, map[string]any{
		"x": []any{p1, 2},
		"y": map[string]any{
			"alpha": []any{2, p3},
			"beta":  map[string]any{"nuts": p2},
		},
	})
	q3 := mustQuery(t, map[string]any{
		"x": []any{p1, 2},
		"y": map[string]any{
			"alpha": []any{2, 8},
			"beta":  map[string]any{"nuts": p2},
		},
	})

	assert.Equal(t, tribool.Unknown, q3.Contains(q2))
	assert.Equal(t, tribool.Unknown, q2.Contains(q3))
}

func TestBindSimplifiesExpression(t *testing.T) {
	q := mustQuery(t, map[string]any{"age": []any{param.MustOf("min_age"), nil}})
	bound := q.Bind(param.Env{"min_age": 27})
	require.NotNil(t, bound)

	got, err := bound.ToExpression(DefaultFormatter{})
	require.NoError(t, err)
	assert.Equal(t, "age>=27", got)
}

func TestQueryEqualsIgnoresCubeOrder(t *testing.T) {
	a := mustQuery(t, map[string]any{"x": 1})
	a, _ = a.Or(map[string]any{"x": 2})

	b := mustQuery(t, map[string]any{"x": 2})
	b, _ = b.Or(map[string]any{"x": 1})

	assert.True(t, a.EqualsQuery(b))
}

func TestDimensionOrderInvariance(t *testing.T) {
	a, err := From(map[string]any{"x": 1, "y": 2})
	require.NoError(t, err)
	b, err := From(map[string]any{"y": 2, "x": 1})
	require.NoError(t, err)
	assert.True(t, a.EqualsQuery(b))
}

func TestAbsorption(t *testing.T) {
	a := mustQuery(t, map[string]any{"x": []any{1, 10}})
	b := mustQuery(t, map[string]any{"x": 5})

	ab, err := a.Or(b)
	require.NoError(t, err)
	assert.True(t, ab.EqualsQuery(a))
	assert.Equal(t, tribool.True, ab.Contains(a))
}

func TestPredicate(t *testing.T) {
	q := mustQuery(t, map[string]any{"x": []any{nil, 10}})
	pred := q.Predicate()
	assert.Equal(t, tribool.True, pred(map[string]any{"x": 5}))
	assert.Equal(t, tribool.False, pred(map[string]any{"x": 20}))
}

func TestJSONRoundTrip(t *testing.T) {
	q := mustQuery(t, map[string]any{"x": []any{nil, 2}, "y": 4})
	q2, err := q.Or(map[string]any{"x": []any{6, 8}, "y": 3})
	require.NoError(t, err)

	data, err := q2.MarshalJSON()
	require.NoError(t, err)

	roundTripped := &Query{}
	require.NoError(t, roundTripped.UnmarshalJSON(data))
	assert.True(t, q2.EqualsQuery(roundTripped))
}

func TestJSONRoundTripWithParameter(t *testing.T) {
	q := mustQuery(t, map[string]any{"age": param.MustOf("min_age")})

	data, err := q.MarshalJSON()
	require.NoError(t, err)

	roundTripped := &Query{}
	require.NoError(t, roundTripped.UnmarshalJSON(data))
	assert.True(t, q.EqualsQuery(roundTripped))
}
