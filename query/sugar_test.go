package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeFromScalar(t *testing.T) {
	r, err := RangeFrom(5)
	require.NoError(t, err)
	assert.Equal(t, KindEquals, r.Kind())
}

func TestRangeFromSliceShapes(t *testing.T) {
	tcs := map[string]struct {
		in       []any
		wantKind Kind
	}{
		"both nil":      {[]any{nil, nil}, KindUnbounded},
		"upper missing": {[]any{3, nil}, KindGreaterThanOrEqual},
		"lower missing": {[]any{nil, 7}, KindLessThan},
		"both present":  {[]any{3, 7}, KindBetween},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			r, err := RangeFrom(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, r.Kind())
		})
	}
}

func TestRangeFromSliceBadShape(t *testing.T) {
	_, err := RangeFrom([]any{})
	assert.Error(t, err)
	_, err = RangeFrom([]any{1, 2, 3})
	assert.Error(t, err)
}

func TestRangeFromOperatorMap(t *testing.T) {
	tcs := map[string]struct {
		in       map[string]any
		wantKind Kind
	}{
		"lt": {map[string]any{"<": 5}, KindLessThan},
		"le": {map[string]any{"<=": 5}, KindLessThanOrEqual},
		"gt": {map[string]any{">": 5}, KindGreaterThan},
		"ge": {map[string]any{">=": 5}, KindGreaterThanOrEqual},
		"eq": {map[string]any{"=": 5}, KindEquals},
		"has": {map[string]any{"$has": 5}, KindHasElement},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			r, err := RangeFrom(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, r.Kind())
		})
	}
}

func TestRangeFromNestedRecord(t *testing.T) {
	r, err := RangeFrom(map[string]any{"alpha": 1, "beta": 2})
	require.NoError(t, err)
	assert.Equal(t, KindSubquery, r.Kind())
}

func TestRangeFromAnd(t *testing.T) {
	r, err := RangeFrom(map[string]any{"$and": []any{
		map[string]any{">=": 1},
		map[string]any{"<": 10},
	}})
	require.NoError(t, err)
	assert.Equal(t, KindBetween, r.Kind())
}

func TestCubeFromUnsatisfiable(t *testing.T) {
	c, err := CubeFrom(map[string]any{"x": map[string]any{"$and": []any{
		map[string]any{"<": 5},
		map[string]any{">": 10},
	}}})
	require.NoError(t, err)
	assert.Nil(t, c)
}
