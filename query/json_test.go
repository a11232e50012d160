package query

import (
	"testing"

	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeJSONRoundTrip(t *testing.T) {
	between, err := BetweenRange(GreaterThanOrEqualRange(1), LessThanRange(10))
	require.NoError(t, err)

	tcs := map[string]Range{
		"unbounded":  UnboundedRange(),
		"equals":     EqualsRange(5),
		"lessThan":   LessThanRange(5),
		"greaterEq":  GreaterThanOrEqualRange(5),
		"between":    between,
		"hasElement": HasElementRange(EqualsRange("peanut")),
	}
	for name, r := range tcs {
		t.Run(name, func(t *testing.T) {
			data, err := MarshalRange(r)
			require.NoError(t, err)
			got, err := UnmarshalRange(data)
			require.NoError(t, err)
			assert.Equal(t, tribool.True, got.Equals(r))
		})
	}
}

func TestRangeJSONParameterRoundTrip(t *testing.T) {
	r := EqualsRange(param.MustOf("min_age"))
	data, err := MarshalRange(r)
	require.NoError(t, err)
	got, err := UnmarshalRange(data)
	require.NoError(t, err)
	assert.Equal(t, tribool.True, got.Equals(r))
}

func TestBetweenJSONWithNonDefaultComparatorRequiresRegistration(t *testing.T) {
	reverse := func(a, b any) bool { return DefaultComparator(b, a) }
	RegisterComparator("json-test-reverse", reverse)

	between, err := BetweenRange(
		GreaterThanOrEqualRange(1, reverse),
		LessThanRange(10, reverse),
	)
	require.NoError(t, err)

	data, err := MarshalRange(between)
	require.NoError(t, err)
	assert.Contains(t, string(data), "json-test-reverse")

	got, err := UnmarshalRange(data)
	require.NoError(t, err)
	assert.Equal(t, KindBetween, got.Kind())
}

func TestBetweenJSONFailsClosedOnUnresolvedComparator(t *testing.T) {
	_, err := UnmarshalRange([]byte(`{"gte": 1, "lte": 10, "order": "not-registered"}`))
	assert.Error(t, err)
}

func TestCubeJSONRoundTrip(t *testing.T) {
	c := NewCube(map[string]Range{"x": EqualsRange(1), "y": GreaterThanRange(2)})
	data, err := c.MarshalJSON()
	require.NoError(t, err)

	got := &Cube{}
	require.NoError(t, got.UnmarshalJSON(data))
	assert.True(t, c.Equals(got))
}
