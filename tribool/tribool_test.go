package tribool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBool(t *testing.T) {
	assert.Equal(t, True, FromBool(true))
	assert.Equal(t, False, FromBool(false))
}

func TestNot(t *testing.T) {
	assert.Equal(t, False, Not(True))
	assert.Equal(t, True, Not(False))
	assert.Equal(t, Unknown, Not(Unknown))
}

func TestAnd(t *testing.T) {
	tcs := map[string]struct {
		in   []TriBool
		want TriBool
	}{
		"all true":         {[]TriBool{True, True, True}, True},
		"one false wins":   {[]TriBool{True, False, Unknown}, False},
		"unknown without false": {[]TriBool{True, Unknown, True}, Unknown},
		"empty is true":    {[]TriBool{}, True},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, And(tc.in...))
		})
	}
}

func TestOr(t *testing.T) {
	tcs := map[string]struct {
		in   []TriBool
		want TriBool
	}{
		"any true wins":      {[]TriBool{False, True, Unknown}, True},
		"unknown without true": {[]TriBool{False, Unknown, False}, Unknown},
		"all false":          {[]TriBool{False, False}, False},
		"empty is false":     {[]TriBool{}, False},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Or(tc.in...))
		})
	}
}

func TestIs(t *testing.T) {
	assert.True(t, True.IsTrue())
	assert.False(t, True.IsFalse())
	assert.True(t, False.IsFalse())
	assert.True(t, Unknown.IsUnknown())
}

func TestString(t *testing.T) {
	assert.Equal(t, "true", True.String())
	assert.Equal(t, "false", False.String())
	assert.Equal(t, "unknown", Unknown.String())
}
