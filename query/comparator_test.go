package query

import (
	"testing"

	"github.com/softwareplumbers/abstract-query-go/param"
	"github.com/softwareplumbers/abstract-query-go/tribool"
	"github.com/stretchr/testify/assert"
)

func TestTriEquals(t *testing.T) {
	assert.Equal(t, tribool.True, triEquals(DefaultComparator, 5, 5))
	assert.Equal(t, tribool.False, triEquals(DefaultComparator, 5, 6))
}

func TestTriEqualsWithParameters(t *testing.T) {
	p1 := param.MustOf("p1")
	p2 := param.MustOf("p2")
	assert.Equal(t, tribool.True, triEquals(DefaultComparator, p1, p1))
	assert.Equal(t, tribool.Unknown, triEquals(DefaultComparator, p1, p2))
	assert.Equal(t, tribool.Unknown, triEquals(DefaultComparator, p1, 5))
}

func TestTriLtGtLe(t *testing.T) {
	assert.Equal(t, tribool.True, triLt(DefaultComparator, 1, 2))
	assert.Equal(t, tribool.False, triLt(DefaultComparator, 2, 1))
	assert.Equal(t, tribool.True, triGt(DefaultComparator, 2, 1))
	assert.Equal(t, tribool.True, triLe(DefaultComparator, 2, 2))
	assert.Equal(t, tribool.True, triGe(DefaultComparator, 2, 2))
}

func TestRegisterComparator(t *testing.T) {
	reverse := func(a, b any) bool {
		return DefaultComparator(b, a)
	}
	RegisterComparator("reverse-test", reverse)
	cmp, ok := lookupComparator("reverse-test")
	assert.True(t, ok)
	assert.True(t, cmp(2, 1))
}
