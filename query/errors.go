package query

import "github.com/pkg/errors"

// Structural (fatal) errors — spec.md §7.1. These abort the operation that
// raised them; they are distinct from algebraic emptiness, which is never
// an error (a nil Range/Cube/Query).
var (
	errMixedCollection = errors.New("abstract-query: cannot mix a has-element constraint with a scalar constraint on the same dimension")
	errMixedRecord     = errors.New("abstract-query: cannot mix a subquery constraint with a has-element or scalar constraint on the same dimension")
)

// wrongShapeErr reports a malformed Range.From input (array of length 0 or
// more than 2 elements).
func wrongShapeErr(n int) error {
	return errors.Errorf("abstract-query: Range.From array input must have 1 or 2 elements, got %d", n)
}
