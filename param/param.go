// Package param implements the named placeholder values ("parameters")
// that a query can defer binding a concrete value to until later.
package param

import "github.com/pkg/errors"

// Parameter is a named placeholder for a value supplied later via a
// binding environment. Its identity is its Name.
type Parameter struct {
	Name string
}

// Of constructs a new Parameter. It is a hard error to construct a
// parameter from an empty or malformed (non-identifier-like) name.
func Of(name string) (*Parameter, error) {
	if name == "" {
		return nil, errors.New("parameter: name must not be empty")
	}
	for i, r := range name {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isLetter {
			return nil, errors.Errorf("parameter: name %q must start with a letter or underscore", name)
		}
		if !isLetter && !isDigit {
			return nil, errors.Errorf("parameter: name %q contains an invalid character %q", name, r)
		}
	}
	return &Parameter{Name: name}, nil
}

// MustOf is Of but panics on a malformed name; useful for constructing
// literal parameters in code (e.g. in tests) where the name is a constant.
func MustOf(name string) *Parameter {
	p, err := Of(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Equals reports whether two parameters share the same name. A nil
// Parameter is never equal to anything, including another nil.
func (p *Parameter) Equals(other *Parameter) bool {
	if p == nil || other == nil {
		return false
	}
	return p.Name == other.Name
}

func (p *Parameter) String() string {
	if p == nil {
		return ""
	}
	return "$" + p.Name
}

// Env is a binding environment mapping parameter name to concrete value.
type Env map[string]any

// Lookup returns the bound value for p, if any.
func (e Env) Lookup(p *Parameter) (any, bool) {
	if p == nil || e == nil {
		return nil, false
	}
	v, ok := e[p.Name]
	return v, ok
}

// proxy is a convenience: attribute-style access that returns a
// Parameter for any name. The core algebra never requires this proxy;
// it exists only as sugar for call sites that prefer Params.Of("name")
// reading like a field access in dynamic languages.
type proxy struct{}

// Params is the proxy singleton; Params.Of("x") == MustOf("x").
var Params = proxy{}

func (proxy) Of(name string) *Parameter {
	return MustOf(name)
}
