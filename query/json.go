package query

import (
	"encoding/json"
	"reflect"
	"sort"

	"github.com/pkg/errors"
	"github.com/softwareplumbers/abstract-query-go/param"
)

// jsonValue marshals a scalar value or a *param.Parameter the same way
// throughout the codec: a Parameter becomes {"$": "name"}, anything else
// round-trips through encoding/json as-is.
func jsonValue(v any) (any, error) {
	if p, ok := isParam(v); ok {
		return map[string]any{"$": p.Name}, nil
	}
	return v, nil
}

func valueFromJSON(raw any) any {
	if m, ok := raw.(map[string]any); ok {
		if name, ok := m["$"].(string); ok && len(m) == 1 {
			return param.MustOf(name)
		}
	}
	return raw
}

// MarshalRange encodes r per SPEC_FULL.md §4: Equals as a bare value,
// GreaterThanOrEqual/LessThan as a two-slot [lower, upper] array with the
// missing side nil, Between as the same array with both sides filled;
// any bound or Between whose comparator isn't the package default, or
// whose edges aren't the >= lower / < upper shape, uses the object form
// with an "order" tag. HasElement/Subquery/Intersection become tagged
// objects.
func MarshalRange(r Range) ([]byte, error) {
	if r == nil {
		return json.Marshal(nil)
	}
	switch v := r.(type) {
	case *unboundedRange:
		return json.Marshal([2]any{nil, nil})
	case *equalsRange:
		val, err := jsonValue(v.value)
		if err != nil {
			return nil, err
		}
		return json.Marshal(val)
	case *boundRange:
		return marshalBound(v)
	case *betweenRange:
		return marshalBetween(v)
	case *intersectionRange:
		return marshalIntersection(v)
	case *hasElementRange:
		inner, err := MarshalRange(v.inner)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]json.RawMessage{"$has": inner})
	case *subqueryRange:
		return v.q.MarshalJSON()
	default:
		return nil, errors.Errorf("abstract-query: don't know how to marshal range kind %v", r.Kind())
	}
}

func comparatorName(cmp Comparator) (string, bool) {
	for name, c := range comparatorRegistry {
		if sameFunc(c, cmp) {
			return name, true
		}
	}
	return "", false
}

// sameFunc compares two Comparators for registry lookup. Go forbids
// comparing func values directly except to nil, so identity is decided by
// comparing each func value's code pointer via reflect — reliable for the
// package-level funcs comparators are expected to be, not for closures.
func sameFunc(a, b Comparator) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func boundKeyFor(kind Kind) string {
	switch kind {
	case KindGreaterThan:
		return "gt"
	case KindGreaterThanOrEqual:
		return "gte"
	case KindLessThan:
		return "lt"
	default:
		return "lte"
	}
}

// isCanonicalShort reports whether v can use the compact array short form:
// its comparator must be the package default AND its edge must be the
// canonical inclusive-lower/exclusive-upper shape the array form implies
// ([v, null] always means GreaterThanOrEqual, [null, v] always means
// LessThan). A GreaterThan or LessThanOrEqual bound is never canonical,
// regardless of comparator, and must use the "{<op>: v}" object form
// instead — otherwise the short form would silently change which edge
// value the bound itself excludes.
func isCanonicalShort(v *boundRange) bool {
	name, found := comparatorName(v.cmp)
	if !found || name != "default" {
		return false
	}
	if v.isLower() {
		return v.kind == KindGreaterThanOrEqual
	}
	return v.kind == KindLessThan
}

func marshalBound(v *boundRange) ([]byte, error) {
	if isCanonicalShort(v) {
		val, err := jsonValue(v.value)
		if err != nil {
			return nil, err
		}
		if v.isLower() {
			return json.Marshal([2]any{val, nil})
		}
		return json.Marshal([2]any{nil, val})
	}
	val, err := jsonValue(v.value)
	if err != nil {
		return nil, err
	}
	name, found := comparatorName(v.cmp)
	if !found {
		return nil, errors.New("abstract-query: range comparator is not registered")
	}
	return json.Marshal(map[string]any{boundKeyFor(v.kind): val, "order": name})
}

func marshalBetween(v *betweenRange) ([]byte, error) {
	if isCanonicalShort(v.lower) && isCanonicalShort(v.upper) {
		loVal, err := jsonValue(v.lower.value)
		if err != nil {
			return nil, err
		}
		upVal, err := jsonValue(v.upper.value)
		if err != nil {
			return nil, err
		}
		return json.Marshal([2]any{loVal, upVal})
	}
	loVal, err := jsonValue(v.lower.value)
	if err != nil {
		return nil, err
	}
	upVal, err := jsonValue(v.upper.value)
	if err != nil {
		return nil, err
	}
	loName, found := comparatorName(v.lower.cmp)
	if !found {
		return nil, errors.New("abstract-query: range comparator is not registered")
	}
	obj := map[string]any{
		boundKeyFor(v.lower.kind): loVal,
		boundKeyFor(v.upper.kind): upVal,
		"order":                   loName,
	}
	return json.Marshal(obj)
}

func marshalIntersection(v *intersectionRange) ([]byte, error) {
	parts := map[string]json.RawMessage{}
	if v.known.Kind() != KindUnbounded {
		raw, err := MarshalRange(v.known)
		if err != nil {
			return nil, err
		}
		parts["known"] = raw
	}
	names := make([]string, 0, len(v.byParam))
	for n := range v.byParam {
		names = append(names, n)
	}
	sort.Strings(names)
	byParam := map[string]json.RawMessage{}
	for _, n := range names {
		raw, err := MarshalRange(v.byParam[n])
		if err != nil {
			return nil, err
		}
		byParam[n] = raw
	}
	if len(byParam) > 0 {
		bp, err := json.Marshal(byParam)
		if err != nil {
			return nil, err
		}
		parts["byParam"] = bp
	}
	return json.Marshal(map[string]any{"$intersection": parts})
}

// UnmarshalRange decodes data into a Range using the shapes MarshalRange
// produces, resolving any "order" comparator name through the process
// registry. An unresolvable comparator name is a hard error: the codec
// never silently substitutes DefaultComparator for a name it can't find.
func UnmarshalRange(data []byte) (Range, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return rangeFromRaw(raw)
}

func rangeFromRaw(raw any) (Range, error) {
	switch v := raw.(type) {
	case nil:
		return UnboundedRange(), nil
	case []any:
		return rangeFromRawSlice(v)
	case map[string]any:
		if p, ok := valueFromJSON(v).(*param.Parameter); ok {
			return EqualsRange(p), nil
		}
		return rangeFromRawMap(v)
	default:
		return EqualsRange(valueFromJSON(v)), nil
	}
}

func rangeFromRawSlice(v []any) (Range, error) {
	if len(v) != 2 {
		return nil, errors.Errorf("abstract-query: JSON range array must have 2 elements, got %d", len(v))
	}
	lo, up := v[0], v[1]
	switch {
	case lo == nil && up == nil:
		return UnboundedRange(), nil
	case up == nil:
		return GreaterThanOrEqualRange(valueFromJSON(lo)), nil
	case lo == nil:
		return LessThanRange(valueFromJSON(up)), nil
	default:
		return BetweenRange(
			GreaterThanOrEqualRange(valueFromJSON(lo)),
			LessThanRange(valueFromJSON(up)),
		)
	}
}

func rangeFromRawMap(v map[string]any) (Range, error) {
	if has, ok := v["$has"]; ok {
		raw, err := json.Marshal(has)
		if err != nil {
			return nil, err
		}
		inner, err := UnmarshalRange(raw)
		if err != nil {
			return nil, err
		}
		return HasElementRange(inner), nil
	}
	if inter, ok := v["$intersection"].(map[string]any); ok {
		return intersectionFromRaw(inter)
	}
	if _, ok := v["union"]; ok && len(v) == 1 {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		q := &Query{}
		if err := q.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return SubqueryRange(q), nil
	}

	cmp := DefaultComparator
	if name, ok := v["order"].(string); ok {
		c, found := lookupComparator(name)
		if !found {
			return nil, errors.Errorf("abstract-query: comparator %q is not registered", name)
		}
		cmp = c
	}

	hasLowerKey := false
	var lowerVal any
	lowerInclusive := false
	if gte, ok := v["gte"]; ok {
		hasLowerKey, lowerVal, lowerInclusive = true, gte, true
	} else if gt, ok := v["gt"]; ok {
		hasLowerKey, lowerVal, lowerInclusive = true, gt, false
	}
	hasUpperKey := false
	var upperVal any
	upperInclusive := false
	if lte, ok := v["lte"]; ok {
		hasUpperKey, upperVal, upperInclusive = true, lte, true
	} else if lt, ok := v["lt"]; ok {
		hasUpperKey, upperVal, upperInclusive = true, lt, false
	}

	switch {
	case hasLowerKey && hasUpperKey:
		var lower, upper Range
		if lowerInclusive {
			lower = GreaterThanOrEqualRange(valueFromJSON(lowerVal), cmp)
		} else {
			lower = GreaterThanRange(valueFromJSON(lowerVal), cmp)
		}
		if upperInclusive {
			upper = LessThanOrEqualRange(valueFromJSON(upperVal), cmp)
		} else {
			upper = LessThanRange(valueFromJSON(upperVal), cmp)
		}
		return BetweenRange(lower, upper)
	case hasLowerKey:
		if lowerInclusive {
			return GreaterThanOrEqualRange(valueFromJSON(lowerVal), cmp), nil
		}
		return GreaterThanRange(valueFromJSON(lowerVal), cmp), nil
	case hasUpperKey:
		if upperInclusive {
			return LessThanOrEqualRange(valueFromJSON(upperVal), cmp), nil
		}
		return LessThanRange(valueFromJSON(upperVal), cmp), nil
	}

	// A non-operator-keyed object is a nested record: dispatch through the
	// sugar grammar so Subquery shares its one parsing path with From.
	q, err := QueryFrom(v)
	if err != nil {
		return nil, err
	}
	return SubqueryRange(q), nil
}

func intersectionFromRaw(v map[string]any) (Range, error) {
	ir := newIntersection(DefaultComparator)
	if known, ok := v["known"]; ok {
		raw, err := json.Marshal(known)
		if err != nil {
			return nil, err
		}
		r, err := UnmarshalRange(raw)
		if err != nil {
			return nil, err
		}
		ir = ir.addRange(r)
	}
	if byParam, ok := v["byParam"].(map[string]any); ok {
		for _, raw := range byParam {
			data, err := json.Marshal(raw)
			if err != nil {
				return nil, err
			}
			r, err := UnmarshalRange(data)
			if err != nil {
				return nil, err
			}
			ir = ir.addRange(r)
		}
	}
	return ir.resolve()
}

// MarshalJSON encodes c as {dimension: rangeJSON, ...}.
func (c *Cube) MarshalJSON() ([]byte, error) {
	out := map[string]json.RawMessage{}
	for _, dim := range c.Dimensions() {
		raw, err := MarshalRange(c.dims[dim])
		if err != nil {
			return nil, err
		}
		out[dim] = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a {dimension: rangeJSON, ...} object into c.
func (c *Cube) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dims := make(map[string]Range, len(raw))
	for dim, rawRange := range raw {
		r, err := UnmarshalRange(rawRange)
		if err != nil {
			return err
		}
		dims[dim] = r
	}
	c.dims = dims
	return nil
}

// MarshalJSON encodes q as {"union": [cubeJSON, ...]}.
func (q *Query) MarshalJSON() ([]byte, error) {
	cubes := make([]*Cube, len(q.cubes))
	copy(cubes, q.cubes)
	return json.Marshal(map[string]any{"union": cubes})
}

// UnmarshalJSON decodes a {"union": [...]} object into q. It also accepts
// a bare cube object (one without a "union" key) as a convenience, so a
// single-cube query's JSON can be the same shape as the Cube it wraps.
func (q *Query) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Union []json.RawMessage `json:"union"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Union != nil {
		cubes := make([]*Cube, 0, len(wrapper.Union))
		for _, raw := range wrapper.Union {
			c := &Cube{}
			if err := c.UnmarshalJSON(raw); err != nil {
				return err
			}
			cubes = append(cubes, c)
		}
		q.cubes = cubes
		return nil
	}
	c := &Cube{}
	if err := c.UnmarshalJSON(data); err != nil {
		return err
	}
	q.cubes = []*Cube{c}
	return nil
}
