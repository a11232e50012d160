package query

import "fmt"

// Operator tokens passed to Formatter.OperExpr. These are exactly the
// strings named in spec.md §4.4/§6.
const (
	OpEquals             = "="
	OpLessThan           = "<"
	OpLessThanOrEqual    = "<="
	OpGreaterThan        = ">"
	OpGreaterThanOrEqual = ">="
	OpHas                = "has"
	OpContains           = "contains"
)

// Formatter is the pluggable rendering contract: it knows nothing about
// Range/Cube/Query internals, only how to stitch together already-rendered
// sub-expressions. Backend-specific emitters (SQL, Mongo, ...) implement
// this interface outside the core algebra.
type Formatter interface {
	// AndExpr joins already-rendered sub-expressions with a conjunction.
	AndExpr(subs ...string) string
	// OrExpr joins already-rendered sub-expressions with a disjunction.
	OrExpr(subs ...string) string
	// OperExpr renders one dimension/operator/value triple. ctx carries
	// the dotted path of any enclosing Subquery.
	OperExpr(dimension string, operator string, value any, ctx string) string
}

// DefaultFormatter is the plain-text formatter; ToExpression has no
// implicit formatter, so callers pass DefaultFormatter{} explicitly. It
// quotes strings, joins nested-subquery
// dimensions with ".", wraps "or" groups in parentheses, and uses bare
// "and" joins — matching the worked examples in spec.md §8.
type DefaultFormatter struct{}

var _ Formatter = DefaultFormatter{}

func (DefaultFormatter) AndExpr(subs ...string) string {
	return joinNonEmpty(subs, " and ")
}

func (DefaultFormatter) OrExpr(subs ...string) string {
	return "(" + joinNonEmpty(subs, " or ") + ")"
}

func (DefaultFormatter) OperExpr(dimension string, operator string, value any, ctx string) string {
	full := dimension
	if ctx != "" {
		full = ctx + "." + dimension
	}
	return fmt.Sprintf("%s%s%s", full, operator, formatValue(value))
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func joinNonEmpty(subs []string, sep string) string {
	out := ""
	for _, s := range subs {
		if s == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += s
	}
	return out
}

// qualify extends a dotted render-context with dim, the way a Subquery
// extends the dimension path its children render under.
func qualify(ctx, dim string) string {
	if ctx == "" {
		return dim
	}
	return ctx + "." + dim
}
