// Package sql is a demonstration Formatter for the query algebra: it
// renders a Query as a SQL WHERE-clause fragment. It lives outside the
// core algebra (SPEC_FULL.md §3) and exists only to give the pluggable
// Formatter contract a concrete, idiomatic consumer — adapted from the
// teacher's pkg/driver base/SQL renderer, which keyed a map of renderFN
// by operator token the same way operFNs does here.
package sql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/softwareplumbers/abstract-query-go/query"
)

// operFN renders one dimension/value pair for a given SQL operator.
type operFN func(column string, value any) string

func quoteIdent(column string) string {
	return strings.ReplaceAll(column, ".", "_")
}

func literalValue(value any) string {
	switch v := value.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", v)
	default:
		return "'" + strconv.Quote(fmt.Sprintf("%v", v)) + "'"
	}
}

func basicOperator(symbol string) operFN {
	return func(column string, value any) string {
		return fmt.Sprintf("%s %s %s", quoteIdent(column), symbol, literalValue(value))
	}
}

// operFNs maps each token the core algebra emits through OperExpr to the
// SQL fragment that realizes it, mirroring how the teacher's pkg/driver
// maps lucene expr.Operator to a renderFN.
var operFNs = map[string]operFN{
	query.OpEquals:             basicOperator("="),
	query.OpLessThan:           basicOperator("<"),
	query.OpLessThanOrEqual:    basicOperator("<="),
	query.OpGreaterThan:        basicOperator(">"),
	query.OpGreaterThanOrEqual: basicOperator(">="),
	query.OpHas: func(column string, value any) string {
		return fmt.Sprintf("%s = ANY(%s)", literalValue(value), quoteIdent(column))
	},
	query.OpContains: func(column string, value any) string {
		return fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE %v)", quoteIdent(column), value)
	},
}

// Formatter renders a Query as a SQL boolean expression. The zero value
// is ready to use.
type Formatter struct{}

var _ query.Formatter = Formatter{}

func (Formatter) AndExpr(subs ...string) string {
	return joinNonEmpty(subs, " AND ")
}

func (Formatter) OrExpr(subs ...string) string {
	joined := joinNonEmpty(subs, " OR ")
	if joined == "" {
		return "TRUE"
	}
	return "(" + joined + ")"
}

func (Formatter) OperExpr(dimension string, operator string, value any, ctx string) string {
	column := dimension
	if ctx != "" {
		column = ctx + "." + dimension
	}
	fn, ok := operFNs[operator]
	if !ok {
		return fmt.Sprintf("%s %s %s", quoteIdent(column), operator, literalValue(value))
	}
	return fn(column, value)
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
