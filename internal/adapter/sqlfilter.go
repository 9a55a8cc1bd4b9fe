package adapter

import (
	"fmt"
	"strings"

	"github.com/roach88/graphwalk/internal/ir"
	"github.com/roach88/graphwalk/internal/location"
)

// compileFilterHints turns the pushable subset of a location's filter hints
// into a parameterized SQL WHERE fragment over the vertices table.
//
// Hints are advisory, so anything unsupported is simply skipped; the
// interpreter applies every filter itself regardless. Only single-field
// equality against a literal or runtime argument is pushed down. Values are
// always parameterized, never interpolated.
func compileFilterHints(filters []location.FilterInfo, args map[string]any) (string, []any) {
	var clauses []string
	var params []any

	for _, filter := range filters {
		if filter.Operator != "=" || len(filter.Fields) != 1 || len(filter.Operands) != 1 {
			continue
		}
		value, ok := operandValue(filter.Operands[0], args)
		if ok {
			clauses = append(clauses, fmt.Sprintf("json_extract(properties, '$.%s') = ?", filter.Fields[0]))
			params = append(params, value)
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(clauses, " AND "), params
}

// operandValue resolves a filter operand to a SQL parameter value. Literals
// resolve directly; variables resolve through the runtime arguments. Tagged
// values and anything non-scalar are not pushable.
func operandValue(operand any, args map[string]any) (any, bool) {
	switch op := operand.(type) {
	case *ir.Literal:
		return scalarParam(op.Value)
	case *ir.Variable:
		value, ok := args[strings.TrimPrefix(op.VariableName, "$")]
		if !ok {
			return nil, false
		}
		return scalarParam(value)
	default:
		return nil, false
	}
}

func scalarParam(value any) (any, bool) {
	switch value.(type) {
	case string, int, int64, bool:
		return value, true
	default:
		return nil, false
	}
}
