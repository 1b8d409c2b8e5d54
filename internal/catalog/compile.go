package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/finohq/finofiling/internal/filing"
	"github.com/finohq/finofiling/internal/query"
)

// physicalColumns are the fields stored as real columns; everything else
// is reached through json_extract over the data column.
var physicalColumns = map[string]bool{
	"id":         true,
	"source":     true,
	"checksum":   true,
	"name":       true,
	"format":     true,
	"is_zip":     true,
	"created_at": true,
	"path":       true,
}

// identPattern guards every field name that is interpolated into SQL.
// Values are never interpolated; they always bind through placeholders.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// compileExpr compiles a query expression into a parameterized WHERE
// fragment. Boolean combinators are wrapped in explicit parentheses so
// operator precedence never depends on SQL defaults, and operand order is
// preserved for reproducible parameter binding.
func compileExpr(e query.Expr) (string, []any, error) {
	if e == nil {
		return "1 = 1", nil, nil
	}

	switch node := e.(type) {
	case query.Cmp:
		return compileCmp(node)
	case query.Like:
		col, err := columnExpr(node.Field, false)
		if err != nil {
			return "", nil, err
		}
		return col + " LIKE ?", []any{node.Pattern}, nil
	case query.In:
		return compileIn(node)
	case query.Null:
		col, err := columnExpr(node.Field, false)
		if err != nil {
			return "", nil, err
		}
		if node.Negate {
			return col + " IS NOT NULL", nil, nil
		}
		return col + " IS NULL", nil, nil
	case query.Between:
		return compileBetween(node)
	case query.AndExpr:
		return compileBool(node.Exprs, " AND ")
	case query.OrExpr:
		return compileBool(node.Exprs, " OR ")
	case query.NotExpr:
		inner, params, err := compileExpr(node.Expr)
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + inner + ")", params, nil
	default:
		return "", nil, fmt.Errorf("unsupported expression type: %T", e)
	}
}

func compileCmp(cmp query.Cmp) (string, []any, error) {
	col, err := columnExpr(cmp.Field, cmp.Op.Ordered())
	if err != nil {
		return "", nil, err
	}
	param, err := toParam(cmp.Value)
	if err != nil {
		return "", nil, fmt.Errorf("field %q: %w", cmp.Field.Name, err)
	}
	return fmt.Sprintf("%s %s ?", col, cmp.Op), []any{param}, nil
}

func compileIn(in query.In) (string, []any, error) {
	col, err := columnExpr(in.Field, false)
	if err != nil {
		return "", nil, err
	}
	if len(in.Values) == 0 {
		// Vacuous membership: nothing is in the empty set.
		if in.Negate {
			return "1 = 1", nil, nil
		}
		return "1 = 0", nil, nil
	}

	placeholders := strings.Repeat("?, ", len(in.Values))
	placeholders = placeholders[:len(placeholders)-2]
	params := make([]any, 0, len(in.Values))
	for _, v := range in.Values {
		p, err := toParam(v)
		if err != nil {
			return "", nil, fmt.Errorf("field %q: %w", in.Field.Name, err)
		}
		params = append(params, p)
	}

	op := "IN"
	if in.Negate {
		op = "NOT IN"
	}
	return fmt.Sprintf("%s %s (%s)", col, op, placeholders), params, nil
}

func compileBetween(b query.Between) (string, []any, error) {
	col, err := columnExpr(b.Field, true)
	if err != nil {
		return "", nil, err
	}
	lo, err := toParam(b.Lo)
	if err != nil {
		return "", nil, fmt.Errorf("field %q: %w", b.Field.Name, err)
	}
	hi, err := toParam(b.Hi)
	if err != nil {
		return "", nil, fmt.Errorf("field %q: %w", b.Field.Name, err)
	}
	return col + " BETWEEN ? AND ?", []any{lo, hi}, nil
}

func compileBool(exprs []query.Expr, sep string) (string, []any, error) {
	if len(exprs) == 0 {
		return "1 = 1", nil, nil
	}

	parts := make([]string, 0, len(exprs))
	var params []any
	for _, e := range exprs {
		sql, p, err := compileExpr(e)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, p...)
	}
	if len(parts) == 1 {
		return parts[0], params, nil
	}
	return "(" + strings.Join(parts, sep) + ")", params, nil
}

// columnExpr maps a field reference to SQL. Physical columns are used
// directly; anything else compiles to json_extract over the data column.
//
// Ordered comparisons against JSON-extracted fields never coerce silently:
// a numeric hint produces an explicit CAST, string and time hints compare
// as text (RFC 3339 text sorts chronologically), and a hintless ordered
// comparison is rejected rather than left to lexicographic accident.
func columnExpr(f query.Field, ordered bool) (string, error) {
	if !identPattern.MatchString(f.Name) {
		return "", fmt.Errorf("invalid field name %q", f.Name)
	}
	if physicalColumns[f.Name] {
		return f.Name, nil
	}

	extract := fmt.Sprintf("json_extract(data, '$.%s')", f.Name)
	if !ordered {
		return extract, nil
	}

	switch f.Type {
	case query.KindInt:
		return "CAST(" + extract + " AS INTEGER)", nil
	case query.KindFloat:
		return "CAST(" + extract + " AS REAL)", nil
	case query.KindString, query.KindTime:
		return extract, nil
	default:
		return "", fmt.Errorf("ordered comparison on field %q requires a type hint", f.Name)
	}
}

// toParam converts an expression value into a SQL bind parameter.
// Unsupported value types are rejected rather than stringified.
func toParam(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return val, nil
	case bool:
		return val, nil
	case int:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case time.Time:
		return val.UTC().Format(filing.TimeFormat), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T for SQL parameter", v)
	}
}
