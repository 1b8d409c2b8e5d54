package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/finohq/finofiling/internal/filing"
	"github.com/finohq/finofiling/internal/query"
)

// DefaultLimit bounds a search when the caller does not set one.
const DefaultLimit = 100

// Options windows and orders a search result.
type Options struct {
	// Limit caps the result size. Zero means DefaultLimit; negative
	// means unlimited.
	Limit int

	// Offset skips that many rows of the ordered result.
	Offset int

	// OrderBy names the sort field. Empty means created_at. Non-physical
	// fields sort by their JSON value.
	OrderBy string

	// Desc reverses the sort direction.
	Desc bool
}

// Search evaluates an expression against the index and returns the
// matching records, reconstructed to their concrete shapes. A nil
// expression matches everything.
//
// Results are ordered deterministically: the requested order plus a stable
// id tiebreaker, so equal inputs always produce the same window.
func (c *Catalog) Search(ctx context.Context, expr query.Expr, opts Options) ([]filing.Filing, error) {
	where, params, err := compileExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("search: compile expression: %w", err)
	}

	order, err := orderClause(opts)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	} else if limit < 0 {
		limit = -1 // SQLite: LIMIT -1 is unbounded
	}

	sqlText := "SELECT data FROM filings WHERE " + where + order + " LIMIT ? OFFSET ?"
	params = append(params, limit, opts.Offset)

	rows, err := c.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("search: query: %w", err)
	}
	defer rows.Close()

	results := []filing.Filing{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("search: scan: %w", err)
		}
		f, err := c.restore(data)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		results = append(results, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: iterate: %w", err)
	}
	return results, nil
}

// Count returns the cardinality of the same filter without materializing
// rows. A nil expression counts everything.
func (c *Catalog) Count(ctx context.Context, expr query.Expr) (int64, error) {
	where, params, err := compileExpr(expr)
	if err != nil {
		return 0, fmt.Errorf("count: compile expression: %w", err)
	}

	var n int64
	err = c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM filings WHERE "+where, params...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// Get returns the record for an id, or (nil, nil) when absent. Absence is
// a routine outcome, not an error.
func (c *Catalog) Get(ctx context.Context, id string) (filing.Filing, error) {
	var data string
	err := c.db.QueryRowContext(ctx, "SELECT data FROM filings WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	f, err := c.restore(data)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return f, nil
}

// restore rebuilds a concrete filing from a stored data document via the
// configured resolver. Unknown sources fall back to the base shape with
// extra fields retained.
func (c *Catalog) restore(data string) (filing.Filing, error) {
	var values map[string]any
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	f, err := c.resolver.Restore(values)
	if err != nil {
		return nil, fmt.Errorf("restore record: %w", err)
	}
	return f, nil
}

// orderClause builds the ORDER BY for a search. Field names are validated
// as identifiers before interpolation; values never appear here.
func orderClause(opts Options) (string, error) {
	field := opts.OrderBy
	if field == "" {
		field = "created_at"
	}
	if !identPattern.MatchString(field) {
		return "", fmt.Errorf("invalid order field %q", field)
	}

	col := field
	if !physicalColumns[field] {
		col = fmt.Sprintf("json_extract(data, '$.%s')", field)
	}

	direction := "ASC"
	if opts.Desc {
		direction = "DESC"
	}

	clause := fmt.Sprintf(" ORDER BY %s %s", col, direction)
	if field != "id" {
		// Stable tiebreaker keeps pagination windows deterministic.
		clause += ", id COLLATE BINARY ASC"
	} else {
		clause = fmt.Sprintf(" ORDER BY id COLLATE BINARY %s", direction)
	}
	return clause, nil
}
