package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/finohq/finofiling/internal/filing"
)

// Index persists or updates one record keyed by the filing id. Re-indexing
// an existing id replaces the whole row: overwrite is intentional here to
// support idempotent re-sync, not an accident of INSERT semantics.
func (c *Catalog) Index(ctx context.Context, f filing.Filing) error {
	if f == nil {
		return fmt.Errorf("index: nil filing")
	}
	required := []struct{ name, value string }{
		{"id", f.ID()},
		{"source", f.Source()},
		{"checksum", f.Checksum()},
		{"name", f.Name()},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("index: required field %q is empty", field.name)
		}
	}
	if f.CreatedAt().IsZero() {
		return fmt.Errorf("index: required field %q is empty", "created_at")
	}

	data, err := json.Marshal(f.ToMap())
	if err != nil {
		return fmt.Errorf("index %s: marshal: %w", f.ID(), err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO filings
		(id, source, checksum, name, format, is_zip, created_at, path, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		f.ID(),
		f.Source(),
		f.Checksum(),
		f.Name(),
		nullable(f.Format()),
		f.IsZip(),
		f.CreatedAt().UTC().Format(filing.TimeFormat),
		f.Path(),
		string(data),
	)
	if err != nil {
		return fmt.Errorf("index %s: %w", f.ID(), err)
	}
	return nil
}

// IndexBatch indexes many records, committing per record: a failure
// partway through leaves the already-indexed prefix durable and reports
// how many records were committed along with the failing id.
func (c *Catalog) IndexBatch(ctx context.Context, fs []filing.Filing) (int, error) {
	for i, f := range fs {
		if err := c.Index(ctx, f); err != nil {
			return i, fmt.Errorf("index batch: record %d: %w", i, err)
		}
	}
	return len(fs), nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
