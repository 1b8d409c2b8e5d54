package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/finohq/finofiling/internal/catalog"
	"github.com/finohq/finofiling/internal/storage"
)

// IssueKind classifies a catalog/storage inconsistency.
type IssueKind string

const (
	IssueMissingPath    IssueKind = "MISSING_PATH"
	IssueMissingContent IssueKind = "MISSING_CONTENT"
	IssueChecksumDrift  IssueKind = "CHECKSUM_DRIFT"
	IssueUnreadable     IssueKind = "UNREADABLE"
)

// Issue describes one record whose indexed metadata and stored content
// disagree.
type Issue struct {
	FilingID string    `json:"filing_id"`
	Path     string    `json:"path,omitempty"`
	Kind     IssueKind `json:"kind"`
	Detail   string    `json:"detail"`
}

// Report summarizes a consistency audit.
type Report struct {
	Checked int     `json:"checked"`
	Issues  []Issue `json:"issues,omitempty"`
}

// Clean reports whether the audit found no inconsistencies.
func (r *Report) Clean() bool { return len(r.Issues) == 0 }

// Verify audits every indexed record against storage: the stored file
// must exist and its digest must match the indexed checksum. Content
// present in storage but absent from the catalog is not reported; a
// rebuild path for that direction does not exist yet.
func (c *Collection) Verify(ctx context.Context) (*Report, error) {
	records, err := c.opts.catalog.Search(ctx, nil, catalog.Options{Limit: -1, OrderBy: "id"})
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	report := &Report{Checked: len(records)}
	for _, f := range records {
		path := f.Path()
		if path == "" {
			report.Issues = append(report.Issues, Issue{
				FilingID: f.ID(),
				Kind:     IssueMissingPath,
				Detail:   "record has no storage path",
			})
			continue
		}

		content, err := c.opts.storage.Load(ctx, path)
		if errors.Is(err, storage.ErrNotFound) {
			report.Issues = append(report.Issues, Issue{
				FilingID: f.ID(),
				Path:     path,
				Kind:     IssueMissingContent,
				Detail:   "stored content is missing",
			})
			continue
		}
		if err != nil {
			report.Issues = append(report.Issues, Issue{
				FilingID: f.ID(),
				Path:     path,
				Kind:     IssueUnreadable,
				Detail:   err.Error(),
			})
			continue
		}

		if actual := digest(content); !checksumEqual(f.Checksum(), actual) {
			report.Issues = append(report.Issues, Issue{
				FilingID: f.ID(),
				Path:     path,
				Kind:     IssueChecksumDrift,
				Detail:   fmt.Sprintf("indexed %s, stored %s", f.Checksum(), actual),
			})
		}
	}

	if !report.Clean() {
		c.opts.logger.Warn().
			Int("checked", report.Checked).
			Int("issues", len(report.Issues)).
			Msg("consistency audit found problems")
	}
	return report, nil
}
