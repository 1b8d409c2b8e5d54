// Package collection is the facade tying content storage, path layout,
// and the metadata catalog into one local filing archive.
//
// Persisting a filing is a two-step write: content first, then the
// catalog row. The steps are not atomic across a crash; Verify audits
// the two sides against each other afterwards.
package collection

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/finohq/finofiling/internal/catalog"
	"github.com/finohq/finofiling/internal/filing"
	"github.com/finohq/finofiling/internal/locator"
	"github.com/finohq/finofiling/internal/logging"
	"github.com/finohq/finofiling/internal/query"
	"github.com/finohq/finofiling/internal/storage"
)

// Collection stores filing content on disk and indexes the metadata in
// a queryable catalog.
type Collection struct {
	opts       options
	ownCatalog bool
}

// AddResult describes a persisted filing.
type AddResult struct {
	Filing filing.Filing
	Path   string
}

// Open assembles a collection from the given options. Missing pieces
// get defaults under the root directory: content files beneath
// root/content and the catalog at root/index.db.
func Open(opts ...Option) (*Collection, error) {
	o := options{
		root:   DefaultRoot,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.resolver == nil {
		o.resolver = filing.DefaultResolver()
	}
	if o.locator == nil {
		o.locator = locator.SourceID()
	}

	ownCatalog := false
	if o.storage == nil {
		s, err := storage.NewLocal(filepath.Join(o.root, "content"))
		if err != nil {
			return nil, fmt.Errorf("open collection: %w", err)
		}
		o.storage = s
	}
	if o.catalog == nil {
		if err := os.MkdirAll(o.root, 0o755); err != nil {
			return nil, fmt.Errorf("open collection: %w", err)
		}
		c, err := catalog.Open(filepath.Join(o.root, "index.db"), catalog.WithResolver(o.resolver))
		if err != nil {
			return nil, fmt.Errorf("open collection: %w", err)
		}
		o.catalog = c
		ownCatalog = true
	}

	return &Collection{opts: o, ownCatalog: ownCatalog}, nil
}

// Close releases the catalog if the collection opened it itself.
func (c *Collection) Close() error {
	if !c.ownCatalog {
		return nil
	}
	return c.opts.catalog.Close()
}

// Add persists a filing's content and indexes its metadata. The content
// digest must match the filing's declared checksum; on mismatch nothing
// is written. Re-adding an existing id overwrites both bytes and
// metadata.
func (c *Collection) Add(ctx context.Context, f filing.Filing, content []byte) (*AddResult, error) {
	start := time.Now()
	if f == nil {
		c.opts.metrics.RecordAddFailure("nil_filing")
		return nil, fmt.Errorf("add: nil filing")
	}

	if actual := digest(content); !checksumEqual(f.Checksum(), actual) {
		c.opts.metrics.RecordAddFailure("checksum")
		return nil, &ChecksumError{
			FilingID: f.ID(),
			Expected: strings.ToLower(f.Checksum()),
			Actual:   actual,
			Op:       "add",
		}
	}

	key, err := c.opts.locator.Resolve(f)
	if err != nil {
		c.opts.metrics.RecordAddFailure("locate")
		return nil, fmt.Errorf("add %s: %w", f.ID(), err)
	}

	location, err := c.opts.storage.Save(ctx, key, content)
	if err != nil {
		c.opts.metrics.RecordAddFailure("store")
		return nil, fmt.Errorf("add %s: %w", f.ID(), err)
	}

	if err := f.Set(filing.FieldPath, location); err != nil {
		c.opts.metrics.RecordAddFailure("path")
		return nil, fmt.Errorf("add %s: %w", f.ID(), err)
	}
	if err := c.opts.catalog.Index(ctx, f); err != nil {
		c.opts.metrics.RecordAddFailure("index")
		return nil, fmt.Errorf("add %s: %w", f.ID(), err)
	}

	c.opts.metrics.RecordAdd(time.Since(start))
	c.opts.logger.Info().
		Str("id", f.ID()).
		Str("source", f.Source()).
		Str("path", location).
		Int("bytes", len(content)).
		Msg("filing added")

	return &AddResult{Filing: f, Path: location}, nil
}

// GetFiling returns the indexed record for id, or nil when absent.
func (c *Collection) GetFiling(ctx context.Context, id string) (filing.Filing, error) {
	return c.opts.catalog.Get(ctx, id)
}

// GetContent loads the stored bytes for id, or nil when absent. The
// loaded bytes are re-digested against the catalog checksum; a mismatch
// means the payload changed after indexing.
func (c *Collection) GetContent(ctx context.Context, id string) ([]byte, error) {
	_, content, _, err := c.Get(ctx, id)
	return content, err
}

// Get returns the record, its content, and its storage path. All three
// are zero when the id is absent.
func (c *Collection) Get(ctx context.Context, id string) (filing.Filing, []byte, string, error) {
	f, err := c.opts.catalog.Get(ctx, id)
	if err != nil {
		return nil, nil, "", fmt.Errorf("get %s: %w", id, err)
	}
	if f == nil {
		return nil, nil, "", nil
	}

	content, err := c.opts.storage.Load(ctx, f.Path())
	if err != nil {
		return nil, nil, "", fmt.Errorf("get %s: %w", id, err)
	}
	c.opts.metrics.RecordRead()

	if actual := digest(content); !checksumEqual(f.Checksum(), actual) {
		c.opts.metrics.RecordIntegrityFailure()
		c.opts.logger.Error().
			Str("id", id).
			Str("path", f.Path()).
			Msg("stored content no longer matches indexed checksum")
		return nil, nil, "", &ChecksumError{
			FilingID: id,
			Expected: strings.ToLower(f.Checksum()),
			Actual:   actual,
			Op:       "read",
		}
	}
	return f, content, f.Path(), nil
}

// Search returns the records matching expr, via the catalog.
func (c *Collection) Search(ctx context.Context, expr query.Expr, opts catalog.Options) ([]filing.Filing, error) {
	start := time.Now()
	results, err := c.opts.catalog.Search(ctx, expr, opts)
	if err != nil {
		return nil, err
	}
	c.opts.metrics.RecordSearch(len(results), time.Since(start))
	return results, nil
}

// Count returns the number of records matching expr.
func (c *Collection) Count(ctx context.Context, expr query.Expr) (int64, error) {
	return c.opts.catalog.Count(ctx, expr)
}

// Stats reports catalog-level summary figures.
func (c *Collection) Stats(ctx context.Context) (catalog.Stats, error) {
	s, err := c.opts.catalog.Stats(ctx)
	if err != nil {
		return catalog.Stats{}, err
	}
	c.opts.metrics.SetRecordCount(s.Total)
	return s, nil
}

func digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func checksumEqual(declared, actual string) bool {
	return strings.ToLower(declared) == actual
}
