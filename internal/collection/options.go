package collection

import (
	"github.com/rs/zerolog"

	"github.com/finohq/finofiling/internal/catalog"
	"github.com/finohq/finofiling/internal/filing"
	"github.com/finohq/finofiling/internal/locator"
	"github.com/finohq/finofiling/internal/metrics"
	"github.com/finohq/finofiling/internal/storage"
)

// DefaultRoot is the collection directory used when no root is configured.
const DefaultRoot = ".fino/collection"

type options struct {
	root     string
	storage  storage.Storage
	catalog  *catalog.Catalog
	locator  locator.Locator
	resolver *filing.Resolver
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Collection.
type Option func(*options)

// WithRoot sets the directory holding content and the catalog database.
func WithRoot(root string) Option {
	return func(o *options) { o.root = root }
}

// WithStorage replaces the default local filesystem content store.
func WithStorage(s storage.Storage) Option {
	return func(o *options) { o.storage = s }
}

// WithCatalog replaces the default catalog opened under the root.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithLocator sets the path layout for stored content.
func WithLocator(l locator.Locator) Option {
	return func(o *options) { o.locator = l }
}

// WithResolver sets the resolver used to reconstruct typed records.
func WithResolver(r *filing.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}
