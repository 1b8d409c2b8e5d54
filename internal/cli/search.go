package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/finohq/finofiling/internal/catalog"
	"github.com/finohq/finofiling/internal/filing"
	"github.com/finohq/finofiling/internal/query"
)

// filterFlags holds the record filters shared by search and count.
type filterFlags struct {
	Source string
	Where  []string // "field=value" equality clauses
	Since  string   // inclusive lower bound on created_at
	Until  string   // exclusive upper bound on created_at
}

func (ff *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ff.Source, "source", "", "filter by source")
	cmd.Flags().StringArrayVar(&ff.Where, "where", nil, "field=value equality filter (repeatable)")
	cmd.Flags().StringVar(&ff.Since, "since", "", "only filings created at or after this RFC 3339 time")
	cmd.Flags().StringVar(&ff.Until, "until", "", "only filings created before this RFC 3339 time")
}

// expr combines the flags into one conjunction, or nil when no filter
// was given.
func (ff *filterFlags) expr() (query.Expr, error) {
	var parts []query.Expr
	if ff.Source != "" {
		parts = append(parts, query.F(filing.FieldSource).Eq(ff.Source))
	}
	for _, clause := range ff.Where {
		field, value, ok := strings.Cut(clause, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --where clause %q: want field=value", clause)
		}
		parts = append(parts, query.F(field).Eq(value))
	}
	if ff.Since != "" {
		ts, err := parseTimeFlag("since", ff.Since)
		if err != nil {
			return nil, err
		}
		parts = append(parts, query.F(filing.FieldCreatedAt).Ge(ts))
	}
	if ff.Until != "" {
		ts, err := parseTimeFlag("until", ff.Until)
		if err != nil {
			return nil, err
		}
		parts = append(parts, query.F(filing.FieldCreatedAt).Lt(ts))
	}

	switch len(parts) {
	case 0:
		return nil, nil
	case 1:
		return parts[0], nil
	default:
		return query.And(parts...), nil
	}
}

func parseTimeFlag(name, value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s value %q: %w", name, value, err)
	}
	return ts, nil
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	filters := &filterFlags{}
	var (
		limit   int
		offset  int
		orderBy string
		desc    bool
	)

	cmd := &cobra.Command{
		Use:           "search",
		Short:         "List filings matching the given filters",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := filters.expr()
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "bad filter", Err: err}
			}
			opts := catalog.Options{
				Limit:   limit,
				Offset:  offset,
				OrderBy: orderBy,
				Desc:    desc,
			}
			return runSearch(rootOpts, cmd, expr, opts)
		},
	}

	filters.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (0 for the default page size, negative for all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "skip this many results")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "field to order by (default created_at)")
	cmd.Flags().BoolVar(&desc, "desc", false, "order descending")

	return cmd
}

func runSearch(opts *RootOptions, cmd *cobra.Command, expr query.Expr, searchOpts catalog.Options) error {
	formatter := newFormatter(opts, cmd)

	c, err := openCollection(opts)
	if err != nil {
		return err
	}
	defer c.Close()

	results, err := c.Search(cmd.Context(), expr, searchOpts)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "search failed", Err: err}
	}

	if formatter.Format == "json" {
		rows := make([]map[string]any, 0, len(results))
		for _, f := range results {
			rows = append(rows, f.ToMap())
		}
		return formatter.JSON(rows)
	}

	for _, f := range results {
		formatter.Textf("%s\t%s\t%s", f.ID(), f.Source(), f.Name())
	}
	formatter.VerboseLog("%d result(s)", len(results))
	return nil
}
