package cli

import (
	"github.com/spf13/cobra"

	"github.com/finohq/finofiling/internal/query"
)

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	filters := &filterFlags{}

	cmd := &cobra.Command{
		Use:           "count",
		Short:         "Count filings matching the given filters",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := filters.expr()
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "bad filter", Err: err}
			}
			return runCount(rootOpts, cmd, expr)
		},
	}

	filters.register(cmd)
	return cmd
}

func runCount(opts *RootOptions, cmd *cobra.Command, expr query.Expr) error {
	formatter := newFormatter(opts, cmd)

	c, err := openCollection(opts)
	if err != nil {
		return err
	}
	defer c.Close()

	n, err := c.Count(cmd.Context(), expr)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "count failed", Err: err}
	}

	if formatter.Format == "json" {
		return formatter.JSON(map[string]any{"count": n})
	}
	formatter.Textf("%d", n)
	return nil
}
