package cli

import (
	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Show collection summary figures",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	c, err := openCollection(opts)
	if err != nil {
		return err
	}
	defer c.Close()

	stats, err := c.Stats(cmd.Context())
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "stats failed", Err: err}
	}

	if formatter.Format == "json" {
		return formatter.JSON(map[string]any{
			"total":    stats.Total,
			"sources":  stats.Sources,
			"earliest": stats.Earliest,
			"latest":   stats.Latest,
		})
	}
	formatter.Textf("filings:  %d", stats.Total)
	formatter.Textf("sources:  %d", stats.Sources)
	if stats.Earliest != "" {
		formatter.Textf("earliest: %s", stats.Earliest)
		formatter.Textf("latest:   %s", stats.Latest)
	}
	return nil
}
