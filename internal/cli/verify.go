package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Audit catalog and storage for consistency",
		Long: `Audit every indexed filing against its stored content.

Reports records whose content is missing or whose bytes no longer match
the indexed checksum. Exits non-zero when problems are found.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, cmd)
		},
	}
}

func runVerify(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	c, err := openCollection(opts)
	if err != nil {
		return err
	}
	defer c.Close()

	report, err := c.Verify(cmd.Context())
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "verify failed", Err: err}
	}

	if formatter.Format == "json" {
		if err := formatter.JSON(report); err != nil {
			return err
		}
	} else {
		formatter.Textf("checked %d filing(s), %d issue(s)", report.Checked, len(report.Issues))
		for _, issue := range report.Issues {
			formatter.Textf("  %s: %s (%s)", issue.FilingID, issue.Kind, issue.Detail)
		}
	}

	if !report.Clean() {
		return &ExitError{
			Code:    ExitFailure,
			Message: fmt.Sprintf("%d consistency issue(s) found", len(report.Issues)),
		}
	}
	return nil
}
