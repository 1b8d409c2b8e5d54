package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <id>",
		Short:         "Show the indexed metadata for a filing",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, cmd, args[0])
		},
	}
}

func runGet(opts *RootOptions, cmd *cobra.Command, id string) error {
	formatter := newFormatter(opts, cmd)

	c, err := openCollection(opts)
	if err != nil {
		return err
	}
	defer c.Close()

	f, err := c.GetFiling(cmd.Context(), id)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "get failed", Err: err}
	}
	if f == nil {
		return &ExitError{Code: ExitFailure, Message: "not found: " + id}
	}

	if formatter.Format == "json" {
		return formatter.JSON(f.ToMap())
	}
	printFields(formatter, f.ToMap())
	return nil
}

// printFields writes metadata as aligned "name: value" lines in sorted
// field order.
func printFields(f *OutputFormatter, values map[string]any) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f.Textf("%s: %v", name, values[name])
	}
}
