package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/finohq/finofiling/internal/collection"
)

// NewCatCommand creates the cat command.
func NewCatCommand(rootOpts *RootOptions) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "cat <id>",
		Short: "Write a filing's stored content to stdout",
		Long: `Write a filing's stored content to stdout or a file.

The loaded bytes are verified against the indexed checksum; corrupted
content is reported instead of emitted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(rootOpts, cmd, args[0], outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write content to this file instead of stdout")

	return cmd
}

func runCat(opts *RootOptions, cmd *cobra.Command, id, outputPath string) error {
	c, err := openCollection(opts)
	if err != nil {
		return err
	}
	defer c.Close()

	content, err := c.GetContent(cmd.Context(), id)
	if err != nil {
		if collection.IsChecksumError(err) {
			return &ExitError{Code: ExitFailure, Message: "stored content is corrupted", Err: err}
		}
		return &ExitError{Code: ExitFailure, Message: "cat failed", Err: err}
	}
	if content == nil {
		return &ExitError{Code: ExitFailure, Message: "not found: " + id}
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, content, 0o644); err != nil {
			return &ExitError{Code: ExitCommandError, Message: "writing output", Err: err}
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(content)
	return err
}
