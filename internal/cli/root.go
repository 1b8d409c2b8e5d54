// Package cli implements the fino command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finohq/finofiling/internal/collection"
	"github.com/finohq/finofiling/internal/config"
	"github.com/finohq/finofiling/internal/locator"
	"github.com/finohq/finofiling/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Root       string // overrides the configured root when set
	Verbose    bool
	Format     string // "json" | "text"

	cfg config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the fino CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fino",
		Short: "fino - local archive for regulatory filings",
		Long:  "Stores filing documents on disk and keeps their metadata in a searchable catalog.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg := config.Default()
			if opts.ConfigPath != "" {
				loaded, err := config.Load(opts.ConfigPath)
				if err != nil {
					return &ExitError{Code: ExitCommandError, Message: "loading config", Err: err}
				}
				cfg = loaded
			}
			if opts.Root != "" {
				cfg.Root = opts.Root
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to the configuration file")
	cmd.PersistentFlags().StringVar(&opts.Root, "root", "", "collection root directory (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewCatCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openCollection assembles a collection from the resolved configuration.
// The caller must Close it.
func openCollection(opts *RootOptions) (*collection.Collection, error) {
	collOpts := []collection.Option{
		collection.WithRoot(opts.cfg.Root),
	}
	if loc := opts.cfg.Locator; len(loc.Partitions) > 0 || loc.NameField != "" || loc.DefaultExtension != "" {
		spec := locator.SourceID()
		if len(loc.Partitions) > 0 {
			spec.Partitions = loc.Partitions
		}
		spec.NameField = loc.NameField
		spec.Extension = loc.DefaultExtension
		collOpts = append(collOpts, collection.WithLocator(spec))
	}
	if opts.Verbose {
		logger := logging.New(logging.Config{
			Level:  opts.cfg.Log.Level,
			Pretty: opts.cfg.Log.Pretty,
			Output: os.Stderr,
		})
		collOpts = append(collOpts, collection.WithLogger(logger))
	}

	c, err := collection.Open(collOpts...)
	if err != nil {
		return nil, &ExitError{Code: ExitCommandError, Message: "opening collection", Err: err}
	}
	return c, nil
}

// newFormatter builds the output formatter for a command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
