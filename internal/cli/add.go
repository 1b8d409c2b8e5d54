package cli

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/finohq/finofiling/internal/collection"
	"github.com/finohq/finofiling/internal/filing"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var metaPath string

	cmd := &cobra.Command{
		Use:   "add <content-file>",
		Short: "Store a filing document and index its metadata",
		Long: `Store a filing document in the collection.

Metadata is supplied as a YAML document. The checksum is computed from
the content when the document omits it; when present it must match the
content or nothing is stored. An omitted id is derived from source,
source_id, and the checksum.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, cmd, args[0], metaPath)
		},
	}

	cmd.Flags().StringVarP(&metaPath, "meta", "m", "", "path to the metadata YAML document (required)")
	cmd.MarkFlagRequired("meta")

	return cmd
}

func runAdd(opts *RootOptions, cmd *cobra.Command, contentPath, metaPath string) error {
	formatter := newFormatter(opts, cmd)

	content, err := os.ReadFile(contentPath)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "reading content", Err: err}
	}
	rawMeta, err := os.ReadFile(metaPath)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "reading metadata", Err: err}
	}

	var values map[string]any
	if err := yaml.Unmarshal(rawMeta, &values); err != nil {
		return &ExitError{Code: ExitCommandError, Message: "decoding metadata", Err: err}
	}
	if values == nil {
		return &ExitError{Code: ExitCommandError, Message: "metadata document is empty"}
	}

	fillDerivedFields(values, content)

	f, err := filing.DefaultResolver().Restore(values)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "building filing record", Err: err}
	}

	c, err := openCollection(opts)
	if err != nil {
		return err
	}
	defer c.Close()

	result, err := c.Add(cmd.Context(), f, content)
	if err != nil {
		if collection.IsChecksumError(err) {
			return &ExitError{Code: ExitFailure, Message: "checksum mismatch", Err: err}
		}
		return &ExitError{Code: ExitFailure, Message: "add failed", Err: err}
	}

	if formatter.Format == "json" {
		return formatter.JSON(map[string]any{
			"id":   result.Filing.ID(),
			"path": result.Path,
		})
	}
	formatter.Textf("added %s", result.Filing.ID())
	formatter.Textf("  path: %s", result.Path)
	return nil
}

// fillDerivedFields computes checksum, id, and created_at when the
// metadata document omits them.
func fillDerivedFields(values map[string]any, content []byte) {
	if _, ok := values[filing.FieldChecksum]; !ok {
		sum := sha256.Sum256(content)
		values[filing.FieldChecksum] = hex.EncodeToString(sum[:])
	}
	if _, ok := values[filing.FieldID]; !ok {
		source, _ := values[filing.FieldSource].(string)
		sourceID, _ := values["source_id"].(string)
		checksum, _ := values[filing.FieldChecksum].(string)
		if source != "" && sourceID != "" {
			values[filing.FieldID] = filing.StandardID(source, sourceID, checksum)
		}
	}
	if _, ok := values[filing.FieldCreatedAt]; !ok {
		values[filing.FieldCreatedAt] = time.Now().UTC()
	}
}
