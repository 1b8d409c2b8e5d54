// Package locator derives storage keys from filing metadata.
//
// A storage key is the only stable wire format shared with storage
// backends: "partition_1/.../file_name.ext" with forward slashes. Keys are
// derived purely from metadata, never from wall-clock or randomness, so the
// same filing always resolves to the same key.
package locator

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/finohq/finofiling/internal/filing"
)

// Locator resolves a filing's metadata to its storage key.
type Locator interface {
	Resolve(f filing.Filing) (string, error)
}

// ResolutionError indicates a storage key could not be derived because a
// required partition attribute is missing or unusable.
type ResolutionError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve storage key: field %q %s", e.Field, e.Reason)
}

// DefaultExtension is used when a filing declares neither a format nor the
// ZIP flag.
const DefaultExtension = ".xbrl"

// Spec is a pure key-derivation strategy: partition segments come from the
// named metadata fields, the file name from NameField (default "name"), and
// the extension from the filing's format policy.
type Spec struct {
	// Partitions names the metadata fields whose values become path
	// segments, in order.
	Partitions []string

	// NameField is the metadata field holding the file name. Empty means
	// "name".
	NameField string

	// Extension is the fallback extension for non-ZIP payloads without a
	// declared format. Empty means DefaultExtension.
	Extension string
}

// SourceID returns the conventional layout "{source}/{name}.ext", matching
// the layout pre-existing stores were written with.
func SourceID() Spec {
	return Spec{Partitions: []string{filing.FieldSource}}
}

// Resolve derives the storage key. Deterministic: repeated calls with equal
// metadata yield the identical key.
func (s Spec) Resolve(f filing.Filing) (string, error) {
	segments := make([]string, 0, len(s.Partitions)+1)
	for _, field := range s.Partitions {
		v, ok := f.Get(field)
		if !ok || v == nil {
			return "", &ResolutionError{Field: field, Reason: "is missing"}
		}
		seg := sanitizeSegment(stringify(v))
		if seg == "" {
			return "", &ResolutionError{Field: field, Reason: "is empty"}
		}
		segments = append(segments, seg)
	}

	nameField := s.NameField
	if nameField == "" {
		nameField = filing.FieldName
	}
	rawName, ok := f.Get(nameField)
	if !ok || rawName == nil {
		return "", &ResolutionError{Field: nameField, Reason: "is missing"}
	}
	name := sanitizeSegment(stringify(rawName))
	if name == "" {
		return "", &ResolutionError{Field: nameField, Reason: "is empty"}
	}

	ext := s.extension(f)
	if !strings.HasSuffix(name, ext) {
		name += ext
	}

	segments = append(segments, name)
	return strings.Join(segments, "/"), nil
}

// extension implements the selection policy: the filing's format verbatim
// when set, else ".zip" for ZIP payloads, else the spec fallback.
func (s Spec) extension(f filing.Filing) string {
	if format := f.Format(); format != "" {
		return "." + strings.TrimPrefix(format, ".")
	}
	if f.IsZip() {
		return ".zip"
	}
	if s.Extension != "" {
		return "." + strings.TrimPrefix(s.Extension, ".")
	}
	return DefaultExtension
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// sanitizeSegment normalizes a metadata value into one safe path segment.
// EDINET metadata is Japanese text, so segments are NFC-normalized before
// unsafe characters are replaced; separator characters and parent-dir
// sequences cannot survive.
func sanitizeSegment(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))

	var b strings.Builder
	for _, r := range s {
		switch r {
		case '/', '\\', 0:
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()

	if out == ".." || out == "." {
		return "_"
	}
	return out
}
