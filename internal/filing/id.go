package filing

import (
	"fmt"
	"strings"
)

// checksumPrefixLen is the number of checksum hex digits embedded in a
// standard filing ID. Eight digits keep IDs short with negligible
// collision risk inside one source.
const checksumPrefixLen = 8

// StandardID derives the composite filing identifier
// "{source}:{sourceID}:{checksum prefix}". The same inputs always produce
// the same ID.
func StandardID(source, sourceID, checksum string) string {
	prefix := strings.ToLower(checksum)
	if len(prefix) > checksumPrefixLen {
		prefix = prefix[:checksumPrefixLen]
	}
	return fmt.Sprintf("%s:%s:%s", source, sourceID, prefix)
}

// IDParts is a parsed standard filing identifier.
type IDParts struct {
	Source         string
	SourceID       string
	ChecksumPrefix string
}

// ParseID splits a standard filing identifier into its parts.
func ParseID(id string) (IDParts, error) {
	parts := strings.Split(id, ":")
	if len(parts) != 3 {
		return IDParts{}, fmt.Errorf("invalid filing id %q: want source:source_id:checksum_prefix", id)
	}
	return IDParts{
		Source:         parts[0],
		SourceID:       parts[1],
		ChecksumPrefix: parts[2],
	}, nil
}
