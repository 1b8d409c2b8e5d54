package collection

import (
	"errors"
	"fmt"
)

// ChecksumError reports a mismatch between a filing's declared checksum
// and the digest of the content actually seen.
type ChecksumError struct {
	FilingID string
	Expected string
	Actual   string
	Op       string // "add" or "read"
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%s %s: checksum mismatch: declared %s, computed %s",
		e.Op, e.FilingID, e.Expected, e.Actual)
}

// IsChecksumError reports whether err is a checksum mismatch.
func IsChecksumError(err error) bool {
	var ce *ChecksumError
	return errors.As(err, &ce)
}
