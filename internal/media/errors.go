package media

import (
	"fmt"
	"strings"
)

// ConversionError aborts the whole batch: a single unconvertible file
// invalidates the submission.
type ConversionError struct {
	File string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s: %v", e.File, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// SizeLimitError names every file over the tier ceiling. Batch-fatal.
type SizeLimitError struct {
	Files []string
	Limit int64
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("files exceed the %dMB upload limit: %s",
		e.Limit/(1<<20), strings.Join(e.Files, ", "))
}
