package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies attendance processing failures.
type ErrorType string

const (
	ErrTypeMissingColumn  ErrorType = "MISSING_COLUMN"
	ErrTypeDateParse      ErrorType = "DATE_PARSE"
	ErrTypeDateExtraction ErrorType = "DATE_EXTRACTION"
	ErrTypeEmptyResult    ErrorType = "EMPTY_RESULT"
	ErrTypeDecode         ErrorType = "DECODE"
	ErrTypeConfig         ErrorType = "CONFIG"
)

// MissingColumnError reports that no uploaded header resolved to a required
// canonical field. It aborts the whole pipeline run.
type MissingColumnError struct {
	Field string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Field)
}

// EmptyResultError reports that every employee-day group ended up empty or
// unparseable. The pipeline aborts rather than returning an empty table.
type EmptyResultError struct{}

func (e *EmptyResultError) Error() string {
	return "no attendance records could be produced from the input"
}

// Row-local and group-local failures. These are absorbed inside their
// pipeline stage and never surface individually; only their aggregate
// effect (fewer rows) is visible to the caller.
var (
	ErrDateParse      = errors.New("timestamp did not match any accepted format")
	ErrDateExtraction = errors.New("no calendar date substring in timestamp text")
)

// DecodeError reports that an uploaded file could not be decoded with any
// of the supported charsets. Per-file it is recoverable; a run with zero
// decodable files is fatal.
type DecodeError struct {
	Filename string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unsupported encoding: %s", e.Filename)
}

// IsFatal reports whether err must abort the whole pipeline invocation.
func IsFatal(err error) bool {
	var mc *MissingColumnError
	var er *EmptyResultError
	return errors.As(err, &mc) || errors.As(err, &er)
}

// TypeOf maps an error to its taxonomy type, or "" for untyped errors.
func TypeOf(err error) ErrorType {
	var mc *MissingColumnError
	var er *EmptyResultError
	var de *DecodeError
	switch {
	case errors.As(err, &mc):
		return ErrTypeMissingColumn
	case errors.As(err, &er):
		return ErrTypeEmptyResult
	case errors.As(err, &de):
		return ErrTypeDecode
	case errors.Is(err, ErrDateParse):
		return ErrTypeDateParse
	case errors.Is(err, ErrDateExtraction):
		return ErrTypeDateExtraction
	}
	return ""
}
