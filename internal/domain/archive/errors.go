package archive

import (
	"errors"
	"fmt"
)

// Sentinel kinds for archive errors.
var (
	ErrMalformedArchive  = errors.New("malformed archive")
	ErrMalformedFilename = errors.New("malformed filename")
	ErrMalformedRecord   = errors.New("malformed record")
)

// FilenameError reports a .txt entry whose name does not carry a year.
type FilenameError struct {
	Name string
}

func (e *FilenameError) Error() string {
	return fmt.Sprintf("%s: %q: want %d-char prefix then a 4-digit year", ErrMalformedFilename, e.Name, yearOffset)
}

func (e *FilenameError) Unwrap() error { return ErrMalformedFilename }

// RecordError reports a line that is not name,sex,count.
type RecordError struct {
	File   string
	Line   int
	Reason string
	Err    error
}

func (e *RecordError) Error() string {
	msg := fmt.Sprintf("%s: %s:%d: %s", ErrMalformedRecord, e.File, e.Line, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RecordError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedRecord}
	}
	return []error{ErrMalformedRecord, e.Err}
}
