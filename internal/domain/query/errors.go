package query

import "errors"

// Sentinel kinds for query parameter errors. Empty results are not errors.
var (
	ErrInvalidRange = errors.New("invalid year range")
	ErrInvalidSex   = errors.New("invalid sex selector")
	ErrInvalidLimit = errors.New("invalid limit")
)
