package source

import "errors"

// ErrFetch wraps every failure to obtain the archive bytes.
var ErrFetch = errors.New("archive fetch failed")
