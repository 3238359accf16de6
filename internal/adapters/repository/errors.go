package repository

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrNotLoaded = errors.New("snapshot not loaded")
)
