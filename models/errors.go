package models

import "errors"

// ErrInsufficientData reports that a price series is too short for the
// requested computation. It is structural: callers must supply more
// history, retrying cannot help.
var ErrInsufficientData = errors.New("insufficient data")
