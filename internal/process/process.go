// Package process terminates the headless browser's process tree when the
// exporter shuts down.
package process

import "errors"

// ErrInvalidPID guards against pid 0 and negatives, which would signal the
// caller's own group or arbitrary groups.
var ErrInvalidPID = errors.New("invalid pid")
