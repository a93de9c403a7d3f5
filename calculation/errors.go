package calculation

import "errors"

// Error kinds. Every failure returned by symgen wraps exactly one of these,
// so callers tell them apart with errors.Is.
var (
	// ErrShape reports an element count or vector shape mismatch.
	ErrShape = errors.New("shape error")
	// ErrType reports a value of the wrong kind, such as a non-symbol target.
	ErrType = errors.New("type error")
	// ErrState reports access to an artifact whose setup step has not run.
	ErrState = errors.New("state error")
)
