package calendar

import "errors"

var (
	// ErrInput marks malformed or out-of-range arguments.
	ErrInput = errors.New("invalid input")
	// ErrDataUnavailable marks a failed holiday lookup.
	ErrDataUnavailable = errors.New("holiday data unavailable")
	// ErrWalkLimit marks a walk that crossed more consecutive non-working
	// days than the configured maximum.
	ErrWalkLimit = errors.New("no working day within walk limit")
)
