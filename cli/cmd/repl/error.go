package repl

import "errors"

var (
	// ErrOutOfBounds is returned by [History.At] for an index past either end.
	ErrOutOfBounds = errors.New("history index out of range")
	// ErrEditDeclined reports that the user discarded an edit that did not
	// parse.
	ErrEditDeclined = errors.New("edit declined")
)
