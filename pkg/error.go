package pkg

import (
	"strings"
)

// Error is a flattened list of errors, innermost first. It reports every
// failure of a batch where [errors.Join] would nest them.
type Error []error

// MakeError flattens errs into an [Error], dropping nils. It returns nil when
// nothing remains.
func MakeError(errs ...error) error {
	var e Error

	for _, err := range errs {
		if err == nil {
			continue
		}

		if chain, ok := err.(Error); ok {
			e = append(e, chain...)
		} else {
			e = append(e, err)
		}
	}

	if len(e) == 0 {
		return nil
	}

	return e
}

// Error joins the messages of all errors with "; ".
func (e Error) Error() string {
	parts := make([]string, len(e))
	for i, err := range e {
		parts[i] = err.Error()
	}

	return strings.Join(parts, "; ")
}

// Unwrap returns the contained errors for [errors.Is] and [errors.As].
func (e Error) Unwrap() []error { return e }
