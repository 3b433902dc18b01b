package fit

import (
	"errors"
	"fmt"

	"matdemand/internal/material"
)

// Error is a fatal regression failure for one material. There is no
// fallback to default coefficients.
type Error struct {
	Material     material.Material
	FirstYear    int
	LastYear     int
	Observations int
	Iterations   int
	Reason       string
	Err          error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fit %s (%d observations, %d-%d): %s",
		e.Material, e.Observations, e.FirstYear, e.LastYear, e.Reason)
	if e.Iterations > 0 {
		msg += fmt.Sprintf(" after %d iterations", e.Iterations)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsFittingError reports whether err is, or wraps, an *Error.
func IsFittingError(err error) bool {
	var fe *Error
	return errors.As(err, &fe)
}
