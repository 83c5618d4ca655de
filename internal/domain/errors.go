package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// record does not exist in the database (e.g. completing a reminder whose id
// has gone stale between the menu render and the button press).
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation. The bot layer maps it to a corrective re-prompt; it is
// never fatal.
var ErrValidation = errors.New("validation error")

// The specific validation failures wrap ErrValidation so callers can match
// either the exact cause or the general class with errors.Is.
var (
	// ErrInvalidFrequency rejects reminder frequencies that are zero or negative.
	ErrInvalidFrequency = fmt.Errorf("%w: frequency must be greater than zero", ErrValidation)

	// ErrInvalidDate rejects dates that do not parse as DD-MM-YYYY (user input)
	// or YYYY-MM-DD (internal representation).
	ErrInvalidDate = fmt.Errorf("%w: invalid date", ErrValidation)

	// ErrInvalidDistance rejects odometer and distance values that are
	// negative or not numeric.
	ErrInvalidDistance = fmt.Errorf("%w: invalid distance", ErrValidation)
)
