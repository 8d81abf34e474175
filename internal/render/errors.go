package render

import "errors"

// ErrInvariantViolation is returned when a reportable, non-tainted payee
// group reaches the renderer with neither a usable account identifier nor a
// payee PSP BIC — spec §7's "indicates a bug or corrector extension point
// failure", mapped by the CLI to exit code 3.
var ErrInvariantViolation = errors.New("render: invariant violation")

// InvariantError names the offending payee group for diagnostics.
type InvariantError struct {
	PSPID   string
	PayeeID string
	Reason  string
}

func (e *InvariantError) Error() string {
	return "render: invariant violation for PSP " + e.PSPID + " payee " + e.PayeeID + ": " + e.Reason
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }
