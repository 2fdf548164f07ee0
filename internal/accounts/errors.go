package accounts

import (
	"errors"
	"fmt"

	"resume-tailor/internal/shared/apperr"
)

// ErrNotFound indicates no account record exists for the user.
var ErrNotFound = errors.New("account not found")

// DeductionCause tells why a conditional deduction matched no record.
type DeductionCause int

const (
	CauseLowBalance DeductionCause = iota + 1
	CauseNoAccount
)

func (c DeductionCause) String() string {
	switch c {
	case CauseLowBalance:
		return "low_balance"
	case CauseNoAccount:
		return "no_account"
	default:
		return "unknown"
	}
}

// DeductionError is returned when a deduction matched zero records. Both
// causes report as apperr.ErrInsufficientCredits.
type DeductionError struct {
	Cause DeductionCause
}

func (e *DeductionError) Error() string {
	return fmt.Sprintf("insufficient credits (%s)", e.Cause)
}

// Is collapses every cause to the public insufficient-credits kind.
func (e *DeductionError) Is(target error) bool {
	return target == apperr.ErrInsufficientCredits
}
