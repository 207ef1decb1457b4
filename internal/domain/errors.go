package domain

import "errors"

// Error kinds. Every error returned by the ledger wraps exactly one of these,
// so callers can branch with errors.Is without knowing the specific cause.
var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrConflict              = errors.New("conflict")
	ErrRecalculationTooLarge = errors.New("recalculation too large")
)

var (
	// Account errors
	ErrAccountNotFound   = newKindError(ErrNotFound, "account not found")
	ErrDuplicateAccount  = newKindError(ErrConflict, "an account with this party name already exists")
	ErrAccountHasEntries = newKindError(ErrConflict, "account still has entries")
	ErrCannotLinkSelf    = newKindError(ErrValidation, "cannot link an account to its owner")

	// Entry errors
	ErrEntryNotFound     = newKindError(ErrNotFound, "entry not found")
	ErrInvalidAmount     = newKindError(ErrValidation, "amount must be positive")
	ErrInvalidDirection  = newKindError(ErrValidation, "direction must be CREDIT or DEBIT")
	ErrMissingNarration  = newKindError(ErrValidation, "narration is required")
	ErrNarrationTooLong  = newKindError(ErrValidation, "narration is too long")
	ErrInvalidPeriod     = newKindError(ErrValidation, "invalid statement period")
	ErrNotOwner          = newKindError(ErrForbidden, "only the account owner may modify it")
	ErrNotAuthorized     = newKindError(ErrForbidden, "not authorized to view this account")
	ErrMissingIdentifier = newKindError(ErrValidation, "identifier is required")
)

type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// KindOf returns the error kind err belongs to, or nil for errors that
// did not originate in the domain (storage failures, timeouts).
func KindOf(err error) error {
	for _, kind := range []error{
		ErrValidation,
		ErrNotFound,
		ErrForbidden,
		ErrConflict,
		ErrRecalculationTooLarge,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}

	return nil
}
