package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = newKindError(ErrValidation, "invalid account name")
	ErrInvalidEmail       = newKindError(ErrValidation, "invalid email format")
	ErrDescriptionTooLong = newKindError(ErrValidation, "description is too long")
	ErrAmountTooLarge     = newKindError(ErrValidation, "amount exceeds maximum allowed")
	ErrAmountTooSmall     = newKindError(ErrValidation, "amount below minimum allowed")
)

// Validation constants
const (
	MaxAccountNameLength = 100
	MaxDescriptionLength = 200
	MaxNarrationLength   = 200
	MinEntryAmount       = "0.01"
	MaxEntryAmount       = "1000000000000" // 1 trillion
	DefaultPageSize      = 50
	MaxPageSize          = 500
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	minEntryAmount = decimal.RequireFromString(MinEntryAmount)
	maxEntryAmount = decimal.RequireFromString(MaxEntryAmount)
)

// ValidateAccountName validates a party name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: party name is required", ErrInvalidAccountName)
	}

	if utf8.RuneCountInString(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateDescription validates an optional account description.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(strings.TrimSpace(description)) > MaxDescriptionLength {
		return fmt.Errorf("%w: limit is %d characters", ErrDescriptionTooLong, MaxDescriptionLength)
	}
	return nil
}

// ValidateNarration validates entry narration.
func ValidateNarration(narration string) error {
	narration = strings.TrimSpace(narration)

	if narration == "" {
		return ErrMissingNarration
	}

	if utf8.RuneCountInString(narration) > MaxNarrationLength {
		return fmt.Errorf("%w: limit is %d characters", ErrNarrationTooLong, MaxNarrationLength)
	}

	return nil
}

// ValidateAmount validates an entry amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.LessThan(minEntryAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinEntryAmount)
	}

	if amount.GreaterThan(maxEntryAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxEntryAmount)
	}

	return nil
}

// ValidateEmail validates an optional contact email. Empty is allowed.
func ValidateEmail(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return nil
	}

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePagination converts a 1-based page and page size into limit and
// offset, clamping out-of-range values.
func ValidatePagination(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return pageSize, (page - 1) * pageSize
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
