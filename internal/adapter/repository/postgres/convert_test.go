package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/iho/trustbook/internal/domain"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "100", "-42.5", "0.0001", "123456789.987654321"} {
		d := decimal.RequireFromString(s)
		got := numericToDecimal(decimalToNumeric(d))
		if !got.Equal(d) {
			t.Errorf("round trip of %s gave %s", s, got)
		}
	}
}

func TestDateConversionDropsTimeOfDay(t *testing.T) {
	in := time.Date(2024, 3, 10, 18, 45, 0, 0, time.UTC)

	got := pgDateToTime(dateToPgDate(in))

	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	if optionalDate(nil).Valid {
		t.Fatalf("nil bound must map to NULL")
	}
}

func TestTextPointerConversion(t *testing.T) {
	if ptrFromText(textFromPtr(nil)) != nil {
		t.Fatalf("nil must stay nil")
	}

	s := "party-1"
	if got := ptrFromText(textFromPtr(&s)); got == nil || *got != s {
		t.Fatalf("expected %q, got %v", s, got)
	}
}

func TestMapConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate name", &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "accounts_owner_name_key"}, domain.ErrDuplicateAccount},
		{"self link", &pgconn.PgError{Code: pgErrCheckViolation, ConstraintName: "accounts_linked_user_check"}, domain.ErrCannotLinkSelf},
		{"non-positive amount", &pgconn.PgError{Code: pgErrCheckViolation, ConstraintName: "entries_amount_positive"}, domain.ErrInvalidAmount},
		{"unknown check", &pgconn.PgError{Code: pgErrCheckViolation, ConstraintName: "other"}, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapConstraintError(tt.err); !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	plain := errors.New("boom")
	if got := mapConstraintError(plain); got != plain {
		t.Fatalf("unrelated errors must pass through, got %v", got)
	}
}
