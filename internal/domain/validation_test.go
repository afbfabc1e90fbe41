package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAccountName(t *testing.T) {
	t.Parallel()

	t.Run("valid name", func(t *testing.T) {
		if err := ValidateAccountName("Checking"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := ValidateAccountName("   ")
		if !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
	})

	t.Run("name too long", func(t *testing.T) {
		tooLong := strings.Repeat("a", MaxAccountNameLength+1)
		err := ValidateAccountName(tooLong)
		if !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
	})

	t.Run("multibyte names count runes", func(t *testing.T) {
		if err := ValidateAccountName(strings.Repeat("é", MaxAccountNameLength)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestValidateCategoryName(t *testing.T) {
	t.Parallel()

	if err := ValidateCategoryName("Groceries"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := ValidateCategoryName(strings.Repeat("b", MaxCategoryNameLength+1)); !errors.Is(err, ErrInvalidCategoryName) {
		t.Fatalf("expected ErrInvalidCategoryName, got %v", err)
	}
}

func TestValidateColor(t *testing.T) {
	t.Parallel()

	for _, c := range []string{"", "#0A84FF", "#ffffff"} {
		if err := ValidateColor(c); err != nil {
			t.Errorf("%q: expected valid, got %v", c, err)
		}
	}
	for _, c := range []string{"0A84FF", "#0A84F", "#GGGGGG", "red"} {
		if err := ValidateColor(c); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("%q: expected ErrInvalidColor, got %v", c, err)
		}
	}
}

func TestValidateOwnerID(t *testing.T) {
	t.Parallel()

	if err := ValidateOwnerID("owner-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := ValidateOwnerID(""); !errors.Is(err, ErrInvalidOwnerID) {
		t.Fatalf("expected ErrInvalidOwnerID, got %v", err)
	}
	if err := ValidateOwnerID(strings.Repeat("x", MaxOwnerIDLength+1)); !errors.Is(err, ErrInvalidOwnerID) {
		t.Fatalf("expected ErrInvalidOwnerID, got %v", err)
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	valid := decimal.RequireFromString("100.25")
	if err := ValidateAmount(valid); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.RequireFromString("1.500")); err != nil {
		t.Fatalf("trailing zeros should not count as precision, got %v", err)
	}

	tests := []struct {
		name   string
		amount decimal.Decimal
		extra  error
	}{
		{"zero", decimal.Zero, nil},
		{"negative", decimal.NewFromInt(-1), nil},
		{"three decimals", decimal.RequireFromString("0.001"), ErrAmountPrecision},
		{"too large", decimal.RequireFromString("1000000000.01"), ErrAmountTooLarge},
	}

	for _, tt := range tests {
		err := ValidateAmount(tt.amount)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("%s: expected ErrInvalidAmount, got %v", tt.name, err)
		}
		if tt.extra != nil && !errors.Is(err, tt.extra) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.extra, err)
		}
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	limit, offset := ValidatePagination(0, -5)
	if limit != 100 || offset != 0 {
		t.Fatalf("expected defaults (100,0), got (%d,%d)", limit, offset)
	}

	limit, _ = ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Fatalf("expected limit capped to 1000, got %d", limit)
	}
}
