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
	ErrInvalidAccountName  = errors.New("invalid account name")
	ErrInvalidCategoryName = errors.New("invalid category name")
	ErrInvalidColor        = errors.New("color must be a hex value like #0A84FF")
	ErrInvalidNote         = errors.New("note is too long")
	ErrInvalidOwnerID      = errors.New("invalid owner id")
	ErrAmountTooLarge      = errors.New("amount exceeds maximum allowed")
	ErrAmountPrecision     = errors.New("amount has more than two decimal places")
)

// Validation constants
const (
	MaxAccountNameLength  = 100
	MaxCategoryNameLength = 50
	MaxNoteLength         = 255
	MaxOwnerIDLength      = 64
	MaxTransactionAmount  = "1000000000" // 1 billion
	AmountScale           = 2
)

var colorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	return validateName(name, MaxAccountNameLength, ErrInvalidAccountName)
}

// ValidateCategoryName validates category name
func ValidateCategoryName(name string) error {
	return validateName(name, MaxCategoryNameLength, ErrInvalidCategoryName)
}

func validateName(name string, maxLen int, sentinel error) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", sentinel)
	}

	if utf8.RuneCountInString(name) > maxLen {
		return fmt.Errorf("%w: name exceeds %d characters", sentinel, maxLen)
	}

	return nil
}

// ValidateColor accepts #RRGGBB. An empty color is valid and means default.
func ValidateColor(color string) error {
	if color == "" {
		return nil
	}

	if !colorRegex.MatchString(color) {
		return fmt.Errorf("%w: got %q", ErrInvalidColor, color)
	}

	return nil
}

// ValidateNote validates the free-text transaction note
func ValidateNote(note string) error {
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return fmt.Errorf("%w: maximum is %d characters", ErrInvalidNote, MaxNoteLength)
	}

	return nil
}

// ValidateOwnerID validates the caller identity taken from the request
func ValidateOwnerID(ownerID string) error {
	if ownerID == "" || len(ownerID) > MaxOwnerIDLength {
		return ErrInvalidOwnerID
	}

	return nil
}

// ValidateAmount validates a transaction magnitude
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Round(AmountScale)) {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, ErrAmountPrecision)
	}

	maxAmount, _ := decimal.NewFromString(MaxTransactionAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: %w: maximum amount is %s", ErrInvalidAmount, ErrAmountTooLarge, MaxTransactionAmount)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 100

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
