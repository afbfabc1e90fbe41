package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

const dateOnlyLayout = "2006-01-02"

// TransactionRequest is the body of POST and PUT /api/transactions.
type TransactionRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Date            string          `json:"date"`
	Note            string          `json:"note"`
	Category        string          `json:"category"`
	CategoryID      string          `json:"categoryId"`
	AccountID       string          `json:"accountId"`
	TransactionType string          `json:"transactionType"`
}

// ToUseCaseInput converts to use case input. Without a transactionType the
// sign of amount decides: negative is an expense of |amount|, anything
// else is income.
func (r *TransactionRequest) ToUseCaseInput(ownerID string) (usecase.TransactionInput, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return usecase.TransactionInput{}, err
	}

	amount := r.Amount
	var txType domain.TransactionType
	if strings.TrimSpace(r.TransactionType) == "" {
		txType = domain.TransactionTypeIncome
		if amount.IsNegative() {
			txType = domain.TransactionTypeExpense
			amount = amount.Abs()
		}
	} else {
		txType, err = domain.ParseTransactionType(r.TransactionType)
		if err != nil {
			return usecase.TransactionInput{}, err
		}
	}

	return usecase.TransactionInput{
		OwnerID:    ownerID,
		Amount:     amount,
		Type:       txType,
		Date:       date,
		Note:       r.Note,
		Category:   strings.TrimSpace(r.Category),
		CategoryID: strings.TrimSpace(r.CategoryID),
		AccountID:  strings.TrimSpace(r.AccountID),
	}, nil
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates. An
// empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse(dateOnlyLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
	}

	return t, nil
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name string `json:"name"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(ownerID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerID: ownerID,
		Name:    r.Name,
	}
}

// CategoryRequest is the body of POST and PUT /api/categories.
type CategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ToUseCaseInput converts to use case input.
func (r *CategoryRequest) ToUseCaseInput(ownerID string) usecase.CategoryInput {
	return usecase.CategoryInput{
		OwnerID: ownerID,
		Name:    r.Name,
		Color:   strings.TrimSpace(r.Color),
	}
}
