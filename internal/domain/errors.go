package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInUse    = errors.New("account is referenced by transactions")
	ErrInvalidAccount  = errors.New("invalid account")

	// Category errors
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryInUse     = errors.New("category is referenced by transactions")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrDuplicateCategory = errors.New("category already exists")

	// Transaction errors
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidTransactionType = errors.New("transaction type must be income or expense")
	ErrInvalidDate            = errors.New("invalid date")

	// Report errors
	ErrInvalidReportType = errors.New("invalid report type")
	ErrInvalidTimeRange  = errors.New("invalid time range")
)
