package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrBalanceNotFound     = errors.New("balance not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCreditCardNotFound  = errors.New("credit card not found")
	ErrBillNotFound        = errors.New("bill not found")
	ErrCommitmentNotFound  = errors.New("commitment not found")
	ErrIncomeNotFound      = errors.New("income not found")

	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")

	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrInvalidAccountKind       = errors.New("invalid account kind")
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
	ErrInvalidCategory          = errors.New("invalid category")
	ErrInvalidFrequency         = errors.New("invalid frequency")
	ErrInvalidDueDay            = errors.New("due day must be between 1 and 31")
	ErrInvalidClosingDay        = errors.New("closing day must be between 1 and 31")
	ErrInvalidInstallmentCount  = errors.New("installment count must be between 2 and 48")
	ErrInvalidIncomeType        = errors.New("invalid income type")

	ErrSameBalanceTransfer  = errors.New("cannot transfer to the same balance")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrMainBalanceExists    = errors.New("account already has a main balance")
	ErrNotInstallmentParent = errors.New("transaction is not an installment parent")
	ErrBillAlreadyExists    = errors.New("bill already exists for this cycle")

	ErrUnsupportedStatementFormat = errors.New("unsupported statement format")
	ErrEmptyImport                = errors.New("no statement rows selected for import")
)

// Validation constants
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
)
