package domain

import "errors"

// Error kinds. Every specific error below unwraps to exactly one of them.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrIntegrity  = errors.New("integrity error")
)

// Error is a domain error tagged with its kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Unwrap returns the kind so errors.Is(err, ErrNotFound) matches.
func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// KindOf returns the kind sentinel err belongs to, or nil for foreign errors.
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrIntegrity} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

var (
	// Account errors
	ErrAccountNotFound = newError(ErrNotFound, "account not found")
	ErrAccountArchived = newError(ErrNotFound, "account is archived")

	// Party errors
	ErrPartyNotFound    = newError(ErrNotFound, "party not found")
	ErrPartyArchived    = newError(ErrNotFound, "party is archived")
	ErrInvalidPartyKind = newError(ErrValidation, "party kind must be customer or supplier")

	// Transaction errors
	ErrTransactionNotFound    = newError(ErrNotFound, "transaction not found")
	ErrInvalidAmount          = newError(ErrValidation, "amount must be positive")
	ErrInvalidType            = newError(ErrValidation, "type must be debit or credit")
	ErrInvalidDate            = newError(ErrValidation, "date is required")
	ErrDuplicateRequest       = newError(ErrConflict, "client request id already used with a different payload")
	ErrTransferLegImmutable   = newError(ErrValidation, "transfer legs cannot change account or type")
	ErrTransactionDeleted     = newError(ErrConflict, "transaction is deleted")
	ErrConcurrentModification = newError(ErrConflict, "transaction was modified concurrently")

	// Transfer errors
	ErrSameAccount      = newError(ErrValidation, "cannot transfer to same account")
	ErrCurrencyMismatch = newError(ErrValidation, "cannot transfer between different currencies")
	ErrTransferNotFound = newError(ErrNotFound, "transfer not found")

	// Invoice errors
	ErrInvoiceNotFound      = newError(ErrNotFound, "invoice not found")
	ErrInvoiceNotIssued     = newError(ErrValidation, "invoice is a draft and cannot take payments")
	ErrInvoiceClosed        = newError(ErrConflict, "invoice is paid or cancelled")
	ErrOverpayment          = newError(ErrValidation, "payment exceeds balance due")
	ErrInvoiceHasPayments   = newError(ErrConflict, "invoice has payments and cannot be cancelled")
	ErrInvalidInvoiceKind   = newError(ErrValidation, "invoice kind must be sale or purchase")
	ErrInvoiceStateMismatch = newError(ErrConflict, "invoice is not in a state that allows this operation")
	ErrPaymentTypeImmutable = newError(ErrValidation, "invoice payments cannot change type")

	// Ledger integrity
	ErrDanglingReference = newError(ErrIntegrity, "transaction references a missing entity")
)
