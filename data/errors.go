package data

import "errors"

// Borrowing rule violations raised by the domain methods on Book and Reader.
var (
	ErrBookUnavailable    = errors.New("no copies of this book are available")
	ErrReferenceOnly      = errors.New("reference books cannot be borrowed")
	ErrReaderInactive     = errors.New("reader account is inactive")
	ErrReaderBlacklisted  = errors.New("reader is blacklisted")
	ErrMembershipExpired  = errors.New("reader membership has expired")
	ErrLoanLimitReached   = errors.New("reader has reached the loan limit for their membership")
	ErrAlreadyBorrowed    = errors.New("reader already holds an unreturned copy of this book")
	ErrAlreadyReturned    = errors.New("book has already been returned")
	ErrBorrowEntryMissing = errors.New("borrow entry not found")
	ErrInvalidFinePayment = errors.New("payment must be greater than zero and not exceed the outstanding fine")
)
