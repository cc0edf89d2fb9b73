package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrEditConflict    = errors.New("edit conflict")
	ErrDuplicateRecord = errors.New("duplicate record")
	ErrInvalidCopies   = errors.New("available copies out of range")

	ErrDuplicateISBN         = fmt.Errorf("%w: isbn", ErrDuplicateRecord)
	ErrDuplicateEmail        = fmt.Errorf("%w: email", ErrDuplicateRecord)
	ErrDuplicatePhone        = fmt.Errorf("%w: phone", ErrDuplicateRecord)
	ErrDuplicateMembershipID = fmt.Errorf("%w: membership id", ErrDuplicateRecord)
	ErrDuplicateLookup       = fmt.Errorf("%w: lookup", ErrDuplicateRecord)
	ErrDuplicateTransaction  = fmt.Errorf("%w: transaction id", ErrDuplicateRecord)
)

const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
)

var constraintErrors = map[string]error{
	"books_isbn_key":                  ErrDuplicateISBN,
	"books_copies_check":              ErrInvalidCopies,
	"readers_email_key":               ErrDuplicateEmail,
	"readers_phone_key":               ErrDuplicatePhone,
	"readers_membership_id_key":       ErrDuplicateMembershipID,
	"lookups_kind_alias_key":          ErrDuplicateLookup,
	"lookups_kind_name_key":           ErrDuplicateLookup,
	"admins_email_key":                ErrDuplicateEmail,
	"transactions_transaction_id_key": ErrDuplicateTransaction,
}

// translate maps driver errors onto the repository's sentinel errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecordNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation, checkViolation:
			if mapped, ok := constraintErrors[pqErr.Constraint]; ok {
				return mapped
			}
			if pqErr.Code == uniqueViolation {
				return fmt.Errorf("%w: %s", ErrDuplicateRecord, pqErr.Constraint)
			}
		}
	}
	return err
}
