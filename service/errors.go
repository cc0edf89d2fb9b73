package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/repository"
)

var (
	ErrFailedValidation     = errors.New("failed validation")
	ErrRecordNotFound       = errors.New("record not found")
	ErrEditConflict         = errors.New("edit conflict")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrReferenceNotFound    = errors.New("referenced record not found")
	ErrAssetStore           = errors.New("asset store failure")
	ErrPersistence          = errors.New("persistence failure")
	ErrLookupInUse          = errors.New("lookup is still referenced")
	ErrOutstandingLoans     = errors.New("reader has unreturned books")

	ErrDuplicateRecord = errors.New("duplicate record")
	ErrDuplicateISBN   = fmt.Errorf("%w: a book with this isbn already exists", ErrDuplicateRecord)
	ErrDuplicateReader = fmt.Errorf("%w: a reader with this email or phone already exists", ErrDuplicateRecord)
	ErrDuplicateLookup = fmt.Errorf("%w: an entry with this name already exists", ErrDuplicateRecord)
	ErrDuplicateEmail  = fmt.Errorf("%w: this email address is already in use", ErrDuplicateRecord)
	ErrDuplicatePhone  = fmt.Errorf("%w: this phone number is already in use", ErrDuplicateRecord)
)

// Borrowing rule violations.
var (
	ErrBookUnavailable    = data.ErrBookUnavailable
	ErrReferenceOnly      = data.ErrReferenceOnly
	ErrReaderInactive     = data.ErrReaderInactive
	ErrReaderBlacklisted  = data.ErrReaderBlacklisted
	ErrMembershipExpired  = data.ErrMembershipExpired
	ErrLoanLimitReached   = data.ErrLoanLimitReached
	ErrAlreadyBorrowed    = data.ErrAlreadyBorrowed
	ErrAlreadyReturned    = data.ErrAlreadyReturned
	ErrInvalidFinePayment = data.ErrInvalidFinePayment
)

// ValidationError carries the failed fields and their messages.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Errors[k]))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrFailedValidation
}

// failedValidation wraps a validator's error map into a ValidationError.
func failedValidation(errorMap map[string]string) error {
	return &ValidationError{Errors: errorMap}
}

func referenceNotFound(field string) error {
	return fmt.Errorf("%w: %s", ErrReferenceNotFound, field)
}

// persistenceFailure maps repository errors that have no domain meaning.
func persistenceFailure(err error) error {
	switch {
	case errors.Is(err, repository.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, repository.ErrEditConflict):
		return ErrEditConflict
	default:
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
}
