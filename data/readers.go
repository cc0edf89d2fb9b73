package data

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/base32"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/emzola/athenaeum/internal/validator"
	"github.com/google/uuid"
)

const (
	MembershipBasic   = "basic"
	MembershipPremium = "premium"
	MembershipGold    = "gold"
)

var MembershipTypes = []string{MembershipBasic, MembershipPremium, MembershipGold}

// LoanLimit returns how many unreturned books a membership allows.
func LoanLimit(membershipType string) int {
	switch membershipType {
	case MembershipGold:
		return 10
	case MembershipPremium:
		return 5
	default:
		return 3
	}
}

// Address is a reader's postal address, stored as JSONB.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zip_code"`
}

func (a Address) Value() (driver.Value, error) {
	return documentValue(a)
}

func (a *Address) Scan(src any) error {
	return scanDocument(src, a)
}

// Merge returns a copy of a where every non-empty field of patch replaces
// the existing value.
func (a Address) Merge(patch Address) Address {
	merged := a
	if patch.Street != "" {
		merged.Street = patch.Street
	}
	if patch.City != "" {
		merged.City = patch.City
	}
	if patch.State != "" {
		merged.State = patch.State
	}
	if patch.Country != "" {
		merged.Country = patch.Country
	}
	if patch.ZipCode != "" {
		merged.ZipCode = patch.ZipCode
	}
	return merged
}

// BorrowEntry records one loan of one copy.
type BorrowEntry struct {
	ID         uuid.UUID  `json:"id"`
	BookID     uuid.UUID  `json:"book_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
	IsReturned bool       `json:"is_returned"`
	Fine       float64    `json:"fine"`
}

// BorrowEntries is the loan history of a reader, stored as JSONB.
type BorrowEntries []BorrowEntry

func (e BorrowEntries) Value() (driver.Value, error) {
	if e == nil {
		e = BorrowEntries{}
	}
	return documentValue(e)
}

func (e *BorrowEntries) Scan(src any) error {
	return scanDocument(src, e)
}

// Reader defines a library member and their loan ledger.
type Reader struct {
	ID                  uuid.UUID     `json:"id" db:"id"`
	FirstName           string        `json:"first_name" db:"first_name"`
	LastName            string        `json:"last_name" db:"last_name"`
	Email               string        `json:"email" db:"email"`
	Phone               string        `json:"phone" db:"phone"`
	Address             Address       `json:"address" db:"address"`
	DateOfBirth         time.Time     `json:"date_of_birth" db:"date_of_birth"`
	MembershipID        string        `json:"membership_id" db:"membership_id"`
	MembershipType      string        `json:"membership_type" db:"membership_type"`
	MembershipStartDate time.Time     `json:"membership_start_date" db:"membership_start_date"`
	MembershipEndDate   *time.Time    `json:"membership_end_date,omitempty" db:"membership_end_date"`
	IsActive            bool          `json:"is_active" db:"is_active"`
	IsBlacklisted       bool          `json:"is_blacklisted" db:"is_blacklisted"`
	BlacklistReason     string        `json:"blacklist_reason,omitempty" db:"blacklist_reason"`
	BorrowedBooks       BorrowEntries `json:"borrowed_books" db:"borrowed_books"`
	TotalFine           float64       `json:"total_fine" db:"total_fine"`
	TotalBooksBorrowed  int           `json:"total_books_borrowed" db:"total_books_borrowed"`
	CreatedAt           time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at" db:"updated_at"`
	Version             int32         `json:"-" db:"version"`
}

// Outstanding returns the entries that have not been returned yet.
func (r *Reader) Outstanding() []BorrowEntry {
	var entries []BorrowEntry
	for _, e := range r.BorrowedBooks {
		if !e.IsReturned {
			entries = append(entries, e)
		}
	}
	return entries
}

// Entry returns the borrow entry with the given id.
func (r *Reader) Entry(entryID uuid.UUID) (*BorrowEntry, bool) {
	for i := range r.BorrowedBooks {
		if r.BorrowedBooks[i].ID == entryID {
			return &r.BorrowedBooks[i], true
		}
	}
	return nil, false
}

// CanBorrow checks the reader side of the borrowing rules.
func (r *Reader) CanBorrow(bookID uuid.UUID, now time.Time) error {
	switch {
	case !r.IsActive:
		return ErrReaderInactive
	case r.IsBlacklisted:
		return ErrReaderBlacklisted
	case r.membershipExpired(now):
		return ErrMembershipExpired
	}
	outstanding := r.Outstanding()
	for _, e := range outstanding {
		if e.BookID == bookID {
			return ErrAlreadyBorrowed
		}
	}
	if len(outstanding) >= LoanLimit(r.MembershipType) {
		return ErrLoanLimitReached
	}
	return nil
}

// membershipExpired reports whether now is past the last day of the
// membership. The end date itself is still a valid day.
func (r *Reader) membershipExpired(now time.Time) bool {
	if r.MembershipEndDate == nil {
		return false
	}
	end := *r.MembershipEndDate
	y, m, d := end.Date()
	nextDay := time.Date(y, m, d, 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)
	return !now.Before(nextDay)
}

// Borrow lends one copy of book to the reader, due period after now. Nothing
// is changed when a rule rejects the loan.
func (r *Reader) Borrow(book *Book, now time.Time, period time.Duration) (BorrowEntry, error) {
	if err := r.CanBorrow(book.ID, now); err != nil {
		return BorrowEntry{}, err
	}
	if err := book.Lend(); err != nil {
		return BorrowEntry{}, err
	}
	entry := BorrowEntry{
		ID:         uuid.New(),
		BookID:     book.ID,
		BorrowDate: now,
		DueDate:    now.Add(period),
	}
	r.BorrowedBooks = append(r.BorrowedBooks, entry)
	r.TotalBooksBorrowed++
	r.UpdatedAt = now
	book.UpdatedAt = now
	return entry, nil
}

// Return closes the borrow entry, charges any overdue fine and restocks
// book. book may be nil when the title has since been deleted.
func (r *Reader) Return(entryID uuid.UUID, book *Book, now time.Time, finePerDay float64) (BorrowEntry, error) {
	entry, ok := r.Entry(entryID)
	if !ok {
		return BorrowEntry{}, ErrBorrowEntryMissing
	}
	if entry.IsReturned {
		return BorrowEntry{}, ErrAlreadyReturned
	}
	returned := now
	entry.ReturnDate = &returned
	entry.IsReturned = true
	entry.Fine = Fine(entry.DueDate, returned, finePerDay)
	r.TotalFine = roundMoney(r.TotalFine + entry.Fine)
	r.UpdatedAt = now
	if book != nil && book.ID == entry.BookID {
		book.Restock()
		book.UpdatedAt = now
	}
	return *entry, nil
}

// PayFine settles part or all of the outstanding fine and returns the amount
// actually applied, rounded to cents.
func (r *Reader) PayFine(amount float64, now time.Time) (float64, error) {
	amount = roundMoney(amount)
	if amount <= 0 || amount > r.TotalFine {
		return 0, ErrInvalidFinePayment
	}
	r.TotalFine = roundMoney(r.TotalFine - amount)
	r.UpdatedAt = now
	return amount, nil
}

// OverdueDays is the number of started days between due and returned, or
// zero when returned is not after due.
func OverdueDays(due, returned time.Time) int {
	late := returned.Sub(due)
	if late <= 0 {
		return 0
	}
	return int(math.Ceil(late.Hours() / 24))
}

func Fine(due, returned time.Time, finePerDay float64) float64 {
	return roundMoney(float64(OverdueDays(due, returned)) * finePerDay)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// GenerateMembershipID returns an id of the form LIB-<year>-<random>.
func GenerateMembershipID(now time.Time) (string, error) {
	suffix, err := randomCode(5)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LIB-%d-%s", now.Year(), suffix), nil
}

func randomCode(n int) (string, error) {
	randomBytes := make([]byte, n)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes), nil
}

func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}

func ValidatePhone(v *validator.Validator, phone string) {
	v.Check(phone != "", "phone", "must be provided")
	v.Check(validator.Matches(phone, validator.PhoneRX), "phone", "must be a valid phone number")
}

func ValidateReader(v *validator.Validator, reader *Reader) {
	v.Check(strings.TrimSpace(reader.FirstName) != "", "first_name", "must be provided")
	v.Check(len(reader.FirstName) <= 100, "first_name", "must not be more than 100 bytes long")
	v.Check(strings.TrimSpace(reader.LastName) != "", "last_name", "must be provided")
	v.Check(len(reader.LastName) <= 100, "last_name", "must not be more than 100 bytes long")
	ValidateEmail(v, reader.Email)
	ValidatePhone(v, reader.Phone)
	v.Check(reader.Address.Street != "", "address.street", "must be provided")
	v.Check(reader.Address.City != "", "address.city", "must be provided")
	v.Check(reader.Address.State != "", "address.state", "must be provided")
	v.Check(reader.Address.ZipCode != "", "address.zip_code", "must be provided")
	v.Check(!reader.DateOfBirth.IsZero(), "date_of_birth", "must be provided")
	v.Check(reader.DateOfBirth.Before(time.Now()), "date_of_birth", "must be in the past")
	v.Check(validator.In(reader.MembershipType, MembershipTypes...), "membership_type", "must be basic, premium or gold")
	if reader.MembershipEndDate != nil {
		v.Check(reader.MembershipEndDate.After(reader.MembershipStartDate), "membership_end_date", "must be after the start date")
	}
	v.Check(reader.TotalFine >= 0, "total_fine", "must not be negative")
	if reader.IsBlacklisted {
		v.Check(len(reader.BlacklistReason) <= 500, "blacklist_reason", "must not be more than 500 bytes long")
	}
}
