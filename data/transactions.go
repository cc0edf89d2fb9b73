package data

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	TransactionBorrow      = "borrow"
	TransactionReturn      = "return"
	TransactionFinePayment = "fine-payment"
)

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

const (
	PaymentNone   = "none"
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentUPI    = "upi"
	PaymentOnline = "online"
)

var PaymentMethods = []string{PaymentCash, PaymentCard, PaymentUPI, PaymentOnline}

// Transaction is an append-only record of a borrow, a return or a fine payment.
type Transaction struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	TransactionID   string     `json:"transaction_id" db:"transaction_id"`
	ReaderID        uuid.UUID  `json:"reader" db:"reader_id"`
	BookID          *uuid.UUID `json:"book,omitempty" db:"book_id"`
	Type            string     `json:"transaction_type" db:"transaction_type"`
	Amount          float64    `json:"amount" db:"amount"`
	PaymentMethod   string     `json:"payment_method" db:"payment_method"`
	Status          string     `json:"status" db:"status"`
	FineReason      string     `json:"fine_reason,omitempty" db:"fine_reason"`
	Note            string     `json:"note,omitempty" db:"note"`
	TransactionDate time.Time  `json:"transaction_date" db:"transaction_date"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// NewTransaction builds a completed, unpaid transaction with a fresh
// transaction id.
func NewTransaction(typ string, readerID uuid.UUID, bookID *uuid.UUID, now time.Time) (*Transaction, error) {
	code, err := randomCode(5)
	if err != nil {
		return nil, err
	}
	return &Transaction{
		ID:              uuid.New(),
		TransactionID:   fmt.Sprintf("TXN-%s-%s", now.Format("20060102"), code),
		ReaderID:        readerID,
		BookID:          bookID,
		Type:            typ,
		PaymentMethod:   PaymentNone,
		Status:          StatusCompleted,
		TransactionDate: now,
		CreatedAt:       now,
	}, nil
}

// Receipt is the outcome of a borrow, a return or a fine payment.
type Receipt struct {
	Reader      *Reader      `json:"reader"`
	Entry       *BorrowEntry `json:"entry,omitempty"`
	Transaction *Transaction `json:"transaction"`
}
