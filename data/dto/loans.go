package dto

import (
	"github.com/emzola/athenaeum/data"
	"github.com/google/uuid"
)

// BorrowBookRequestBody defines the request body for BorrowBook service.
type BorrowBookRequestBody struct {
	BookID uuid.UUID `json:"book_id"`
	Note   string    `json:"note"`
}

// ReturnBookRequestBody defines the optional request body for ReturnBook service.
type ReturnBookRequestBody struct {
	Note string `json:"note"`
}

// PayFineRequestBody defines the request body for PayFine service.
type PayFineRequestBody struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	Note          string  `json:"note"`
}

// QsListTransactions defines the query strings used for listing transactions.
type QsListTransactions struct {
	ReaderID *uuid.UUID
	BookID   *uuid.UUID
	Type     string
	Filters  data.Filters
}
