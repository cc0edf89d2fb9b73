package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/repository"
	"github.com/google/uuid"
)

type loans interface {
	BorrowBook(ctx context.Context, readerID uuid.UUID, requestBody dto.BorrowBookRequestBody) (*data.Receipt, error)
	ReturnBook(ctx context.Context, readerID, entryID uuid.UUID, requestBody dto.ReturnBookRequestBody) (*data.Receipt, error)
	PayFine(ctx context.Context, readerID uuid.UUID, requestBody dto.PayFineRequestBody) (*data.Receipt, error)
}

// BorrowBook service lends one copy of a book to a reader and records a
// borrow transaction. A rejected loan changes nothing.
func (s *service) BorrowBook(ctx context.Context, readerID uuid.UUID, requestBody dto.BorrowBookRequestBody) (*data.Receipt, error) {
	v := validator.New()
	if v.Check(requestBody.BookID != uuid.Nil, "book_id", "must be provided"); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	reader, err := s.repo.GetReader(ctx, readerID)
	if err != nil {
		return nil, persistenceFailure(err)
	}
	book, err := s.repo.GetBook(ctx, requestBody.BookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, referenceNotFound("book_id")
		default:
			return nil, persistenceFailure(err)
		}
	}
	now := s.now()
	entry, err := reader.Borrow(book, now, s.loanPeriod())
	if err != nil {
		return nil, err
	}
	txn, err := data.NewTransaction(data.TransactionBorrow, reader.ID, &book.ID, now)
	if err != nil {
		return nil, err
	}
	txn.Note = requestBody.Note
	err = s.repo.LendBook(ctx, book, reader, txn)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidCopies):
			return nil, ErrBookUnavailable
		default:
			return nil, persistenceFailure(err)
		}
	}
	s.sendMail(reader.Email, "loan_receipt.tmpl", map[string]any{
		"firstName":     reader.FirstName,
		"title":         book.Title,
		"dueDate":       entry.DueDate.Format("2 January 2006"),
		"transactionID": txn.TransactionID,
	})
	return &data.Receipt{Reader: reader, Entry: &entry, Transaction: txn}, nil
}

// ReturnBook service closes a borrow entry, charges any overdue fine and puts
// the copy back on the shelf.
func (s *service) ReturnBook(ctx context.Context, readerID, entryID uuid.UUID, requestBody dto.ReturnBookRequestBody) (*data.Receipt, error) {
	reader, err := s.repo.GetReader(ctx, readerID)
	if err != nil {
		return nil, persistenceFailure(err)
	}
	entry, ok := reader.Entry(entryID)
	if !ok {
		return nil, ErrRecordNotFound
	}
	book, err := s.repo.GetBook(ctx, entry.BookID)
	if err != nil {
		if !errors.Is(err, repository.ErrRecordNotFound) {
			return nil, persistenceFailure(err)
		}
	}
	now := s.now()
	returned, err := reader.Return(entryID, book, now, s.config.Loans.FinePerDay)
	if err != nil {
		return nil, err
	}
	bookID := returned.BookID
	txn, err := data.NewTransaction(data.TransactionReturn, reader.ID, &bookID, now)
	if err != nil {
		return nil, err
	}
	txn.Note = requestBody.Note
	if returned.Fine > 0 {
		txn.Amount = returned.Fine
		txn.Status = data.StatusPending
		txn.FineReason = fmt.Sprintf("returned %d day(s) late", data.OverdueDays(returned.DueDate, now))
	}
	err = s.repo.ReturnBook(ctx, book, reader, txn)
	if err != nil {
		return nil, persistenceFailure(err)
	}
	title := ""
	if book != nil {
		title = book.Title
	}
	s.sendMail(reader.Email, "return_receipt.tmpl", map[string]any{
		"firstName":     reader.FirstName,
		"title":         title,
		"fine":          fmt.Sprintf("%.2f", returned.Fine),
		"totalFine":     fmt.Sprintf("%.2f", reader.TotalFine),
		"transactionID": txn.TransactionID,
	})
	return &data.Receipt{Reader: reader, Entry: &returned, Transaction: txn}, nil
}

// PayFine service settles part or all of a reader's outstanding fine.
func (s *service) PayFine(ctx context.Context, readerID uuid.UUID, requestBody dto.PayFineRequestBody) (*data.Receipt, error) {
	v := validator.New()
	v.Check(requestBody.Amount > 0, "amount", "must be greater than zero")
	v.Check(validator.In(requestBody.PaymentMethod, data.PaymentMethods...), "payment_method", "must be cash, card, upi or online")
	if !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	reader, err := s.repo.GetReader(ctx, readerID)
	if err != nil {
		return nil, persistenceFailure(err)
	}
	now := s.now()
	paid, err := reader.PayFine(requestBody.Amount, now)
	if err != nil {
		return nil, err
	}
	txn, err := data.NewTransaction(data.TransactionFinePayment, reader.ID, nil, now)
	if err != nil {
		return nil, err
	}
	txn.Amount = paid
	txn.PaymentMethod = requestBody.PaymentMethod
	txn.Note = requestBody.Note
	err = s.repo.SettleFine(ctx, reader, txn)
	if err != nil {
		return nil, persistenceFailure(err)
	}
	return &data.Receipt{Reader: reader, Transaction: txn}, nil
}
