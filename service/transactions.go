package service

import (
	"context"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/google/uuid"
)

type transactions interface {
	GetTransaction(ctx context.Context, transactionID uuid.UUID) (*data.Transaction, error)
	ListTransactions(ctx context.Context, qs dto.QsListTransactions) ([]*data.Transaction, data.Metadata, error)
}

// GetTransaction service retrieves a transaction.
func (s *service) GetTransaction(ctx context.Context, transactionID uuid.UUID) (*data.Transaction, error) {
	txn, err := s.repo.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, persistenceFailure(err)
	}
	return txn, nil
}

// ListTransactions service retrieves a paginated list of transactions.
func (s *service) ListTransactions(ctx context.Context, qs dto.QsListTransactions) ([]*data.Transaction, data.Metadata, error) {
	v := validator.New()
	data.ValidateFilters(v, qs.Filters)
	if qs.Type != "" {
		v.Check(validator.In(qs.Type, data.TransactionBorrow, data.TransactionReturn, data.TransactionFinePayment), "type", "must be borrow, return or fine-payment")
	}
	if !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	txns, metadata, err := s.repo.GetAllTransactions(ctx, qs)
	if err != nil {
		return nil, data.Metadata{}, persistenceFailure(err)
	}
	return txns, metadata, nil
}
