package repository

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type transactions interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*data.Transaction, error)
	GetAllTransactions(ctx context.Context, qs dto.QsListTransactions) ([]*data.Transaction, data.Metadata, error)
}

const transactionColumns = `id, transaction_id, reader_id, book_id, transaction_type, amount, payment_method, status,
	fine_reason, note, transaction_date, created_at`

func insertTransaction(ctx context.Context, q sqlx.ExtContext, txn *data.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	args := []any{
		txn.ID,
		txn.TransactionID,
		txn.ReaderID,
		txn.BookID,
		txn.Type,
		txn.Amount,
		txn.PaymentMethod,
		txn.Status,
		txn.FineReason,
		txn.Note,
		txn.TransactionDate,
		txn.CreatedAt,
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := q.ExecContext(ctx, query, args...)
	return translate(err)
}

// GetTransaction retrieves a transaction record by its ID.
func (r *repository) GetTransaction(ctx context.Context, id uuid.UUID) (*data.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	var txn data.Transaction
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.GetContext(ctx, &txn, query, id)
	if err != nil {
		return nil, translate(err)
	}
	return &txn, nil
}

type transactionRow struct {
	TotalRecords int `db:"total_records"`
	data.Transaction
}

// GetAllTransactions retrieves a paginated list of transactions filtered by
// reader, book and type.
func (r *repository) GetAllTransactions(ctx context.Context, qs dto.QsListTransactions) ([]*data.Transaction, data.Metadata, error) {
	ds := dialect.From("transactions").Select(goqu.Star(), totalRecordsColumn)
	if qs.ReaderID != nil {
		ds = ds.Where(goqu.C("reader_id").Eq(qs.ReaderID.String()))
	}
	if qs.BookID != nil {
		ds = ds.Where(goqu.C("book_id").Eq(qs.BookID.String()))
	}
	if qs.Type != "" {
		ds = ds.Where(goqu.C("transaction_type").Eq(qs.Type))
	}
	var rows []transactionRow
	err := r.selectPage(ctx, ds, qs.Filters, &rows)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	totalRecords := 0
	txns := make([]*data.Transaction, 0, len(rows))
	for i := range rows {
		totalRecords = rows[i].TotalRecords
		txns = append(txns, &rows[i].Transaction)
	}
	metadata := data.CalculateMetadata(totalRecords, qs.Filters.Page, qs.Filters.Limit)
	return txns, metadata, nil
}
