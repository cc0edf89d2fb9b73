package repository

import (
	"context"

	"github.com/emzola/athenaeum/data"
	"github.com/jmoiron/sqlx"
)

// loans persist the book, reader and transaction changes of one borrowing
// operation together: either every write commits or none does.
type loans interface {
	LendBook(ctx context.Context, book *data.Book, reader *data.Reader, txn *data.Transaction) error
	ReturnBook(ctx context.Context, book *data.Book, reader *data.Reader, txn *data.Transaction) error
	SettleFine(ctx context.Context, reader *data.Reader, txn *data.Transaction) error
}

// LendBook records a borrow.
func (r *repository) LendBook(ctx context.Context, book *data.Book, reader *data.Reader, txn *data.Transaction) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := updateBook(ctx, tx, book); err != nil {
			return err
		}
		if err := updateReader(ctx, tx, reader); err != nil {
			return err
		}
		return insertTransaction(ctx, tx, txn)
	})
}

// ReturnBook records a return. book is nil when the title no longer exists.
func (r *repository) ReturnBook(ctx context.Context, book *data.Book, reader *data.Reader, txn *data.Transaction) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if book != nil {
			if err := updateBook(ctx, tx, book); err != nil {
				return err
			}
		}
		if err := updateReader(ctx, tx, reader); err != nil {
			return err
		}
		return insertTransaction(ctx, tx, txn)
	})
}

// SettleFine records a fine payment.
func (r *repository) SettleFine(ctx context.Context, reader *data.Reader, txn *data.Transaction) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := updateReader(ctx, tx, reader); err != nil {
			return err
		}
		return insertTransaction(ctx, tx, txn)
	})
}

// withTx runs fn in a transaction, rolling back when fn fails.
func (r *repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
