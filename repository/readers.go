package repository

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type readers interface {
	CreateReader(ctx context.Context, reader *data.Reader) error
	GetReader(ctx context.Context, id uuid.UUID) (*data.Reader, error)
	GetReaderByEmail(ctx context.Context, email string) (*data.Reader, error)
	GetReaderByPhone(ctx context.Context, phone string) (*data.Reader, error)
	GetAllReaders(ctx context.Context, qs dto.QsListReaders) ([]*data.Reader, data.Metadata, error)
	UpdateReader(ctx context.Context, reader *data.Reader) error
	DeleteReader(ctx context.Context, id uuid.UUID) error
}

const readerColumns = `id, first_name, last_name, email, phone, address, date_of_birth, membership_id, membership_type,
	membership_start_date, membership_end_date, is_active, is_blacklisted, blacklist_reason, borrowed_books,
	total_fine, total_books_borrowed, created_at, updated_at, version`

// CreateReader creates a new reader record.
func (r *repository) CreateReader(ctx context.Context, reader *data.Reader) error {
	query := `
		INSERT INTO readers (id, first_name, last_name, email, phone, address, date_of_birth, membership_id,
			membership_type, membership_start_date, membership_end_date, is_active, is_blacklisted, blacklist_reason,
			borrowed_books, total_fine, total_books_borrowed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING version`
	args := []any{
		reader.ID,
		reader.FirstName,
		reader.LastName,
		reader.Email,
		reader.Phone,
		reader.Address,
		reader.DateOfBirth,
		reader.MembershipID,
		reader.MembershipType,
		reader.MembershipStartDate,
		reader.MembershipEndDate,
		reader.IsActive,
		reader.IsBlacklisted,
		reader.BlacklistReason,
		reader.BorrowedBooks,
		reader.TotalFine,
		reader.TotalBooksBorrowed,
		reader.CreatedAt,
		reader.UpdatedAt,
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return translate(r.db.QueryRowxContext(ctx, query, args...).Scan(&reader.Version))
}

// GetReader retrieves a reader record by its ID.
func (r *repository) GetReader(ctx context.Context, id uuid.UUID) (*data.Reader, error) {
	return getReader(ctx, r.db, `SELECT `+readerColumns+` FROM readers WHERE id = $1`, id)
}

// GetReaderByEmail retrieves a reader record by e-mail address.
func (r *repository) GetReaderByEmail(ctx context.Context, email string) (*data.Reader, error) {
	return getReader(ctx, r.db, `SELECT `+readerColumns+` FROM readers WHERE email = $1`, email)
}

// GetReaderByPhone retrieves a reader record by phone number.
func (r *repository) GetReaderByPhone(ctx context.Context, phone string) (*data.Reader, error) {
	return getReader(ctx, r.db, `SELECT `+readerColumns+` FROM readers WHERE phone = $1`, phone)
}

func getReader(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (*data.Reader, error) {
	var reader data.Reader
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := sqlx.GetContext(ctx, q, &reader, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	return &reader, nil
}

type readerRow struct {
	TotalRecords int `db:"total_records"`
	data.Reader
}

// GetAllReaders retrieves a paginated list of readers. The search matches
// names, e-mail and membership id.
func (r *repository) GetAllReaders(ctx context.Context, qs dto.QsListReaders) ([]*data.Reader, data.Metadata, error) {
	ds := dialect.From("readers").Select(goqu.Star(), totalRecordsColumn)
	if qs.Search != "" {
		pattern := containsPattern(qs.Search)
		ds = ds.Where(goqu.Or(
			goqu.C("first_name").ILike(pattern),
			goqu.C("last_name").ILike(pattern),
			goqu.C("email").ILike(pattern),
			goqu.C("membership_id").ILike(pattern),
		))
	}
	if qs.MembershipType != "" {
		ds = ds.Where(goqu.C("membership_type").Eq(qs.MembershipType))
	}
	if qs.IsActive != nil {
		ds = ds.Where(goqu.C("is_active").Eq(*qs.IsActive))
	}
	if qs.IsBlacklisted != nil {
		ds = ds.Where(goqu.C("is_blacklisted").Eq(*qs.IsBlacklisted))
	}
	var rows []readerRow
	err := r.selectPage(ctx, ds, qs.Filters, &rows)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	totalRecords := 0
	readers := make([]*data.Reader, 0, len(rows))
	for i := range rows {
		totalRecords = rows[i].TotalRecords
		readers = append(readers, &rows[i].Reader)
	}
	metadata := data.CalculateMetadata(totalRecords, qs.Filters.Page, qs.Filters.Limit)
	return readers, metadata, nil
}

// UpdateReader updates a reader record using optimistic locking.
func (r *repository) UpdateReader(ctx context.Context, reader *data.Reader) error {
	return updateReader(ctx, r.db, reader)
}

func updateReader(ctx context.Context, q sqlx.QueryerContext, reader *data.Reader) error {
	query := `
		UPDATE readers
		SET first_name = $1, last_name = $2, email = $3, phone = $4, address = $5, date_of_birth = $6,
			membership_type = $7, membership_start_date = $8, membership_end_date = $9, is_active = $10,
			is_blacklisted = $11, blacklist_reason = $12, borrowed_books = $13, total_fine = $14,
			total_books_borrowed = $15, updated_at = $16, version = version + 1
		WHERE id = $17 AND version = $18
		RETURNING version`
	args := []any{
		reader.FirstName,
		reader.LastName,
		reader.Email,
		reader.Phone,
		reader.Address,
		reader.DateOfBirth,
		reader.MembershipType,
		reader.MembershipStartDate,
		reader.MembershipEndDate,
		reader.IsActive,
		reader.IsBlacklisted,
		reader.BlacklistReason,
		reader.BorrowedBooks,
		reader.TotalFine,
		reader.TotalBooksBorrowed,
		reader.UpdatedAt,
		reader.ID,
		reader.Version,
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := translate(q.QueryRowxContext(ctx, query, args...).Scan(&reader.Version))
	if errors.Is(err, ErrRecordNotFound) {
		return ErrEditConflict
	}
	return err
}

// DeleteReader deletes a reader record.
func (r *repository) DeleteReader(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM readers
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
