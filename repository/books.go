package repository

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type books interface {
	CreateBook(ctx context.Context, book *data.Book) error
	GetBook(ctx context.Context, id uuid.UUID) (*data.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*data.Book, error)
	GetAllBooks(ctx context.Context, qs dto.QsListBooks) ([]*data.Book, data.Metadata, error)
	UpdateBook(ctx context.Context, book *data.Book) error
	DeleteBook(ctx context.Context, id uuid.UUID) (*data.Book, error)
}

const bookColumns = `id, title, isbn, authors, publisher_id, publication_year, edition, genre_id, category_id,
	language, page_count, description, images, total_copies, available_copies, shelf_location, tags,
	is_reference, created_at, updated_at, version`

// CreateBook creates a new book record.
func (r *repository) CreateBook(ctx context.Context, book *data.Book) error {
	query := `
		INSERT INTO books (id, title, isbn, authors, publisher_id, publication_year, edition, genre_id, category_id,
			language, page_count, description, images, total_copies, available_copies, shelf_location, tags,
			is_reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING version`
	args := []any{
		book.ID,
		book.Title,
		book.ISBN,
		book.Authors,
		book.Publisher,
		book.PublicationYear,
		book.Edition,
		book.Genre,
		book.Category,
		book.Language,
		book.PageCount,
		book.Description,
		book.Images,
		book.TotalCopies,
		book.AvailableCopies,
		book.ShelfLocation,
		book.Tags,
		book.IsReference,
		book.CreatedAt,
		book.UpdatedAt,
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return translate(r.db.QueryRowxContext(ctx, query, args...).Scan(&book.Version))
}

// GetBook retrieves a book record by its ID.
func (r *repository) GetBook(ctx context.Context, id uuid.UUID) (*data.Book, error) {
	return getBook(ctx, r.db, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
}

// GetBookByISBN retrieves a book record by its ISBN.
func (r *repository) GetBookByISBN(ctx context.Context, isbn string) (*data.Book, error) {
	return getBook(ctx, r.db, `SELECT `+bookColumns+` FROM books WHERE isbn = $1`, isbn)
}

func getBook(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) (*data.Book, error) {
	var book data.Book
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := sqlx.GetContext(ctx, q, &book, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

type bookRow struct {
	TotalRecords int `db:"total_records"`
	data.Book
}

// GetAllBooks retrieves a paginated list of book records matching the search
// and filters in qs.
func (r *repository) GetAllBooks(ctx context.Context, qs dto.QsListBooks) ([]*data.Book, data.Metadata, error) {
	ds := dialect.From("books").Select(goqu.Star(), totalRecordsColumn)
	if qs.Search != "" {
		pattern := containsPattern(qs.Search)
		ds = ds.Where(goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("isbn").ILike(pattern),
		))
	}
	if qs.Genre != nil {
		ds = ds.Where(goqu.C("genre_id").Eq(qs.Genre.String()))
	}
	if qs.Category != nil {
		ds = ds.Where(goqu.C("category_id").Eq(qs.Category.String()))
	}
	if qs.Publisher != nil {
		ds = ds.Where(goqu.C("publisher_id").Eq(qs.Publisher.String()))
	}
	if qs.Author != nil {
		ds = ds.Where(goqu.L("?::uuid = ANY(authors)", qs.Author.String()))
	}
	if qs.Language != "" {
		ds = ds.Where(goqu.C("language").ILike(qs.Language))
	}
	var rows []bookRow
	err := r.selectPage(ctx, ds, qs.Filters, &rows)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	totalRecords := 0
	books := make([]*data.Book, 0, len(rows))
	for i := range rows {
		totalRecords = rows[i].TotalRecords
		books = append(books, &rows[i].Book)
	}
	metadata := data.CalculateMetadata(totalRecords, qs.Filters.Page, qs.Filters.Limit)
	return books, metadata, nil
}

// UpdateBook updates a book record, failing with ErrEditConflict when the
// record changed since it was read.
func (r *repository) UpdateBook(ctx context.Context, book *data.Book) error {
	return updateBook(ctx, r.db, book)
}

func updateBook(ctx context.Context, q sqlx.QueryerContext, book *data.Book) error {
	query := `
		UPDATE books
		SET title = $1, isbn = $2, authors = $3, publisher_id = $4, publication_year = $5, edition = $6,
			genre_id = $7, category_id = $8, language = $9, page_count = $10, description = $11, images = $12,
			total_copies = $13, available_copies = $14, shelf_location = $15, tags = $16, is_reference = $17,
			updated_at = $18, version = version + 1
		WHERE id = $19 AND version = $20
		RETURNING version`
	if book.UpdatedAt.IsZero() {
		book.UpdatedAt = time.Now()
	}
	args := []any{
		book.Title,
		book.ISBN,
		book.Authors,
		book.Publisher,
		book.PublicationYear,
		book.Edition,
		book.Genre,
		book.Category,
		book.Language,
		book.PageCount,
		book.Description,
		book.Images,
		book.TotalCopies,
		book.AvailableCopies,
		book.ShelfLocation,
		book.Tags,
		book.IsReference,
		book.UpdatedAt,
		book.ID,
		book.Version,
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := q.QueryRowxContext(ctx, query, args...).Scan(&book.Version)
	if err != nil {
		err = translate(err)
		if errors.Is(err, ErrRecordNotFound) {
			return ErrEditConflict
		}
		return err
	}
	return nil
}

// DeleteBook deletes a book record and returns it, so that the caller can
// release the assets it owned.
func (r *repository) DeleteBook(ctx context.Context, id uuid.UUID) (*data.Book, error) {
	return getBook(ctx, r.db, `DELETE FROM books WHERE id = $1 RETURNING `+bookColumns, id)
}
