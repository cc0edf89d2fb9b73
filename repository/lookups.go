package repository

import (
	"context"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/google/uuid"
)

type lookups interface {
	CreateLookup(ctx context.Context, lookup *data.Lookup) error
	GetLookup(ctx context.Context, kind data.LookupKind, id uuid.UUID) (*data.Lookup, error)
	GetLookupByAlias(ctx context.Context, kind data.LookupKind, alias string) (*data.Lookup, error)
	FindDuplicateLookup(ctx context.Context, kind data.LookupKind, name, alias string, excludeID uuid.UUID) (*data.Lookup, error)
	CountLookups(ctx context.Context, kind data.LookupKind, ids []uuid.UUID) (int, error)
	GetAllLookups(ctx context.Context, kind data.LookupKind, qs dto.QsListLookups) ([]*data.Lookup, data.Metadata, error)
	UpdateLookup(ctx context.Context, lookup *data.Lookup) error
	DeleteLookup(ctx context.Context, kind data.LookupKind, id uuid.UUID) error
	CountLookupReferences(ctx context.Context, kind data.LookupKind, id uuid.UUID) (int, error)
}

const lookupColumns = `id, kind, name, name_alias, description, category_id, details, created_at, updated_at, version`

// CreateLookup creates a new author, genre, category or publisher record.
func (r *repository) CreateLookup(ctx context.Context, lookup *data.Lookup) error {
	query := `
		INSERT INTO lookups (id, kind, name, name_alias, description, category_id, details, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING version`
	args := []any{
		lookup.ID,
		lookup.Kind,
		lookup.Name,
		lookup.Alias,
		lookup.Description,
		lookup.Category,
		lookup.Details,
		lookup.CreatedAt,
		lookup.UpdatedAt,
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return translate(r.db.QueryRowxContext(ctx, query, args...).Scan(&lookup.Version))
}

// GetLookup retrieves a lookup record of the given kind by its ID.
func (r *repository) GetLookup(ctx context.Context, kind data.LookupKind, id uuid.UUID) (*data.Lookup, error) {
	query := `SELECT ` + lookupColumns + ` FROM lookups WHERE kind = $1 AND id = $2`
	return r.getLookup(ctx, query, kind, id)
}

// GetLookupByAlias retrieves a lookup record of the given kind by its exact alias.
func (r *repository) GetLookupByAlias(ctx context.Context, kind data.LookupKind, alias string) (*data.Lookup, error) {
	query := `SELECT ` + lookupColumns + ` FROM lookups WHERE kind = $1 AND name_alias = $2`
	return r.getLookup(ctx, query, kind, alias)
}

// FindDuplicateLookup returns a lookup of the same kind, other than excludeID,
// whose name matches case-insensitively or whose alias matches exactly.
func (r *repository) FindDuplicateLookup(ctx context.Context, kind data.LookupKind, name, alias string, excludeID uuid.UUID) (*data.Lookup, error) {
	query := `
		SELECT ` + lookupColumns + `
		FROM lookups
		WHERE kind = $1 AND (lower(name) = lower($2) OR name_alias = $3) AND id <> $4
		LIMIT 1`
	return r.getLookup(ctx, query, kind, name, alias, excludeID)
}

func (r *repository) getLookup(ctx context.Context, query string, args ...any) (*data.Lookup, error) {
	var lookup data.Lookup
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.GetContext(ctx, &lookup, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	return &lookup, nil
}

// CountLookups returns how many of ids exist as lookups of the given kind.
func (r *repository) CountLookups(ctx context.Context, kind data.LookupKind, ids []uuid.UUID) (int, error) {
	query := `SELECT count(*) FROM lookups WHERE kind = $1 AND id = ANY($2::uuid[])`
	var count int
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.GetContext(ctx, &count, query, kind, data.IDList(ids))
	return count, translate(err)
}

type lookupRow struct {
	TotalRecords int `db:"total_records"`
	data.Lookup
}

// GetAllLookups retrieves a paginated list of lookups of one kind. The search
// matches name or alias case-insensitively.
func (r *repository) GetAllLookups(ctx context.Context, kind data.LookupKind, qs dto.QsListLookups) ([]*data.Lookup, data.Metadata, error) {
	ds := dialect.From("lookups").
		Select(goqu.Star(), totalRecordsColumn).
		Where(goqu.C("kind").Eq(string(kind)))
	if qs.Search != "" {
		pattern := containsPattern(qs.Search)
		ds = ds.Where(goqu.Or(
			goqu.C("name").ILike(pattern),
			goqu.C("name_alias").ILike(pattern),
		))
	}
	if qs.Category != nil {
		ds = ds.Where(goqu.C("category_id").Eq(qs.Category.String()))
	}
	var rows []lookupRow
	err := r.selectPage(ctx, ds, qs.Filters, &rows)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	totalRecords := 0
	lookups := make([]*data.Lookup, 0, len(rows))
	for i := range rows {
		totalRecords = rows[i].TotalRecords
		lookups = append(lookups, &rows[i].Lookup)
	}
	metadata := data.CalculateMetadata(totalRecords, qs.Filters.Page, qs.Filters.Limit)
	return lookups, metadata, nil
}

// UpdateLookup updates a lookup record using optimistic locking.
func (r *repository) UpdateLookup(ctx context.Context, lookup *data.Lookup) error {
	query := `
		UPDATE lookups
		SET name = $1, name_alias = $2, description = $3, category_id = $4, details = $5, updated_at = $6,
			version = version + 1
		WHERE id = $7 AND kind = $8 AND version = $9
		RETURNING version`
	args := []any{
		lookup.Name,
		lookup.Alias,
		lookup.Description,
		lookup.Category,
		lookup.Details,
		lookup.UpdatedAt,
		lookup.ID,
		lookup.Kind,
		lookup.Version,
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := translate(r.db.QueryRowxContext(ctx, query, args...).Scan(&lookup.Version))
	if errors.Is(err, ErrRecordNotFound) {
		return ErrEditConflict
	}
	return err
}

// DeleteLookup deletes a lookup record.
func (r *repository) DeleteLookup(ctx context.Context, kind data.LookupKind, id uuid.UUID) error {
	query := `
		DELETE FROM lookups
		WHERE kind = $1 AND id = $2`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, kind, id)
	if err != nil {
		return translate(err)
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

// CountLookupReferences returns how many books, and for categories how many
// genres, still refer to the lookup.
func (r *repository) CountLookupReferences(ctx context.Context, kind data.LookupKind, id uuid.UUID) (int, error) {
	var query string
	switch kind {
	case data.KindAuthor:
		query = `SELECT count(*) FROM books WHERE $1 = ANY(authors)`
	case data.KindGenre:
		query = `SELECT count(*) FROM books WHERE genre_id = $1`
	case data.KindPublisher:
		query = `SELECT count(*) FROM books WHERE publisher_id = $1`
	case data.KindCategory:
		query = `
			SELECT (SELECT count(*) FROM books WHERE category_id = $1) +
				(SELECT count(*) FROM lookups WHERE kind = 'genres' AND category_id = $1)`
	default:
		return 0, ErrRecordNotFound
	}
	var count int
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.GetContext(ctx, &count, query, id)
	return count, translate(err)
}
