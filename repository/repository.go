package repository

import (
	"context"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/emzola/athenaeum/data"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	books
	lookups
	readers
	loans
	transactions
	admins
	tokens
}

// Repository defines the app's repository layer.
type repository struct {
	db *sqlx.DB
}

// New creates a new instance of Repository.
func New(db *sqlx.DB) *repository {
	return &repository{db: db}
}

const queryTimeout = 3 * time.Second

var dialect = goqu.Dialect("postgres")

// totalRecordsColumn carries the window count used for pagination metadata.
var totalRecordsColumn = goqu.L("count(*) OVER()").As("total_records")

// selectPage sorts, pages and runs a list query, scanning into dest.
func (r *repository) selectPage(ctx context.Context, ds *goqu.SelectDataset, filters data.Filters, dest any) error {
	order := goqu.I(filters.SortColumn()).Asc()
	if filters.Descending() {
		order = goqu.I(filters.SortColumn()).Desc()
	}
	ds = ds.Order(order, goqu.I("id").Asc()).
		Limit(uint(filters.Limit)).
		Offset(uint(filters.Offset()))
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return r.db.SelectContext(ctx, dest, query, args...)
}

// containsPattern builds an ILIKE pattern matching s anywhere, with the
// pattern metacharacters in s escaped.
func containsPattern(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(s) + "%"
}
