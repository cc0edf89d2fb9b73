package data

import (
	"math"
	"slices"

	"github.com/emzola/athenaeum/internal/validator"
)

const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

// Filters defines the pagination and sorting options shared by list endpoints.
type Filters struct {
	Page         int
	Limit        int
	SortField    string
	SortOrder    string
	SortSafeList []string
}

func ValidateFilters(v *validator.Validator, f Filters) {
	v.Check(f.Page > 0, "page", "must be greater than zero")
	v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(f.Limit > 0, "limit", "must be greater than zero")
	v.Check(f.Limit <= 100, "limit", "must be a maximum of 100")
	v.Check(slices.Contains(f.SortSafeList, f.SortField), "sort_field", "invalid sort value")
	v.Check(validator.In(f.SortOrder, "", SortAscending, SortDescending), "sort_order", "must be asc or desc")
}

// SortColumn returns the sort field after checking it against the safelist.
// It panics on an unknown field, which can only happen when filters were not validated.
func (f Filters) SortColumn() string {
	if slices.Contains(f.SortSafeList, f.SortField) {
		return f.SortField
	}
	panic("unsafe sort parameter: " + f.SortField)
}

// Descending reports whether results are sorted in descending order.
// An empty sort order means ascending.
func (f Filters) Descending() bool {
	return f.SortOrder == SortDescending
}

func (f Filters) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Metadata holds the pagination fields returned alongside a page of results.
type Metadata struct {
	CurrentPage  int `json:"current_page"`
	PageSize     int `json:"page_size"`
	TotalPages   int `json:"total_pages"`
	TotalRecords int `json:"total_records"`
}

func CalculateMetadata(totalRecords, page, limit int) Metadata {
	if totalRecords == 0 || limit < 1 {
		return Metadata{CurrentPage: page, PageSize: limit}
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     limit,
		TotalPages:   int(math.Ceil(float64(totalRecords) / float64(limit))),
		TotalRecords: totalRecords,
	}
}
