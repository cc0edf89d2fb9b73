package dto

import "github.com/emzola/athenaeum/data"

// CreateReaderRequestBody defines the request body for CreateReader service.
// Dates are accepted as YYYY-MM-DD or RFC 3339.
type CreateReaderRequestBody struct {
	FirstName         string        `json:"first_name"`
	LastName          string        `json:"last_name"`
	Email             string        `json:"email"`
	Phone             string        `json:"phone"`
	Address           *data.Address `json:"address"`
	DateOfBirth       string        `json:"date_of_birth"`
	MembershipType    string        `json:"membership_type"`
	MembershipEndDate *string       `json:"membership_end_date"`
}

// UpdateReaderRequestBody defines the request body for UpdateReader service.
type UpdateReaderRequestBody struct {
	FirstName           *string       `json:"first_name"`
	LastName            *string       `json:"last_name"`
	Email               *string       `json:"email"`
	Phone               *string       `json:"phone"`
	Address             *data.Address `json:"address"`
	DateOfBirth         *string       `json:"date_of_birth"`
	MembershipType      *string       `json:"membership_type"`
	MembershipStartDate *string       `json:"membership_start_date"`
	MembershipEndDate   *string       `json:"membership_end_date"`
	IsActive            *bool         `json:"is_active"`
	IsBlacklisted       *bool         `json:"is_blacklisted"`
	BlacklistReason     *string       `json:"blacklist_reason"`
}

// QsListReaders defines the query strings used for listing readers.
type QsListReaders struct {
	Search         string
	MembershipType string
	IsActive       *bool
	IsBlacklisted  *bool
	Filters        data.Filters
}
