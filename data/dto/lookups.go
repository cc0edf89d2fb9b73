package dto

import (
	"github.com/emzola/athenaeum/data"
	"github.com/google/uuid"
)

// CreateLookupRequestBody defines the request body for CreateLookup service.
type CreateLookupRequestBody struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    *uuid.UUID         `json:"category"`
	Details     data.LookupDetails `json:"details"`
}

// UpdateLookupRequestBody defines the request body for UpdateLookup service.
type UpdateLookupRequestBody struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Category    *uuid.UUID          `json:"category"`
	Details     *data.LookupDetails `json:"details"`
}

// QsListLookups defines the query strings used for listing lookups.
type QsListLookups struct {
	Search   string
	Category *uuid.UUID
	Filters  data.Filters
}
