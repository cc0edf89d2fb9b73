package dto

import (
	"github.com/emzola/athenaeum/data"
	"github.com/google/uuid"
)

// CreateBookRequestBody defines the request body for CreateBook service.
type CreateBookRequestBody struct {
	Title           string      `json:"title"`
	ISBN            string      `json:"isbn"`
	Authors         []uuid.UUID `json:"authors"`
	Publisher       *uuid.UUID  `json:"publisher"`
	PublicationYear int         `json:"publication_year"`
	Edition         string      `json:"edition"`
	Genre           uuid.UUID   `json:"genre"`
	Category        uuid.UUID   `json:"category"`
	Language        string      `json:"language"`
	PageCount       int         `json:"page_count"`
	Description     string      `json:"description"`
	TotalCopies     *int        `json:"total_copies"`
	AvailableCopies *int        `json:"available_copies"`
	ShelfLocation   string      `json:"shelf_location"`
	Tags            []string    `json:"tags"`
	IsReference     bool        `json:"is_reference"`
}

// UpdateBookRequestBody defines the request body for UpdateBook service. The fields are set
// to a pointer type to allow partial updates based on whether the value is set to nil.
type UpdateBookRequestBody struct {
	Title           *string     `json:"title"`
	ISBN            *string     `json:"isbn"`
	Authors         []uuid.UUID `json:"authors"`
	Publisher       *uuid.UUID  `json:"publisher"`
	PublicationYear *int        `json:"publication_year"`
	Edition         *string     `json:"edition"`
	Genre           *uuid.UUID  `json:"genre"`
	Category        *uuid.UUID  `json:"category"`
	Language        *string     `json:"language"`
	PageCount       *int        `json:"page_count"`
	Description     *string     `json:"description"`
	TotalCopies     *int        `json:"total_copies"`
	AvailableCopies *int        `json:"available_copies"`
	ShelfLocation   *string     `json:"shelf_location"`
	Tags            []string    `json:"tags"`
	IsReference     *bool       `json:"is_reference"`
}

// QsListBooks defines the query strings used for listing books.
type QsListBooks struct {
	Search    string
	Genre     *uuid.UUID
	Category  *uuid.UUID
	Publisher *uuid.UUID
	Author    *uuid.UUID
	Language  string
	Filters   data.Filters
}
