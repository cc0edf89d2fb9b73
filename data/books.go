package data

import (
	"database/sql/driver"
	"time"

	"github.com/emzola/athenaeum/internal/validator"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	DefaultLanguage = "English"
	// MaxImagesPerUpload caps the files accepted in one create or update request.
	MaxImagesPerUpload = 5
)

// Image is a cover image kept in the asset store.
type Image struct {
	Path      string `json:"path"`
	StorageID string `json:"storage_id"`
	IsPrimary bool   `json:"is_primary"`
}

// Images is the ordered image list of a book, stored as JSONB.
type Images []Image

func (imgs Images) Value() (driver.Value, error) {
	if imgs == nil {
		imgs = Images{}
	}
	return documentValue(imgs)
}

func (imgs *Images) Scan(src any) error {
	return scanDocument(src, imgs)
}

// Split separates the images whose storage id is listed from the rest.
func (imgs Images) Split(storageIDs []string) (kept, removed Images) {
	drop := make(map[string]bool, len(storageIDs))
	for _, id := range storageIDs {
		drop[id] = true
	}
	kept = Images{}
	for _, img := range imgs {
		if drop[img.StorageID] {
			removed = append(removed, img)
			continue
		}
		kept = append(kept, img)
	}
	return kept, removed
}

// NormalizePrimary leaves exactly one primary image: the first one flagged, or
// the first image when none is.
func (imgs Images) NormalizePrimary() {
	primary := -1
	for i := range imgs {
		if imgs[i].IsPrimary && primary == -1 {
			primary = i
		}
		imgs[i].IsPrimary = false
	}
	if len(imgs) == 0 {
		return
	}
	if primary == -1 {
		primary = 0
	}
	imgs[primary].IsPrimary = true
}

// Book defines a catalogued title and its copy counts.
type Book struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	ISBN            string         `json:"isbn" db:"isbn"`
	Authors         IDList         `json:"authors" db:"authors"`
	Publisher       *uuid.UUID     `json:"publisher,omitempty" db:"publisher_id"`
	PublicationYear int            `json:"publication_year,omitempty" db:"publication_year"`
	Edition         string         `json:"edition,omitempty" db:"edition"`
	Genre           uuid.UUID      `json:"genre" db:"genre_id"`
	Category        uuid.UUID      `json:"category" db:"category_id"`
	Language        string         `json:"language" db:"language"`
	PageCount       int            `json:"page_count,omitempty" db:"page_count"`
	Description     string         `json:"description,omitempty" db:"description"`
	Images          Images         `json:"images" db:"images"`
	TotalCopies     int            `json:"total_copies" db:"total_copies"`
	AvailableCopies int            `json:"available_copies" db:"available_copies"`
	ShelfLocation   string         `json:"shelf_location,omitempty" db:"shelf_location"`
	Tags            pq.StringArray `json:"tags" db:"tags"`
	IsReference     bool           `json:"is_reference" db:"is_reference"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
	Version         int32          `json:"-" db:"version"`
}

// Lend takes one copy off the shelf.
func (b *Book) Lend() error {
	if b.IsReference {
		return ErrReferenceOnly
	}
	if b.AvailableCopies <= 0 {
		return ErrBookUnavailable
	}
	b.AvailableCopies--
	return nil
}

// Restock puts one copy back, never above the total.
func (b *Book) Restock() {
	if b.AvailableCopies < b.TotalCopies {
		b.AvailableCopies++
	}
}

func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 500, "title", "must not be more than 500 bytes long")
	v.Check(book.ISBN != "", "isbn", "must be provided")
	v.Check(len(book.ISBN) <= 17, "isbn", "must not be more than 17 characters")
	v.Check(len(book.Authors) >= 1, "authors", "must contain at least 1 author")
	v.Check(validator.Unique(book.Authors), "authors", "must not contain duplicate values")
	v.Check(book.Genre != uuid.Nil, "genre", "must be provided")
	v.Check(book.Category != uuid.Nil, "category", "must be provided")
	v.Check(book.PublicationYear >= 0, "publication_year", "must not be negative")
	v.Check(book.PublicationYear <= time.Now().Year(), "publication_year", "must not be in the future")
	v.Check(book.PageCount >= 0, "page_count", "must be at least 1")
	v.Check(len(book.Description) <= 5000, "description", "must not be more than 5000 bytes long")
	v.Check(book.TotalCopies >= 0, "total_copies", "must not be negative")
	v.Check(book.AvailableCopies >= 0, "available_copies", "must not be negative")
	v.Check(book.AvailableCopies <= book.TotalCopies, "available_copies", "must not exceed total copies")
	v.Check(validator.Unique(book.Tags), "tags", "must not contain duplicate values")
}
