package data

import (
	"database/sql/driver"
	"regexp"
	"strings"
	"time"

	"github.com/emzola/athenaeum/internal/validator"
	"github.com/google/uuid"
)

// LookupKind names one of the shared taxonomies books refer to.
type LookupKind string

const (
	KindAuthor    LookupKind = "authors"
	KindGenre     LookupKind = "genres"
	KindCategory  LookupKind = "categories"
	KindPublisher LookupKind = "publishers"
)

var LookupKinds = []LookupKind{KindAuthor, KindGenre, KindCategory, KindPublisher}

// ParseLookupKind maps a path segment to a lookup kind.
func ParseLookupKind(s string) (LookupKind, bool) {
	kind := LookupKind(strings.ToLower(s))
	return kind, validator.In(kind, LookupKinds...)
}

// Singular returns the kind name used in messages.
func (k LookupKind) Singular() string {
	switch k {
	case KindAuthor:
		return "author"
	case KindGenre:
		return "genre"
	case KindCategory:
		return "category"
	case KindPublisher:
		return "publisher"
	}
	return string(k)
}

// LookupDetails holds the attributes specific to one kind. Authors use the
// biography fields, publishers the contact fields.
type LookupDetails struct {
	Biography    string     `json:"biography,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	DeathDate    *time.Time `json:"death_date,omitempty"`
	Nationality  string     `json:"nationality,omitempty"`
	Website      string     `json:"website,omitempty"`
	Address      string     `json:"address,omitempty"`
	ContactEmail string     `json:"contact_email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	FoundedYear  int        `json:"founded_year,omitempty"`
}

func (d LookupDetails) Value() (driver.Value, error) {
	return documentValue(d)
}

func (d *LookupDetails) Scan(src any) error {
	return scanDocument(src, d)
}

// Lookup defines an author, genre, category or publisher.
type Lookup struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	Kind        LookupKind    `json:"kind" db:"kind"`
	Name        string        `json:"name" db:"name"`
	Alias       string        `json:"name_alias" db:"name_alias"`
	Description string        `json:"description,omitempty" db:"description"`
	Category    *uuid.UUID    `json:"category,omitempty" db:"category_id"`
	Details     LookupDetails `json:"details" db:"details"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
	Version     int32         `json:"-" db:"version"`
}

var nonAlphanumericRX = regexp.MustCompile(`[^a-z0-9]+`)

// Alias derives the URL-friendly form of a lookup name: lowercased, with every
// run of characters outside [a-z0-9] collapsed to one hyphen and no hyphens at
// either end.
func Alias(name string) string {
	alias := nonAlphanumericRX.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(alias, "-")
}

func ValidateLookup(v *validator.Validator, lookup *Lookup) {
	v.Check(validator.In(lookup.Kind, LookupKinds...), "kind", "is not a supported lookup")
	v.Check(strings.TrimSpace(lookup.Name) != "", "name", "must be provided")
	v.Check(len(lookup.Name) <= 200, "name", "must not be more than 200 bytes long")
	v.Check(lookup.Alias != "", "name", "must contain at least one letter or digit")
	v.Check(len(lookup.Description) <= 2000, "description", "must not be more than 2000 bytes long")
	if lookup.Kind == KindGenre {
		v.Check(lookup.Category != nil && *lookup.Category != uuid.Nil, "category", "must be provided")
	}
	d := lookup.Details
	if d.ContactEmail != "" {
		v.Check(validator.Matches(d.ContactEmail, validator.EmailRX), "contact_email", "must be a valid email address")
	}
	if d.Phone != "" {
		v.Check(validator.Matches(d.Phone, validator.PhoneRX), "phone", "must be a valid phone number")
	}
	v.Check(d.FoundedYear <= time.Now().Year(), "founded_year", "must not be in the future")
	if d.BirthDate != nil && d.DeathDate != nil {
		v.Check(d.DeathDate.After(*d.BirthDate), "death_date", "must be after birth date")
	}
}

// Merge returns a copy of d where every set field of patch replaces the
// existing value.
func (d LookupDetails) Merge(patch LookupDetails) LookupDetails {
	merged := d
	if patch.Biography != "" {
		merged.Biography = patch.Biography
	}
	if patch.BirthDate != nil {
		merged.BirthDate = patch.BirthDate
	}
	if patch.DeathDate != nil {
		merged.DeathDate = patch.DeathDate
	}
	if patch.Nationality != "" {
		merged.Nationality = patch.Nationality
	}
	if patch.Website != "" {
		merged.Website = patch.Website
	}
	if patch.Address != "" {
		merged.Address = patch.Address
	}
	if patch.ContactEmail != "" {
		merged.ContactEmail = patch.ContactEmail
	}
	if patch.Phone != "" {
		merged.Phone = patch.Phone
	}
	if patch.FoundedYear != 0 {
		merged.FoundedYear = patch.FoundedYear
	}
	return merged
}
