package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/repository"
	"github.com/emzola/athenaeum/storage"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type books interface {
	CreateBook(ctx context.Context, requestBody dto.CreateBookRequestBody, files []storage.File) (*data.Book, error)
	GetBook(ctx context.Context, bookID uuid.UUID) (*data.Book, error)
	ListBooks(ctx context.Context, qs dto.QsListBooks) ([]*data.Book, data.Metadata, error)
	UpdateBook(ctx context.Context, bookID uuid.UUID, requestBody dto.UpdateBookRequestBody, files []storage.File, imagesToDelete []string) (*data.Book, error)
	DeleteBook(ctx context.Context, bookID uuid.UUID) error
}

// CreateBook service creates a new book. References and ISBN uniqueness are
// checked before any image is uploaded.
func (s *service) CreateBook(ctx context.Context, requestBody dto.CreateBookRequestBody, files []storage.File) (*data.Book, error) {
	v := validator.New()
	v.Check(strings.TrimSpace(requestBody.Title) != "", "title", "must be provided")
	v.Check(strings.TrimSpace(requestBody.ISBN) != "", "isbn", "must be provided")
	v.Check(len(requestBody.Authors) > 0, "authors", "must be provided")
	v.Check(requestBody.Genre != uuid.Nil, "genre", "must be provided")
	v.Check(requestBody.Category != uuid.Nil, "category", "must be provided")
	v.Check(len(files) <= data.MaxImagesPerUpload, "images", fmt.Sprintf("must not contain more than %d files", data.MaxImagesPerUpload))
	if !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err := s.checkBookReferences(ctx, requestBody.Genre, requestBody.Category, requestBody.Publisher, requestBody.Authors)
	if err != nil {
		return nil, err
	}
	isbn := strings.TrimSpace(requestBody.ISBN)
	err = s.checkDuplicateISBN(ctx, isbn, uuid.Nil)
	if err != nil {
		return nil, err
	}
	now := s.now()
	book := &data.Book{
		ID:              uuid.New(),
		Title:           strings.TrimSpace(requestBody.Title),
		ISBN:            isbn,
		Authors:         data.IDList(requestBody.Authors),
		Publisher:       requestBody.Publisher,
		PublicationYear: requestBody.PublicationYear,
		Edition:         requestBody.Edition,
		Genre:           requestBody.Genre,
		Category:        requestBody.Category,
		Language:        requestBody.Language,
		PageCount:       requestBody.PageCount,
		Description:     requestBody.Description,
		ShelfLocation:   requestBody.ShelfLocation,
		Tags:            pq.StringArray(requestBody.Tags),
		IsReference:     requestBody.IsReference,
		TotalCopies:     1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if book.Language == "" {
		book.Language = data.DefaultLanguage
	}
	if book.Tags == nil {
		book.Tags = pq.StringArray{}
	}
	if requestBody.TotalCopies != nil {
		book.TotalCopies = *requestBody.TotalCopies
	}
	book.AvailableCopies = book.TotalCopies
	if requestBody.AvailableCopies != nil {
		book.AvailableCopies = *requestBody.AvailableCopies
	}
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	images, err := s.uploadImages(ctx, files)
	if err != nil {
		return nil, err
	}
	images.NormalizePrimary()
	book.Images = images
	err = s.repo.CreateBook(ctx, book)
	if err != nil {
		s.releaseImages(ctx, images)
		switch {
		case errors.Is(err, repository.ErrDuplicateISBN):
			return nil, ErrDuplicateISBN
		default:
			return nil, persistenceFailure(err)
		}
	}
	return book, nil
}

// GetBook service retrieves the details of a book.
func (s *service) GetBook(ctx context.Context, bookID uuid.UUID) (*data.Book, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return nil, persistenceFailure(err)
	}
	return book, nil
}

// ListBooks service retrieves a list of paginated books. The list can be filtered and sorted.
func (s *service) ListBooks(ctx context.Context, qs dto.QsListBooks) ([]*data.Book, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	books, metadata, err := s.repo.GetAllBooks(ctx, qs)
	if err != nil {
		return nil, data.Metadata{}, persistenceFailure(err)
	}
	return books, metadata, nil
}

// UpdateBook service updates the details of a book. Only non-empty values in
// the request body replace stored ones; is_reference applies whenever it is
// sent. Images listed in imagesToDelete are removed before new ones are
// appended.
func (s *service) UpdateBook(ctx context.Context, bookID uuid.UUID, requestBody dto.UpdateBookRequestBody, files []storage.File, imagesToDelete []string) (*data.Book, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return nil, persistenceFailure(err)
	}
	v := validator.New()
	if v.Check(len(files) <= data.MaxImagesPerUpload, "images", fmt.Sprintf("must not contain more than %d files", data.MaxImagesPerUpload)); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	if requestBody.ISBN != nil {
		isbn := strings.TrimSpace(*requestBody.ISBN)
		if isbn != "" && isbn != book.ISBN {
			err = s.checkDuplicateISBN(ctx, isbn, book.ID)
			if err != nil {
				return nil, err
			}
			book.ISBN = isbn
		}
	}
	var (
		genre, category uuid.UUID
		publisher       *uuid.UUID
		authors         []uuid.UUID
	)
	if requestBody.Genre != nil && *requestBody.Genre != uuid.Nil && *requestBody.Genre != book.Genre {
		genre = *requestBody.Genre
	}
	if requestBody.Category != nil && *requestBody.Category != uuid.Nil && *requestBody.Category != book.Category {
		category = *requestBody.Category
	}
	if requestBody.Publisher != nil && *requestBody.Publisher != uuid.Nil {
		publisher = requestBody.Publisher
	}
	if len(requestBody.Authors) > 0 {
		authors = requestBody.Authors
	}
	err = s.checkBookReferences(ctx, genre, category, publisher, authors)
	if err != nil {
		return nil, err
	}
	if genre != uuid.Nil {
		book.Genre = genre
	}
	if category != uuid.Nil {
		book.Category = category
	}
	if publisher != nil {
		book.Publisher = publisher
	}
	if authors != nil {
		book.Authors = data.IDList(authors)
	}
	mergeBook(book, requestBody)
	book.UpdatedAt = s.now()
	kept, removed := book.Images.Split(imagesToDelete)
	book.Images = kept
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	uploaded, err := s.uploadImages(ctx, files)
	if err != nil {
		return nil, err
	}
	for i := range uploaded {
		uploaded[i].IsPrimary = false
	}
	book.Images = append(book.Images, uploaded...)
	book.Images.NormalizePrimary()
	err = s.repo.UpdateBook(ctx, book)
	if err != nil {
		s.releaseImages(ctx, uploaded)
		switch {
		case errors.Is(err, repository.ErrDuplicateISBN):
			return nil, ErrDuplicateISBN
		default:
			return nil, persistenceFailure(err)
		}
	}
	// Removed images are only released once the record no longer lists them.
	s.releaseImages(ctx, removed)
	return book, nil
}

// mergeBook copies the non-empty scalar fields of the request body onto book.
func mergeBook(book *data.Book, requestBody dto.UpdateBookRequestBody) {
	if requestBody.Title != nil && strings.TrimSpace(*requestBody.Title) != "" {
		book.Title = strings.TrimSpace(*requestBody.Title)
	}
	if requestBody.PublicationYear != nil && *requestBody.PublicationYear != 0 {
		book.PublicationYear = *requestBody.PublicationYear
	}
	if requestBody.Edition != nil && *requestBody.Edition != "" {
		book.Edition = *requestBody.Edition
	}
	if requestBody.Language != nil && *requestBody.Language != "" {
		book.Language = *requestBody.Language
	}
	if requestBody.PageCount != nil && *requestBody.PageCount != 0 {
		book.PageCount = *requestBody.PageCount
	}
	if requestBody.Description != nil && *requestBody.Description != "" {
		book.Description = *requestBody.Description
	}
	if requestBody.TotalCopies != nil && *requestBody.TotalCopies != 0 {
		book.TotalCopies = *requestBody.TotalCopies
	}
	if requestBody.AvailableCopies != nil && *requestBody.AvailableCopies != 0 {
		book.AvailableCopies = *requestBody.AvailableCopies
	}
	if requestBody.ShelfLocation != nil && *requestBody.ShelfLocation != "" {
		book.ShelfLocation = *requestBody.ShelfLocation
	}
	if len(requestBody.Tags) > 0 {
		book.Tags = pq.StringArray(requestBody.Tags)
	}
	if requestBody.IsReference != nil {
		book.IsReference = *requestBody.IsReference
	}
}

// DeleteBook service deletes a book and then its images. Failing image
// deletions are logged; the record is already gone.
func (s *service) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	book, err := s.repo.DeleteBook(ctx, bookID)
	if err != nil {
		return persistenceFailure(err)
	}
	s.releaseImages(ctx, book.Images)
	return nil
}

// checkBookReferences verifies the lookups a book points at. Zero values are
// skipped.
func (s *service) checkBookReferences(ctx context.Context, genre, category uuid.UUID, publisher *uuid.UUID, authors []uuid.UUID) error {
	if genre != uuid.Nil {
		if err := s.checkLookupsExist(ctx, data.KindGenre, "genre", genre); err != nil {
			return err
		}
	}
	if category != uuid.Nil {
		if err := s.checkLookupsExist(ctx, data.KindCategory, "category", category); err != nil {
			return err
		}
	}
	if publisher != nil && *publisher != uuid.Nil {
		if err := s.checkLookupsExist(ctx, data.KindPublisher, "publisher", *publisher); err != nil {
			return err
		}
	}
	if len(authors) > 0 {
		if err := s.checkLookupsExist(ctx, data.KindAuthor, "authors", authors...); err != nil {
			return err
		}
	}
	return nil
}

// checkDuplicateISBN rejects an ISBN held by a book other than selfID.
func (s *service) checkDuplicateISBN(ctx context.Context, isbn string, selfID uuid.UUID) error {
	existing, err := s.repo.GetBookByISBN(ctx, isbn)
	switch {
	case err == nil:
		if existing.ID != selfID {
			return ErrDuplicateISBN
		}
		return nil
	case errors.Is(err, repository.ErrRecordNotFound):
		return nil
	default:
		return persistenceFailure(err)
	}
}

func (s *service) uploadImages(ctx context.Context, files []storage.File) (data.Images, error) {
	if len(files) == 0 {
		return data.Images{}, nil
	}
	images, err := s.assets.Upload(ctx, files)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedMediaType):
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedMediaType, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrAssetStore, err)
		}
	}
	return images, nil
}

// releaseImages deletes images from the asset store, logging failures.
func (s *service) releaseImages(ctx context.Context, images data.Images) {
	if len(images) == 0 {
		return
	}
	err := s.assets.Delete(context.WithoutCancel(ctx), images)
	if err != nil {
		s.logger.PrintError(err, map[string]string{"action": "delete book images"})
	}
}
