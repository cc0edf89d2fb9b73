package service

import (
	"context"
	"errors"
	"testing"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/repository"
	"github.com/emzola/athenaeum/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults copies and language", func(t *testing.T) {
		svc, repo, assets := newTestService(t)
		c := seedCatalog(t, repo)

		book, err := svc.CreateBook(ctx, c.bookRequest("9780441013593"), []storage.File{pngFile, pngFile})
		require.NoError(t, err)

		assert.Equal(t, 1, book.TotalCopies)
		assert.Equal(t, 1, book.AvailableCopies)
		assert.Equal(t, data.DefaultLanguage, book.Language)
		require.Len(t, book.Images, 2)
		assert.True(t, book.Images[0].IsPrimary)
		assert.False(t, book.Images[1].IsPrimary)
		assert.Len(t, assets.stored, 2)
		assert.Contains(t, repo.books, book.ID)
	})

	t.Run("available copies follow total copies", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		c := seedCatalog(t, repo)
		body := c.bookRequest("9780441013593")
		total := 4
		body.TotalCopies = &total

		book, err := svc.CreateBook(ctx, body, nil)
		require.NoError(t, err)
		assert.Equal(t, 4, book.AvailableCopies)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _, assets := newTestService(t)

		_, err := svc.CreateBook(ctx, dto.CreateBookRequestBody{}, []storage.File{pngFile})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ErrorIs(t, err, ErrFailedValidation)
		for _, field := range []string{"title", "isbn", "authors", "genre", "category"} {
			assert.Contains(t, verr.Errors, field)
		}
		assert.Zero(t, assets.uploads)
	})

	t.Run("unknown genre uploads nothing", func(t *testing.T) {
		svc, repo, assets := newTestService(t)
		c := seedCatalog(t, repo)
		body := c.bookRequest("9780441013593")
		body.Genre = uuid.New()

		_, err := svc.CreateBook(ctx, body, []storage.File{pngFile})

		assert.ErrorIs(t, err, ErrReferenceNotFound)
		assert.ErrorContains(t, err, "genre")
		assert.Zero(t, assets.uploads)
		assert.Empty(t, repo.books)
	})

	t.Run("unknown author", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		c := seedCatalog(t, repo)
		body := c.bookRequest("9780441013593")
		body.Authors = append(body.Authors, uuid.New())

		_, err := svc.CreateBook(ctx, body, nil)
		assert.ErrorIs(t, err, ErrReferenceNotFound)
	})

	t.Run("a genre id is not a category", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		c := seedCatalog(t, repo)
		body := c.bookRequest("9780441013593")
		body.Category = c.genre.ID

		_, err := svc.CreateBook(ctx, body, nil)
		assert.ErrorIs(t, err, ErrReferenceNotFound)
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		svc, repo, assets := newTestService(t)
		c := seedCatalog(t, repo)
		_, err := svc.CreateBook(ctx, c.bookRequest("9780441013593"), nil)
		require.NoError(t, err)

		_, err = svc.CreateBook(ctx, c.bookRequest("9780441013593"), []storage.File{pngFile})

		assert.ErrorIs(t, err, ErrDuplicateISBN)
		assert.ErrorIs(t, err, ErrDuplicateRecord)
		assert.Zero(t, assets.uploads)
		assert.Len(t, repo.books, 1)
	})

	t.Run("copy invariant", func(t *testing.T) {
		svc, repo, assets := newTestService(t)
		c := seedCatalog(t, repo)
		body := c.bookRequest("9780441013593")
		total, available := 2, 3
		body.TotalCopies, body.AvailableCopies = &total, &available

		_, err := svc.CreateBook(ctx, body, []storage.File{pngFile})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Errors, "available_copies")
		assert.Zero(t, assets.uploads)
	})

	t.Run("upload failure", func(t *testing.T) {
		svc, repo, assets := newTestService(t)
		c := seedCatalog(t, repo)
		assets.uploadErr = storage.ErrUpload

		_, err := svc.CreateBook(ctx, c.bookRequest("9780441013593"), []storage.File{pngFile})

		assert.ErrorIs(t, err, ErrAssetStore)
		assert.Empty(t, repo.books)
	})

	t.Run("unsupported media type", func(t *testing.T) {
		svc, repo, assets := newTestService(t)
		c := seedCatalog(t, repo)
		assets.uploadErr = storage.ErrUnsupportedMediaType

		_, err := svc.CreateBook(ctx, c.bookRequest("9780441013593"), []storage.File{{Filename: "notes.txt", Content: []byte("hello")}})
		assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	})

	t.Run("persist failure removes the uploaded batch", func(t *testing.T) {
		svc, repo, assets := newTestService(t)
		c := seedCatalog(t, repo)
		repo.createBookErr = errors.New("connection reset")

		_, err := svc.CreateBook(ctx, c.bookRequest("9780441013593"), []storage.File{pngFile, pngFile, pngFile})

		assert.ErrorIs(t, err, ErrPersistence)
		assert.Equal(t, 1, assets.uploads)
		assert.Len(t, assets.deleted, 3)
		assert.Empty(t, assets.stored)
	})
}

func TestUpdateBook(t *testing.T) {
	ctx := context.Background()

	newBook := func(t *testing.T) (*service, *fakeRepo, *fakeAssets, catalog, *data.Book) {
		svc, repo, assets := newTestService(t)
		c := seedCatalog(t, repo)
		book, err := svc.CreateBook(ctx, c.bookRequest("9780441013593"), []storage.File{pngFile, pngFile})
		require.NoError(t, err)
		return svc, repo, assets, c, book
	}

	t.Run("replaces the primary image", func(t *testing.T) {
		svc, _, assets, _, book := newBook(t)
		removed := book.Images[0].StorageID

		updated, err := svc.UpdateBook(ctx, book.ID, dto.UpdateBookRequestBody{}, []storage.File{pngFile}, []string{removed})
		require.NoError(t, err)

		require.Len(t, updated.Images, 2)
		primaries := 0
		for _, img := range updated.Images {
			assert.NotEqual(t, removed, img.StorageID)
			if img.IsPrimary {
				primaries++
			}
		}
		assert.Equal(t, 1, primaries)
		assert.Equal(t, []string{removed}, assets.deleted)
		assert.NotContains(t, assets.stored, removed)
	})

	t.Run("zero values do not overwrite", func(t *testing.T) {
		svc, _, _, _, book := newBook(t)
		empty, zero, isReference := "", 0, true

		updated, err := svc.UpdateBook(ctx, book.ID, dto.UpdateBookRequestBody{
			Title:       &empty,
			TotalCopies: &zero,
			IsReference: &isReference,
		}, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, "Dune", updated.Title)
		assert.Equal(t, 1, updated.TotalCopies)
		assert.True(t, updated.IsReference)
		assert.Equal(t, book.Version+1, updated.Version)
	})

	t.Run("isbn taken by another book", func(t *testing.T) {
		svc, _, _, c, book := newBook(t)
		_, err := svc.CreateBook(ctx, c.bookRequest("9780441172719"), nil)
		require.NoError(t, err)
		isbn := "9780441172719"

		_, err = svc.UpdateBook(ctx, book.ID, dto.UpdateBookRequestBody{ISBN: &isbn}, nil, nil)
		assert.ErrorIs(t, err, ErrDuplicateISBN)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc, _, assets, _, book := newBook(t)
		category := uuid.New()

		_, err := svc.UpdateBook(ctx, book.ID, dto.UpdateBookRequestBody{Category: &category}, []storage.File{pngFile}, nil)

		assert.ErrorIs(t, err, ErrReferenceNotFound)
		assert.Equal(t, 1, assets.uploads)
	})

	t.Run("copy invariant", func(t *testing.T) {
		svc, _, _, _, book := newBook(t)
		available := 7

		_, err := svc.UpdateBook(ctx, book.ID, dto.UpdateBookRequestBody{AvailableCopies: &available}, nil, nil)
		assert.ErrorIs(t, err, ErrFailedValidation)
	})

	t.Run("stale version", func(t *testing.T) {
		svc, repo, assets, _, book := newBook(t)
		kept := book.Images[1].StorageID
		removed := book.Images[0].StorageID
		repo.updateBookErr = repository.ErrEditConflict

		_, err := svc.UpdateBook(ctx, book.ID, dto.UpdateBookRequestBody{}, []storage.File{pngFile}, []string{removed})

		assert.ErrorIs(t, err, ErrEditConflict)
		require.Len(t, assets.deleted, 1)
		assert.NotContains(t, []string{removed, kept}, assets.deleted[0])
		assert.Len(t, assets.stored, 2)
		assert.Contains(t, assets.stored, removed)
		assert.Contains(t, assets.stored, kept)
		stored := repo.books[book.ID]
		require.Len(t, stored.Images, 2)
		assert.Equal(t, removed, stored.Images[0].StorageID)
	})

	t.Run("persistence failure keeps removed images", func(t *testing.T) {
		svc, repo, assets, _, book := newBook(t)
		removed := book.Images[0].StorageID
		repo.updateBookErr = errors.New("connection reset")

		_, err := svc.UpdateBook(ctx, book.ID, dto.UpdateBookRequestBody{}, nil, []string{removed})

		assert.ErrorIs(t, err, ErrPersistence)
		assert.Empty(t, assets.deleted)
		assert.Contains(t, assets.stored, removed)
	})

	t.Run("releases removed images after saving", func(t *testing.T) {
		svc, repo, assets, _, book := newBook(t)
		removed := book.Images[0].StorageID

		_, err := svc.UpdateBook(ctx, book.ID, dto.UpdateBookRequestBody{}, nil, []string{removed})
		require.NoError(t, err)

		assert.Equal(t, []string{removed}, assets.deleted)
		assert.NotContains(t, assets.stored, removed)
		require.Len(t, repo.books[book.ID].Images, 1)
		assert.True(t, repo.books[book.ID].Images[0].IsPrimary)
	})

	t.Run("missing book", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.UpdateBook(ctx, uuid.New(), dto.UpdateBookRequestBody{}, nil, nil)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()

	t.Run("attempts every image", func(t *testing.T) {
		svc, repo, assets := newTestService(t)
		c := seedCatalog(t, repo)
		book, err := svc.CreateBook(ctx, c.bookRequest("9780441013593"), []storage.File{pngFile, pngFile, pngFile})
		require.NoError(t, err)
		assets.deleteErr[book.Images[1].StorageID] = true

		err = svc.DeleteBook(ctx, book.ID)
		require.NoError(t, err)

		assert.Empty(t, repo.books)
		assert.Len(t, assets.deleted, 3)
		assert.Len(t, assets.stored, 1)
	})

	t.Run("missing book", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		err := svc.DeleteBook(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}
