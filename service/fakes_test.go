package service

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emzola/athenaeum/config"
	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/jsonlog"
	"github.com/emzola/athenaeum/repository"
	"github.com/emzola/athenaeum/storage"
	"github.com/google/uuid"
)

var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// fakeRepo is an in-memory repository.Repository.
type fakeRepo struct {
	mu           sync.Mutex
	books        map[uuid.UUID]*data.Book
	lookups      map[uuid.UUID]*data.Lookup
	readers      map[uuid.UUID]*data.Reader
	transactions []*data.Transaction
	admins       map[uuid.UUID]*data.Admin
	tokens       map[string]*data.Token

	createBookErr error
	updateBookErr error
	loanErr       error
}

var _ repository.Repository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		books:   make(map[uuid.UUID]*data.Book),
		lookups: make(map[uuid.UUID]*data.Lookup),
		readers: make(map[uuid.UUID]*data.Reader),
		admins:  make(map[uuid.UUID]*data.Admin),
		tokens:  make(map[string]*data.Token),
	}
}

func cloneBook(b *data.Book) *data.Book {
	c := *b
	c.Authors = slices.Clone(b.Authors)
	c.Images = slices.Clone(b.Images)
	c.Tags = slices.Clone(b.Tags)
	return &c
}

func cloneReader(r *data.Reader) *data.Reader {
	c := *r
	c.BorrowedBooks = slices.Clone(r.BorrowedBooks)
	return &c
}

func cloneLookup(l *data.Lookup) *data.Lookup {
	c := *l
	return &c
}

func (f *fakeRepo) CreateBook(_ context.Context, book *data.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createBookErr != nil {
		return f.createBookErr
	}
	for _, b := range f.books {
		if b.ISBN == book.ISBN {
			return repository.ErrDuplicateISBN
		}
	}
	book.Version = 1
	f.books[book.ID] = cloneBook(book)
	return nil
}

func (f *fakeRepo) GetBook(_ context.Context, id uuid.UUID) (*data.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return cloneBook(b), nil
}

func (f *fakeRepo) GetBookByISBN(_ context.Context, isbn string) (*data.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.ISBN == isbn {
			return cloneBook(b), nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (f *fakeRepo) GetAllBooks(_ context.Context, qs dto.QsListBooks) ([]*data.Book, data.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var books []*data.Book
	for _, b := range f.books {
		if qs.Search == "" || strings.Contains(strings.ToLower(b.Title), strings.ToLower(qs.Search)) {
			books = append(books, cloneBook(b))
		}
	}
	return books, data.CalculateMetadata(len(books), qs.Filters.Page, qs.Filters.Limit), nil
}

func (f *fakeRepo) updateBook(book *data.Book) error {
	stored, ok := f.books[book.ID]
	if !ok || stored.Version != book.Version {
		return repository.ErrEditConflict
	}
	if book.AvailableCopies < 0 || book.AvailableCopies > book.TotalCopies {
		return repository.ErrInvalidCopies
	}
	book.Version++
	f.books[book.ID] = cloneBook(book)
	return nil
}

func (f *fakeRepo) UpdateBook(_ context.Context, book *data.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateBookErr != nil {
		return f.updateBookErr
	}
	return f.updateBook(book)
}

func (f *fakeRepo) DeleteBook(_ context.Context, id uuid.UUID) (*data.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	delete(f.books, id)
	return b, nil
}

func (f *fakeRepo) CreateLookup(_ context.Context, lookup *data.Lookup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findDuplicate(lookup.Kind, lookup.Name, lookup.Alias, lookup.ID) != nil {
		return repository.ErrDuplicateLookup
	}
	lookup.Version = 1
	f.lookups[lookup.ID] = cloneLookup(lookup)
	return nil
}

func (f *fakeRepo) GetLookup(_ context.Context, kind data.LookupKind, id uuid.UUID) (*data.Lookup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lookups[id]
	if !ok || l.Kind != kind {
		return nil, repository.ErrRecordNotFound
	}
	return cloneLookup(l), nil
}

func (f *fakeRepo) GetLookupByAlias(_ context.Context, kind data.LookupKind, alias string) (*data.Lookup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lookups {
		if l.Kind == kind && l.Alias == alias {
			return cloneLookup(l), nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (f *fakeRepo) findDuplicate(kind data.LookupKind, name, alias string, excludeID uuid.UUID) *data.Lookup {
	for _, l := range f.lookups {
		if l.Kind == kind && l.ID != excludeID && (strings.EqualFold(l.Name, name) || l.Alias == alias) {
			return l
		}
	}
	return nil
}

func (f *fakeRepo) FindDuplicateLookup(_ context.Context, kind data.LookupKind, name, alias string, excludeID uuid.UUID) (*data.Lookup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l := f.findDuplicate(kind, name, alias, excludeID); l != nil {
		return cloneLookup(l), nil
	}
	return nil, repository.ErrRecordNotFound
}

func (f *fakeRepo) CountLookups(_ context.Context, kind data.LookupKind, ids []uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, id := range ids {
		if l, ok := f.lookups[id]; ok && l.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) GetAllLookups(_ context.Context, kind data.LookupKind, qs dto.QsListLookups) ([]*data.Lookup, data.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var lookups []*data.Lookup
	for _, l := range f.lookups {
		if l.Kind != kind {
			continue
		}
		if qs.Category != nil && (l.Category == nil || *l.Category != *qs.Category) {
			continue
		}
		lookups = append(lookups, cloneLookup(l))
	}
	return lookups, data.CalculateMetadata(len(lookups), qs.Filters.Page, qs.Filters.Limit), nil
}

func (f *fakeRepo) UpdateLookup(_ context.Context, lookup *data.Lookup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.lookups[lookup.ID]
	if !ok || stored.Version != lookup.Version {
		return repository.ErrEditConflict
	}
	lookup.Version++
	f.lookups[lookup.ID] = cloneLookup(lookup)
	return nil
}

func (f *fakeRepo) DeleteLookup(_ context.Context, kind data.LookupKind, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lookups[id]
	if !ok || l.Kind != kind {
		return repository.ErrRecordNotFound
	}
	delete(f.lookups, id)
	return nil
}

func (f *fakeRepo) CountLookupReferences(_ context.Context, kind data.LookupKind, id uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, b := range f.books {
		switch {
		case kind == data.KindAuthor && b.Authors.Contains(id),
			kind == data.KindGenre && b.Genre == id,
			kind == data.KindCategory && b.Category == id,
			kind == data.KindPublisher && b.Publisher != nil && *b.Publisher == id:
			count++
		}
	}
	if kind == data.KindCategory {
		for _, l := range f.lookups {
			if l.Kind == data.KindGenre && l.Category != nil && *l.Category == id {
				count++
			}
		}
	}
	return count, nil
}

func (f *fakeRepo) CreateReader(_ context.Context, reader *data.Reader) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.readers {
		switch {
		case r.Email == reader.Email:
			return repository.ErrDuplicateEmail
		case r.Phone == reader.Phone:
			return repository.ErrDuplicatePhone
		}
	}
	reader.Version = 1
	f.readers[reader.ID] = cloneReader(reader)
	return nil
}

func (f *fakeRepo) GetReader(_ context.Context, id uuid.UUID) (*data.Reader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.readers[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return cloneReader(r), nil
}

func (f *fakeRepo) getReaderBy(match func(*data.Reader) bool) (*data.Reader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.readers {
		if match(r) {
			return cloneReader(r), nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (f *fakeRepo) GetReaderByEmail(_ context.Context, email string) (*data.Reader, error) {
	return f.getReaderBy(func(r *data.Reader) bool { return r.Email == email })
}

func (f *fakeRepo) GetReaderByPhone(_ context.Context, phone string) (*data.Reader, error) {
	return f.getReaderBy(func(r *data.Reader) bool { return r.Phone == phone })
}

func (f *fakeRepo) GetAllReaders(_ context.Context, qs dto.QsListReaders) ([]*data.Reader, data.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var readers []*data.Reader
	for _, r := range f.readers {
		readers = append(readers, cloneReader(r))
	}
	return readers, data.CalculateMetadata(len(readers), qs.Filters.Page, qs.Filters.Limit), nil
}

func (f *fakeRepo) updateReader(reader *data.Reader) error {
	stored, ok := f.readers[reader.ID]
	if !ok || stored.Version != reader.Version {
		return repository.ErrEditConflict
	}
	reader.Version++
	f.readers[reader.ID] = cloneReader(reader)
	return nil
}

func (f *fakeRepo) UpdateReader(_ context.Context, reader *data.Reader) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updateReader(reader)
}

func (f *fakeRepo) DeleteReader(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.readers[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(f.readers, id)
	return nil
}

// commit applies every write or none, like the SQL transaction it stands in for.
func (f *fakeRepo) commit(book *data.Book, reader *data.Reader, txn *data.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loanErr != nil {
		return f.loanErr
	}
	if book != nil {
		stored, ok := f.books[book.ID]
		if !ok || stored.Version != book.Version {
			return repository.ErrEditConflict
		}
		if book.AvailableCopies < 0 || book.AvailableCopies > book.TotalCopies {
			return repository.ErrInvalidCopies
		}
	}
	if stored, ok := f.readers[reader.ID]; !ok || stored.Version != reader.Version {
		return repository.ErrEditConflict
	}
	if book != nil {
		book.Version++
		f.books[book.ID] = cloneBook(book)
	}
	reader.Version++
	f.readers[reader.ID] = cloneReader(reader)
	f.transactions = append(f.transactions, txn)
	return nil
}

func (f *fakeRepo) LendBook(_ context.Context, book *data.Book, reader *data.Reader, txn *data.Transaction) error {
	return f.commit(book, reader, txn)
}

func (f *fakeRepo) ReturnBook(_ context.Context, book *data.Book, reader *data.Reader, txn *data.Transaction) error {
	return f.commit(book, reader, txn)
}

func (f *fakeRepo) SettleFine(_ context.Context, reader *data.Reader, txn *data.Transaction) error {
	return f.commit(nil, reader, txn)
}

func (f *fakeRepo) GetTransaction(_ context.Context, id uuid.UUID) (*data.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, txn := range f.transactions {
		if txn.ID == id {
			return txn, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (f *fakeRepo) GetAllTransactions(_ context.Context, qs dto.QsListTransactions) ([]*data.Transaction, data.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var txns []*data.Transaction
	for _, txn := range f.transactions {
		if qs.ReaderID != nil && txn.ReaderID != *qs.ReaderID {
			continue
		}
		if qs.Type != "" && txn.Type != qs.Type {
			continue
		}
		txns = append(txns, txn)
	}
	return txns, data.CalculateMetadata(len(txns), qs.Filters.Page, qs.Filters.Limit), nil
}

func (f *fakeRepo) CreateAdmin(_ context.Context, admin *data.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.admins {
		if a.Email == admin.Email {
			return repository.ErrDuplicateEmail
		}
	}
	admin.Version = 1
	stored := *admin
	f.admins[admin.ID] = &stored
	return nil
}

func (f *fakeRepo) GetAdminByEmail(_ context.Context, email string) (*data.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.admins {
		if a.Email == email {
			c := *a
			return &c, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (f *fakeRepo) GetAdminForToken(_ context.Context, scope string, plaintext string) (*data.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[string(data.TokenHash(plaintext))]
	if !ok || token.Scope != scope || token.Expiry.Before(time.Now()) {
		return nil, repository.ErrRecordNotFound
	}
	c := *f.admins[token.AdminID]
	return &c, nil
}

func (f *fakeRepo) UpdateAdmin(_ context.Context, admin *data.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *admin
	f.admins[admin.ID] = &stored
	return nil
}

func (f *fakeRepo) CreateNewToken(_ context.Context, adminID uuid.UUID, ttl time.Duration, scope string) (*data.Token, error) {
	token, err := data.GenerateToken(adminID, ttl, scope)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[string(token.Hash)] = token
	return token, nil
}

func (f *fakeRepo) DeleteAllTokensForAdmin(_ context.Context, scope string, adminID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, token := range f.tokens {
		if token.Scope == scope && token.AdminID == adminID {
			delete(f.tokens, k)
		}
	}
	return nil
}

// fakeAssets records uploads and deletions.
type fakeAssets struct {
	mu        sync.Mutex
	uploads   int
	stored    map[string]bool
	deleted   []string
	uploadErr error
	deleteErr map[string]bool
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{stored: make(map[string]bool), deleteErr: make(map[string]bool)}
}

func (a *fakeAssets) Upload(_ context.Context, files []storage.File) (data.Images, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.uploads++
	if a.uploadErr != nil {
		return nil, a.uploadErr
	}
	images := make(data.Images, 0, len(files))
	for i, f := range files {
		key := "books/" + uuid.NewString() + "-" + f.Filename
		a.stored[key] = true
		images = append(images, data.Image{Path: "https://assets.test/" + key, StorageID: key, IsPrimary: i == 0})
	}
	return images, nil
}

func (a *fakeAssets) Delete(_ context.Context, images data.Images) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var errs []error
	for _, img := range images {
		a.deleted = append(a.deleted, img.StorageID)
		if a.deleteErr[img.StorageID] {
			errs = append(errs, errors.New("delete failed: "+img.StorageID))
			continue
		}
		delete(a.stored, img.StorageID)
	}
	if len(errs) > 0 {
		return errors.Join(storage.ErrDelete, errors.Join(errs...))
	}
	return nil
}

func newTestService(t *testing.T) (*service, *fakeRepo, *fakeAssets) {
	t.Helper()
	var cfg config.Config
	cfg.Loans.PeriodDays = 14
	cfg.Loans.FinePerDay = 10
	cfg.Readers.DefaultCountry = "India"
	cfg.Auth.TokenTTL = "24h"
	repo, assets := newFakeRepo(), newFakeAssets()
	svc := New(cfg, &sync.WaitGroup{}, jsonlog.New(io.Discard, jsonlog.LevelOff), repo, assets)
	svc.now = func() time.Time { return testNow }
	return svc, repo, assets
}

// seedLookup stores a lookup directly in the fake repository.
func seedLookup(t *testing.T, repo *fakeRepo, kind data.LookupKind, name string, category *uuid.UUID) *data.Lookup {
	t.Helper()
	l := &data.Lookup{ID: uuid.New(), Kind: kind, Name: name, Alias: data.Alias(name), Category: category, Version: 1}
	repo.lookups[l.ID] = l
	return l
}

// catalog holds one lookup of each kind.
type catalog struct {
	author, genre, category, publisher *data.Lookup
}

func seedCatalog(t *testing.T, repo *fakeRepo) catalog {
	t.Helper()
	category := seedLookup(t, repo, data.KindCategory, "Fiction", nil)
	return catalog{
		author:    seedLookup(t, repo, data.KindAuthor, "Frank Herbert", nil),
		genre:     seedLookup(t, repo, data.KindGenre, "Science Fiction", &category.ID),
		category:  category,
		publisher: seedLookup(t, repo, data.KindPublisher, "Chilton Books", nil),
	}
}

func (c catalog) bookRequest(isbn string) dto.CreateBookRequestBody {
	return dto.CreateBookRequestBody{
		Title:     "Dune",
		ISBN:      isbn,
		Authors:   []uuid.UUID{c.author.ID},
		Publisher: &c.publisher.ID,
		Genre:     c.genre.ID,
		Category:  c.category.ID,
	}
}

var pngFile = storage.File{Filename: "cover.png", Content: []byte("\x89PNG\r\n\x1a\n")}
