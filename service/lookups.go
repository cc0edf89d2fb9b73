package service

import (
	"context"
	"errors"
	"strings"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/repository"
	"github.com/google/uuid"
)

type lookups interface {
	CreateLookup(ctx context.Context, kind data.LookupKind, requestBody dto.CreateLookupRequestBody) (*data.Lookup, error)
	GetLookup(ctx context.Context, kind data.LookupKind, idOrAlias string) (*data.Lookup, error)
	ListLookups(ctx context.Context, kind data.LookupKind, qs dto.QsListLookups) ([]*data.Lookup, data.Metadata, error)
	UpdateLookup(ctx context.Context, kind data.LookupKind, id uuid.UUID, requestBody dto.UpdateLookupRequestBody) (*data.Lookup, error)
	DeleteLookup(ctx context.Context, kind data.LookupKind, id uuid.UUID) error
}

// CreateLookup service creates an author, genre, category or publisher.
func (s *service) CreateLookup(ctx context.Context, kind data.LookupKind, requestBody dto.CreateLookupRequestBody) (*data.Lookup, error) {
	now := s.now()
	lookup := &data.Lookup{
		ID:          uuid.New(),
		Kind:        kind,
		Name:        strings.TrimSpace(requestBody.Name),
		Description: requestBody.Description,
		Details:     requestBody.Details,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	lookup.Alias = data.Alias(lookup.Name)
	if kind == data.KindGenre {
		lookup.Category = requestBody.Category
	}
	v := validator.New()
	if data.ValidateLookup(v, lookup); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err := s.checkDuplicateLookup(ctx, lookup)
	if err != nil {
		return nil, err
	}
	if lookup.Category != nil {
		err = s.checkLookupsExist(ctx, data.KindCategory, "category", *lookup.Category)
		if err != nil {
			return nil, err
		}
	}
	err = s.repo.CreateLookup(ctx, lookup)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateLookup):
			return nil, ErrDuplicateLookup
		default:
			return nil, persistenceFailure(err)
		}
	}
	return lookup, nil
}

// GetLookup service resolves a lookup by ID when idOrAlias is a well-formed
// ID, and by exact alias otherwise.
func (s *service) GetLookup(ctx context.Context, kind data.LookupKind, idOrAlias string) (*data.Lookup, error) {
	var (
		lookup *data.Lookup
		err    error
	)
	if id, parseErr := uuid.Parse(idOrAlias); parseErr == nil {
		lookup, err = s.repo.GetLookup(ctx, kind, id)
	} else {
		lookup, err = s.repo.GetLookupByAlias(ctx, kind, idOrAlias)
	}
	if err != nil {
		return nil, persistenceFailure(err)
	}
	return lookup, nil
}

// ListLookups service retrieves a paginated list of lookups of one kind.
func (s *service) ListLookups(ctx context.Context, kind data.LookupKind, qs dto.QsListLookups) ([]*data.Lookup, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, qs.Filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	if kind != data.KindGenre {
		qs.Category = nil
	}
	lookups, metadata, err := s.repo.GetAllLookups(ctx, kind, qs)
	if err != nil {
		return nil, data.Metadata{}, persistenceFailure(err)
	}
	return lookups, metadata, nil
}

// UpdateLookup service updates a lookup. The alias is derived again only
// when the name changes.
func (s *service) UpdateLookup(ctx context.Context, kind data.LookupKind, id uuid.UUID, requestBody dto.UpdateLookupRequestBody) (*data.Lookup, error) {
	lookup, err := s.repo.GetLookup(ctx, kind, id)
	if err != nil {
		return nil, persistenceFailure(err)
	}
	nameChanged := false
	if requestBody.Name != nil {
		name := strings.TrimSpace(*requestBody.Name)
		if name != "" && name != lookup.Name {
			lookup.Name = name
			lookup.Alias = data.Alias(name)
			nameChanged = true
		}
	}
	if requestBody.Description != nil && *requestBody.Description != "" {
		lookup.Description = *requestBody.Description
	}
	categoryChanged := false
	if kind == data.KindGenre && requestBody.Category != nil && *requestBody.Category != uuid.Nil {
		categoryChanged = lookup.Category == nil || *lookup.Category != *requestBody.Category
		lookup.Category = requestBody.Category
	}
	if requestBody.Details != nil {
		lookup.Details = lookup.Details.Merge(*requestBody.Details)
	}
	lookup.UpdatedAt = s.now()
	v := validator.New()
	if data.ValidateLookup(v, lookup); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	if nameChanged {
		err = s.checkDuplicateLookup(ctx, lookup)
		if err != nil {
			return nil, err
		}
	}
	if categoryChanged {
		err = s.checkLookupsExist(ctx, data.KindCategory, "category", *lookup.Category)
		if err != nil {
			return nil, err
		}
	}
	err = s.repo.UpdateLookup(ctx, lookup)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateLookup):
			return nil, ErrDuplicateLookup
		default:
			return nil, persistenceFailure(err)
		}
	}
	return lookup, nil
}

// DeleteLookup service deletes a lookup that nothing refers to any more.
func (s *service) DeleteLookup(ctx context.Context, kind data.LookupKind, id uuid.UUID) error {
	_, err := s.repo.GetLookup(ctx, kind, id)
	if err != nil {
		return persistenceFailure(err)
	}
	references, err := s.repo.CountLookupReferences(ctx, kind, id)
	if err != nil {
		return persistenceFailure(err)
	}
	if references > 0 {
		return ErrLookupInUse
	}
	err = s.repo.DeleteLookup(ctx, kind, id)
	if err != nil {
		return persistenceFailure(err)
	}
	return nil
}

// checkDuplicateLookup rejects a lookup whose name or alias is already used
// by another lookup of the same kind.
func (s *service) checkDuplicateLookup(ctx context.Context, lookup *data.Lookup) error {
	_, err := s.repo.FindDuplicateLookup(ctx, lookup.Kind, lookup.Name, lookup.Alias, lookup.ID)
	switch {
	case err == nil:
		return ErrDuplicateLookup
	case errors.Is(err, repository.ErrRecordNotFound):
		return nil
	default:
		return persistenceFailure(err)
	}
}

// checkLookupsExist fails with ErrReferenceNotFound naming field unless
// every id refers to a lookup of the given kind.
func (s *service) checkLookupsExist(ctx context.Context, kind data.LookupKind, field string, ids ...uuid.UUID) error {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	count, err := s.repo.CountLookups(ctx, kind, unique)
	if err != nil {
		return persistenceFailure(err)
	}
	if count != len(unique) {
		return referenceNotFound(field)
	}
	return nil
}
