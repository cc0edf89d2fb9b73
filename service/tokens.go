package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/repository"
	"github.com/google/uuid"
)

type tokens interface {
	CreateAdmin(ctx context.Context, requestBody dto.CreateAdminRequestBody) (*data.Admin, error)
	CreateAuthenticationToken(ctx context.Context, email string, password string) (*data.Token, error)
	DeleteAuthenticationToken(ctx context.Context, adminID uuid.UUID) error
	GetAdminForToken(ctx context.Context, tokenScope string, token string) (*data.Admin, error)
}

// CreateAdmin service creates an activated staff account.
func (s *service) CreateAdmin(ctx context.Context, requestBody dto.CreateAdminRequestBody) (*data.Admin, error) {
	admin := &data.Admin{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(requestBody.Name),
		Email:     strings.ToLower(strings.TrimSpace(requestBody.Email)),
		Role:      requestBody.Role,
		Activated: true,
	}
	if admin.Role == "" {
		admin.Role = data.RoleLibrarian
	}
	err := admin.Password.Set(requestBody.Password)
	if err != nil {
		return nil, err
	}
	v := validator.New()
	if data.ValidateAdmin(v, admin); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err = s.repo.CreateAdmin(ctx, admin)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		default:
			return nil, persistenceFailure(err)
		}
	}
	return admin, nil
}

// CreateAuthenticationToken service creates a new authentication token.
func (s *service) CreateAuthenticationToken(ctx context.Context, email string, password string) (*data.Token, error) {
	v := validator.New()
	email = strings.ToLower(strings.TrimSpace(email))
	data.ValidateEmail(v, email)
	data.ValidatePasswordPlaintext(v, password)
	if !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	admin, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, persistenceFailure(err)
		}
	}
	match, err := admin.Password.Matches(password)
	if err != nil {
		return nil, err
	}
	if !match || !admin.Activated {
		return nil, ErrInvalidCredentials
	}
	ttl, err := time.ParseDuration(s.config.Auth.TokenTTL)
	if err != nil {
		return nil, err
	}
	token, err := s.repo.CreateNewToken(ctx, admin.ID, ttl, data.ScopeAuthentication)
	if err != nil {
		return nil, persistenceFailure(err)
	}
	return token, nil
}

// DeleteAuthenticationToken deletes all authentication tokens for an admin.
func (s *service) DeleteAuthenticationToken(ctx context.Context, adminID uuid.UUID) error {
	err := s.repo.DeleteAllTokensForAdmin(ctx, data.ScopeAuthentication, adminID)
	if err != nil {
		return persistenceFailure(err)
	}
	return nil
}

// GetAdminForToken retrieves the admin associated with a token.
func (s *service) GetAdminForToken(ctx context.Context, tokenScope string, token string) (*data.Admin, error) {
	v := validator.New()
	if data.ValidateTokenPlaintext(v, token); !v.Valid() {
		return nil, ErrInvalidCredentials
	}
	admin, err := s.repo.GetAdminForToken(ctx, tokenScope, token)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, persistenceFailure(err)
		}
	}
	return admin, nil
}
