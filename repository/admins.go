package repository

import (
	"context"
	"errors"
	"time"

	"github.com/emzola/athenaeum/data"
	"github.com/google/uuid"
)

type admins interface {
	CreateAdmin(ctx context.Context, admin *data.Admin) error
	GetAdminByEmail(ctx context.Context, email string) (*data.Admin, error)
	GetAdminForToken(ctx context.Context, tokenScope string, tokenPlaintext string) (*data.Admin, error)
	UpdateAdmin(ctx context.Context, admin *data.Admin) error
}

// CreateAdmin creates a new staff account.
func (r *repository) CreateAdmin(ctx context.Context, admin *data.Admin) error {
	query := `
		INSERT INTO admins (id, name, email, password_hash, role, activated)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, version`
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	args := []any{admin.ID, admin.Name, admin.Email, admin.Password.Hash, admin.Role, admin.Activated}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.QueryRowxContext(ctx, query, args...).Scan(&admin.CreatedAt, &admin.Version)
	return translate(err)
}

// GetAdminByEmail retrieves a staff account by its e-mail address.
func (r *repository) GetAdminByEmail(ctx context.Context, email string) (*data.Admin, error) {
	query := `
		SELECT id, created_at, name, email, password_hash, role, activated, version
		FROM admins
		WHERE email = $1`
	var admin data.Admin
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.QueryRowxContext(ctx, query, email).Scan(
		&admin.ID,
		&admin.CreatedAt,
		&admin.Name,
		&admin.Email,
		&admin.Password.Hash,
		&admin.Role,
		&admin.Activated,
		&admin.Version,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

// GetAdminForToken returns the staff account holding an unexpired token.
func (r *repository) GetAdminForToken(ctx context.Context, tokenScope string, tokenPlaintext string) (*data.Admin, error) {
	query := `
		SELECT admins.id, admins.created_at, admins.name, admins.email, admins.password_hash, admins.role,
			admins.activated, admins.version
		FROM admins
		INNER JOIN tokens
		ON admins.id = tokens.admin_id
		WHERE tokens.hash = $1
		AND tokens.scope = $2
		AND tokens.expiry > $3`
	args := []any{data.TokenHash(tokenPlaintext), tokenScope, time.Now()}
	var admin data.Admin
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := r.db.QueryRowxContext(ctx, query, args...).Scan(
		&admin.ID,
		&admin.CreatedAt,
		&admin.Name,
		&admin.Email,
		&admin.Password.Hash,
		&admin.Role,
		&admin.Activated,
		&admin.Version,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}

// UpdateAdmin updates a staff account.
func (r *repository) UpdateAdmin(ctx context.Context, admin *data.Admin) error {
	query := `
		UPDATE admins
		SET name = $1, email = $2, password_hash = $3, role = $4, activated = $5, version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version`
	args := []any{
		admin.Name,
		admin.Email,
		admin.Password.Hash,
		admin.Role,
		admin.Activated,
		admin.ID,
		admin.Version,
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	err := translate(r.db.QueryRowxContext(ctx, query, args...).Scan(&admin.Version))
	if errors.Is(err, ErrRecordNotFound) {
		return ErrEditConflict
	}
	return err
}
