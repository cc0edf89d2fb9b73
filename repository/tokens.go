package repository

import (
	"context"
	"time"

	"github.com/emzola/athenaeum/data"
	"github.com/google/uuid"
)

type tokens interface {
	CreateNewToken(ctx context.Context, adminID uuid.UUID, ttl time.Duration, scope string) (*data.Token, error)
	DeleteAllTokensForAdmin(ctx context.Context, scope string, adminID uuid.UUID) error
}

// CreateNewToken is a shortcut method which generates and creates a new token record.
func (r *repository) CreateNewToken(ctx context.Context, adminID uuid.UUID, ttl time.Duration, scope string) (*data.Token, error) {
	token, err := data.GenerateToken(adminID, ttl, scope)
	if err != nil {
		return nil, err
	}
	err = r.createToken(ctx, token)
	return token, err
}

// createToken creates a token record.
func (r *repository) createToken(ctx context.Context, token *data.Token) error {
	query := `
		INSERT INTO tokens (hash, admin_id, expiry, scope)
		VALUES ($1, $2, $3, $4)`
	args := []any{token.Hash, token.AdminID, token.Expiry, token.Scope}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteAllTokensForAdmin deletes all tokens for a specific admin and scope.
func (r *repository) DeleteAllTokensForAdmin(ctx context.Context, scope string, adminID uuid.UUID) error {
	query := `
		DELETE FROM tokens
		WHERE scope = $1 AND admin_id = $2`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx, query, scope, adminID)
	return err
}
