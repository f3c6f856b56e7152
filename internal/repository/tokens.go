// internal/repository/tokens.go
package repository

import (
	"context"
	"database/sql"
	"errors"

	"stream-advisor/internal/models"
)

func (s *Store) TokenExists(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM access_tokens WHERE token = $1)`, token).Scan(&exists)
	return exists, err
}

// InsertToken stores a new unused token.
func (s *Store) InsertToken(ctx context.Context, token string) (*models.AccessToken, error) {
	t := &models.AccessToken{Token: token}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO access_tokens (token, is_used)
		VALUES ($1, false)
		RETURNING id, created_at`, token).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) GetToken(ctx context.Context, token string) (*models.AccessToken, error) {
	var t models.AccessToken
	err := s.db.QueryRowContext(ctx, `
		SELECT id, token, is_used, created_at
		FROM access_tokens
		WHERE token = $1`, token).Scan(&t.ID, &t.Token, &t.IsUsed, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ConsumeToken marks an unused token as used. It reports false when the token
// is unknown or was already used.
func (s *Store) ConsumeToken(ctx context.Context, token string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE access_tokens SET is_used = true WHERE token = $1 AND is_used = false`, token)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
