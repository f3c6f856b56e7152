// internal/repository/assessments.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"stream-advisor/internal/models"
)

// UpsertAssessment writes the snapshot for a token, replacing any earlier
// one. The stored id is returned; on update it is the original row's id.
func (s *Store) UpsertAssessment(ctx context.Context, a *models.StreamAssessment) (string, error) {
	result, err := json.Marshal(a.Result)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO stream_assessments (id, access_token, variant, result, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (access_token) DO UPDATE
		SET variant = EXCLUDED.variant, result = EXCLUDED.result, updated_at = EXCLUDED.updated_at
		RETURNING id`,
		a.ID, a.AccessToken, a.Variant, result, a.UpdatedAt).Scan(&id)
	return id, err
}

func (s *Store) GetAssessment(ctx context.Context, token string) (*models.StreamAssessment, error) {
	var a models.StreamAssessment
	var result []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, access_token, variant, result, created_at, updated_at
		FROM stream_assessments
		WHERE access_token = $1`, token).
		Scan(&a.ID, &a.AccessToken, &a.Variant, &result, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(result, &a.Result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &a, nil
}
