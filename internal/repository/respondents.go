// internal/repository/respondents.go
package repository

import (
	"context"
	"database/sql"
	"errors"

	"stream-advisor/internal/models"
)

func (s *Store) RespondentExists(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM respondents WHERE access_token = $1)`, token).Scan(&exists)
	return exists, err
}

func (s *Store) InsertRespondent(ctx context.Context, r *models.Respondent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO respondents (id, name, phone_no, email, current_qualification, access_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.Name, r.PhoneNo, r.Email, r.CurrentQualification, r.AccessToken, r.CreatedAt)
	return err
}

func (s *Store) GetRespondentByToken(ctx context.Context, token string) (*models.Respondent, error) {
	var r models.Respondent
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone_no, email, current_qualification, access_token, created_at
		FROM respondents
		WHERE access_token = $1`, token).
		Scan(&r.ID, &r.Name, &r.PhoneNo, &r.Email, &r.CurrentQualification, &r.AccessToken, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
