// internal/repository/reports.go
package repository

import (
	"context"
	"database/sql"
	"errors"

	"stream-advisor/internal/models"
)

func (s *Store) InsertReport(ctx context.Context, r *models.Report) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (id, access_token, format, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		r.ID, r.AccessToken, r.Format, r.Content, r.CreatedAt)
	return err
}

func (s *Store) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var r models.Report
	err := s.db.QueryRowContext(ctx, `
		SELECT id, access_token, format, content, created_at
		FROM reports
		WHERE id = $1`, id).Scan(&r.ID, &r.AccessToken, &r.Format, &r.Content, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
