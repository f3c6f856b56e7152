// internal/repository/responses.go
package repository

import (
	"context"
	"encoding/json"

	"stream-advisor/internal/models"
)

// InsertResponse stores one section submission and returns it with its id.
func (s *Store) InsertResponse(ctx context.Context, token, section string, answers json.RawMessage) (*models.Response, error) {
	r := &models.Response{AccessToken: token, Section: section, Answers: answers}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO responses (access_token, section, answers)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, token, section, []byte(answers)).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListResponses returns every submission for token in insertion order.
func (s *Store) ListResponses(ctx context.Context, token string) ([]models.Response, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, access_token, section, answers, created_at
		FROM responses
		WHERE access_token = $1
		ORDER BY id`, token)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Response
	for rows.Next() {
		var r models.Response
		var answers []byte
		if err := rows.Scan(&r.ID, &r.AccessToken, &r.Section, &answers, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Answers = json.RawMessage(answers)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) DeleteResponses(ctx context.Context, token string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM responses WHERE access_token = $1`, token)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
