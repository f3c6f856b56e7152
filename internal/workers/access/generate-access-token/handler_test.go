// internal/workers/access/generate-access-token/handler_test.go
package generateaccesstoken

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stream-advisor/internal/common/errors"
	"stream-advisor/internal/common/logger"
)

func createTestHandler(t *testing.T, db *sql.DB, tokens ...string) *Handler {
	h := NewHandler(&Config{Timeout: 5 * time.Second, MaxAttempts: 3}, db, logger.NewTestLogger(t))
	i := 0
	h.newToken = func() string {
		tok := tokens[i%len(tokens)]
		i++
		return tok
	}
	return h
}

func expectExists(mock sqlmock.Sqlmock, token string, exists bool) {
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM access_tokens`).
		WithArgs(token).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestNewToken(t *testing.T) {
	re := regexp.MustCompile(`^[0-9A-F]{8}$`)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tok := NewToken()
		assert.Regexp(t, re, tok)
		seen[tok] = true
	}
	assert.Greater(t, len(seen), 45)
}

func TestHandler_Execute(t *testing.T) {
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		tokens    []string
		setup     func(mock sqlmock.Sqlmock)
		wantToken string
		wantCode  errors.ErrorCode
	}{
		{
			name:   "first token is free",
			tokens: []string{"ABCD1234"},
			setup: func(mock sqlmock.Sqlmock) {
				expectExists(mock, "ABCD1234", false)
				mock.ExpectQuery(`INSERT INTO access_tokens`).
					WithArgs("ABCD1234").
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, created))
			},
			wantToken: "ABCD1234",
		},
		{
			name:   "retries after a collision",
			tokens: []string{"AAAA0000", "BBBB1111"},
			setup: func(mock sqlmock.Sqlmock) {
				expectExists(mock, "AAAA0000", true)
				expectExists(mock, "BBBB1111", false)
				mock.ExpectQuery(`INSERT INTO access_tokens`).
					WithArgs("BBBB1111").
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(2, created))
			},
			wantToken: "BBBB1111",
		},
		{
			name:   "retries after losing an insert race",
			tokens: []string{"AAAA0000", "CCCC2222"},
			setup: func(mock sqlmock.Sqlmock) {
				expectExists(mock, "AAAA0000", false)
				mock.ExpectQuery(`INSERT INTO access_tokens`).
					WithArgs("AAAA0000").
					WillReturnError(&pq.Error{Code: "23505"})
				expectExists(mock, "CCCC2222", false)
				mock.ExpectQuery(`INSERT INTO access_tokens`).
					WithArgs("CCCC2222").
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, created))
			},
			wantToken: "CCCC2222",
		},
		{
			name:   "every attempt collides",
			tokens: []string{"AAAA0000"},
			setup: func(mock sqlmock.Sqlmock) {
				for i := 0; i < 3; i++ {
					expectExists(mock, "AAAA0000", true)
				}
			},
			wantCode: errors.ErrCodeTokenGenerationFailed,
		},
		{
			name:   "database error",
			tokens: []string{"AAAA0000"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(sql.ErrConnDone)
			},
			wantCode: errors.ErrCodeQueryExecutionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setup(mock)

			out, err := createTestHandler(t, db, tt.tokens...).Execute(context.Background(), &Input{})
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, out.Token)
				assert.Equal(t, "2024-06-01T10:00:00Z", out.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
