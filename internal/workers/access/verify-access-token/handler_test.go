// internal/workers/access/verify-access-token/handler_test.go
package verifyaccesstoken

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stream-advisor/internal/common/errors"
	"stream-advisor/internal/common/logger"
)

var tokenColumns = []string{"id", "token", "is_used", "created_at"}

func TestHandler_Execute(t *testing.T) {
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		input       *Input
		setup       func(mock sqlmock.Sqlmock)
		wantMessage string
		wantCode    errors.ErrorCode
	}{
		{
			name:  "unused token, check only",
			input: &Input{Token: " abcd1234 "},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM access_tokens`).
					WithArgs("ABCD1234").
					WillReturnRows(sqlmock.NewRows(tokenColumns).AddRow(1, "ABCD1234", false, created))
			},
			wantMessage: "Token is valid",
		},
		{
			name:  "used token, check only",
			input: &Input{Token: "ABCD1234"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM access_tokens`).
					WithArgs("ABCD1234").
					WillReturnRows(sqlmock.NewRows(tokenColumns).AddRow(1, "ABCD1234", true, created))
			},
			wantCode: errors.ErrCodeTokenInvalid,
		},
		{
			name:  "unknown token",
			input: &Input{Token: "NOPE0000"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM access_tokens`).WithArgs("NOPE0000").WillReturnError(sql.ErrNoRows)
			},
			wantCode: errors.ErrCodeTokenInvalid,
		},
		{
			name:  "consume unused token",
			input: &Input{Token: "abcd1234", Consume: true},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE access_tokens SET is_used = true`).
					WithArgs("ABCD1234").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantMessage: "Token verified and marked as used",
		},
		{
			name:  "consume twice",
			input: &Input{Token: "ABCD1234", Consume: true},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE access_tokens`).
					WithArgs("ABCD1234").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantCode: errors.ErrCodeTokenInvalid,
		},
		{
			name:     "blank token",
			input:    &Input{Token: "   "},
			setup:    func(sqlmock.Sqlmock) {},
			wantCode: errors.ErrCodeTokenInvalid,
		},
		{
			name:  "database failure is retryable",
			input: &Input{Token: "ABCD1234"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM access_tokens`).WillReturnError(sql.ErrConnDone)
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

			h := NewHandler(&Config{Timeout: 5 * time.Second}, db, logger.NewTestLogger(t))
			out, err := h.Execute(context.Background(), tt.input)

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantCode), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.True(t, out.Valid)
				assert.Equal(t, "ABCD1234", out.Token)
				assert.Equal(t, tt.wantMessage, out.Message)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
