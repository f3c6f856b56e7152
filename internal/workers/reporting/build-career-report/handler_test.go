// internal/workers/reporting/build-career-report/handler_test.go
package buildcareerreport

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stream-advisor/internal/assessment"
	"stream-advisor/internal/common/errors"
	"stream-advisor/internal/common/logger"
	"stream-advisor/internal/models"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

var respondentColumns = []string{"id", "name", "phone_no", "email", "current_qualification", "access_token", "created_at"}

func setup(t *testing.T) (*Handler, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := LoadConfig()
	cfg.Timeout = 5 * time.Second
	h := NewHandler(cfg, db, rdb, nil, logger.NewTestLogger(t))
	h.now = func() time.Time { return fixedNow }
	return h, mock, mr
}

func cacheSnapshot(t *testing.T, mr *miniredis.Miniredis) {
	t.Helper()
	sections := assessment.Sections{
		assessment.DomainAcademic: assessment.NormalizeAnswers(map[string]string{"q1": "81-100%", "q2": "61-80%"}),
		assessment.DomainInterest: assessment.NormalizeAnswers(map[string]string{"q1": "Yes"}),
	}
	snapshot := models.StreamAssessment{
		ID:          "asm-1",
		AccessToken: "ABCD1234",
		Variant:     "regular",
		Result:      assessment.NewEngine(nil).Score(assessment.VariantFor(assessment.Regular), sections),
		CreatedAt:   fixedNow,
		UpdatedAt:   fixedNow,
	}
	raw, err := json.Marshal(snapshot)
	require.NoError(t, err)
	require.NoError(t, mr.Set("assessment:ABCD1234", string(raw)))
}

func expectRespondent(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT id, name, phone_no, email, current_qualification, access_token, created_at`).
		WithArgs("ABCD1234").
		WillReturnRows(sqlmock.NewRows(respondentColumns).
			AddRow("r-1", "Asha Rao", "+919800000000", "asha@example.com", "Grade 10", "ABCD1234", fixedNow))
}

// markdownBody captures the stored report content.
type markdownBody struct{ got string }

func (m *markdownBody) Match(v driver.Value) bool {
	b, ok := v.([]byte)
	if ok {
		m.got = string(b)
	}
	return ok && len(b) > 0
}

func TestHandler_Execute_Markdown(t *testing.T) {
	h, mock, mr := setup(t)
	cacheSnapshot(t, mr)
	expectRespondent(mock)

	body := &markdownBody{}
	mock.ExpectExec(`INSERT INTO reports`).
		WithArgs(sqlmock.AnyArg(), "ABCD1234", "markdown", body, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := h.Execute(context.Background(), &Input{AccessToken: "abcd1234", Format: "md"})
	require.NoError(t, err)

	assert.NotEmpty(t, out.ReportID)
	assert.Equal(t, "markdown", out.Format)
	assert.Equal(t, len(body.got), out.SizeBytes)
	assert.True(t, strings.HasPrefix(body.got, "# Stream Recommendation Report"))
	assert.Contains(t, body.got, "Asha Rao")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DefaultFormatWithoutRespondent(t *testing.T) {
	h, mock, mr := setup(t)
	cacheSnapshot(t, mr)

	mock.ExpectQuery(`SELECT id, name, phone_no, email, current_qualification, access_token, created_at`).
		WithArgs("ABCD1234").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO reports`).
		WithArgs(sqlmock.AnyArg(), "ABCD1234", "html", sqlmock.AnyArg(), fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := h.Execute(context.Background(), &Input{AccessToken: "ABCD1234"})
	require.NoError(t, err)
	assert.Equal(t, "html", out.Format)
	assert.Greater(t, out.SizeBytes, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  *Input
		cached bool
		setup  func(sqlmock.Sqlmock)
		code   errors.ErrorCode
	}{
		{
			name:  "blank token",
			input: &Input{AccessToken: ""},
			code:  errors.ErrCodeTokenInvalid,
		},
		{
			name:  "unsupported format",
			input: &Input{AccessToken: "ABCD1234", Format: "docx"},
			code:  errors.ErrCodeReportRenderFailed,
		},
		{
			name:  "no assessment",
			input: &Input{AccessToken: "ABCD1234"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM stream_assessments`).
					WithArgs("ABCD1234").
					WillReturnError(sql.ErrNoRows)
			},
			code: errors.ErrCodeAssessmentNotFound,
		},
		{
			name:   "respondent lookup fails",
			input:  &Input{AccessToken: "ABCD1234"},
			cached: true,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM respondents`).
					WillReturnError(stderrors.New("connection reset"))
			},
			code: errors.ErrCodeQueryExecutionFailed,
		},
		{
			name:   "insert fails",
			input:  &Input{AccessToken: "ABCD1234", Format: "markdown"},
			cached: true,
			setup: func(mock sqlmock.Sqlmock) {
				expectRespondent(mock)
				mock.ExpectExec(`INSERT INTO reports`).WillReturnError(stderrors.New("disk full"))
			},
			code: errors.ErrCodeDatabaseInsertFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock, mr := setup(t)
			if tt.cached {
				cacheSnapshot(t, mr)
			}
			if tt.setup != nil {
				tt.setup(mock)
			}
			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
