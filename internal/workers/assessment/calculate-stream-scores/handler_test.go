// internal/workers/assessment/calculate-stream-scores/handler_test.go
package calculatestreamscores

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"stream-advisor/internal/common/breaker"
	"stream-advisor/internal/common/config"
	"stream-advisor/internal/common/errors"
	"stream-advisor/internal/common/logger"
	"stream-advisor/internal/common/metrics"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

var responseColumns = []string{"id", "access_token", "section", "answers", "created_at"}

const outputSchema = `{
	"type": "object",
	"required": ["variant", "aptitudeScores", "compositeScores", "weightedScore", "streamRecommendations", "assessmentId"],
	"properties": {
		"variant": {"enum": ["regular", "vhsc"]},
		"weightedScore": {"type": "number", "minimum": 0, "maximum": 100},
		"assessmentId": {"type": "string", "minLength": 1},
		"streamRecommendations": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["stream", "score", "subjects"],
				"properties": {"score": {"type": "number"}}
			}
		}
	}
}`

type fakeIndexer struct {
	mu    sync.Mutex
	err   error
	calls []string
	docs  []interface{}
}

func (f *fakeIndexer) IndexDocument(_ context.Context, index, id string, doc interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, index+"/"+id)
	f.docs = append(f.docs, doc)
	return f.err
}

func setup(t *testing.T, indexer Indexer, cb *breaker.Breaker) (*Handler, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &Config{Timeout: 5 * time.Second, CacheTTL: time.Minute, DefaultVariant: "regular", IndexName: "stream-assessments"}
	h := NewHandler(cfg, Dependencies{DB: db, Redis: rdb, Indexer: indexer, Breaker: cb}, logger.NewTestLogger(t))
	h.now = func() time.Time { return fixedNow }
	return h, mock, mr
}

func regularRows() *sqlmock.Rows {
	return sqlmock.NewRows(responseColumns).
		AddRow(1, "ABCD1234", "aptitude", []byte(`{"q1":"30","q2":"$4.50","q21":"No"}`), fixedNow).
		AddRow(2, "ABCD1234", "academic", []byte(`{"q1":"81-100%","q2":"61-80%","q3":"41-60%"}`), fixedNow).
		AddRow(3, "ABCD1234", "career", []byte(`{"q1":"Yes","q2":"Yes","q11":"Yes"}`), fixedNow).
		AddRow(4, "ABCD1234", "context", []byte(`{"q1":"Very aware","q2":"Good access"}`), fixedNow)
}

func expectUpsert(mock sqlmock.Sqlmock, variant, id string) {
	mock.ExpectQuery(`INSERT INTO stream_assessments`).
		WithArgs(sqlmock.AnyArg(), "ABCD1234", variant, sqlmock.AnyArg(), fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id))
}

func TestHandler_Execute_Regular(t *testing.T) {
	indexer := &fakeIndexer{}
	h, mock, mr := setup(t, indexer, nil)

	mock.ExpectQuery(`SELECT id, access_token, section, answers, created_at`).
		WithArgs("ABCD1234").
		WillReturnRows(regularRows())
	expectUpsert(mock, "regular", "asm-1")

	before := testutil.ToFloat64(metrics.AssessmentsScored.WithLabelValues("regular"))

	out, err := h.Execute(context.Background(), &Input{AccessToken: " abcd1234 "})
	require.NoError(t, err)

	assert.Equal(t, "asm-1", out.AssessmentID)
	assert.Equal(t, "regular", string(out.Variant))
	assert.Len(t, out.StreamRecommendations, 3)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AssessmentsScored.WithLabelValues("regular")))

	assert.True(t, mr.Exists("responses:ABCD1234"), "responses are cached after a miss")
	assert.True(t, mr.Exists("assessment:ABCD1234"), "snapshot is written through")

	require.Len(t, indexer.calls, 1)
	assert.Equal(t, "stream-assessments/asm-1", indexer.calls[0])
	doc := indexer.docs[0].(*AnalyticsDocument)
	assert.Equal(t, out.StreamRecommendations[0].Stream, doc.TopStream)
	assert.Equal(t, "2024-06-01T10:00:00Z", doc.ScoredAt)

	encoded, err := json.Marshal(out)
	require.NoError(t, err)
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(outputSchema), gojsonschema.NewBytesLoader(encoded))
	require.NoError(t, err)
	assert.True(t, result.Valid(), "%v", result.Errors())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_VHSCFromCache(t *testing.T) {
	h, mock, mr := setup(t, nil, nil)

	cached := `[{"id":1,"accessToken":"ABCD1234","section":"vhsc-academic","answers":{"q1":"81-100%"},"createdAt":"2024-06-01T10:00:00Z"},` +
		`{"id":2,"accessToken":"ABCD1234","section":"vhsc-career","answers":{"q1":"Yes"},"createdAt":"2024-06-01T10:00:00Z"}]`
	require.NoError(t, mr.Set("responses:ABCD1234", cached))
	expectUpsert(mock, "vhsc", "asm-2")

	out, err := h.Execute(context.Background(), &Input{AccessToken: "ABCD1234", Variant: "VHSC"})
	require.NoError(t, err)
	assert.Equal(t, "asm-2", out.AssessmentID)
	assert.Equal(t, "vhsc", string(out.Variant))
	assert.Len(t, out.StreamRecommendations, 5)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_IndexFailureIsBestEffort(t *testing.T) {
	indexer := &fakeIndexer{err: stderrors.New("es down")}
	cb := breaker.New("search-test", config.ResilienceConfig{FailureThreshold: 1, OpenTimeout: 60000}, logger.NewTestLogger(t))
	h, mock, _ := setup(t, indexer, cb)

	mock.ExpectQuery(`SELECT id, access_token, section, answers, created_at`).
		WithArgs("ABCD1234").
		WillReturnRows(regularRows())
	expectUpsert(mock, "regular", "asm-1")
	// the second run reads responses from redis
	expectUpsert(mock, "regular", "asm-1")

	for i := 0; i < 2; i++ {
		out, err := h.Execute(context.Background(), &Input{AccessToken: "ABCD1234"})
		require.NoError(t, err)
		assert.Equal(t, "asm-1", out.AssessmentID)
	}

	assert.Len(t, indexer.calls, 1, "open breaker skips the second write")
	assert.Equal(t, "open", cb.State())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input *Input
		setup func(sqlmock.Sqlmock)
		code  errors.ErrorCode
	}{
		{
			name:  "blank token",
			input: &Input{AccessToken: "  "},
			code:  errors.ErrCodeTokenInvalid,
		},
		{
			name:  "unknown variant",
			input: &Input{AccessToken: "ABCD1234", Variant: "college"},
			code:  errors.ErrCodeUnknownVariant,
		},
		{
			name:  "no responses",
			input: &Input{AccessToken: "ABCD1234"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, access_token, section, answers, created_at`).
					WithArgs("ABCD1234").
					WillReturnRows(sqlmock.NewRows(responseColumns))
			},
			code: errors.ErrCodeNoResponsesFound,
		},
		{
			name:  "query failure",
			input: &Input{AccessToken: "ABCD1234"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, access_token, section, answers, created_at`).
					WithArgs("ABCD1234").
					WillReturnError(stderrors.New("connection reset"))
			},
			code: errors.ErrCodeQueryExecutionFailed,
		},
		{
			name:  "upsert failure",
			input: &Input{AccessToken: "ABCD1234"},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, access_token, section, answers, created_at`).
					WithArgs("ABCD1234").
					WillReturnRows(regularRows())
				mock.ExpectQuery(`INSERT INTO stream_assessments`).
					WillReturnError(stderrors.New("disk full"))
			},
			code: errors.ErrCodeDatabaseInsertFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock, _ := setup(t, nil, nil)
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
