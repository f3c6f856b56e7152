package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stream-advisor/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestJSONCache_RoundTrip(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	ctx := context.Background()

	type payload struct {
		Section string `json:"section"`
		Count   int    `json:"count"`
	}

	var got payload
	hit, err := GetJSON(ctx, rdb, "responses:ABC", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, SetJSON(ctx, rdb, "responses:ABC", payload{Section: "aptitude", Count: 3}, time.Minute))
	assert.True(t, mr.Exists("responses:ABC"))
	assert.Equal(t, time.Minute, mr.TTL("responses:ABC"))

	hit, err = GetJSON(ctx, rdb, "responses:ABC", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Section: "aptitude", Count: 3}, got)
}

func TestJSONCache_CorruptValue(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	require.NoError(t, mr.Set("assessment:ABC", "{not json"))

	var dst map[string]interface{}
	hit, err := GetJSON(context.Background(), rdb, "assessment:ABC", &dst)
	assert.False(t, hit)
	assert.Error(t, err)
}

func TestRedisClient_Ping(t *testing.T) {
	mr, _ := setupMiniredis(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))
}

func TestWithTx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM responses`).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err = WithTx(context.Background(), db, func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM responses`)
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = WithTx(context.Background(), db, func(tx *sql.Tx) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func newFakeElasticsearch(t *testing.T, status int, captured *map[string]interface{}) *ElasticsearchClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPut && captured != nil {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, captured)
			(*captured)["_path"] = r.URL.Path
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)
	return client
}

func TestElasticsearch_IndexDocument(t *testing.T) {
	captured := map[string]interface{}{}
	client := newFakeElasticsearch(t, http.StatusCreated, &captured)

	err := client.IndexDocument(context.Background(), "stream-assessments", "ABCD1234", map[string]interface{}{
		"variant":   "regular",
		"topStream": "Science",
	})
	require.NoError(t, err)
	assert.Equal(t, "/stream-assessments/_doc/ABCD1234", captured["_path"])
	assert.Equal(t, "Science", captured["topStream"])
}

func TestElasticsearch_IndexDocumentError(t *testing.T) {
	client := newFakeElasticsearch(t, http.StatusBadRequest, nil)

	err := client.IndexDocument(context.Background(), "stream-assessments", "X", map[string]interface{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
