package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
app:
  name: stream-advisor
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: streams
    user: advisor
  redis:
    address: localhost:6379
workers:
  calculate-stream-scores:
    enabled: true
    max_jobs_active: 8
  deliver-report:
    enabled: false
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "localhost:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "stream-assessments", cfg.Database.Elasticsearch.AssessmentIndex)
	assert.False(t, cfg.Database.Elasticsearch.Enabled())
	assert.Equal(t, "regular", cfg.Assessment.DefaultVariant)
	assert.Equal(t, 300000, cfg.Assessment.CacheTTL)
	assert.Equal(t, "html", cfg.Report.Format)
	assert.Equal(t, 3, cfg.Report.TopN)
	assert.Equal(t, uint32(5), cfg.Resilience.FailureThreshold)
	assert.Equal(t, 8080, cfg.Server.Port)

	w := cfg.Workers["calculate-stream-scores"]
	assert.Equal(t, 8, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)
}

func TestLoadFromFile_ExpandsEnv(t *testing.T) {
	t.Setenv("STREAMS_PG_PASSWORD", "s3cret")
	body := `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: streams
    user: advisor
    password: ${STREAMS_PG_PASSWORD}
  redis:
    address: localhost:6379
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "database:\n  postgres:\n    host: h\n    database: d\n    user: u\n  redis:\n    address: r\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "missing redis",
			body:    "camunda:\n  broker_address: b\ndatabase:\n  postgres:\n    host: h\n    database: d\n    user: u\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "unknown variant",
			body:    baseYAML + "assessment:\n  default_variant: gold\n",
			wantErr: "assessment.default_variant",
		},
		{
			name:    "unknown report format",
			body:    baseYAML + "report:\n  format: docx\n",
			wantErr: "report.format",
		},
		{
			name:    "tracing without endpoint",
			body:    baseYAML + "tracing:\n  enabled: true\n",
			wantErr: "tracing.jaeger_endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetWorkerConfig(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.False(t, IsWorkerEnabled(cfg, "deliver-report"))
	assert.True(t, IsWorkerEnabled(cfg, "generate-access-token"))

	fallback := GetWorkerConfig(cfg, "generate-access-token")
	assert.Equal(t, WorkerConfig{Enabled: true, MaxJobsActive: 5, Timeout: 30000, MaxRetries: 3}, fallback)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
