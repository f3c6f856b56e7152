// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"

	"stream-advisor/internal/common/config"
	"stream-advisor/internal/common/logger"
	"stream-advisor/internal/common/metrics"
	"stream-advisor/internal/common/observability"
)

// Job outcomes as seen by the instrumentation.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeThrown    = "error_thrown"
	OutcomeNone      = "no_response"
)

// Manager opens one job worker per enabled task type and closes them together.
type Manager struct {
	client  zbc.Client
	obs     *observability.Observability
	logger  logger.Logger
	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewManager(client zbc.Client, obs *observability.Observability, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Manager{
		client:  client,
		obs:     obs,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Register opens a job worker for taskType unless it is disabled. It reports
// whether a worker was started.
func (m *Manager) Register(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) bool {
	if !wcfg.Enabled {
		m.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	jobWorker := m.client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, m.obs)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	m.mu.Lock()
	m.workers[taskType] = jobWorker
	m.mu.Unlock()

	m.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// TaskTypes lists the task types with an open worker.
func (m *Manager) TaskTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.workers))
	for t := range m.workers {
		out = append(out, t)
	}
	return out
}

// Close stops polling and waits for in-flight jobs.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for taskType, w := range m.workers {
		m.logger.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		w.Close()
		w.AwaitClose()
	}
	m.workers = make(map[string]worker.JobWorker)
}

// Instrument wraps handler with a span, Prometheus job metrics, and the OTel
// job counters. The outcome is read from the command the handler issued.
func Instrument(taskType string, handler worker.JobHandler, obs *observability.Observability) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

		ctx, span := obs.StartSpan(context.Background(), "job."+taskType,
			attribute.Int64("job.key", job.Key),
			attribute.Int64("process.instance.key", job.ProcessInstanceKey),
		)
		defer span.End()

		rc := &recordingClient{JobClient: client}
		handler(rc, job)

		outcome := rc.Outcome()
		elapsed := time.Since(start)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		if outcome == OutcomeCompleted {
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		}
		span.SetAttributes(attribute.String("job.outcome", outcome))
		obs.RecordJobProcessed(ctx, taskType, outcome)
		obs.RecordJobDuration(ctx, taskType, elapsed, outcome)
	}
}

// recordingClient remembers the last terminal command a handler created.
type recordingClient struct {
	worker.JobClient
	mu      sync.Mutex
	outcome string
}

func (c *recordingClient) set(outcome string) {
	c.mu.Lock()
	c.outcome = outcome
	c.mu.Unlock()
}

func (c *recordingClient) Outcome() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome == "" {
		return OutcomeNone
	}
	return c.outcome
}

func (c *recordingClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.set(OutcomeCompleted)
	return c.JobClient.NewCompleteJobCommand()
}

func (c *recordingClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.set(OutcomeFailed)
	return c.JobClient.NewFailJobCommand()
}

func (c *recordingClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.set(OutcomeThrown)
	return c.JobClient.NewThrowErrorCommand()
}
