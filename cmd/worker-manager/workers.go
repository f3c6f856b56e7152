// cmd/worker-manager/workers.go
package main

import (
	"database/sql"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	awsclient "stream-advisor/internal/common/aws"
	"stream-advisor/internal/common/breaker"
	"stream-advisor/internal/common/camunda"
	"stream-advisor/internal/common/config"
	"stream-advisor/internal/common/database"
	"stream-advisor/internal/common/logger"
	"stream-advisor/internal/common/observability"
	gat "stream-advisor/internal/workers/access/generate-access-token"
	vat "stream-advisor/internal/workers/access/verify-access-token"
	calc "stream-advisor/internal/workers/assessment/calculate-stream-scores"
	bcr "stream-advisor/internal/workers/reporting/build-career-report"
	dr "stream-advisor/internal/workers/reporting/deliver-report"
	rr "stream-advisor/internal/workers/respondent/register-respondent"
	cr "stream-advisor/internal/workers/survey/clear-responses"
	ssr "stream-advisor/internal/workers/survey/save-section-responses"
	"stream-advisor/pkg/registry"
)

type notificationSenders struct {
	email awsclient.EmailSender
	sms   awsclient.SMSSender
}

// infra is everything the handlers are built from.
type infra struct {
	db      *sql.DB
	redis   *redis.Client
	es      *database.ElasticsearchClient
	senders notificationSenders
	obs     *observability.Observability
}

// registerWorkers builds the eight handlers and opens a job worker for each
// enabled task type. It returns how many were started.
func registerWorkers(m *camunda.Manager, cfg *config.Config, in infra, log logger.Logger) int {
	timeout := func(taskType string) time.Duration {
		return config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout)
	}
	cacheTTL := config.GetDuration(cfg.Assessment.CacheTTL)

	handlers := map[string]worker.JobHandler{}

	// --- Access ---
	handlers[gat.TaskType] = gat.NewHandler(&gat.Config{
		Timeout:     timeout(gat.TaskType),
		MaxAttempts: 10,
	}, in.db, log).Handle

	handlers[vat.TaskType] = vat.NewHandler(&vat.Config{
		Timeout: timeout(vat.TaskType),
	}, in.db, log).Handle

	// --- Respondent ---
	handlers[rr.TaskType] = rr.NewHandler(&rr.Config{
		Timeout: timeout(rr.TaskType),
	}, in.db, log).Handle

	// --- Survey ---
	handlers[ssr.TaskType] = ssr.NewHandler(&ssr.Config{
		Timeout:  timeout(ssr.TaskType),
		CacheTTL: cacheTTL,
	}, in.db, in.redis, log).Handle

	handlers[cr.TaskType] = cr.NewHandler(&cr.Config{
		Timeout: timeout(cr.TaskType),
	}, in.db, in.redis, log).Handle

	// --- Assessment ---
	calcDeps := calc.Dependencies{DB: in.db, Redis: in.redis, Obs: in.obs}
	if in.es != nil {
		calcDeps.Indexer = in.es
		calcDeps.Breaker = breaker.New("elasticsearch", cfg.Resilience, log)
	}
	handlers[calc.TaskType] = calc.NewHandler(&calc.Config{
		Timeout:        timeout(calc.TaskType),
		CacheTTL:       cacheTTL,
		DefaultVariant: cfg.Assessment.DefaultVariant,
		IndexName:      cfg.Database.Elasticsearch.AssessmentIndex,
	}, calcDeps, log).Handle

	// --- Reporting ---
	reportTimeout := timeout(bcr.TaskType)
	handlers[bcr.TaskType] = bcr.NewHandler(&bcr.Config{
		Timeout:       reportTimeout,
		CacheTTL:      cacheTTL,
		DefaultFormat: cfg.Report.Format,
		Title:         cfg.Report.Title,
		TopN:          cfg.Report.TopN,
		ChromePath:    cfg.Report.ChromePath,
		RenderTimeout: reportTimeout * 3 / 4,
	}, in.db, in.redis, in.obs, log).Handle

	deliverDeps := dr.Dependencies{DB: in.db}
	if in.senders.email != nil {
		deliverDeps.Email = in.senders.email
		deliverDeps.EmailBreaker = breaker.New("ses", cfg.Resilience, log)
	}
	if in.senders.sms != nil {
		deliverDeps.SMS = in.senders.sms
		deliverDeps.SMSBreaker = breaker.New("sns", cfg.Resilience, log)
	}
	handlers[dr.TaskType] = dr.NewHandler(&dr.Config{
		Timeout:      timeout(dr.TaskType),
		EmailEnabled: cfg.Notifications.Email.Enabled,
		SMSEnabled:   cfg.Notifications.SMS.Enabled,
		FromEmail:    cfg.Notifications.Email.FromEmail,
		Subject:      cfg.Notifications.Email.Subject,
	}, deliverDeps, log).Handle

	catalogue, err := registry.Default()
	if err != nil {
		log.Warn("activity registry unavailable", map[string]interface{}{"error": err.Error()})
		catalogue = &registry.ActivityRegistry{}
	}

	started := 0
	for taskType, handler := range handlers {
		if activity, ok := catalogue.Find(taskType); ok {
			log.Debug("registering activity", map[string]interface{}{
				"taskType":    taskType,
				"displayName": activity.DisplayName,
				"category":    activity.Category,
			})
		} else {
			log.Warn("task type missing from activity registry", map[string]interface{}{"taskType": taskType})
		}
		if m.Register(taskType, config.GetWorkerConfig(cfg, taskType), handler) {
			started++
		}
	}
	return started
}
