// internal/workers/assessment/calculate-stream-scores/handler.go
package calculatestreamscores

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"stream-advisor/internal/assessment"
	"stream-advisor/internal/common/breaker"
	"stream-advisor/internal/common/errors"
	"stream-advisor/internal/common/logger"
	"stream-advisor/internal/common/metrics"
	"stream-advisor/internal/common/observability"
	"stream-advisor/internal/models"
	"stream-advisor/internal/repository"
)

const (
	TaskType = "calculate-stream-scores"
)

// Indexer writes a document into a search index.
type Indexer interface {
	IndexDocument(ctx context.Context, index, id string, doc interface{}) error
}

type Handler struct {
	config     *Config
	store      *repository.CachedStore
	engine     *assessment.Engine
	indexer    Indexer
	breaker    *breaker.Breaker
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

type Dependencies struct {
	DB      *sql.DB
	Redis   *redis.Client
	Indexer Indexer          // optional
	Breaker *breaker.Breaker // guards Indexer; optional
	Obs     *observability.Observability
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      repository.NewCached(deps.DB, deps.Redis, config.CacheTTL, log),
		engine:     assessment.NewEngine(log),
		indexer:    deps.Indexer,
		breaker:    deps.Breaker,
		obs:        deps.Obs,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
		now:        time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errHandler.HandleJobError(context.Background(), client, job, errors.NewParseError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	token := models.NormalizeToken(input.AccessToken)
	if token == "" {
		return nil, errors.NewTokenInvalidError(input.AccessToken)
	}

	variantName := input.Variant
	if variantName == "" {
		variantName = h.config.DefaultVariant
	}
	variant, err := assessment.LookupVariant(variantName)
	if err != nil {
		return nil, errors.NewUnknownVariantError(variantName)
	}

	responses, err := h.store.Responses(ctx, token)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list_responses", err)
	}
	if len(responses) == 0 {
		return nil, errors.NewNoResponsesFoundError(token)
	}

	raw, err := models.SectionPayloads(responses)
	if err != nil {
		return nil, errors.NewResponseValidationFailedError(err.Error())
	}
	sections := assessment.SectionsFromRaw(variant, raw)
	if len(sections) == 0 {
		h.logger.Warn("no sections stored for variant", map[string]interface{}{
			"accessToken": token,
			"variant":     string(variant.Name),
			"stored":      len(raw),
		})
	}

	_, span := h.obs.StartSpan(ctx, "assessment.score",
		attribute.String("variant", string(variant.Name)),
		attribute.Int("sections", len(sections)),
	)
	result := h.engine.Score(variant, sections)
	span.End()

	now := h.now().UTC()
	snapshot := &models.StreamAssessment{
		ID:          uuid.New().String(),
		AccessToken: token,
		Variant:     string(variant.Name),
		Result:      result,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := h.store.UpsertAssessment(ctx, snapshot)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}
	snapshot.ID = id
	h.store.PutAssessment(ctx, snapshot)

	h.recordMetrics(result)
	h.index(ctx, snapshot)

	topStream := ""
	if top := result.Top(1); len(top) > 0 {
		topStream = top[0].Stream
	}
	h.logger.Info("stream scores calculated", map[string]interface{}{
		"accessToken":   token,
		"variant":       string(variant.Name),
		"assessmentId":  id,
		"topStream":     topStream,
		"weightedScore": result.WeightedScore,
		"skipped":       len(result.Skipped),
	})

	return &Output{Result: result, AssessmentID: id}, nil
}

func (h *Handler) recordMetrics(result *assessment.Result) {
	variant := string(result.Variant)
	metrics.AssessmentsScored.WithLabelValues(variant).Inc()
	metrics.WeightedScore.WithLabelValues(variant).Observe(result.WeightedScore)
	if top := result.Top(1); len(top) > 0 {
		metrics.TopStreamSelected.WithLabelValues(variant, top[0].Stream).Inc()
	}
	for _, s := range result.Skipped {
		metrics.AnswersSkipped.WithLabelValues(s.Section).Inc()
	}
}

// index is best effort: a failure is logged and the job still completes.
func (h *Handler) index(ctx context.Context, snapshot *models.StreamAssessment) {
	if h.indexer == nil {
		return
	}
	doc := NewAnalyticsDocument(snapshot)
	write := func(ctx context.Context) error {
		return h.indexer.IndexDocument(ctx, h.config.IndexName, snapshot.ID, doc)
	}

	var err error
	if h.breaker != nil {
		err = h.breaker.Do(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		h.logger.Warn("analytics indexing skipped", map[string]interface{}{
			"index":        h.config.IndexName,
			"assessmentId": snapshot.ID,
			"breakerOpen":  breaker.IsOpen(err),
			"error":        errors.NewSearchIndexFailedError(h.config.IndexName, err).Details,
		})
	}
}

func NewAnalyticsDocument(a *models.StreamAssessment) *AnalyticsDocument {
	r := a.Result
	doc := &AnalyticsDocument{
		AccessToken:     a.AccessToken,
		Variant:         a.Variant,
		WeightedScore:   r.WeightedScore,
		StreamScores:    make(map[string]float64, len(r.StreamRecommendations)),
		CompositeScores: r.CompositeScores,
		SkippedAnswers:  len(r.Skipped),
		ScoredAt:        a.UpdatedAt.Format(time.RFC3339),
	}
	for i, rec := range r.StreamRecommendations {
		if i == 0 {
			doc.TopStream = rec.Stream
		}
		doc.StreamScores[rec.Stream] = rec.Score
	}
	return doc
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
