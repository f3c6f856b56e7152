// internal/workers/reporting/build-career-report/handler.go
package buildcareerreport

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"stream-advisor/internal/common/errors"
	"stream-advisor/internal/common/logger"
	"stream-advisor/internal/common/metrics"
	"stream-advisor/internal/common/observability"
	"stream-advisor/internal/models"
	"stream-advisor/internal/report"
	"stream-advisor/internal/repository"
)

const (
	TaskType = "build-career-report"
)

type Handler struct {
	config     *Config
	store      *repository.CachedStore
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, db *sql.DB, rdb *redis.Client, obs *observability.Observability, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      repository.NewCached(db, rdb, config.CacheTTL, log),
		obs:        obs,
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

	formatName := input.Format
	if formatName == "" {
		formatName = h.config.DefaultFormat
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return nil, errors.NewReportRenderFailedError(formatName, err)
	}

	snapshot, err := h.store.Assessment(ctx, token)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewAssessmentNotFoundError(token)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get_assessment", err)
	}
	if snapshot.Result == nil {
		return nil, errors.NewAssessmentNotFoundError(token)
	}

	who, err := h.respondent(ctx, token)
	if err != nil {
		return nil, err
	}

	assembler, err := report.New(format, report.Options{
		Title:      h.config.Title,
		TopN:       h.config.TopN,
		ChromePath: h.config.ChromePath,
		Timeout:    h.config.RenderTimeout,
		Now:        h.now,
	})
	if err != nil {
		return nil, errors.NewReportRenderFailedError(string(format), err)
	}

	renderCtx, span := h.obs.StartSpan(ctx, "report.assemble",
		attribute.String("format", string(format)),
		attribute.String("variant", snapshot.Variant),
	)
	doc, err := assembler.Assemble(renderCtx, who, snapshot.Result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assemble failed")
		span.End()
		return nil, errors.NewReportRenderFailedError(string(format), err)
	}
	span.End()

	stored := &models.Report{
		ID:          uuid.New().String(),
		AccessToken: token,
		Format:      string(doc.Format),
		Content:     doc.Body,
		CreatedAt:   h.now().UTC(),
	}
	if err := h.store.InsertReport(ctx, stored); err != nil {
		return nil, errors.NewDatabaseInsertFailedError(fmt.Errorf("insert report: %w", err))
	}

	metrics.ReportsRendered.WithLabelValues(stored.Format).Inc()
	h.logger.Info("career report built", map[string]interface{}{
		"accessToken": token,
		"reportId":    stored.ID,
		"format":      stored.Format,
		"sizeBytes":   len(doc.Body),
	})

	return &Output{
		ReportID:  stored.ID,
		Format:    stored.Format,
		SizeBytes: len(doc.Body),
	}, nil
}

// respondent loads the report header. An unregistered token still gets a
// report with a blank header.
func (h *Handler) respondent(ctx context.Context, token string) (report.Respondent, error) {
	r, err := h.store.GetRespondentByToken(ctx, token)
	if stderrors.Is(err, repository.ErrNotFound) {
		h.logger.Warn("no respondent registered for token", map[string]interface{}{
			"accessToken": token,
		})
		return report.Respondent{}, nil
	}
	if err != nil {
		return report.Respondent{}, errors.NewQueryExecutionFailedError("get_respondent", err)
	}
	return report.Respondent{
		Name:                 r.Name,
		CurrentQualification: r.CurrentQualification,
		Email:                r.Email,
		PhoneNo:              r.PhoneNo,
	}, nil
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
