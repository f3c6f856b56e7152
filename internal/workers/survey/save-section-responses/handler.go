// internal/workers/survey/save-section-responses/handler.go
package savesectionresponses

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"stream-advisor/internal/assessment"
	"stream-advisor/internal/common/database"
	"stream-advisor/internal/common/errors"
	"stream-advisor/internal/common/logger"
	"stream-advisor/internal/common/validation"
	"stream-advisor/internal/models"
	"stream-advisor/internal/repository"
)

const (
	TaskType = "save-section-responses"
)

// answersSchema accepts an object keyed by question or a positional array;
// every answer is a scalar.
var answersSchema = validation.MustCompileSchema(`{
	"oneOf": [
		{
			"type": "object",
			"minProperties": 1,
			"additionalProperties": {"type": ["string", "number", "boolean"]}
		},
		{
			"type": "array",
			"minItems": 1,
			"items": {"type": ["string", "number", "boolean"]}
		}
	]
}`)

type Handler struct {
	config     *Config
	db         *sql.DB
	cache      *repository.CachedStore
	engine     *assessment.Engine
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, db *sql.DB, rdb *redis.Client, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		db:         db,
		cache:      repository.NewCached(db, rdb, config.CacheTTL, log),
		engine:     assessment.NewEngine(log),
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
	input.AccessToken = models.NormalizeToken(input.AccessToken)
	input.Section = strings.ToLower(strings.TrimSpace(input.Section))

	if result := validation.ValidateStruct(input); result != nil {
		return nil, errors.NewResponseValidationFailedError(result.Error())
	}
	result, err := answersSchema.Validate(input.Answers)
	if err != nil {
		return nil, errors.NewResponseValidationFailedError(err.Error())
	}
	if !result.Valid {
		return nil, errors.NewResponseValidationFailedError("answers: " + result.Error())
	}

	answers, err := json.Marshal(input.Answers)
	if err != nil {
		return nil, errors.NewResponseValidationFailedError(err.Error())
	}

	rebuild := strings.EqualFold(input.AssessmentType, string(assessment.VHSC)) ||
		assessment.VariantOfSection(input.Section) == assessment.VHSC

	output := &Output{Section: input.Section}
	var snapshot *models.StreamAssessment

	err = database.WithTx(ctx, h.db, func(tx *sql.Tx) error {
		store := repository.New(tx)

		saved, err := store.InsertResponse(ctx, input.AccessToken, input.Section, answers)
		if err != nil {
			return errors.NewDatabaseInsertFailedError(err)
		}
		output.ResponseID = saved.ID

		if !rebuild {
			return nil
		}
		snapshot, err = h.rebuildVHSC(ctx, store, input.AccessToken)
		return err
	})
	if err != nil {
		if _, ok := errors.AsStandardError(err); ok {
			return nil, err
		}
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}

	h.cache.InvalidateResponses(ctx, input.AccessToken)
	if snapshot != nil {
		h.cache.PutAssessment(ctx, snapshot)
		output.AssessmentUpdated = true
		output.AssessmentID = snapshot.ID
	}

	h.logger.Info("section responses saved", map[string]interface{}{
		"accessToken":       input.AccessToken,
		"section":           input.Section,
		"responseId":        output.ResponseID,
		"assessmentUpdated": output.AssessmentUpdated,
	})

	return output, nil
}

// rebuildVHSC rescores every VHSC section stored so far for token and
// upserts the snapshot.
func (h *Handler) rebuildVHSC(ctx context.Context, store *repository.Store, token string) (*models.StreamAssessment, error) {
	responses, err := store.ListResponses(ctx, token)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("list_responses", err)
	}
	raw, err := models.SectionPayloads(responses)
	if err != nil {
		return nil, errors.NewResponseValidationFailedError(err.Error())
	}

	variant := assessment.VariantFor(assessment.VHSC)
	result := h.engine.Score(variant, assessment.SectionsFromRaw(variant, raw))

	now := h.now().UTC()
	snapshot := &models.StreamAssessment{
		ID:          uuid.New().String(),
		AccessToken: token,
		Variant:     string(assessment.VHSC),
		Result:      result,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := store.UpsertAssessment(ctx, snapshot)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}
	snapshot.ID = id
	return snapshot, nil
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
