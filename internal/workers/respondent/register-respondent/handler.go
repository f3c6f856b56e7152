// internal/workers/respondent/register-respondent/handler.go
package registerrespondent

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	"stream-advisor/internal/common/errors"
	"stream-advisor/internal/common/logger"
	"stream-advisor/internal/common/validation"
	"stream-advisor/internal/models"
	"stream-advisor/internal/repository"
)

const (
	TaskType = "register-respondent"
)

type Handler struct {
	config     *Config
	store      *repository.Store
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		store:      repository.New(db),
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
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.PhoneNo = strings.TrimSpace(input.PhoneNo)
	input.CurrentQualification = strings.TrimSpace(input.CurrentQualification)
	input.AccessToken = models.NormalizeToken(input.AccessToken)

	if result := validation.ValidateStruct(input); result != nil {
		return nil, errors.NewRespondentValidationFailedError(result.Error())
	}

	exists, err := h.store.RespondentExists(ctx, input.AccessToken)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("respondent_exists", err)
	}
	if exists {
		return nil, errors.NewDuplicateRespondentError(input.AccessToken)
	}

	respondent := &models.Respondent{
		ID:                   uuid.New().String(),
		Name:                 input.Name,
		PhoneNo:              input.PhoneNo,
		Email:                input.Email,
		CurrentQualification: input.CurrentQualification,
		AccessToken:          input.AccessToken,
		CreatedAt:            h.now().UTC(),
	}
	if err := h.store.InsertRespondent(ctx, respondent); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errors.NewDuplicateRespondentError(input.AccessToken)
		}
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	h.logger.Info("respondent registered", map[string]interface{}{
		"respondentId": respondent.ID,
		"accessToken":  respondent.AccessToken,
	})

	return &Output{RespondentID: respondent.ID}, nil
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
