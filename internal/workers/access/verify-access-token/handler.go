// internal/workers/access/verify-access-token/handler.go
package verifyaccesstoken

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"stream-advisor/internal/common/errors"
	"stream-advisor/internal/common/logger"
	"stream-advisor/internal/models"
	"stream-advisor/internal/repository"
)

const (
	TaskType = "verify-access-token"
)

type Handler struct {
	config     *Config
	store      *repository.Store
	errHandler *errors.ErrorHandler
	logger     logger.Logger
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
	token := models.NormalizeToken(input.Token)
	if token == "" {
		return nil, errors.NewTokenInvalidError(input.Token)
	}

	if input.Consume {
		ok, err := h.store.ConsumeToken(ctx, token)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("consume_token", err)
		}
		if !ok {
			return nil, errors.NewTokenInvalidError(token)
		}
		h.logger.Info("access token consumed", map[string]interface{}{"accessToken": token})
		return &Output{Token: token, Valid: true, Message: "Token verified and marked as used"}, nil
	}

	stored, err := h.store.GetToken(ctx, token)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewTokenInvalidError(token)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get_token", err)
	}
	if stored.IsUsed {
		return nil, errors.NewTokenInvalidError(token).WithMetadata("reason", "already used")
	}

	h.logger.Info("access token verified", map[string]interface{}{"accessToken": token})
	return &Output{Token: token, Valid: true, Message: "Token is valid"}, nil
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
