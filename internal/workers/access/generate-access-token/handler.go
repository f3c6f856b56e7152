// internal/workers/access/generate-access-token/handler.go
package generateaccesstoken

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
	"stream-advisor/internal/repository"
)

const (
	TaskType = "generate-access-token"

	tokenLength = 8
)

type Handler struct {
	config     *Config
	store      *repository.Store
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	newToken   func() string
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
		newToken:   NewToken,
	}
}

// NewToken returns the first eight hex digits of a random UUID, upper-cased.
func NewToken() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:tokenLength])
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if job.Variables != "" {
		if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
			h.errHandler.HandleJobError(context.Background(), client, job, errors.NewParseError(err))
			return
		}
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

func (h *Handler) execute(ctx context.Context, _ *Input) (*Output, error) {
	for attempt := 1; attempt <= h.config.MaxAttempts; attempt++ {
		token := h.newToken()

		exists, err := h.store.TokenExists(ctx, token)
		if err != nil {
			return nil, errors.NewQueryExecutionFailedError("token_exists", err)
		}
		if exists {
			h.logger.Debug("token collision", map[string]interface{}{"attempt": attempt})
			continue
		}

		stored, err := h.store.InsertToken(ctx, token)
		if repository.IsUniqueViolation(err) {
			// lost a race with a concurrent insert
			continue
		}
		if err != nil {
			return nil, errors.NewDatabaseInsertFailedError(err)
		}

		h.logger.Info("access token generated", map[string]interface{}{
			"accessToken": stored.Token,
			"attempts":    attempt,
		})
		return &Output{
			Token:     stored.Token,
			CreatedAt: stored.CreatedAt.UTC().Format(time.RFC3339),
		}, nil
	}

	return nil, errors.NewTokenGenerationFailedError(h.config.MaxAttempts)
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
