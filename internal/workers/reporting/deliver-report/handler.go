// internal/workers/reporting/deliver-report/handler.go
package deliverreport

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"

	awsclient "stream-advisor/internal/common/aws"
	"stream-advisor/internal/common/breaker"
	"stream-advisor/internal/common/errors"
	"stream-advisor/internal/common/logger"
	"stream-advisor/internal/common/metrics"
	"stream-advisor/internal/common/validation"
	"stream-advisor/internal/models"
	"stream-advisor/internal/repository"
)

const (
	TaskType = "deliver-report"
)

// Per-channel outcomes recorded on each models.Notification.
const (
	channelSent     = "sent"
	channelFailed   = "failed"
	channelDisabled = "disabled"
	channelSkipped  = "skipped"
)

type Handler struct {
	config       *Config
	store        *repository.Store
	email        awsclient.EmailSender
	sms          awsclient.SMSSender
	emailBreaker *breaker.Breaker
	smsBreaker   *breaker.Breaker
	errHandler   *errors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

// Dependencies are the senders and their breakers. A nil sender turns its
// channel off; a nil breaker sends unguarded.
type Dependencies struct {
	DB           *sql.DB
	Email        awsclient.EmailSender
	SMS          awsclient.SMSSender
	EmailBreaker *breaker.Breaker
	SMSBreaker   *breaker.Breaker
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        repository.New(deps.DB),
		email:        deps.Email,
		sms:          deps.SMS,
		emailBreaker: deps.EmailBreaker,
		smsBreaker:   deps.SMSBreaker,
		errHandler:   errors.NewErrorHandler(log),
		logger:       log,
		now:          time.Now,
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

	// Every attempted channel failed: let the broker retry while it can, and
	// hand FAILED to the process on the last attempt.
	if output.Status == models.DeliveryFailed && job.Retries > 1 {
		h.errHandler.HandleJobError(ctx, client, job,
			errors.NewNotificationSendFailedError("report", stderrors.New(failureSummary(output.Deliveries))))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	input.AccessToken = models.NormalizeToken(input.AccessToken)
	input.ReportID = strings.TrimSpace(input.ReportID)
	for i, c := range input.Channels {
		input.Channels[i] = strings.ToLower(strings.TrimSpace(c))
	}
	if result := validation.ValidateStruct(input); result != nil {
		return nil, errors.NewNotificationValidationFailedError(result.Error())
	}

	stored, err := h.store.GetReport(ctx, input.ReportID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewReportNotFoundError(input.ReportID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get_report", err)
	}
	if stored.AccessToken != input.AccessToken {
		return nil, errors.NewReportNotFoundError(input.ReportID)
	}

	respondent, err := h.store.GetRespondentByToken(ctx, input.AccessToken)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewRespondentNotFoundError(input.AccessToken)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get_respondent", err)
	}

	channels := input.Channels
	if len(channels) == 0 {
		channels = []string{string(models.ChannelEmail), string(models.ChannelSMS)}
	}

	sentAt := h.now().UTC().Format(time.RFC3339)
	deliveries := make([]models.Notification, 0, len(channels))
	for _, ch := range dedupe(channels) {
		var n models.Notification
		switch models.NotificationChannel(ch) {
		case models.ChannelEmail:
			n = h.sendEmail(ctx, stored, respondent)
		case models.ChannelSMS:
			n = h.sendSMS(ctx, stored, respondent)
		}
		n.ID = uuid.New().String()
		n.ReportID = stored.ID
		if n.Status == channelSent {
			n.SentAt = sentAt
		}
		metrics.NotificationsSent.WithLabelValues(string(n.Channel), n.Status).Inc()
		deliveries = append(deliveries, n)
	}

	out := &Output{
		NotificationID: uuid.New().String(),
		Status:         overallStatus(deliveries),
		Deliveries:     deliveries,
	}
	if out.Status == models.DeliverySent || out.Status == models.DeliveryPartial {
		out.SentAt = sentAt
	}

	h.logger.Info("report delivery finished", map[string]interface{}{
		"reportId":       stored.ID,
		"notificationId": out.NotificationID,
		"status":         out.Status,
		"channels":       len(deliveries),
	})
	return out, nil
}

func (h *Handler) sendEmail(ctx context.Context, stored *models.Report, r *models.Respondent) models.Notification {
	n := models.Notification{Channel: models.ChannelEmail, Recipient: r.Email}
	if !h.config.EmailEnabled || h.email == nil {
		n.Status = channelDisabled
		return n
	}
	if r.Email == "" {
		n.Status = channelSkipped
		return n
	}

	msg := awsclient.Email{
		From:    h.config.FromEmail,
		To:      r.Email,
		Subject: h.config.Subject,
	}
	switch stored.Format {
	case "html":
		msg.HTMLBody = string(stored.Content)
	case "markdown":
		msg.TextBody = string(stored.Content)
	default:
		msg.TextBody = fmt.Sprintf("Hello %s,\n\nYour stream recommendation report is ready (reference %s). "+
			"The %s document is available from your counsellor.\n", greetingName(r), stored.ID, strings.ToUpper(stored.Format))
	}

	return h.deliver(ctx, n, h.emailBreaker, func(ctx context.Context) (string, error) {
		return h.email.SendEmail(ctx, msg)
	})
}

func (h *Handler) sendSMS(ctx context.Context, stored *models.Report, r *models.Respondent) models.Notification {
	n := models.Notification{Channel: models.ChannelSMS, Recipient: r.PhoneNo}
	if !h.config.SMSEnabled || h.sms == nil {
		n.Status = channelDisabled
		return n
	}
	if r.PhoneNo == "" {
		n.Status = channelSkipped
		return n
	}

	text := fmt.Sprintf("Hi %s, your stream recommendation report is ready. Ref: %s", greetingName(r), shortRef(stored.ID))
	return h.deliver(ctx, n, h.smsBreaker, func(ctx context.Context) (string, error) {
		return h.sms.SendSMS(ctx, r.PhoneNo, text)
	})
}

func (h *Handler) deliver(ctx context.Context, n models.Notification, cb *breaker.Breaker, send func(context.Context) (string, error)) models.Notification {
	var messageID string
	call := func(ctx context.Context) error {
		id, err := send(ctx)
		messageID = id
		return err
	}

	var err error
	if cb != nil {
		err = cb.Do(ctx, call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		n.Status = channelFailed
		n.Error = err.Error()
		h.logger.Warn("notification send failed", map[string]interface{}{
			"channel":     string(n.Channel),
			"breakerOpen": breaker.IsOpen(err),
			"error":       err.Error(),
		})
		return n
	}
	n.Status = channelSent
	n.MessageID = messageID
	return n
}

// overallStatus folds per-channel outcomes. Disabled and skipped channels do
// not count as attempts.
func overallStatus(deliveries []models.Notification) string {
	var sent, failed int
	for _, d := range deliveries {
		switch d.Status {
		case channelSent:
			sent++
		case channelFailed:
			failed++
		}
	}
	switch {
	case sent == 0 && failed == 0:
		return models.DeliverySkipped
	case failed == 0:
		return models.DeliverySent
	case sent == 0:
		return models.DeliveryFailed
	default:
		return models.DeliveryPartial
	}
}

func failureSummary(deliveries []models.Notification) string {
	var parts []string
	for _, d := range deliveries {
		if d.Status == channelFailed {
			parts = append(parts, fmt.Sprintf("%s: %s", d.Channel, d.Error))
		}
	}
	return strings.Join(parts, "; ")
}

func dedupe(channels []string) []string {
	seen := make(map[string]bool, len(channels))
	out := channels[:0:0]
	for _, c := range channels {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func greetingName(r *models.Respondent) string {
	if name := strings.Fields(r.Name); len(name) > 0 {
		return name[0]
	}
	return "there"
}

func shortRef(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
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
