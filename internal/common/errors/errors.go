// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeParseError ErrorCode = "PARSE_ERROR"

	ErrCodeTokenInvalid          ErrorCode = "TOKEN_INVALID"
	ErrCodeTokenGenerationFailed ErrorCode = "TOKEN_GENERATION_FAILED"

	ErrCodeRespondentValidationFailed ErrorCode = "RESPONDENT_VALIDATION_FAILED"
	ErrCodeDuplicateRespondent        ErrorCode = "DUPLICATE_RESPONDENT"
	ErrCodeRespondentNotFound         ErrorCode = "RESPONDENT_NOT_FOUND"

	ErrCodeResponseValidationFailed ErrorCode = "RESPONSE_VALIDATION_FAILED"
	ErrCodeNoResponsesFound         ErrorCode = "NO_RESPONSES_FOUND"
	ErrCodeUnknownVariant           ErrorCode = "UNKNOWN_VARIANT"
	ErrCodeAssessmentNotFound       ErrorCode = "ASSESSMENT_NOT_FOUND"

	ErrCodeReportRenderFailed ErrorCode = "REPORT_RENDER_FAILED"
	ErrCodeReportNotFound     ErrorCode = "REPORT_NOT_FOUND"

	ErrCodeNotificationValidationFailed ErrorCode = "NOTIFICATION_VALIDATION_FAILED"
	ErrCodeNotificationSendFailed       ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"

	ErrCodeSearchIndexFailed         ErrorCode = "SEARCH_INDEX_FAILED"
	ErrCodeWorkflowEngineUnavailable ErrorCode = "WORKFLOW_ENGINE_UNAVAILABLE"
	ErrCodeInternal                  ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value to the error and returns it.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError reports job variables that could not be decoded.
func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Job variables could not be parsed", err.Error(), false)
}

// NewTokenInvalidError creates a non-retryable token error.
func NewTokenInvalidError(token string) *StandardError {
	return newError(ErrCodeTokenInvalid, "Invalid token", fmt.Sprintf("token: %s", token), false)
}

// NewTokenGenerationFailedError is returned when every generation attempt collided.
func NewTokenGenerationFailedError(attempts int) *StandardError {
	return newError(ErrCodeTokenGenerationFailed, "Failed to generate unique token",
		fmt.Sprintf("attempts: %d", attempts), true)
}

func NewRespondentValidationFailedError(details string) *StandardError {
	return newError(ErrCodeRespondentValidationFailed, "Respondent data validation failed", details, false)
}

func NewDuplicateRespondentError(accessToken string) *StandardError {
	return newError(ErrCodeDuplicateRespondent, "A respondent is already registered for this token",
		fmt.Sprintf("accessToken: %s", accessToken), false)
}

func NewRespondentNotFoundError(accessToken string) *StandardError {
	return newError(ErrCodeRespondentNotFound, "Respondent not found",
		fmt.Sprintf("accessToken: %s", accessToken), false)
}

func NewResponseValidationFailedError(details string) *StandardError {
	return newError(ErrCodeResponseValidationFailed, "Response payload validation failed", details, false)
}

// NewNoResponsesFoundError is the rejection raised before the engine runs on an empty submission.
func NewNoResponsesFoundError(accessToken string) *StandardError {
	return newError(ErrCodeNoResponsesFound, "No responses found for this token",
		fmt.Sprintf("accessToken: %s", accessToken), false)
}

func NewUnknownVariantError(variant string) *StandardError {
	return newError(ErrCodeUnknownVariant, "Unknown survey variant",
		fmt.Sprintf("variant: %s", variant), false)
}

func NewAssessmentNotFoundError(accessToken string) *StandardError {
	return newError(ErrCodeAssessmentNotFound, "Assessment not found",
		fmt.Sprintf("accessToken: %s", accessToken), false)
}

func NewReportRenderFailedError(format string, err error) *StandardError {
	return newError(ErrCodeReportRenderFailed, "Report rendering failed",
		fmt.Sprintf("format: %s, error: %s", format, err.Error()), true)
}

func NewReportNotFoundError(reportID string) *StandardError {
	return newError(ErrCodeReportNotFound, "Report not found",
		fmt.Sprintf("reportId: %s", reportID), false)
}

func NewNotificationValidationFailedError(details string) *StandardError {
	return newError(ErrCodeNotificationValidationFailed, "Notification request validation failed", details, false)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()), true)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryType string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout",
		fmt.Sprintf("queryType: %s", queryType), true)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewSearchIndexFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchIndexFailed, "Search index write failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

// NewWorkflowEngineUnavailableError wraps a gateway call that failed for a
// transient reason (unavailable, deadline exceeded, resource exhausted).
func NewWorkflowEngineUnavailableError(operation string, err error) *StandardError {
	return newError(ErrCodeWorkflowEngineUnavailable, "Workflow engine unavailable",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the BPMN error codes modelled
// in the stream assessment process.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeParseError:                   "PARSE_ERROR",
	ErrCodeTokenInvalid:                 "TOKEN_INVALID",
	ErrCodeTokenGenerationFailed:        "TOKEN_GENERATION_FAILED",
	ErrCodeRespondentValidationFailed:   "RESPONDENT_VALIDATION_FAILED",
	ErrCodeDuplicateRespondent:          "DUPLICATE_RESPONDENT",
	ErrCodeRespondentNotFound:           "RESPONDENT_NOT_FOUND",
	ErrCodeResponseValidationFailed:     "RESPONSE_VALIDATION_FAILED",
	ErrCodeNoResponsesFound:             "NO_RESPONSES_FOUND",
	ErrCodeUnknownVariant:               "UNKNOWN_VARIANT",
	ErrCodeAssessmentNotFound:           "ASSESSMENT_NOT_FOUND",
	ErrCodeReportRenderFailed:           "REPORT_RENDER_FAILED",
	ErrCodeReportNotFound:               "REPORT_NOT_FOUND",
	ErrCodeNotificationValidationFailed: "NOTIFICATION_VALIDATION_FAILED",
	ErrCodeNotificationSendFailed:       "NOTIFICATION_SEND_FAILED",
	ErrCodeDatabaseConnectionFailed:     "DATABASE_CONNECTION_FAILED",
	ErrCodeQueryExecutionFailed:         "QUERY_EXECUTION_FAILED",
	ErrCodeQueryTimeout:                 "QUERY_TIMEOUT",
	ErrCodeDatabaseInsertFailed:         "DATABASE_INSERT_FAILED",
	ErrCodeSearchIndexFailed:            "SEARCH_INDEX_FAILED",
	ErrCodeWorkflowEngineUnavailable:    "WORKFLOW_ENGINE_UNAVAILABLE",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeTokenGenerationFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeWorkflowEngineUnavailable:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeReportRenderFailed:
		return 2

	default:
		return 0 // business rejections
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err into a StandardError when one is in its chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TOKEN"):
		return "ACCESS"
	case strings.Contains(codeStr, "RESPONDENT"):
		return "RESPONDENT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "WORKFLOW"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "SEARCH"):
		return "STORAGE"
	case strings.Contains(codeStr, "REPORT"):
		return "REPORT"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "RESPONSE") || strings.Contains(codeStr, "ASSESSMENT") || strings.Contains(codeStr, "VARIANT"):
		return "ASSESSMENT"
	case strings.Contains(codeStr, "PARSE") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
