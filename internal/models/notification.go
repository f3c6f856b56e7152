// internal/models/notification.go
package models

type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
)

// Delivery statuses reported by deliver-report.
const (
	DeliverySent    = "SENT"
	DeliveryPartial = "PARTIAL"
	DeliverySkipped = "SKIPPED"
	DeliveryFailed  = "FAILED"
)

type Notification struct {
	ID        string              `json:"id"`
	ReportID  string              `json:"reportId"`
	Channel   NotificationChannel `json:"channel"`
	Recipient string              `json:"recipient"`
	Status    string              `json:"status"` // "sent", "failed", "disabled"
	MessageID string              `json:"messageId,omitempty"`
	Error     string              `json:"error,omitempty"`
	SentAt    string              `json:"sentAt,omitempty"`
}
