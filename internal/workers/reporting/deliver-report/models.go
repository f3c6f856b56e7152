// internal/workers/reporting/deliver-report/models.go
package deliverreport

import "stream-advisor/internal/models"

type Input struct {
	ReportID    string   `json:"reportId" validate:"required,uuid"`
	AccessToken string   `json:"accessToken" validate:"required,max=32"`
	Channels    []string `json:"channels,omitempty" validate:"omitempty,dive,oneof=email sms"`
}

type Output struct {
	NotificationID string                `json:"notificationId"`
	Status         string                `json:"status"`
	SentAt         string                `json:"sentAt"`
	Deliveries     []models.Notification `json:"deliveries"`
}
