// internal/models/assessment.go
package models

import (
	"time"

	"stream-advisor/internal/assessment"
)

// StreamAssessment is the persisted snapshot of one scoring run. There is at
// most one per access token.
type StreamAssessment struct {
	ID          string             `json:"id"`
	AccessToken string             `json:"accessToken"`
	Variant     string             `json:"variant"`
	Result      *assessment.Result `json:"result"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
