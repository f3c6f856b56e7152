// internal/models/report.go
package models

import "time"

type Report struct {
	ID          string    `json:"id"`
	AccessToken string    `json:"accessToken"`
	Format      string    `json:"format"`
	Content     []byte    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
