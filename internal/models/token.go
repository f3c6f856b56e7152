// internal/models/token.go
package models

import (
	"strings"
	"time"
)

type AccessToken struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	IsUsed    bool      `json:"isUsed"`
	CreatedAt time.Time `json:"createdAt"`
}

// NormalizeToken trims and upper-cases a token as typed by a respondent.
func NormalizeToken(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}
