// internal/models/respondent.go
package models

import "time"

type Respondent struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	PhoneNo              string    `json:"phoneNo"`
	Email                string    `json:"email"`
	CurrentQualification string    `json:"currentQualification"`
	AccessToken          string    `json:"accessToken"`
	CreatedAt            time.Time `json:"createdAt"`
}
