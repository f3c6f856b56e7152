// internal/workers/respondent/register-respondent/models.go
package registerrespondent

type Input struct {
	Name                 string `json:"name" validate:"required,max=100"`
	PhoneNo              string `json:"phoneNo" validate:"required,max=20"`
	Email                string `json:"email" validate:"required,email,max=254"`
	CurrentQualification string `json:"currentQualification" validate:"required,max=100"`
	AccessToken          string `json:"accessToken" validate:"required,max=32"`
}

type Output struct {
	RespondentID string `json:"respondentId"`
}
