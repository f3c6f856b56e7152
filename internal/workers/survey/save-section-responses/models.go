// internal/workers/survey/save-section-responses/models.go
package savesectionresponses

type Input struct {
	AccessToken    string      `json:"accessToken" validate:"required,max=32"`
	Section        string      `json:"section" validate:"required,max=64"`
	Answers        interface{} `json:"answers"`
	AssessmentType string      `json:"assessmentType,omitempty"`
}

type Output struct {
	ResponseID        int64  `json:"responseId"`
	Section           string `json:"section"`
	AssessmentUpdated bool   `json:"assessmentUpdated"`
	AssessmentID      string `json:"assessmentId,omitempty"`
}
