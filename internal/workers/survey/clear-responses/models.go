// internal/workers/survey/clear-responses/models.go
package clearresponses

type Input struct {
	AccessToken string `json:"accessToken"`
}

type Output struct {
	Deleted int64 `json:"deleted"`
}
