// internal/workers/access/generate-access-token/models.go
package generateaccesstoken

// Input carries no fields; the job only needs to run.
type Input struct{}

type Output struct {
	Token     string `json:"token"`
	CreatedAt string `json:"createdAt"` // ISO 8601
}
