// internal/workers/access/verify-access-token/models.go
package verifyaccesstoken

type Input struct {
	Token   string `json:"token"`
	Consume bool   `json:"consume"`
}

type Output struct {
	Token   string `json:"token"`
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}
