// internal/models/response.go
package models

import (
	"encoding/json"
	"time"
)

// Response is one submitted survey section. Answers are kept as submitted.
type Response struct {
	ID          int64           `json:"id"`
	AccessToken string          `json:"accessToken"`
	Section     string          `json:"section"`
	Answers     json.RawMessage `json:"answers"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SectionPayloads decodes every response into a section-keyed map. When a
// section was submitted more than once the latest row wins; rows must be in
// insertion order.
func SectionPayloads(responses []Response) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(responses))
	for _, r := range responses {
		var v interface{}
		if len(r.Answers) > 0 {
			if err := json.Unmarshal(r.Answers, &v); err != nil {
				return nil, err
			}
		}
		out[r.Section] = v
	}
	return out, nil
}
