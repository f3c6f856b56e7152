// internal/workers/reporting/build-career-report/models.go
package buildcareerreport

type Input struct {
	AccessToken string `json:"accessToken"`
	Format      string `json:"format,omitempty"`
}

type Output struct {
	ReportID  string `json:"reportId"`
	Format    string `json:"format"`
	SizeBytes int    `json:"sizeBytes"`
}
