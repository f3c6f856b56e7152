// internal/workers/reporting/build-career-report/config.go
package buildcareerreport

import "time"

type Config struct {
	Timeout       time.Duration
	CacheTTL      time.Duration
	DefaultFormat string
	Title         string
	TopN          int
	ChromePath    string
	RenderTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       60 * time.Second,
		CacheTTL:      30 * time.Minute,
		DefaultFormat: "html",
		Title:         "Stream Recommendation Report",
		TopN:          3,
		RenderTimeout: 45 * time.Second,
	}
}
