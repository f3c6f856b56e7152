// internal/workers/assessment/calculate-stream-scores/config.go
package calculatestreamscores

import "time"

type Config struct {
	Timeout        time.Duration
	CacheTTL       time.Duration
	DefaultVariant string
	IndexName      string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        15 * time.Second,
		CacheTTL:       30 * time.Minute,
		DefaultVariant: "regular",
		IndexName:      "stream-assessments",
	}
}
