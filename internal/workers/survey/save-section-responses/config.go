// internal/workers/survey/save-section-responses/config.go
package savesectionresponses

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: 30 * time.Minute,
	}
}
