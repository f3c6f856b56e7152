// internal/workers/access/generate-access-token/config.go
package generateaccesstoken

import "time"

type Config struct {
	Timeout     time.Duration
	MaxAttempts int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     10 * time.Second,
		MaxAttempts: 10,
	}
}
