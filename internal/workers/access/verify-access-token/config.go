// internal/workers/access/verify-access-token/config.go
package verifyaccesstoken

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
