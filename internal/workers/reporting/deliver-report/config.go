// internal/workers/reporting/deliver-report/config.go
package deliverreport

import "time"

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	Subject      string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		EmailEnabled: true,
		SMSEnabled:   false,
		FromEmail:    "noreply@streamadvisor.com",
		Subject:      "Your Stream Recommendation Report",
	}
}
