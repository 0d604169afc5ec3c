package config

import "time"

const (
	minAPITimeout     = time.Second
	defaultAPITimeout = 15 * time.Second
)

// ExtractConfig names the JMESPath expressions used to pull session
// fields out of backend login/profile responses. The defaults match the
// backend's current payload, where the user object is the response root.
type ExtractConfig struct {
	UserID   string `env:"USER_ID"   envDefault:"id"`
	Email    string `env:"EMAIL"     envDefault:"email"`
	FullName string `env:"FULL_NAME" envDefault:"adSoyad"`
	Phone    string `env:"PHONE"     envDefault:"telefon"`
	Role     string `env:"ROLE"      envDefault:"rol"`
}

// APIConfig contains backend API configuration.
type APIConfig struct {
	// BaseURL is the root of the marketplace backend.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Timeout bounds every backend request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`

	// Extract configures response field extraction.
	Extract ExtractConfig `envPrefix:"EXTRACT_"`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	if a.Timeout <= 0 {
		a.Timeout = defaultAPITimeout
	}
	if a.Timeout < minAPITimeout {
		a.Timeout = minAPITimeout
	}
}
