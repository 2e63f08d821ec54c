package client

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"hyperunit-sdk/guardian"
	"hyperunit-sdk/shared"
)

// Bridge API endpoints per network.
const (
	MainnetBaseURL = "https://api.hyperunit.xyz"
	TestnetBaseURL = "https://api.hyperunit-testnet.xyz"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	DefaultCacheTTL   = 30 * time.Second
)

// Config contains all configuration options for the Client
type Config struct {
	Network      guardian.Network      // Selects base URL and guardian registry
	BaseURL      string                // Overrides the network's base URL
	Timeout      time.Duration         // Per-attempt request timeout
	Headers      map[string]string     // Extra headers sent with every request
	MaxRetries   int                   // Retries after the first attempt for transient failures
	RateLimit    float64               // Requests per second, 0 disables limiting
	Burst        int                   // Limiter burst size
	CacheTTL     time.Duration         // TTL for fee and queue responses, 0 disables caching
	RegistryPath string                // Optional guardian registry file pinning keys
	HTTPClient   *http.Client          // Optional transport
	Logger       *shared.Logger        // Optional logger
	Registerer   prometheus.Registerer // Optional metrics registerer
}

// DefaultConfig returns the mainnet configuration.
func DefaultConfig() *Config {
	return &Config{
		Network:    guardian.Mainnet,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		Burst:      1,
		CacheTTL:   DefaultCacheTTL,
	}
}

// LoadConfigFromEnv builds a Config from UNIT_* environment variables after
// loading an optional .env file.
func LoadConfigFromEnv() (*Config, error) {
	if err := shared.LoadDotEnv(); err != nil {
		return nil, NewConfigurationError(".env", err.Error())
	}

	network, err := guardian.ParseNetwork(shared.GetEnvOrDefault("UNIT_NETWORK", string(guardian.Mainnet)))
	if err != nil {
		return nil, NewConfigurationError("UNIT_NETWORK", err.Error())
	}

	cfg := DefaultConfig()
	cfg.Network = network
	cfg.BaseURL = shared.GetEnvOrDefault("UNIT_BASE_URL", "")
	cfg.Timeout = shared.GetEnvDurationOrDefault("UNIT_TIMEOUT", DefaultTimeout)
	cfg.MaxRetries = shared.GetEnvIntOrDefault("UNIT_MAX_RETRIES", DefaultMaxRetries)
	cfg.RateLimit = shared.GetEnvFloatOrDefault("UNIT_RATE_LIMIT", 0)
	cfg.Burst = shared.GetEnvIntOrDefault("UNIT_RATE_BURST", 1)
	cfg.CacheTTL = shared.GetEnvDurationOrDefault("UNIT_CACHE_TTL", DefaultCacheTTL)
	cfg.RegistryPath = shared.GetEnvOrDefault("UNIT_GUARDIAN_REGISTRY", "")

	return cfg, cfg.Validate()
}

// Endpoint returns the base URL requests are sent to.
func (c *Config) Endpoint() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if c.Network == guardian.Testnet {
		return TestnetBaseURL
	}
	return MainnetBaseURL
}

// Validate checks the configuration for values the client cannot work with.
func (c *Config) Validate() error {
	if !c.Network.Valid() {
		return NewConfigurationError("Network", "must be testnet or mainnet")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return NewConfigurationError("BaseURL", "must be an absolute http(s) URL")
		}
	}
	if c.Timeout <= 0 {
		return NewConfigurationError("Timeout", "must be positive")
	}
	if c.MaxRetries < 0 {
		return NewConfigurationError("MaxRetries", "must not be negative")
	}
	if c.RateLimit < 0 {
		return NewConfigurationError("RateLimit", "must not be negative")
	}
	if c.RateLimit > 0 && c.Burst < 1 {
		return NewConfigurationError("Burst", "must be at least 1 when rate limiting")
	}
	if c.CacheTTL < 0 {
		return NewConfigurationError("CacheTTL", "must not be negative")
	}
	return nil
}
