package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort string `mapstructure:"APP_PORT"`
	Env     string `mapstructure:"ENV"`

	// HubSpot upstream.
	HubSpotAPIKey  string `mapstructure:"HUBSPOT_API_KEY"`
	HubSpotBaseURL string `mapstructure:"HUBSPOT_BASE_URL"`
	HTTPTimeoutSec int    `mapstructure:"HTTP_TIMEOUT_SECONDS"`

	// Optional inbound auth. Both empty means the API is open.
	StaticTokens string `mapstructure:"STATIC_TOKENS"`
	JWTSecret    string `mapstructure:"JWT_HMAC_SECRET"`
}

// Load reads configuration from the environment and, if present, a
// config.yaml in the working directory or ./config.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("HUBSPOT_API_KEY", "")
	viper.SetDefault("HUBSPOT_BASE_URL", "https://api.hubapi.com")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 10)
	viper.SetDefault("STATIC_TOKENS", "")
	viper.SetDefault("JWT_HMAC_SECRET", "")

	// Config file is optional; environment variables are enough.
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// HTTPTimeout returns the upstream request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// StaticTokenList splits STATIC_TOKENS into individual tokens.
func (c *Config) StaticTokenList() []string {
	var out []string
	for _, t := range strings.Split(c.StaticTokens, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// IsProduction reports whether the service runs with the production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
