// Package config loads OpenADR 3 client settings from a YAML file and
// OADR3_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"thde.io/oadr3"
)

const envPrefix = "OADR3"

// Config holds the client configuration.
type Config struct {
	BaseURL      string `mapstructure:"base_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Scope        string `mapstructure:"scope"`
	UserAgent    string `mapstructure:"user_agent"`
	// RateLimit is the number of resource calls allowed per second. Zero disables pacing.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
	// Timeout bounds a whole HTTP exchange. Zero keeps the client default.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load loads the configuration from a file and environment variables.
// An empty path looks for oadr3.yaml in ./configs and the working directory;
// a missing file is not an error. Environment variables such as
// OADR3_BASE_URL override file values.
func Load(path string) (*Config, error) {
	vip := viper.New()
	if path != "" {
		vip.SetConfigFile(path)
	} else {
		vip.SetConfigName("oadr3")
		vip.AddConfigPath("./configs")
		vip.AddConfigPath(".")
	}

	vip.SetConfigType("yaml")
	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	for _, key := range []string{"base_url", "client_id", "client_secret", "scope", "user_agent", "rate_limit", "rate_burst", "timeout"} {
		if err := vip.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	vip.SetDefault("rate_burst", 1)

	if err := vip.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Credentials builds the client credentials, failing with [oadr3.ErrArgument]
// when a required setting is blank.
func (c *Config) Credentials() (oadr3.Credentials, error) {
	return oadr3.NewCredentials(c.BaseURL, c.ClientID, c.ClientSecret, c.Scope)
}

// Options translates the optional settings into client options.
func (c *Config) Options() []oadr3.ClientOption {
	var opts []oadr3.ClientOption

	if c.UserAgent != "" {
		opts = append(opts, oadr3.WithUserAgent(c.UserAgent))
	}
	if c.RateLimit > 0 {
		burst := max(c.RateBurst, 1)
		opts = append(opts, oadr3.WithRateLimiter(rate.NewLimiter(rate.Limit(c.RateLimit), burst)))
	}
	if c.Timeout > 0 {
		opts = append(opts, oadr3.WithTimeout(c.Timeout))
	}

	return opts
}
