// Package config loads the SiteLens configuration file.
//
// Secrets (auth key, credential list, API key) can live either in the
// file or in environment variables; the environment wins so that
// deployments can keep the file free of secret material.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by Load.
const (
	EnvAuthKey = "SITELENS_AUTH_KEY"
	EnvUsers   = "SITELENS_USERS"
	EnvAPIURL  = "SITELENS_API_URL"
	EnvAPIKey  = "SITELENS_API_KEY"
)

// Config is the root configuration for SiteLens.
type Config struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	Auth     AuthConfig     `yaml:"auth,omitempty"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	History  HistoryConfig  `yaml:"history,omitempty"`
}

// ServerConfig configures the console HTTP server.
type ServerConfig struct {
	Address string `yaml:"address,omitempty"` // Default: ":8080"

	// SessionIdleTimeout drops console sessions idle longer than this.
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout,omitempty"`
}

// AuthConfig configures the credential sources and hashing key.
type AuthConfig struct {
	// SecretKey is the HMAC key for password digests.
	// Overridden by SITELENS_AUTH_KEY.
	SecretKey string `yaml:"secret_key,omitempty"`

	// Users is the structured username -> digest table. When present it
	// wins outright over the delimited list.
	Users map[string]string `yaml:"users,omitempty"`

	// UsersList is a delimited credential string of the form
	// "user1:hash1,user2:hash2". Overridden by SITELENS_USERS.
	UsersList string `yaml:"users_list,omitempty"`
}

// AnalyzerConfig configures the remote website-analysis service client.
type AnalyzerConfig struct {
	// BaseURL of the analysis API. Overridden by SITELENS_API_URL.
	BaseURL string `yaml:"base_url"`

	// APIKey is sent as a bearer token. Overridden by SITELENS_API_KEY.
	APIKey string `yaml:"api_key,omitempty"`

	// Timeout for analysis calls. Analysis can run minutes. Default: 5m.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// OAuth switches the client to OAuth2 client-credentials tokens
	// instead of the static API key.
	OAuth *OAuthConfig `yaml:"oauth,omitempty"`
}

// OAuthConfig holds OAuth2 client-credentials settings.
type OAuthConfig struct {
	TokenURL     string   `yaml:"token_url"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes,omitempty"`
}

// HistoryConfig configures the per-session analysis history.
type HistoryConfig struct {
	// Limit is the maximum entries kept per session. Default: 50.
	Limit int `yaml:"limit,omitempty"`
}

// Load reads configuration from a file path and applies environment
// overrides. An empty path yields a config built purely from the
// environment and defaults, so the demo path needs no file at all.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		cfg, err = Parse(data)
		if err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.Defaults()
	return cfg, nil
}

// Parse parses configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAuthKey); v != "" {
		c.Auth.SecretKey = v
	}
	if v := os.Getenv(EnvUsers); v != "" {
		c.Auth.UsersList = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.Analyzer.BaseURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Analyzer.APIKey = v
	}
}

// Defaults applies default values to the configuration.
func (c *Config) Defaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.SessionIdleTimeout == 0 {
		c.Server.SessionIdleTimeout = 12 * time.Hour
	}
	if c.Analyzer.Timeout == 0 {
		c.Analyzer.Timeout = 5 * time.Minute
	}
	if c.History.Limit == 0 {
		c.History.Limit = 50
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Analyzer.BaseURL == "" {
		return fmt.Errorf("analyzer.base_url is required (or set %s)", EnvAPIURL)
	}
	u, err := url.Parse(c.Analyzer.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("analyzer.base_url %q is not a valid URL", c.Analyzer.BaseURL)
	}

	if c.Analyzer.OAuth != nil {
		o := c.Analyzer.OAuth
		if o.TokenURL == "" || o.ClientID == "" || o.ClientSecret == "" {
			return fmt.Errorf("analyzer.oauth requires token_url, client_id and client_secret")
		}
	}

	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must be >= 0")
	}

	return nil
}
