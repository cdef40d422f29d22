package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Webex     WebexConfig
	OAuth     OAuthConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Secure    SecureConfig
}

type ServerConfig struct {
	Port string
}

type WebexConfig struct {
	BaseURL        string
	TimeoutSecs    int64
	FailOnErrors   int
	ResolveInitial time.Duration
	ResolveMax     time.Duration
	ResolveElapsed time.Duration
	AssignWorkers  int
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	RedirectURL  string
	Scopes       []string
	StateSecret  string
	StateExpiry  time.Duration
}

type SessionConfig struct {
	Secret string
	MaxAge int // seconds
}

type RateLimitConfig struct {
	RatePerIP string // e.g. "100-M", empty disables
}

type SecureConfig struct {
	IsDevelopment  bool
	AllowedOrigins []string
}

// DefaultScopes are the Webex admin scopes the provisioning flows need.
var DefaultScopes = []string{
	"spark-admin:people_write",
	"spark-admin:people_read",
	"spark-admin:licenses_read",
	"spark-admin:locations_read",
	"spark-admin:organizations_read",
	"spark-admin:workspaces_read",
	"identity:people_rw",
}

func Load() (*Config, error) {
	viper.AutomaticEnv()
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		viper.SetConfigFile(p)
		_ = viper.ReadInConfig()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Webex: WebexConfig{
			BaseURL:        getEnvOrDefault("WEBEX_BASE_URL", "https://webexapis.com"),
			TimeoutSecs:    viper.GetInt64("WEBEX_TIMEOUT_SECS"),
			FailOnErrors:   viper.GetInt("WEBEX_BULK_FAIL_ON_ERRORS"),
			ResolveInitial: viper.GetDuration("WEBEX_RESOLVE_INITIAL_INTERVAL"),
			ResolveMax:     viper.GetDuration("WEBEX_RESOLVE_MAX_INTERVAL"),
			ResolveElapsed: viper.GetDuration("WEBEX_RESOLVE_MAX_ELAPSED"),
			AssignWorkers:  viper.GetInt("WEBEX_ASSIGN_WORKERS"),
		},
		OAuth: OAuthConfig{
			ClientID:     getEnvOrDefault("WEBEX_CLIENT_ID", ""),
			ClientSecret: getEnvOrDefault("WEBEX_CLIENT_SECRET", ""),
			CallbackURL:  getEnvOrDefault("OAUTH_CALLBACK_URL", "http://localhost:8080/auth/webex/callback"),
			RedirectURL:  getEnvOrDefault("OAUTH_REDIRECT_URL", "http://localhost:5173/"),
			Scopes:       splitCSV(getEnvOrDefault("WEBEX_SCOPES", "")),
			StateSecret:  getEnvOrDefault("OAUTH_STATE_SECRET", ""),
			StateExpiry:  viper.GetDuration("OAUTH_STATE_EXPIRY"),
		},
		Session: SessionConfig{
			Secret: getEnvOrDefault("SESSION_SECRET", ""),
			MaxAge: viper.GetInt("SESSION_MAX_AGE"),
		},
		RateLimit: RateLimitConfig{
			RatePerIP: getEnvOrDefault("RATE_LIMIT_PER_IP", "100-M"),
		},
		Secure: SecureConfig{
			IsDevelopment:  viper.GetBool("DEV_MODE"),
			AllowedOrigins: splitCSV(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
	}

	if cfg.Webex.TimeoutSecs <= 0 {
		cfg.Webex.TimeoutSecs = 30
	}
	if cfg.Webex.FailOnErrors <= 0 {
		cfg.Webex.FailOnErrors = 10
	}
	if cfg.Webex.ResolveInitial <= 0 {
		cfg.Webex.ResolveInitial = time.Second
	}
	if cfg.Webex.ResolveMax <= 0 {
		cfg.Webex.ResolveMax = 5 * time.Second
	}
	if cfg.Webex.ResolveElapsed <= 0 {
		cfg.Webex.ResolveElapsed = 30 * time.Second
	}
	if cfg.Webex.AssignWorkers <= 0 {
		cfg.Webex.AssignWorkers = 4
	}
	if len(cfg.OAuth.Scopes) == 0 {
		cfg.OAuth.Scopes = DefaultScopes
	}
	if cfg.OAuth.StateExpiry <= 0 {
		cfg.OAuth.StateExpiry = 10 * time.Minute
	}
	if cfg.Session.MaxAge <= 0 {
		cfg.Session.MaxAge = 3600
	}
	return cfg, nil
}

// Validate rejects a configuration that cannot authenticate anyone.
func (c *Config) Validate() error {
	if c.OAuth.ClientID == "" || c.OAuth.ClientSecret == "" {
		return fmt.Errorf("WEBEX_CLIENT_ID and WEBEX_CLIENT_SECRET are required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.OAuth.StateSecret == "" {
		return fmt.Errorf("OAUTH_STATE_SECRET is required")
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
