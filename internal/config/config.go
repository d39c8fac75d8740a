/*
Package config loads settings from the environment and an optional .env file.
*/
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	APIKey        string `mapstructure:"api_key"`
	Model         string `mapstructure:"gemini_model"`
	GeminiBaseURL string `mapstructure:"gemini_base_url"`

	ServerAddress       string `mapstructure:"server_address"`
	ReadTimeoutSeconds  int64  `mapstructure:"server_read_timeout"`
	WriteTimeoutSeconds int64  `mapstructure:"server_write_timeout"`
	AnalysisTimeoutSecs int64  `mapstructure:"analysis_timeout"`
	SessionMaxIdleSecs  int64  `mapstructure:"session_max_idle"`

	CSRFKey    string `mapstructure:"csrf_key"`
	CSRFSecure bool   `mapstructure:"csrf_secure"`

	SMTPServer string `mapstructure:"smtp_server"`
	SMTPPort   int    `mapstructure:"smtp_port"`
	SMTPUser   string `mapstructure:"smtp_user"`
	SMTPPass   string `mapstructure:"smtp_pass"`
	FromEmail  string `mapstructure:"from_email"`
	ToEmail    string `mapstructure:"to_email"`

	ReadTimeout     time.Duration `mapstructure:"-"`
	WriteTimeout    time.Duration `mapstructure:"-"`
	AnalysisTimeout time.Duration `mapstructure:"-"`
	SessionMaxIdle  time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables, after loading envFile
// if it exists.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("api_key", "")
	v.SetDefault("gemini_model", "gemini-3-pro-preview")
	v.SetDefault("gemini_base_url", "")
	v.SetDefault("server_address", ":8080")
	v.SetDefault("server_read_timeout", 15)
	v.SetDefault("server_write_timeout", 300)
	v.SetDefault("analysis_timeout", 180)
	v.SetDefault("session_max_idle", int64((24*time.Hour)/time.Second))
	v.SetDefault("csrf_key", "")
	v.SetDefault("csrf_secure", false)
	v.SetDefault("smtp_server", "smtp.gmail.com")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_pass", "")
	v.SetDefault("from_email", "")
	v.SetDefault("to_email", "")

	// The key is read as-is; an empty key is reported by the service.
	if err := v.BindEnv("api_key", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("bind api key: %w", err)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.ReadTimeoutSeconds <= 0 || cfg.WriteTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid server timeouts (must be positive seconds)")
	}
	if cfg.AnalysisTimeoutSecs < 0 {
		return nil, fmt.Errorf("invalid analysis_timeout (must be zero or positive seconds)")
	}
	if cfg.SessionMaxIdleSecs <= 0 {
		return nil, fmt.Errorf("invalid session_max_idle (must be positive seconds)")
	}
	if cfg.CSRFKey != "" && len(cfg.CSRFKey) < 32 {
		return nil, fmt.Errorf("csrf_key must be at least 32 characters long")
	}

	cfg.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	cfg.AnalysisTimeout = time.Duration(cfg.AnalysisTimeoutSecs) * time.Second
	cfg.SessionMaxIdle = time.Duration(cfg.SessionMaxIdleSecs) * time.Second

	return &cfg, nil
}

// EmailEnabled reports whether enough SMTP settings are present to send mail.
func (c *Config) EmailEnabled() bool {
	return c.SMTPServer != "" && c.SMTPUser != "" && c.SMTPPass != "" && c.ToEmail != ""
}

// Sender returns the From address, defaulting to the SMTP user.
func (c *Config) Sender() string {
	if c.FromEmail != "" {
		return c.FromEmail
	}
	return c.SMTPUser
}
