package config

import (
	"time"

	"chicuadrado/internal/errors"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Upload   UploadConfig
	Analysis AnalysisConfig
	Log      LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `env:"PORT" env-default:"8080"`
	GinMode string `env:"GIN_MODE" env-default:"release"`
}

// SessionConfig holds browser session settings.
// The secret signs the session cookie; it should be set in every deployment.
type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET" env-default:"chicuadrado-development-secret"`
	TTL          time.Duration `env:"SESSION_TTL" env-default:"2h"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE" env-default:"false"`
}

// UploadConfig holds dataset upload limits
type UploadConfig struct {
	MaxMB         int `env:"UPLOAD_MAX_MB" env-default:"50"`
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" env-default:"4"`
}

// AnalysisConfig holds defaults for the chi-squared workflow
type AnalysisConfig struct {
	DefaultAlpha    float64 `env:"DEFAULT_ALPHA" env-default:"0.05"`
	PreviewRows     int     `env:"PREVIEW_ROWS" env-default:"5"`
	YatesCorrection bool    `env:"YATES_CORRECTION" env-default:"true"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"INFO"`
	Format string `env:"LOG_FORMAT" env-default:"console"`
}

// MaxUploadBytes returns the upload limit in bytes
func (c UploadConfig) MaxUploadBytes() int64 {
	return int64(c.MaxMB) * 1024 * 1024
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}
	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, errors.Wrap(err, "failed to read environment configuration")
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration with every default applied, ignoring the environment
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", GinMode: "release"},
		Session:  SessionConfig{Secret: "chicuadrado-development-secret", TTL: 2 * time.Hour},
		Upload:   UploadConfig{MaxMB: 50, MaxConcurrent: 4},
		Analysis: AnalysisConfig{DefaultAlpha: 0.05, PreviewRows: 5, YatesCorrection: true},
		Log:      LogConfig{Level: "INFO", Format: "console"},
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Session.Secret == "" {
		return errors.ConfigInvalid("SESSION_SECRET is required")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	if config.Upload.MaxMB <= 0 {
		return errors.ConfigInvalid("UPLOAD_MAX_MB must be positive")
	}
	if config.Upload.MaxConcurrent <= 0 {
		return errors.ConfigInvalid("UPLOAD_MAX_CONCURRENT must be positive")
	}
	if config.Analysis.DefaultAlpha <= 0 || config.Analysis.DefaultAlpha >= 1 {
		return errors.ConfigInvalid("DEFAULT_ALPHA must be between 0 and 1")
	}
	if config.Analysis.PreviewRows <= 0 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be positive")
	}
	return nil
}
