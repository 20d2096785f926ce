// Package config loads the service configuration with cleanenv: an
// optional yaml file (--config flag or CONFIG_PATH) overlaid by
// environment variables.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/example/todolist/backend/internal/common/constants"
)

type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	Database DBConfig      `yaml:"database"`
	Tokens   TokensConfig  `yaml:"tokens"`
	Log      LogConfig     `yaml:"log"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
}

// TokensConfig carries the two signing secrets. They are distinct so that
// compromise of one does not compromise the other.
type TokensConfig struct {
	AccessSecret  string        `yaml:"access_secret" env:"ACCESS_TOKEN_SECRET" env-required:"true"`
	RefreshSecret string        `yaml:"refresh_secret" env:"REFRESH_TOKEN_SECRET" env-required:"true"`
	AccessTTL     time.Duration `yaml:"access_ttl" env:"ACCESS_TOKEN_TTL" env-default:"20s"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"REFRESH_TOKEN_TTL" env-default:"168h"`
}

type LogConfig struct {
	Dir   string `yaml:"dir" env:"LOG_DIR" env-default:""`
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"INFO"`
}

type TimeoutConfig struct {
	Request time.Duration `yaml:"request" env:"REQUEST_TIMEOUT" env-default:"5s"`
}

func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from env: %w", err)
		}
	}

	if err := cfg.Tokens.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (t TokensConfig) validate() error {
	if len(t.AccessSecret) < constants.TokenSecretMinLength {
		return fmt.Errorf("ACCESS_TOKEN_SECRET must be at least %d bytes, got %d",
			constants.TokenSecretMinLength, len(t.AccessSecret))
	}
	if len(t.RefreshSecret) < constants.TokenSecretMinLength {
		return fmt.Errorf("REFRESH_TOKEN_SECRET must be at least %d bytes, got %d",
			constants.TokenSecretMinLength, len(t.RefreshSecret))
	}
	if t.AccessSecret == t.RefreshSecret {
		return fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	return nil
}
