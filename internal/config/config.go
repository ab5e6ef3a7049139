package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DevSecret signs session cookies outside release mode when no secret is configured.
const DevSecret = "board-dev-secret"

type Config struct {
	Mode             string        `mapstructure:"mode"`
	Port             int           `mapstructure:"port"`
	LogLevel         string        `mapstructure:"log_level"`
	Secret           string        `mapstructure:"secret"`
	ReadLimit        int64         `mapstructure:"read_limit"`
	PingPeriod       time.Duration `mapstructure:"ping_period"`
	WriteWait        time.Duration `mapstructure:"write_wait"`
	SendBuffer       int           `mapstructure:"send_buffer"`
	DrawRateLimit    int           `mapstructure:"draw_rate_limit"`
	DrawRateInterval time.Duration `mapstructure:"draw_rate_interval"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout"`
}

// Load reads .env (if any), then config/config.<CONFIG_ENV>.yaml, then BOARD_*
// environment variables. PORT is honoured as an alias for BOARD_PORT.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("module", "config").Msg("read .env")
	}

	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 5000)
	v.SetDefault("log_level", "info")
	v.SetDefault("secret", DevSecret)
	v.SetDefault("read_limit", 4<<20)
	v.SetDefault("ping_period", "30s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("draw_rate_limit", 60)
	v.SetDefault("draw_rate_interval", "1s")
	v.SetDefault("shutdown_timeout", "10s")

	v.SetEnvPrefix("BOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("port", "BOARD_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("bind port env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case c.PingPeriod <= 0:
		return errors.New("ping_period must be positive")
	case c.WriteWait <= 0:
		return errors.New("write_wait must be positive")
	case c.SendBuffer <= 0:
		return errors.New("send_buffer must be positive")
	case c.ReadLimit <= 0:
		return errors.New("read_limit must be positive")
	case c.Secret == "":
		return errors.New("secret must not be empty")
	case c.Mode == "release" && c.Secret == DevSecret:
		return errors.New("release mode requires a secret (set BOARD_SECRET)")
	}
	return nil
}
