package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"ctchen222/tictactoe-local/internal/validator"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is read when no path is given on the command line.
const DefaultPath = "config.yml"

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	HTTPAddr  string    `yaml:"http-addr" env:"HTTP_ADDR" env-default:"127.0.0.1:8080" validate:"required"`
	Store     Store     `yaml:"store"`
	Game      Game      `yaml:"game"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type Store struct {
	Driver     string `yaml:"driver" env:"STORE_DRIVER" env-default:"file" validate:"oneof=file sqlite redis"`
	FilePath   string `yaml:"file-path" env:"STORE_FILE_PATH" env-default:"playerData.txt" validate:"required_if=Driver file"`
	SQLitePath string `yaml:"sqlite-path" env:"STORE_SQLITE_PATH" env-default:"players.db" validate:"required_if=Driver sqlite"`
	Redis      Redis  `yaml:"redis"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"STORE_REDIS_ADDR" env-default:"localhost:6379"`
	Key  string `yaml:"key" env:"STORE_REDIS_KEY" env-default:"tictactoe:players"`
}

type Game struct {
	Difficulty    string        `yaml:"difficulty" env:"GAME_DIFFICULTY" env-default:"easy" validate:"oneof=easy medium hard"`
	ThinkingDelay time.Duration `yaml:"thinking-delay" env:"GAME_THINKING_DELAY" env-default:"1s" validate:"gte=0"`
}

type Telemetry struct {
	Enabled     bool   `yaml:"enabled" env:"TELEMETRY_ENABLED" env-default:"false"`
	Endpoint    string `yaml:"endpoint" env:"TELEMETRY_ENDPOINT" env-default:"localhost:4317" validate:"required_if=Enabled true"`
	ServiceName string `yaml:"service-name" env:"TELEMETRY_SERVICE_NAME" env-default:"tictactoe-local"`
	Debug       bool   `yaml:"debug" env:"TELEMETRY_DEBUG" env-default:"false"`
}

// Load reads path when it exists, applies environment overrides and defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to load config from environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", err)
	}

	if err := validator.GetValidator().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}
