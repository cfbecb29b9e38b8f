package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds server settings.
type Config struct {
	Address  string        `yaml:"address" env:"TASKD_ADDRESS" env-default:"127.0.0.1:5000"`
	DB       string        `yaml:"db" env:"TASKD_DB" env-default:"task_db.sqlite3"`
	LogLevel string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Timeout  time.Duration `yaml:"timeout" env:"TASKD_TIMEOUT" env-default:"5s"`
}

// LoadConfig reads path and then the environment. A missing file falls
// back to the environment alone; an empty path skips the file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
	}
	return cfg, nil
}
