package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment-driven settings for the console. Command
// line flags take precedence over these where both exist.
type Config struct {
	LogLevel     string `env:"KEYGRID_LOG_LEVEL" envDefault:"info"`
	ScoreBackend string `env:"KEYGRID_SCORE_BACKEND" envDefault:"file"`
	ScoresFile   string `env:"KEYGRID_SCORES_FILE" envDefault:"scores.json"`
	SQLitePath   string `env:"KEYGRID_SQLITE_PATH" envDefault:"keygrid.db"`
	DatabaseURL  string `env:"DATABASE_URL"`
	Volume       int    `env:"KEYGRID_VOLUME" envDefault:"3"`
}

// LoadFromEnv reads configuration from environment variables.
func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %v", err)
	}
	return cfg, nil
}
