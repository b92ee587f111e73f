package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"horde/logger"
)

const DefaultAddr = ":8080"

type Config struct {
	Addr       string // HORDE_ADDR
	TuningPath string // HORDE_TUNING, optional YAML file
}

// InitConfig loads .env into the environment. Running without one is fine;
// the real environment still applies.
func InitConfig() {
	if err := godotenv.Load(); err != nil {
		logger.Log.WithError(err).Warn("No .env file loaded")
		return
	}

	logger.Log.Info("Successfully loaded environment variables")
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil
}

func Load() Config {
	cfg := Config{Addr: DefaultAddr}
	if v, err := GetEnvVariable("HORDE_ADDR"); err == nil {
		cfg.Addr = v
	}
	if v, err := GetEnvVariable("HORDE_TUNING"); err == nil {
		cfg.TuningPath = v
	}
	return cfg
}
