// Package config reads lldpreport settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// DataDir holds one introspection document per node, <uuid>.json.
	DataDir string
	// DBPath is the sqlite database used by "save --db".
	DBPath   string
	LogLevel string
	// Workers bounds how many nodes are decoded at once.
	Workers int
	WebHost string
	WebPort string
}

// getEnv fetches environment variable or returns fallback
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	workers, err := strconv.Atoi(getEnv("LLDPREPORT_WORKERS", "4"))
	if err != nil || workers < 1 {
		return Config{}, errors.Errorf("LLDPREPORT_WORKERS must be a positive integer, got %q", os.Getenv("LLDPREPORT_WORKERS"))
	}

	return Config{
		DataDir:  getEnv("LLDPREPORT_DATA_DIR", "./introspection"),
		DBPath:   getEnv("LLDPREPORT_DB_PATH", "lldpreport.db"),
		LogLevel: getEnv("LLDPREPORT_LOG_LEVEL", "warning"),
		Workers:  workers,
		WebHost:  getEnv("WEB_HOST", "0.0.0.0"),
		WebPort:  getEnv("WEB_PORT", "8080"),
	}, nil
}

// NewLogger returns a text logger at the configured level.
func (c Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "LLDPREPORT_LOG_LEVEL")
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log, nil
}
