package dto

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/krakosik/telemetry/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	ServiceName    = "location-backend"
	ServiceVersion = "1.0.0"
)

type Config struct {
	Port             string
	LogLevel         logrus.Level
	LogFormat        string
	FieldSet         model.FieldSet
	LogSubmissions   bool
	RabbitMQURL      string
	RabbitMQExchange string
	ShutdownTimeout  time.Duration
}

// LoadConfig reads the optional .env files and then the process environment.
func LoadConfig(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("Could not load env file: %v", err)
	}

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "locations"),
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, cfg.LogFormat)
	}

	cfg.FieldSet, err = model.ParseFieldSet(os.Getenv("FIELD_SET"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.LogSubmissions, err = strconv.ParseBool(getEnv("LOG_SUBMISSIONS", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: LOG_SUBMISSIONS: %v", ErrInvalidConfig, err)
	}

	cfg.ShutdownTimeout, err = time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("%w: SHUTDOWN_TIMEOUT: %v", ErrInvalidConfig, err)
	}

	return cfg, nil
}

func (c Config) Address() string {
	return ":" + c.Port
}

// ConfigureLogger applies the level and formatter to the standard logrus logger.
func (c Config) ConfigureLogger() {
	logrus.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
