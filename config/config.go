package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/WenderAlvesSantos/lojinha-kaka-app/internal/core/domain"
)

const (
	DriverBolt     = "bolt"
	DriverRedis    = "redis"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	APIURL        string        `envconfig:"API_URL"        default:"http://localhost:3000/api"`
	RemoteTimeout time.Duration `envconfig:"REMOTE_TIMEOUT" default:"15s"`
	BackendMode   string        `envconfig:"BACKEND_MODE"   default:"remote"`

	StoreDriver   string `envconfig:"STORE_DRIVER"   default:"bolt"`
	BoltPath      string `envconfig:"BOLT_PATH"      default:"lojinha.db"`
	RedisAddr     string `envconfig:"REDIS_ADDR"     default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB"       default:"0"`
	SQLDSN        string `envconfig:"SQL_DSN"`

	HTTPAddr        string        `envconfig:"HTTP_ADDR"        default:":8080"`
	GRPCAddr        string        `envconfig:"GRPC_ADDR"        default:":50051"`
	LogLevel        string        `envconfig:"LOG_LEVEL"        default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	WhatsAppNumber  string `envconfig:"WHATSAPP_NUMBER"   default:"5561992830960"`
	DefaultPageSize int    `envconfig:"DEFAULT_PAGE_SIZE" default:"12"`
}

// Load reads an optional .env file, then the environment.
func Load(logger *logrus.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"api_url":      cfg.APIURL,
		"backend_mode": cfg.BackendMode,
		"store_driver": cfg.StoreDriver,
		"http_addr":    cfg.HTTPAddr,
		"grpc_addr":    cfg.GRPCAddr,
	}).Info("Configuration loaded")
	return &cfg, nil
}

// Mode returns the configured backend mode. It is valid once Load succeeded.
func (c *Config) Mode() domain.BackendMode {
	mode, _ := domain.ParseBackendMode(c.BackendMode)
	return mode
}

func (c *Config) validate() error {
	if _, err := domain.ParseBackendMode(c.BackendMode); err != nil {
		return fmt.Errorf("BACKEND_MODE: %w", err)
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverBolt, DriverRedis:
	case DriverMySQL, DriverPostgres:
		if c.SQLDSN == "" {
			return fmt.Errorf("SQL_DSN is required for STORE_DRIVER=%s", c.StoreDriver)
		}
	default:
		return fmt.Errorf("STORE_DRIVER: unsupported driver %q", c.StoreDriver)
	}

	if c.RemoteTimeout < 0 {
		return fmt.Errorf("REMOTE_TIMEOUT must not be negative")
	}
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be at least 1")
	}
	return nil
}
