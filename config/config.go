package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DevJWTSecret signs sessions when no secret is configured. Production refuses it.
const DevJWTSecret = "churchcms-dev-secret"

// ServerConfig is the HTTP listener.
type ServerConfig struct {
	Host        string        `json:"host" env:"HOST"`
	Port        string        `json:"port" env:"PORT"`
	CORSOrigins []string      `json:"corsOrigins" env:"CORS_ORIGINS" envSeparator:","`
	RateLimit   int           `json:"rateLimitPerMinute" env:"RATE_LIMIT_PER_MINUTE"`
	ShutdownTTL time.Duration `json:"shutdownTimeout" env:"SHUTDOWN_TIMEOUT"`
}

// Addr is host:port.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// DatabaseConfig selects and configures the document store.
type DatabaseConfig struct {
	Driver   string `json:"driver" env:"STORE_DRIVER"`
	URI      string `json:"uri" env:"MONGODB_URI"`
	Database string `json:"database" env:"DB_NAME"`
}

// CacheConfig is the optional redis cache of site configuration documents.
type CacheConfig struct {
	RedisURL string        `json:"redisUrl" env:"REDIS_URL"`
	TTL      time.Duration `json:"ttl" env:"CACHE_TTL"`
}

type AuthConfig struct {
	JWTSecret     string        `json:"-" env:"JWT_SECRET"`
	SessionTTL    time.Duration `json:"sessionTtl" env:"SESSION_TTL"`
	SecureCookies bool          `json:"secureCookies" env:"SECURE_COOKIES"`
}

// MinIOConfig is the optional image store. An empty endpoint disables uploads.
type MinIOConfig struct {
	Endpoint        string `json:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKeyID     string `json:"-" env:"MINIO_ACCESS_KEY"`
	SecretAccessKey string `json:"-" env:"MINIO_SECRET_KEY"`
	UseSSL          bool   `json:"useSsl" env:"MINIO_USE_SSL"`
	BucketName      string `json:"bucketName" env:"MINIO_BUCKET_NAME"`
	PublicURL       string `json:"publicUrl" env:"MINIO_PUBLIC_URL"`
}

// PublicBaseURL is the prefix of uploaded object URLs. It defaults to the
// bucket path on the endpoint.
func (m MinIOConfig) PublicBaseURL() string {
	if m.PublicURL != "" {
		return strings.TrimRight(m.PublicURL, "/")
	}
	scheme := "http"
	if m.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + m.Endpoint + "/" + m.BucketName
}

type LogConfig struct {
	Level  string `json:"level" env:"LOG_LEVEL"`
	Format string `json:"format" env:"LOG_FORMAT"`
}

// SeedConfig is read by cmd/init-db only.
type SeedConfig struct {
	AdminEmail    string `json:"adminEmail" env:"SEED_ADMIN_EMAIL"`
	AdminPassword string `json:"-" env:"SEED_ADMIN_PASSWORD"`
	AdminName     string `json:"adminName" env:"SEED_ADMIN_NAME"`
}

// AppConfig is the complete process configuration.
type AppConfig struct {
	Env      string         `json:"env" env:"ENV"`
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Cache    CacheConfig    `json:"cache"`
	Auth     AuthConfig     `json:"auth"`
	MinIO    MinIOConfig    `json:"minio"`
	Log      LogConfig      `json:"log"`
	Seed     SeedConfig     `json:"seed"`
}

func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Default returns the development configuration.
func Default() *AppConfig {
	return &AppConfig{
		Env: "development",
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        "8080",
			RateLimit:   20,
			ShutdownTTL: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:   "mongo",
			URI:      "mongodb://localhost:27017",
			Database: "churchcms",
		},
		Cache: CacheConfig{TTL: 5 * time.Minute},
		Auth: AuthConfig{
			JWTSecret:  DevJWTSecret,
			SessionTTL: 24 * time.Hour,
		},
		MinIO: MinIOConfig{BucketName: "churchcms-media"},
		Log:   LogConfig{Level: "info", Format: "text"},
		Seed:  SeedConfig{AdminName: "Administrator"},
	}
}

// configPaths are searched in order; the first existing file wins.
var configPaths = []string{filepath.Join("..", "config.json"), "config.json"}

// Load layers defaults, the first config.json found, and the environment (with a
// .env file loaded first when present).
func Load() (*AppConfig, error) {
	return load(configPaths)
}

func load(paths []string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		break
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case "mongo":
		if c.Database.URI == "" || c.Database.Database == "" {
			return errors.New("MONGODB_URI and DB_NAME are required for the mongo driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsProduction() && c.Auth.JWTSecret == DevJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.Server.Port == "" {
		return errors.New("PORT is required")
	}
	return nil
}

// NewLogger builds the process logger from the log settings.
func NewLogger(c LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if strings.EqualFold(c.Format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
