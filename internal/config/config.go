package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		CORSOrigins string `yaml:"cors_origins" env:"SERVER_CORS_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		ConnectTimeout  string `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT"`
		LogLevel        string `yaml:"log_level" env:"DB_LOG_LEVEL"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	// Cache backs the catalog listings. An empty RedisAddr selects the in-process store.
	Cache struct {
		RedisAddr     string `yaml:"redis_addr" env:"CACHE_REDIS_ADDR"`
		RedisPassword string `yaml:"redis_password" env:"CACHE_REDIS_PASSWORD"`
		RedisDB       int    `yaml:"redis_db" env:"CACHE_REDIS_DB"`
		KeyPrefix     string `yaml:"key_prefix" env:"CACHE_KEY_PREFIX"`
	} `yaml:"cache"`

	Storage struct {
		Driver      string `yaml:"driver" env:"STORAGE_DRIVER"`
		Path        string `yaml:"path" env:"STORAGE_PATH"`
		BaseURL     string `yaml:"base_url" env:"STORAGE_BASE_URL"`
		S3Bucket    string `yaml:"s3_bucket" env:"STORAGE_S3_BUCKET"`
		S3Region    string `yaml:"s3_region" env:"STORAGE_S3_REGION"`
		S3Endpoint  string `yaml:"s3_endpoint" env:"STORAGE_S3_ENDPOINT"`
		S3AccessKey string `yaml:"s3_access_key" env:"STORAGE_S3_ACCESS_KEY"`
		S3SecretKey string `yaml:"s3_secret_key" env:"STORAGE_S3_SECRET_KEY"`
	} `yaml:"storage"`

	YouTube struct {
		APIKey  string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
		BaseURL string `yaml:"base_url" env:"YOUTUBE_BASE_URL"`
		Timeout string `yaml:"timeout" env:"YOUTUBE_TIMEOUT"`
	} `yaml:"youtube"`

	Cluster struct {
		MaxK          int    `yaml:"max_k" env:"CLUSTER_MAX_K"`
		MaxIterations int    `yaml:"max_iterations" env:"CLUSTER_MAX_ITERATIONS"`
		Schedule      string `yaml:"schedule" env:"CLUSTER_SCHEDULE"`
	} `yaml:"cluster"`

	Seed struct {
		TeacherEmail    string `yaml:"teacher_email" env:"SEED_TEACHER_EMAIL"`
		TeacherPassword string `yaml:"teacher_password" env:"SEED_TEACHER_PASSWORD"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env only fills variables that are not already exported
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.CORSOrigins = "*"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "elearning"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.ConnectTimeout = "30s"
	config.Database.LogLevel = "warn"
	config.Database.MigrationsDir = "migrations"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "elearning.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Cache.KeyPrefix = "elearning:"

	config.Storage.Driver = "local"
	config.Storage.Path = "media"
	config.Storage.BaseURL = "/media"

	config.YouTube.BaseURL = "https://www.googleapis.com/youtube/v3"
	config.YouTube.Timeout = "10s"

	config.Cluster.MaxK = 8
	config.Cluster.MaxIterations = 50
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection max lifetime: %w", err)
	}

	switch strings.ToLower(config.Storage.Driver) {
	case "local":
		if config.Storage.Path == "" {
			return fmt.Errorf("storage path is required for the local driver")
		}
	case "s3":
		if config.Storage.S3Bucket == "" {
			return fmt.Errorf("storage s3_bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.Cluster.MaxK < 1 {
		return fmt.Errorf("cluster max_k must be at least 1")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// CORSOriginList splits the comma separated origin list
func (c *Config) CORSOriginList() []string {
	var origins []string
	for _, o := range strings.Split(c.Server.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
