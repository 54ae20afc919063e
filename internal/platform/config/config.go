package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Workspace WorkspaceConfig
	Odin      UpstreamConfig
	Sweep     SweepConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StorageConfig.Driver: memory | postgres | mongo.
type StorageConfig struct {
	Driver        string
	PostgresDSN   string
	MongoURI      string
	MongoDatabase string
	MongoTimeout  time.Duration
}

// RedisConfig: si Address está vacío se usa el lock in-process.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
	LockTTL  time.Duration
}

// RabbitMQConfig: si URI está vacío el activity log va al logger.
type RabbitMQConfig struct {
	URI      string
	Exchange string
}

// WorkspaceConfig: sin BaseURL se usa el directorio en memoria, cargado desde SeedFile si hay.
type WorkspaceConfig struct {
	UpstreamConfig
	SeedFile string
}

type UpstreamConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// SweepConfig.Interval = 0 deshabilita el barrido periódico.
type SweepConfig struct {
	Interval time.Duration
}

func Load() *Config {
	driver := strings.ToLower(getEnv("STORAGE", ""))
	dsn := getEnv("DB_DSN", "")
	if driver == "" {
		// compat: antes bastaba con DB_DSN para usar Postgres
		if dsn != "" {
			driver = "postgres"
		} else {
			driver = "memory"
		}
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Driver:        driver,
			PostgresDSN:   dsn,
			MongoURI:      getEnv("MONGODB_URI", ""),
			MongoDatabase: getEnv("MONGODB_DATABASE", "workspace_access"),
			MongoTimeout:  getEnvAsDuration("MONGODB_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			LockTTL:  getEnvAsDuration("LOCK_TTL", 10*time.Second),
		},
		RabbitMQ: RabbitMQConfig{
			URI:      getEnv("RABBITMQ_URI", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "workspace.activity"),
		},
		Workspace: WorkspaceConfig{
			UpstreamConfig: UpstreamConfig{
				BaseURL: getEnv("WORKSPACE_BASE_URL", ""),
				APIKey:  getEnv("WORKSPACE_API_KEY", ""),
				Timeout: getEnvAsDuration("WORKSPACE_TIMEOUT", 5*time.Second),
			},
			SeedFile: getEnv("WORKSPACE_SEED_FILE", ""),
		},
		Odin: UpstreamConfig{
			BaseURL: getEnv("ODIN_BASE_URL", ""),
			APIKey:  getEnv("ODIN_API_KEY", ""),
			Timeout: getEnvAsDuration("ODIN_TIMEOUT", 5*time.Second),
		},
		Sweep: SweepConfig{
			Interval: getEnvAsDuration("SWEEP_INTERVAL", 0),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return defaultValue
}
