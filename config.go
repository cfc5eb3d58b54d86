package rewind

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		Journal      JournalConfig
		RegistrySize int `env:"REWIND_REGISTRY_SIZE"`
	}

	JournalConfig struct {
		Backend       string        `env:"REWIND_JOURNAL_BACKEND"`
		Prefix        string        `env:"REWIND_JOURNAL_PREFIX"`
		RedisAddr     string        `env:"REWIND_REDIS_ADDR"`
		RedisPassword string        `env:"REWIND_REDIS_PASSWORD"`
		BoltPath      string        `env:"REWIND_BOLT_PATH"`
		PostgresURL   string        `env:"REWIND_POSTGRES_URL"`
		RedisDB       int           `env:"REWIND_REDIS_DB"`
		WorkerCount   int           `env:"REWIND_JOURNAL_WORKERS"`
		MaxQueueSize  int           `env:"REWIND_JOURNAL_QUEUE_SIZE"`
		SaveTimeout   time.Duration `env:"REWIND_JOURNAL_SAVE_TIMEOUT"`
	}
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
)

const (
	DefaultJournalBackend     = BackendMemory
	DefaultJournalPrefix      = "rewind"
	DefaultRedisEndpoint      = "localhost:6379"
	DefaultRedisDB            = 0
	DefaultBoltPath           = "rewind.db"
	DefaultJournalWorkers     = 1
	DefaultJournalQueueSize   = 1024
	DefaultJournalSaveTimeout = 30 * time.Second
	DefaultRegistrySize       = 128
)

func DefaultConfig() Config {
	return Config{
		Journal:      DefaultJournalConfig(),
		RegistrySize: DefaultRegistrySize,
	}
}

func DefaultJournalConfig() JournalConfig {
	return JournalConfig{
		Backend:      DefaultJournalBackend,
		Prefix:       DefaultJournalPrefix,
		RedisAddr:    DefaultRedisEndpoint,
		RedisDB:      DefaultRedisDB,
		BoltPath:     DefaultBoltPath,
		WorkerCount:  DefaultJournalWorkers,
		MaxQueueSize: DefaultJournalQueueSize,
		SaveTimeout:  DefaultJournalSaveTimeout,
	}
}

// LoadConfig returns DefaultConfig overlaid with any REWIND_* environment
// variables that are set
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
