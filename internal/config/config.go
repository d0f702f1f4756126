// Package config holds the environment-driven configuration for the API
// server and the archiver. Values come from defaults, an optional .env file
// and the process environment, in that order.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config is the full application configuration. It is validated once at
// startup; a process never runs with a partially valid Config.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Ledger      LedgerConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Outbox      OutboxConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig contains general application settings
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration // Grace period for in-flight requests on shutdown
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// LedgerConfig contains the transfer policy knobs. Both default to false,
// which is the strict behavior.
type LedgerConfig struct {
	AllowSelfTransfer        bool // Permit transfers where source equals destination
	AllowInactiveDestination bool // Permit credits to deactivated destination accounts
}

// KafkaConfig contains settings for the transaction event stream
type KafkaConfig struct {
	Brokers           string
	EventTopic        string // Topic carrying completed transaction events
	NumPartitions     int
	ReplicationFactor int
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string // Destination for events the archiver cannot process
}

// PostgresConfig contains settings for the primary ledger store
type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

// MongoDBConfig contains settings for the transaction archive
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// OutboxConfig controls the poller that relays recorded transactions to Kafka
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int
}

// WorkerPoolConfig sizes the archiver's worker pool
type WorkerPoolConfig struct {
	Size int
}

// validate checks every section and reports all problems at once rather
// than stopping at the first one.
func (c *Config) validate() error {
	var problems []string

	if c.Server.Port <= 0 {
		problems = append(problems, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		problems = append(problems, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		problems = append(problems, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		problems = append(problems, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		problems = append(problems, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	if len(c.Kafka.Brokers) == 0 {
		problems = append(problems, "KAFKA_BROKERS is required")
	}
	if c.Kafka.EventTopic == "" {
		problems = append(problems, "KAFKA_EVENT_TOPIC is required")
	}
	if c.Kafka.ConsumerGroup == "" {
		problems = append(problems, "KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.MinBytes <= 0 {
		problems = append(problems, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.Kafka.MaxBytes <= 0 {
		problems = append(problems, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	}
	if c.Kafka.MaxWait <= 0 {
		problems = append(problems, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}
	if c.Kafka.DLQTopic == "" {
		problems = append(problems, "KAFKA_DLQ_TOPIC is required")
	}

	if c.Postgres.URL == "" {
		problems = append(problems, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		problems = append(problems, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		problems = append(problems, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		problems = append(problems, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		problems = append(problems, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	if c.MongoDB.URI == "" {
		problems = append(problems, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		problems = append(problems, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		problems = append(problems, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		problems = append(problems, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize <= 0 {
		problems = append(problems, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		problems = append(problems, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	if c.Outbox.PollingInterval <= 0 {
		problems = append(problems, "OUTBOX_POLLING_INTERVAL must be greater than 0")
	}
	if c.Outbox.BatchSize <= 0 {
		problems = append(problems, "OUTBOX_BATCH_SIZE must be greater than 0")
	}
	if c.Outbox.MaxRetryAttempts <= 0 {
		problems = append(problems, "OUTBOX_MAX_RETRY_ATTEMPTS must be greater than 0")
	}

	if c.WorkerPool.Size <= 0 {
		problems = append(problems, "WORKER_POOL_SIZE must be greater than 0")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, ", "))
	}
	return nil
}
