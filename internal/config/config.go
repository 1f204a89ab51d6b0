package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	AuthToken AuthTokenConfig
	MinIO     MinIOConfig
	Kafka     KafkaConfig
	SMTP      SMTPConfig
	Redis     RedisConfig
	Realtime  RealtimeConfig
	NATS      NATSConfig
}

type ServerConfig struct {
	Addr         string        `env:"SERVER_ADDR" envDefault:":9900"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	// AllowedOrigins is the CORS allow-list; empty lets rs/cors allow every origin.
	AllowedOrigins []string `env:"SERVER_ALLOWED_ORIGINS" envSeparator:","`
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Database string `env:"POSTGRES_DB" envDefault:"pulsechat"`
	SSLMode  string `env:"POSTGRES_SSL" envDefault:"disable"`
}

func (pc PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.Database, pc.SSLMode,
	)
}

type AuthTokenConfig struct {
	Secret          string        `env:"AUTH_TOKEN_SECRET,required"`
	AccessTokenTTL  time.Duration `env:"AUTH_TOKEN_ACCESS_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"AUTH_TOKEN_REFRESH_TTL" envDefault:"24h"`
}

type MinIOConfig struct {
	Endpoint        string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	Bucket          string `env:"MINIO_BUCKET" envDefault:"pulsechat"`
	AccessKeyID     string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	SecretAccessKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	UseSSL          bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

type KafkaConfig struct {
	Brokers      string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	SaslUsername string `env:"KAFKA_SASL_USERNAME"`
	SaslPassword string `env:"KAFKA_SASL_PASSWORD"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     string `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"noreply@pulsechat.dev"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// RealtimeConfig tunes the websocket connection pipeline: inbound rate
// limit, idle timeout, and outbound batching.
type RealtimeConfig struct {
	InboundRateInterval time.Duration `env:"REALTIME_INBOUND_RATE_INTERVAL" envDefault:"50ms"`
	IdleTimeout          time.Duration `env:"REALTIME_IDLE_TIMEOUT" envDefault:"60s"`
	FlushInterval        time.Duration `env:"REALTIME_FLUSH_INTERVAL" envDefault:"50ms"`
	FlushBatchSize       int           `env:"REALTIME_FLUSH_BATCH_SIZE" envDefault:"10"`
	ChatTopicBuffer      int           `env:"REALTIME_CHAT_TOPIC_BUFFER" envDefault:"256"`
	ControlBuffer        int           `env:"REALTIME_CONTROL_BUFFER" envDefault:"32"`
}

// NATSConfig is optional; an empty URL disables the cross-instance relay
// and the fabric behaves exactly as a single-instance in-memory broadcaster.
type NATSConfig struct {
	URL        string `env:"NATS_URL"`
	SubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"pulsechat.chat"`
}

func (n NATSConfig) Enabled() bool {
	return n.URL != ""
}
