package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

// DedupConfig holds dedup store configuration
type DedupConfig struct {
	// TTL bounds dedup record growth; must exceed the maximum plausible
	// webhook retry window
	TTL time.Duration `mapstructure:"ttl"`
	// ConnectAttempts bounds the initial connection backoff; exceeding it
	// fails startup
	ConnectAttempts uint64 `mapstructure:"connect_attempts"`
}

// AdmissionConfig holds admission controller configuration
type AdmissionConfig struct {
	EventsPerSecond float64       `mapstructure:"events_per_second"`
	Burst           int           `mapstructure:"burst"`
	IdleTTL         time.Duration `mapstructure:"idle_ttl"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	Subject        string        `mapstructure:"subject"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
}

// AlertConfig holds the whale alert filtering rule
type AlertConfig struct {
	// Threshold is the strict lower bound: a transfer qualifies iff its
	// amount is strictly greater than this value
	Threshold uint64 `mapstructure:"threshold"`
	// Mint is the single asset identifier alerts are restricted to
	Mint string `mapstructure:"mint"`
}

// DatabaseConfig holds the Postgres configuration for the delivery audit
// and dead-letter store
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the Postgres connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// TelegramConfig holds the notification channel configuration
type TelegramConfig struct {
	Token      string        `mapstructure:"token"`
	ChatID     string        `mapstructure:"chat_id"`
	APIBaseURL string        `mapstructure:"api_base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// SendLimitConfig holds the outbound notification-channel rate budget,
// shared across worker instances through Redis
type SendLimitConfig struct {
	PerSecond int `mapstructure:"per_second"`
	Burst     int `mapstructure:"burst"`
}

// WorkerConfig holds delivery worker pool configuration
type WorkerConfig struct {
	PoolSize  int `mapstructure:"pool_size"`
	QueueSize int `mapstructure:"queue_size"`
}

// APIConfig holds configuration for the webhook ingestion server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Dedup      DedupConfig     `mapstructure:"dedup"`
	Admission  AdmissionConfig `mapstructure:"admission"`
	NATS       NATSConfig      `mapstructure:"nats"`
	Alert      AlertConfig     `mapstructure:"alert"`
	// ExplorerBaseURL is the block explorer used in alert links
	ExplorerBaseURL string `mapstructure:"explorer_base_url"`
}

// DeliveryWorkerConfig holds configuration for the delivery worker
type DeliveryWorkerConfig struct {
	BaseConfig      `mapstructure:",squash"`
	Redis           RedisConfig     `mapstructure:"redis"`
	NATS            NATSConfig      `mapstructure:"nats"`
	Database        DatabaseConfig  `mapstructure:"database"`
	Telegram        TelegramConfig  `mapstructure:"telegram"`
	SendLimit       SendLimitConfig `mapstructure:"send_limit"`
	Worker          WorkerConfig    `mapstructure:"worker"`
	ExplorerBaseURL string          `mapstructure:"explorer_base_url"`
}

// LoadAPIConfig loads configuration for the webhook ingestion server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("dedup.ttl", "72h")
	v.SetDefault("dedup.connect_attempts", 10)
	v.SetDefault("admission.events_per_second", 10)
	v.SetDefault("admission.burst", 10)
	v.SetDefault("admission.idle_ttl", "5m")
	setNATSDefaults(v)
	v.SetDefault("explorer_base_url", "https://solscan.io")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Alert.Mint == "" {
		return nil, fmt.Errorf("alert.mint is required")
	}

	return &config, nil
}

// LoadDeliveryWorkerConfig loads configuration for the delivery worker
func LoadDeliveryWorkerConfig(configFile string, envPath string) (*DeliveryWorkerConfig, error) {
	v := configureViper("worker", configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	setNATSDefaults(v)
	v.SetDefault("nats.consumer_name", "alert-delivery")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("telegram.api_base_url", "https://api.telegram.org")
	v.SetDefault("telegram.timeout", "10s")
	v.SetDefault("send_limit.per_second", 25)
	v.SetDefault("send_limit.burst", 25)
	v.SetDefault("worker.pool_size", 4)
	v.SetDefault("worker.queue_size", 256)
	v.SetDefault("explorer_base_url", "https://solscan.io")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config DeliveryWorkerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Telegram.Token == "" || config.Telegram.ChatID == "" {
		return nil, fmt.Errorf("telegram.token and telegram.chat_id are required")
	}

	return &config, nil
}

func setNATSDefaults(v *viper.Viper) {
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.stream_name", "WHALE_ALERTS")
	v.SetDefault("nats.subject", "alerts.transfer")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", 5)
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("WHALE_ALERT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	return v
}

// loadEnv loads .env files, most specific first (.env.<service> wins)
func loadEnv(envPath string, service string) {
	if envPath == "" {
		return
	}
	candidates := []string{
		fmt.Sprintf("%s/.env.%s", strings.TrimRight(envPath, "/"), service),
		fmt.Sprintf("%s/.env", strings.TrimRight(envPath, "/")),
	}
	for _, f := range candidates {
		// Missing files are fine; environment may be supplied externally
		_ = godotenv.Load(f)
	}
}

// bindEnvVars explicitly binds every known key so AutomaticEnv picks up
// variables even when no config file sets the key
func bindEnvVars(v *viper.Viper) {
	keys := []string{
		"debug", "sentry_dsn", "explorer_base_url",
		"server.host", "server.port", "server.read_timeout", "server.write_timeout", "server.idle_timeout",
		"redis.addr", "redis.password", "redis.db", "redis.tls",
		"dedup.ttl", "dedup.connect_attempts",
		"admission.events_per_second", "admission.burst", "admission.idle_ttl",
		"nats.url", "nats.stream_name", "nats.subject", "nats.consumer_name",
		"nats.max_reconnects", "nats.reconnect_wait", "nats.connection_name",
		"nats.ack_wait", "nats.max_deliver",
		"alert.threshold", "alert.mint",
		"database.host", "database.port", "database.user", "database.password",
		"database.dbname", "database.sslmode",
		"telegram.token", "telegram.chat_id", "telegram.api_base_url", "telegram.timeout",
		"send_limit.per_second", "send_limit.burst",
		"worker.pool_size", "worker.queue_size",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}
