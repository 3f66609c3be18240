package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const maxBatchSize = 1000

// Config holds all service settings, populated from environment variables.
type Config struct {
	CatalogPath string // empty means the embedded table

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	// Kafka annotation pipeline configuration.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is read first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	flushInterval, err := parseDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}

	batchSize, err := parseBatchSize()
	if err != nil {
		return nil, err
	}

	rps, burst, err := parseRateLimit()
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(envOrDefault("KAFKA_BROKERS", ""))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		CatalogPath: os.Getenv("CATALOG_PATH"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RateLimitRPS:   rps,
		RateLimitBurst: burst,

		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       brokers,
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "raw-grib-inventory"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "annotated-grib-fields"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "grib-catalog"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBatchSize() (int, error) {
	s := envOrDefault("BATCH_SIZE", "50")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxBatchSize {
		return 0, fmt.Errorf("invalid BATCH_SIZE %q: want 1-%d", s, maxBatchSize)
	}
	return n, nil
}

func parseRateLimit() (float64, int, error) {
	rps, err := strconv.ParseFloat(envOrDefault("RATE_LIMIT_RPS", "50"), 64)
	if err != nil || rps <= 0 {
		return 0, 0, errors.New("invalid RATE_LIMIT_RPS")
	}
	burst, err := strconv.Atoi(envOrDefault("RATE_LIMIT_BURST", "100"))
	if err != nil || burst < 1 {
		return 0, 0, errors.New("invalid RATE_LIMIT_BURST")
	}
	return rps, burst, nil
}
