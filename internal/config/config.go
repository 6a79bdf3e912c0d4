package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN builds the Postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Kafka stores consumer settings for the marketplace order-events topic.
// Empty brokers/topic/group disable the consumer.
type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Redis stores cache settings. An empty Addr disables caching.
type Redis struct {
	Addr     string
	StatsTTL time.Duration
}

// Delivery stores the tunables of the assignment core.
type Delivery struct {
	// MaxFeeDeviationPct is the allowed band around the calculated fee for a
	// partner-proposed fee, in percent.
	MaxFeeDeviationPct float64
	// OpenOrderStatuses is the order-status set eligible for matching.
	OpenOrderStatuses []string
	// MaxMatches caps the available-orders result set.
	MaxMatches int
	// RequestTTL is how long a delivery request stays actionable.
	RequestTTL time.Duration
	// SweepInterval drives the worker's expired-request sweeper.
	SweepInterval time.Duration
}

// RateLimit stores HTTP rate limiter settings.
type RateLimit struct {
	Enabled    bool
	Limit      int
	Window     time.Duration
	TTL        time.Duration
	MaxBuckets int
}

// Notify stores push-notification gateway settings. An empty BaseURL
// disables notifications.
type Notify struct {
	BaseURL     string
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Config stores all service settings.
type Config struct {
	Port      int
	DB        DB
	Kafka     Kafka
	Redis     Redis
	Delivery  Delivery
	RateLimit RateLimit
	Notify    Notify
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      envInt("PORT", DefaultPort()),
		DB:        loadDB(),
		Kafka:     loadKafka(),
		Redis:     loadRedis(),
		Delivery:  loadDelivery(),
		RateLimit: loadRateLimit(),
		Notify:    loadNotify(),
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.Parse()

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Delivery.MaxFeeDeviationPct < 0 {
		return nil, fmt.Errorf("invalid fee deviation: %v", cfg.Delivery.MaxFeeDeviationPct)
	}
	if cfg.Delivery.MaxMatches <= 0 {
		return nil, fmt.Errorf("invalid max matches: %d", cfg.Delivery.MaxMatches)
	}
	return cfg, nil
}

func loadDB() DB {
	d := DefaultDB()
	d.Host = envStr("POSTGRES_HOST", d.Host)
	d.Port = envStr("POSTGRES_PORT", d.Port)
	d.User = envStr("POSTGRES_USER", d.User)
	d.Pass = envStr("POSTGRES_PASSWORD", d.Pass)
	d.Name = envStr("POSTGRES_DB", d.Name)
	return d
}

func loadKafka() Kafka {
	k := DefaultKafka()
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		k.Brokers = splitCSV(v)
	}
	k.Topic = envStr("KAFKA_ORDERS_TOPIC", k.Topic)
	k.GroupID = envStr("KAFKA_GROUP_ID", k.GroupID)
	return k
}

func loadRedis() Redis {
	r := DefaultRedis()
	r.Addr = envStr("REDIS_ADDR", r.Addr)
	r.StatsTTL = envDuration("REDIS_STATS_TTL", r.StatsTTL)
	return r
}

func loadDelivery() Delivery {
	d := DefaultDelivery()
	d.MaxFeeDeviationPct = envFloat("DELIVERY_MAX_FEE_DEVIATION_PCT", d.MaxFeeDeviationPct)
	if v := os.Getenv("DELIVERY_OPEN_ORDER_STATUSES"); v != "" {
		d.OpenOrderStatuses = splitCSV(v)
	}
	d.MaxMatches = envInt("DELIVERY_MAX_MATCHES", d.MaxMatches)
	d.RequestTTL = envDuration("DELIVERY_REQUEST_TTL", d.RequestTTL)
	d.SweepInterval = envDuration("DELIVERY_SWEEP_INTERVAL", d.SweepInterval)
	return d
}

func loadRateLimit() RateLimit {
	rl := DefaultRateLimit()
	rl.Enabled = envBool("RATE_LIMIT_ENABLED", rl.Enabled)
	rl.Limit = envInt("RATE_LIMIT_LIMIT", rl.Limit)
	rl.Window = envDuration("RATE_LIMIT_WINDOW", rl.Window)
	rl.TTL = envDuration("RATE_LIMIT_TTL", rl.TTL)
	rl.MaxBuckets = envInt("RATE_LIMIT_MAX_BUCKETS", rl.MaxBuckets)
	return rl
}

func loadNotify() Notify {
	n := DefaultNotify()
	n.BaseURL = envStr("NOTIFY_BASE_URL", n.BaseURL)
	n.MaxAttempts = envInt("NOTIFY_MAX_ATTEMPTS", n.MaxAttempts)
	n.BaseDelay = envDuration("NOTIFY_BASE_DELAY", n.BaseDelay)
	n.MaxDelay = envDuration("NOTIFY_MAX_DELAY", n.MaxDelay)
	return n
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
