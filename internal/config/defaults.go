package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "delivery_db",
}

var defaultKafka = Kafka{
	Brokers: nil,
	Topic:   "order-events",
	GroupID: "service-delivery",
}

var defaultRedis = Redis{
	Addr:     "",
	StatsTTL: 30 * time.Second,
}

var defaultDelivery = Delivery{
	MaxFeeDeviationPct: 20,
	OpenOrderStatuses:  []string{"pending", "confirmed", "processing"},
	MaxMatches:         50,
	RequestTTL:         24 * time.Hour,
	SweepInterval:      time.Minute,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Limit:      100,
	Window:     time.Second,
	TTL:        10 * time.Minute,
	MaxBuckets: 100_000,
}

var defaultNotify = Notify{
	BaseURL:     "",
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultKafka returns the default Kafka settings.
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultRedis returns the default Redis settings.
func DefaultRedis() Redis {
	return defaultRedis
}

// DefaultDelivery returns the default delivery settings.
func DefaultDelivery() Delivery {
	d := defaultDelivery
	d.OpenOrderStatuses = append([]string(nil), defaultDelivery.OpenOrderStatuses...)
	return d
}

// DefaultRateLimit returns the default rate limiter settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultNotify returns the default notification gateway settings.
func DefaultNotify() Notify {
	return defaultNotify
}
