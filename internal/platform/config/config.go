package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process level configuration. Empty backend URLs select the
// in-memory implementations, which keeps local development zero-dependency.
type Server struct {
	Addr string

	// DatabaseURL selects the postgres stores when set.
	DatabaseURL string
	// RedisURL selects the redis ledger store when set.
	RedisURL string

	// KafkaBrokers enables the ledger fan-out sink when non-empty.
	KafkaBrokers     []string
	KafkaLedgerTopic string

	// AssignTimeout bounds how long the coordinator waits for a room lock
	// before surfacing a retryable error.
	AssignTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("DOMUSVITA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("KAFKA_LEDGER_TOPIC")
	if topic == "" {
		topic = "domusvita.aktivitaeten"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	assignTimeout := 5 * time.Second
	if raw := os.Getenv("ASSIGN_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			assignTimeout = d
		}
	}

	return Server{
		Addr:             addr,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		KafkaBrokers:     brokers,
		KafkaLedgerTopic: topic,
		AssignTimeout:    assignTimeout,
	}
}
