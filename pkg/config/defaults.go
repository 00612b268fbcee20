package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "hackslot"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultKafkaBrokers  = "localhost:9092"
	DefaultAuditTopic    = "reservation-audit"
	DefaultAuditDLQTopic = "reservation-audit-dlq"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Advisory lock lifetime; long enough to cover one validation round trip,
	// short enough that a crashed request frees the slot quickly.
	DefaultSlotLockTTL = 10 * time.Second

	// Upper bound on documents fetched per overlap check.
	DefaultMaxOverlapScan = 50

	DefaultPaginationLimit = 100
)
