package config

import "time"

// Config carries producer settings for the audit event stream.
type Config struct {
	Brokers []string

	ProducerCompression  string // gzip, snappy, lz4, zstd
	ProducerRequireAcks  int    // -1 all, 0 none, 1 leader
	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerAsync        bool
}

// NewProducerConfig returns producer settings tuned for an append-only audit
// stream: full acks, synchronous writes, modest batching.
func NewProducerConfig(brokers []string) *Config {
	return &Config{
		Brokers:              brokers,
		ProducerCompression:  "snappy",
		ProducerRequireAcks:  -1,
		ProducerMaxAttempts:  3,
		ProducerBatchTimeout: 100 * time.Millisecond,
		ProducerAsync:        false,
	}
}
