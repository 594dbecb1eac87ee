package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "mediq"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Slot generation horizon: how many weekly occurrences a window expands into.
	DefaultHorizonWeeks = 4

	// Shortest slot a doctor may publish.
	DefaultMinSlotDurationMin = 10

	// A window whose occurrence starts sooner than this cannot be reshaped.
	DefaultRescheduleLockout = 4 * time.Hour

	DefaultPaginationLimit = 100
)
