package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "unimeet"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultMeetingEventsTopic = "meeting-events"

	// Holds protect a slot for the duration of the booking flow only.
	DefaultHoldTTL = 5 * time.Minute

	DefaultDefaultLeadTimeHours = 12
	DefaultDefaultDailyCap      = 8
	DefaultDefaultBufferMin     = 10

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)

// DefaultDurationsMin is the duration menu applied when a representative
// saves a rule without one.
var DefaultDurationsMin = []int{15, 30, 45}
