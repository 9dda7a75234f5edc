package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvKafkaBrokers     = "KAFKA_BROKERS"
	EnvMeetingEventsTopic = "MEETING_EVENTS_TOPIC"

	EnvHoldTTL = "HOLD_TTL"

	EnvDefaultLeadTimeHours = "DEFAULT_LEAD_TIME_HOURS"
	EnvDefaultDailyCap      = "DEFAULT_DAILY_CAP"
	EnvDefaultBufferMin     = "DEFAULT_BUFFER_MIN"
	EnvDefaultDurationsMin  = "DEFAULT_DURATIONS_MIN"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
