package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "lessonbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Widest the coarse classroom scan needs to be: any lesson
	// overlapping a candidate interval starts within 8h of it, so a
	// 24h pad is comfortably sound.
	DefaultConflictScanWindow = 24 * time.Hour

	DefaultLessonEventsTopic    = "lesson-events"
	DefaultLessonEventsDLQTopic = "lesson-events-dlq"
	DefaultEventsEnabled        = false

	DefaultPaginationLimit = 10
	MaxPaginationLimit     = 100
)
