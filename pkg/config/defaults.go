package config

import "time"

const (
	DefaultPort = "8080"

	DefaultBookingAPIBaseURL = "http://localhost:3000"

	DefaultRefreshInterval = 60 * time.Second

	// Reconciliation buffer windows. A recent local intent outranks a stale
	// server refresh for this long, then server truth wins again.
	DefaultDeletedBufferWindow = 30 * time.Second
	DefaultStatusBufferWindow  = 60 * time.Second
	DefaultStaffPrefWindow     = 120 * time.Second
	DefaultLocalOnlyRetention  = 60 * time.Second

	DefaultDayStart     = "06:00"
	DefaultDayEnd       = "23:00"
	DefaultGridInterval = 15 // minutes

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "calview"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)
