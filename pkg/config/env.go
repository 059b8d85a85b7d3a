package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvBookingAPIBaseURL = "BOOKING_API_BASE_URL"

	EnvRefreshInterval = "REFRESH_INTERVAL"

	EnvDeletedBufferWindow = "DELETED_BUFFER_WINDOW"
	EnvStatusBufferWindow  = "STATUS_BUFFER_WINDOW"
	EnvStaffPrefWindow     = "STAFF_PREF_WINDOW"
	EnvLocalOnlyRetention  = "LOCAL_ONLY_RETENTION"

	EnvDayStart     = "DAY_START"
	EnvDayEnd       = "DAY_END"
	EnvGridInterval = "GRID_INTERVAL"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
