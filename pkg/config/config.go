package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"calview/pkg/client"
	"calview/pkg/logger"
	"calview/pkg/timegrid"
)

type Config struct {
	Port string

	BookingAPIBaseURL string

	RefreshInterval time.Duration

	DeletedBufferWindow time.Duration
	StatusBufferWindow  time.Duration
	StaffPrefWindow     time.Duration
	LocalOnlyRetention  time.Duration

	DayStart     string
	DayEnd       string
	GridInterval int

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		BookingAPIBaseURL: getEnvStr(EnvBookingAPIBaseURL, DefaultBookingAPIBaseURL),

		RefreshInterval: getEnvDuration(EnvRefreshInterval, DefaultRefreshInterval),

		DeletedBufferWindow: getEnvDuration(EnvDeletedBufferWindow, DefaultDeletedBufferWindow),
		StatusBufferWindow:  getEnvDuration(EnvStatusBufferWindow, DefaultStatusBufferWindow),
		StaffPrefWindow:     getEnvDuration(EnvStaffPrefWindow, DefaultStaffPrefWindow),
		LocalOnlyRetention:  getEnvDuration(EnvLocalOnlyRetention, DefaultLocalOnlyRetention),

		DayStart:     getEnvStr(EnvDayStart, DefaultDayStart),
		DayEnd:       getEnvStr(EnvDayEnd, DefaultDayEnd),
		GridInterval: getEnvNum(EnvGridInterval, DefaultGridInterval),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, logger.INFO),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if !regexp.MustCompile(`^https?://`).MatchString(cfg.BookingAPIBaseURL) {
		errors = append(errors, fmt.Sprintf("BookingAPIBaseURL must start with 'http://' or 'https://', got: %s", cfg.BookingAPIBaseURL))
	}

	if cfg.RefreshInterval <= 0 {
		errors = append(errors, fmt.Sprintf("RefreshInterval must be positive, got: %s", cfg.RefreshInterval))
	}
	if cfg.DeletedBufferWindow <= 0 {
		errors = append(errors, fmt.Sprintf("DeletedBufferWindow must be positive, got: %s", cfg.DeletedBufferWindow))
	}
	if cfg.StatusBufferWindow <= 0 {
		errors = append(errors, fmt.Sprintf("StatusBufferWindow must be positive, got: %s", cfg.StatusBufferWindow))
	}
	if cfg.StaffPrefWindow <= 0 {
		errors = append(errors, fmt.Sprintf("StaffPrefWindow must be positive, got: %s", cfg.StaffPrefWindow))
	}
	if cfg.LocalOnlyRetention <= 0 {
		errors = append(errors, fmt.Sprintf("LocalOnlyRetention must be positive, got: %s", cfg.LocalOnlyRetention))
	}

	if !timegrid.Pattern.MatchString(cfg.DayStart) {
		errors = append(errors, fmt.Sprintf("DayStart must be in HH:MM format (00:00-23:59), got: %s", cfg.DayStart))
	}
	if !timegrid.Pattern.MatchString(cfg.DayEnd) {
		errors = append(errors, fmt.Sprintf("DayEnd must be in HH:MM format (00:00-23:59), got: %s", cfg.DayEnd))
	}
	if timegrid.Pattern.MatchString(cfg.DayStart) && timegrid.Pattern.MatchString(cfg.DayEnd) &&
		timegrid.ToMinutes(cfg.DayStart) >= timegrid.ToMinutes(cfg.DayEnd) {
		errors = append(errors, fmt.Sprintf("DayStart (%s) must be before DayEnd (%s)", cfg.DayStart, cfg.DayEnd))
	}

	if cfg.GridInterval <= 0 || 60%cfg.GridInterval != 0 {
		errors = append(errors, fmt.Sprintf("GridInterval must be a positive divisor of 60, got: %d", cfg.GridInterval))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"booking_api_base_url", cfg.BookingAPIBaseURL,
		"refresh_interval", cfg.RefreshInterval,
		"deleted_buffer_window", cfg.DeletedBufferWindow,
		"status_buffer_window", cfg.StatusBufferWindow,
		"staff_pref_window", cfg.StaffPrefWindow,
		"local_only_retention", cfg.LocalOnlyRetention,
		"day_start", cfg.DayStart,
		"day_end", cfg.DayEnd,
		"grid_interval", cfg.GridInterval,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}
