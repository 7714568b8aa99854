package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "sweeply"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	DefaultJWTTokenTTL = 24 * time.Hour

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024  // 1MB
	DefaultMaxProofSize   = 10 * 1024 * 1024 // 10MB, proof images

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultCommission is credited when a booking's service type has no row
	// in the rate table. Values are in the minor currency unit.
	DefaultCommission = 250

	// DefaultCommissionRates seeds the Service_rates collection and backs the
	// COMMISSION_RATES env override ("standard=250,deep_clean=400").
	DefaultCommissionRates = "standard=250,deep_clean=400,move_out=350"

	DefaultBookingStatusTopic = "sweeply.booking.status"

	DefaultPaginationLimit = 100
)
