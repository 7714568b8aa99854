package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig(requireJWT bool) *Config {
	return &Config{
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabaseName: "sweeply",
		MongoConnTimeout:  10 * time.Second,

		Port: "8080",

		JWTSecret:   "",
		JWTTokenTTL: 24 * time.Hour,

		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,

		RequestTimeout: 30 * time.Second,
		IdempotencyTTL: 24 * time.Hour,
		MaxRequestSize: DefaultMaxRequestSize,
		MaxProofSize:   DefaultMaxProofSize,

		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,

		DefaultCommission: 250,
		CommissionRates:   map[string]int64{"standard": 250},

		BookingStatusTopic: "sweeply.booking.status",

		requireJWT: requireJWT,
	}
}

func TestValidate_HTTPServiceRequiresJWTSecret(t *testing.T) {
	cfg := validConfig(true)

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure without a JWT secret")
	}
	if !strings.Contains(err.Error(), "JWTSecret") {
		t.Errorf("expected JWTSecret in error, got: %v", err)
	}

	cfg.JWTSecret = "test-secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error with secret set: %v", err)
	}
}

func TestValidate_WorkerSkipsJWTChecks(t *testing.T) {
	// Workers never authenticate HTTP callers; an empty secret and zero TTL
	// must not block startup.
	cfg := validConfig(false)
	cfg.JWTTokenTTL = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error for worker config: %v", err)
	}
}

func TestValidate_RejectsBadPortAndURI(t *testing.T) {
	cfg := validConfig(false)
	cfg.Port = "99999"
	cfg.MongoURI = "localhost:27017"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	for _, want := range []string{"Port", "MongoURI"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %s in error, got: %v", want, err)
		}
	}
}

func TestParseCommissionRates(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]int64
		wantErr bool
	}{
		{
			name:  "multiple services",
			input: "standard=250,deep_clean=400",
			want:  map[string]int64{"standard": 250, "deep_clean": 400},
		},
		{
			name:  "empty input yields empty map",
			input: "  ",
			want:  map[string]int64{},
		},
		{
			name:    "missing amount",
			input:   "standard",
			wantErr: true,
		},
		{
			name:    "non-positive amount",
			input:   "standard=0",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommissionRates(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d rates, got %d", len(tt.want), len(got))
			}
			for service, amount := range tt.want {
				if got[service] != amount {
					t.Errorf("rate for %s: got %d, want %d", service, got[service], amount)
				}
			}
		})
	}
}
