package locale

import (
	"testing"
	"time"
)

func TestInferCountryFromPhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		wantCode string
		wantNil  bool
	}{
		{name: "Israel phone", phone: "+972541234567", wantCode: "IL"},
		{name: "Israel phone without plus", phone: "972541234567", wantCode: "IL"},
		{name: "US phone", phone: "+12125551234", wantCode: "US"},
		{name: "UK phone", phone: "+442071234567", wantCode: "GB"},
		{name: "unknown country", phone: "+61412345678", wantNil: true},
		{name: "empty phone", phone: "", wantNil: true},
		{name: "invalid phone", phone: "not-a-phone", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferCountryFromPhone(tt.phone)
			if tt.wantNil {
				if got != nil {
					t.Errorf("InferCountryFromPhone(%q) = %v, want nil", tt.phone, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("InferCountryFromPhone(%q) = nil, want code %q", tt.phone, tt.wantCode)
			}
			if got.Code != tt.wantCode {
				t.Errorf("InferCountryFromPhone(%q).Code = %q, want %q", tt.phone, got.Code, tt.wantCode)
			}
		})
	}
}

func TestInferTimezoneFromPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{"+972541234567", "Asia/Jerusalem"},
		{"+12125551234", "America/New_York"},
		{"+61412345678", "UTC"},
		{"", "UTC"},
	}

	for _, tt := range tests {
		if got := InferTimezoneFromPhone(tt.phone); got != tt.want {
			t.Errorf("InferTimezoneFromPhone(%q) = %q, want %q", tt.phone, got, tt.want)
		}
	}
}

func TestInferFirstWeekdayFromPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  time.Weekday
	}{
		{"+972541234567", time.Sunday},
		{"+12125551234", time.Sunday},
		{"+442071234567", time.Monday},
		{"+61412345678", time.Monday}, // unknown falls back to ISO
		{"", time.Monday},
	}

	for _, tt := range tests {
		if got := InferFirstWeekdayFromPhone(tt.phone); got != tt.want {
			t.Errorf("InferFirstWeekdayFromPhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	if loc := Location("+61412345678"); loc != time.UTC {
		t.Errorf("Location() = %v, want UTC", loc)
	}
}
