package locale

import "time"

const (
	DefaultTimezone = "UTC"

	// DefaultFirstWeekday is the ISO 8601 convention, used whenever a
	// cleaner's country cannot be resolved.
	DefaultFirstWeekday = time.Monday
)

type Country struct {
	Code          string   // ISO 3166-1 alpha-2 country code (e.g., "IL", "US")
	Name          string   // Human-readable country name
	PhonePrefixes []string // Valid phone number prefixes (e.g., ["+972", "972"])

	// DefaultTimezone is the IANA zone earnings windows are computed in.
	DefaultTimezone string

	// FirstWeekday anchors the "this week" earnings bucket.
	FirstWeekday time.Weekday
}

var Countries = map[string]Country{
	"IL": {
		Code:            "IL",
		Name:            "Israel",
		PhonePrefixes:   []string{"+972", "972"},
		DefaultTimezone: "Asia/Jerusalem",
		FirstWeekday:    time.Sunday,
	},
	"US": {
		Code:            "US",
		Name:            "United States",
		PhonePrefixes:   []string{"+1", "1"},
		DefaultTimezone: "America/New_York",
		FirstWeekday:    time.Sunday,
	},
	"GB": {
		Code:            "GB",
		Name:            "United Kingdom",
		PhonePrefixes:   []string{"+44", "44"},
		DefaultTimezone: "Europe/London",
		FirstWeekday:    time.Monday,
	},
}
