package locale

import (
	"strings"
	"time"
)

func InferCountryFromPhone(phone string) *Country {
	normalized := strings.TrimSpace(phone)
	if normalized == "" {
		return nil
	}

	for _, country := range Countries {
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(normalized, prefix) {
				return &country
			}
		}
	}

	return nil
}

func InferTimezoneFromPhone(phone string) string {
	if country := InferCountryFromPhone(phone); country != nil {
		return country.DefaultTimezone
	}
	return DefaultTimezone
}

// InferFirstWeekdayFromPhone resolves the week-start convention for a
// cleaner's earnings buckets from their phone prefix, falling back to the
// ISO Monday convention.
func InferFirstWeekdayFromPhone(phone string) time.Weekday {
	if country := InferCountryFromPhone(phone); country != nil {
		return country.FirstWeekday
	}
	return DefaultFirstWeekday
}

// Location loads the IANA zone for a cleaner's phone, falling back to UTC
// when the zone database does not know the name.
func Location(phone string) *time.Location {
	loc, err := time.LoadLocation(InferTimezoneFromPhone(phone))
	if err != nil {
		return time.UTC
	}
	return loc
}
