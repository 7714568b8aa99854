package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

var reServiceTypeStrip = regexp.MustCompile(`[^0-9\p{L}]+`)

// TrimAndNormalize trims leading/trailing whitespace and collapses internal
// whitespace runs to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeAddress(address string) string {
	return TrimAndNormalize(address)
}

func NormalizeNotes(notes string) string {
	return TrimAndNormalize(notes)
}

func NormalizeNameForComparison(name string) string {
	return strings.ToLower(TrimAndNormalize(name))
}

// NormalizeServiceType produces the canonical rate-table key for a service
// type: lowercased, with non-alphanumeric runs collapsed to underscores.
// "Deep Clean" and "deep-clean" both map to "deep_clean".
func NormalizeServiceType(serviceType string) string {
	s := strings.ToLower(strings.TrimSpace(serviceType))
	s = reServiceTypeStrip.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
