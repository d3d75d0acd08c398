package domain

import "regexp"

var (
	strictKeyPattern = regexp.MustCompile(`(?i)([A-Z]\d{3,4}-\d{4}-\d{2}-\d{2})`)
	looseKeyPattern  = regexp.MustCompile(`(?i)Key[^A-Za-z0-9]*([A-Za-z0-9-]+)`)
)

// ExtractKey finds the task key embedded in a description. A key of the form
// "T123-2025-03-15" wins over a "Key: ..." label; "" means no key.
func ExtractKey(description string) string {
	if m := strictKeyPattern.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	if m := looseKeyPattern.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	return ""
}
