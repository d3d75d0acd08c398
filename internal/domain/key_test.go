package domain

import "testing"

func TestExtractKey(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"strict key", "Morning run T123-2025-03-15 outdoors", "T123-2025-03-15"},
		{"strict key four digits", "ref W1001-2024-12-31", "W1001-2024-12-31"},
		{"strict key lower case", "t123-2025-03-15", "t123-2025-03-15"},
		{"strict wins over label", "Key: abc T123-2025-03-15", "T123-2025-03-15"},
		{"loose label", "Key: abc-42 extra", "abc-42"},
		{"loose label no separator", "KEYxyz", "xyz"},
		{"loose label punctuation", "key => R9", "R9"},
		{"no key", "plain notes", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractKey(tt.description); got != tt.want {
				t.Errorf("ExtractKey(%q) = %q, want %q", tt.description, got, tt.want)
			}
		})
	}
}
