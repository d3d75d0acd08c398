package sqlite

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanner implements the Scanner interface for testing
type TestScanner struct {
	data []interface{}
	err  error
}

func (ts *TestScanner) Scan(dest ...interface{}) error {
	if ts.err != nil {
		return ts.err
	}

	if len(dest) != len(ts.data) {
		return errors.New("mismatch in number of destinations")
	}

	for i, d := range dest {
		switch v := d.(type) {
		case *string:
			*v = ts.data[i].(string)
		case *[]byte:
			*v = ts.data[i].([]byte)
		}
	}

	return nil
}

// TestRows implements the Rows interface for testing
type TestRows struct {
	rows    []*TestScanner
	current int
	err     error
}

func (tr *TestRows) Next() bool {
	tr.current++
	return tr.current <= len(tr.rows)
}

func (tr *TestRows) Scan(dest ...interface{}) error {
	return tr.rows[tr.current-1].Scan(dest...)
}

func (tr *TestRows) Err() error {
	return tr.err
}

func TestScanCacheEntry(t *testing.T) {
	tests := []struct {
		name        string
		scanner     *TestScanner
		expected    *CacheEntry
		expectError bool
	}{
		{
			name: "Valid cache entry",
			scanner: &TestScanner{
				data: []interface{}{"Tracker_Backup", []byte("body"), "2025-03-15T04:30:00.000000000Z"},
			},
			expected: &CacheEntry{
				Key:       "Tracker_Backup",
				Body:      []byte("body"),
				FetchedAt: time.Date(2025, 3, 15, 4, 30, 0, 0, time.UTC),
			},
		},
		{
			name: "Invalid timestamp",
			scanner: &TestScanner{
				data: []interface{}{"Stats", []byte("body"), "yesterday"},
			},
			expectError: true,
		},
		{
			name:        "Scan error",
			scanner:     &TestScanner{err: errors.New("scan failed")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanCacheEntry(tt.scanner)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.Key, result.Key)
			assert.Equal(t, tt.expected.Body, result.Body)
			assert.True(t, tt.expected.FetchedAt.Equal(result.FetchedAt))
		})
	}
}

func TestScanCacheEntries(t *testing.T) {
	rows := &TestRows{rows: []*TestScanner{
		{data: []interface{}{"a", []byte("1"), "2025-03-15T04:30:00.000000000Z"}},
		{data: []interface{}{"b", []byte("2"), "2025-03-15T04:31:00.000000000Z"}},
	}}

	entries, err := ScanCacheEntries(rows)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[1].Key)
}

func TestScanCacheEntries_Errors(t *testing.T) {
	_, err := ScanCacheEntries(&TestRows{rows: []*TestScanner{{err: errors.New("boom")}}})
	assert.Error(t, err)

	_, err = ScanCacheEntries(&TestRows{err: errors.New("iteration failed")})
	assert.Error(t, err)

	entries, err := ScanCacheEntries(&TestRows{})
	assert.NoError(t, err)
	assert.Empty(t, entries)
}
