package services

import (
	"sort"
	"time"

	"lifeos-proxy/internal/domain"
	"lifeos-proxy/internal/normalize"
)

// FilterForDay keeps the records whose parsed date falls on targetKey. The
// input order is preserved.
func FilterForDay(records []domain.TaskRecord, targetKey string, dayKey func(time.Time) string) []domain.TaskRecord {
	matched := make([]domain.TaskRecord, 0, len(records))
	for _, record := range records {
		if record.ParsedDate == nil {
			continue
		}
		if dayKey(*record.ParsedDate) == targetKey {
			matched = append(matched, record)
		}
	}
	return matched
}

// SortByStart orders records by the clock offset of their start time. Equal
// start times keep their relative order.
func SortByStart(records []domain.TaskRecord, offset func(string) int) {
	sort.SliceStable(records, func(i, j int) bool {
		return offset(records[i].Start) < offset(records[j].Start)
	})
}

// SelectDay filters records to targetKey and sorts the result by start time.
func SelectDay(records []domain.TaskRecord, targetKey string, n *normalize.Normalizer) []domain.TaskRecord {
	matched := FilterForDay(records, targetKey, n.DayKey)
	SortByStart(matched, normalize.ClockOffset)
	return matched
}
