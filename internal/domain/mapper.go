package domain

import (
	"strings"
	"time"

	"lifeos-proxy/internal/logging"
)

// Tracker sheet columns.
const (
	colCalendar    = 1
	colDate        = 2
	colStart       = 3
	colEnd         = 4
	colCategory    = 5
	colTask        = 6
	colTitle       = 7
	colStatus      = 8
	colNotes       = 10
	colDescription = 11
)

// Stats sheet columns.
const (
	colStatsDate = iota
	colStatsDone
	colStatsMissed
	colStatsInProgress
	colStatsPending
	colStatsTotal
	colStatsDonePct
	colStatsMissedPct
)

// DateParser recognizes the date text of a sheet cell.
type DateParser interface {
	ParseDate(raw string) (time.Time, bool)
}

// TaskMapper converts tracker sheet rows into TaskRecords.
type TaskMapper struct {
	dates DateParser
}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper(dates DateParser) *TaskMapper {
	return &TaskMapper{dates: dates}
}

// FromRow converts a row. The second result is false when the row has no task
// name or no recognizable date.
func (m *TaskMapper) FromRow(row Row) (TaskRecord, bool) {
	date := strings.TrimSpace(row.Formatted(colDate, row.Text(colDate, "")))

	record := TaskRecord{
		Calendar:    row.Text(colCalendar, ""),
		Date:        date,
		Start:       row.Formatted(colStart, DefaultStart),
		End:         row.Formatted(colEnd, DefaultEnd),
		Category:    row.Text(colCategory, ""),
		Task:        row.Text(colTask, ""),
		Title:       row.Text(colTitle, ""),
		Status:      row.Text(colStatus, DefaultStatus),
		Notes:       row.Text(colNotes, ""),
		Description: row.Text(colDescription, ""),
	}
	record.Key = ExtractKey(record.Description)

	if parsed, ok := m.dates.ParseDate(date); ok {
		utc := parsed.UTC()
		record.ParsedDate = &utc
	}

	return record, record.IsValid()
}

// FromTable converts at most maxRows rows of table, dropping rejected and
// malformed rows. maxRows <= 0 means no limit.
func (m *TaskMapper) FromTable(table Table, maxRows int) []TaskRecord {
	rows := limitRows(table.Rows, maxRows)
	records := make([]TaskRecord, 0, len(rows))
	for i, row := range rows {
		if record, ok := m.safeFromRow(i, row); ok {
			records = append(records, record)
		}
	}
	return records
}

func (m *TaskMapper) safeFromRow(index int, row Row) (record TaskRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Debugf("dropping malformed task row %d: %v", index, r)
			ok = false
		}
	}()
	return m.FromRow(row)
}

// StatsMapper converts statistics sheet rows into StatsRecords.
type StatsMapper struct{}

// NewStatsMapper creates a new StatsMapper instance.
func NewStatsMapper() *StatsMapper {
	return &StatsMapper{}
}

// FromRow converts a row. The second result is false when the row has no date.
func (m *StatsMapper) FromRow(row Row) (StatsRecord, bool) {
	record := StatsRecord{
		Date:       strings.TrimSpace(row.Formatted(colStatsDate, row.Text(colStatsDate, ""))),
		Done:       row.Number(colStatsDone),
		Missed:     row.Number(colStatsMissed),
		InProgress: row.Number(colStatsInProgress),
		Pending:    row.Number(colStatsPending),
		Total:      row.Number(colStatsTotal),
		DonePct:    row.Number(colStatsDonePct),
		MissedPct:  row.Number(colStatsMissedPct),
	}
	return record, record.IsValid()
}

// FromTable converts at most maxRows rows of table, dropping rows without a
// date. maxRows <= 0 means no limit.
func (m *StatsMapper) FromTable(table Table, maxRows int) []StatsRecord {
	rows := limitRows(table.Rows, maxRows)
	records := make([]StatsRecord, 0, len(rows))
	for i, row := range rows {
		if record, ok := m.safeFromRow(i, row); ok {
			records = append(records, record)
		}
	}
	return records
}

func (m *StatsMapper) safeFromRow(index int, row Row) (record StatsRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Debugf("dropping malformed stats row %d: %v", index, r)
			ok = false
		}
	}()
	return m.FromRow(row)
}

// Mapper groups the row converters used by the services.
type Mapper struct {
	Task  *TaskMapper
	Stats *StatsMapper
}

// NewMapper creates a new Mapper with all converters.
func NewMapper(dates DateParser) *Mapper {
	return &Mapper{
		Task:  NewTaskMapper(dates),
		Stats: NewStatsMapper(),
	}
}

func limitRows(rows []Row, maxRows int) []Row {
	if maxRows > 0 && len(rows) > maxRows {
		return rows[:maxRows]
	}
	return rows
}
