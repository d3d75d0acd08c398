package domain

import "time"

// Task field defaults applied when a sheet cell is empty.
const (
	DefaultStart  = "08:00 AM"
	DefaultEnd    = "09:00 AM"
	DefaultStatus = "Created"
)

// TaskRecord is one normalized row of the tracker sheet.
type TaskRecord struct {
	Calendar    string     `json:"calendar"`
	Date        string     `json:"date"`
	ParsedDate  *time.Time `json:"parsedDate"`
	Start       string     `json:"start"`
	End         string     `json:"end"`
	Category    string     `json:"category"`
	Task        string     `json:"task"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes"`
	Description string     `json:"description"`
	Key         string     `json:"key"`
}

// IsValid checks if the record names a task and carries a recognized date.
func (t TaskRecord) IsValid() bool {
	return t.Task != "" && t.ParsedDate != nil
}

// String returns the task name for display purposes.
func (t TaskRecord) String() string {
	return t.Task
}
