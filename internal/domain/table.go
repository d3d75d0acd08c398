package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is one value of a visualization query row. V holds the raw value as
// decoded from JSON and F the display text, when the sheet formats it.
type Cell struct {
	V interface{} `json:"v"`
	F string      `json:"f,omitempty"`
}

// Row is an ordered list of cells. Null cells are nil.
type Row struct {
	C []*Cell `json:"c"`
}

// Column describes one table column.
type Column struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Type    string `json:"type"`
	Pattern string `json:"pattern,omitempty"`
}

// Table is the tabular payload returned by a sheet source.
type Table struct {
	Cols []Column `json:"cols"`
	Rows []Row    `json:"rows"`
}

// Issue is a warning or error reported in a query response envelope.
type Issue struct {
	Reason          string `json:"reason"`
	Message         string `json:"message"`
	DetailedMessage string `json:"detailed_message,omitempty"`
}

// Response is the visualization query envelope around a Table.
type Response struct {
	Version  string  `json:"version"`
	ReqID    string  `json:"reqId"`
	Status   string  `json:"status"`
	Sig      string  `json:"sig,omitempty"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
	Table    *Table  `json:"table"`
}

// Failed reports whether the envelope carries an error status.
func (r Response) Failed() bool {
	return r.Status == "error"
}

// ErrorMessages joins the envelope's error messages.
func (r Response) ErrorMessages() string {
	messages := make([]string, 0, len(r.Errors))
	for _, issue := range r.Errors {
		msg := issue.Message
		if issue.DetailedMessage != "" {
			msg += ": " + issue.DetailedMessage
		}
		messages = append(messages, msg)
	}
	return strings.Join(messages, "; ")
}

// Cell returns the cell at column i, or nil when the column is missing or null.
func (r Row) Cell(i int) *Cell {
	if i < 0 || i >= len(r.C) {
		return nil
	}
	return r.C[i]
}

// Value returns the raw value at column i.
func (r Row) Value(i int) interface{} {
	if c := r.Cell(i); c != nil {
		return c.V
	}
	return nil
}

// Formatted returns the display text at column i, or def when it is empty.
func (r Row) Formatted(i int, def string) string {
	if c := r.Cell(i); c != nil && c.F != "" {
		return c.F
	}
	return def
}

// Text returns the raw value at column i rendered as text, or def when the
// value is absent, empty, zero or false.
func (r Row) Text(i int, def string) string {
	if s, ok := textOf(r.Value(i)); ok {
		return s
	}
	return def
}

// Number returns the raw value at column i as a number. Numeric strings are
// parsed; anything else yields zero.
func (r Row) Number(i int) float64 {
	switch v := r.Value(i).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// textOf renders v and reports whether it is a non-empty, non-zero value.
func textOf(v interface{}) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case bool:
		return strconv.FormatBool(val), val
	case float64:
		if val == 0 || val != val {
			return "", false
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), val != 0
	case int64:
		return strconv.FormatInt(val, 10), val != 0
	default:
		s := fmt.Sprint(val)
		return s, s != ""
	}
}
