package domain

// StatsRecord is one row of the statistics sheet.
type StatsRecord struct {
	Date       string  `json:"date"`
	Done       float64 `json:"done"`
	Missed     float64 `json:"missed"`
	InProgress float64 `json:"inProgress"`
	Pending    float64 `json:"pending"`
	Total      float64 `json:"total"`
	DonePct    float64 `json:"donePct"`
	MissedPct  float64 `json:"missedPct"`
}

// IsValid checks if the record has a date.
func (s StatsRecord) IsValid() bool {
	return s.Date != ""
}
