package models

import "time"

// DateLayout is the ISO calendar date format used on the wire
const DateLayout = "2006-01-02"

// TimeEntry is the payload submitted to the time-log sink
type TimeEntry struct {
	ProjectID   int64   `json:"projectId"`
	Description string  `json:"description"`
	Date        string  `json:"date"`     // YYYY-MM-DD
	Duration    float64 `json:"duration"` // hours, 2 decimals
}

// StoredTimeEntry is a time entry persisted by the local sink
type StoredTimeEntry struct {
	ID          int64     `json:"id"`
	ProjectID   int64     `json:"projectId"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Duration    float64   `json:"duration"`
	CreatedAt   time.Time `json:"createdAt"`
}
