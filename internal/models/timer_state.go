package models

import "time"

// Status is the timer's lifecycle state
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusIdle, StatusRunning, StatusPaused:
		return true
	}
	return false
}

// TimerState is the single mutable timer record
type TimerState struct {
	Status          Status     `json:"status"`
	ElapsedSeconds  int64      `json:"elapsedSeconds"`
	ProjectID       *int64     `json:"projectId"`
	Description     string     `json:"description"`
	StartedAt       *time.Time `json:"startedAt"`
	IsWidgetVisible bool       `json:"isWidgetVisible"`
}

// IdleState returns the initial state
func IdleState() TimerState {
	return TimerState{Status: StatusIdle}
}

// Snapshot is the durable copy of the timer state plus the session ledger
type Snapshot struct {
	TimerState
	Sessions []Session `json:"sessions"`
}

// Session is one completed start-to-stop cycle
type Session struct {
	ID            string    `json:"id"`
	ProjectID     int64     `json:"projectId"`
	Description   string    `json:"description"`
	StartedAt     time.Time `json:"startedAt"`
	EndedAt       time.Time `json:"endedAt"`
	DurationHours float64   `json:"durationHours"`
	Date          string    `json:"date"` // YYYY-MM-DD of EndedAt
}

// Project is a selectable catalog entry
type Project struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
