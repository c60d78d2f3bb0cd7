// Package ledger keeps the in-memory list of completed sessions.
package ledger

import (
	"math"
	"sync"
	"time"

	"Mansoor88-6/work-timer/internal/models"

	"github.com/jonboulle/clockwork"
)

// Ledger is an append-only, insertion-ordered session collection
type Ledger struct {
	clock    clockwork.Clock
	mu       sync.RWMutex
	sessions []models.Session
}

// New creates a ledger seeded with previously persisted sessions
func New(clock clockwork.Clock, sessions []models.Session) *Ledger {
	l := &Ledger{clock: clock}
	l.sessions = append(l.sessions, sessions...)
	return l
}

// Append adds a session at the end of the ledger
func (l *Ledger) Append(session models.Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sessions = append(l.sessions, session)
}

// Sessions returns a copy of the ledger in chronological order
func (l *Ledger) Sessions() []models.Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Session, len(l.sessions))
	copy(out, l.sessions)
	return out
}

// Len returns the number of sessions
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sessions)
}

// TodaysTotal sums the hours of sessions dated today
func (l *Ledger) TodaysTotal() float64 {
	today := l.clock.Now().Format(models.DateLayout)
	return l.sum(func(date string) bool { return date == today })
}

// WeekTotal sums the hours of sessions dated in the current Sunday-based week
func (l *Ledger) WeekTotal() float64 {
	start, end := WeekBounds(l.clock.Now())
	from := start.Format(models.DateLayout)
	to := end.Format(models.DateLayout)
	// ISO dates compare correctly as strings
	return l.sum(func(date string) bool { return date >= from && date < to })
}

func (l *Ledger) sum(match func(date string) bool) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total float64
	for _, s := range l.sessions {
		if match(s.Date) {
			total += s.DurationHours
		}
	}
	return RoundHours(total)
}

// WeekBounds returns midnight of the most recent Sunday (inclusive) and
// midnight of the following Sunday (exclusive) in now's location.
func WeekBounds(now time.Time) (time.Time, time.Time) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := midnight.AddDate(0, 0, -int(now.Weekday()))
	return start, start.AddDate(0, 0, 7)
}

// RoundHours rounds to two decimals
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
