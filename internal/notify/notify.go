// Package notify carries user-facing timer messages.
package notify

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Level classifies a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is one message shown to the user
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notifications
type Notifier interface {
	Notify(level Level, message string)
}

// DefaultFeedSize is how many notifications a Feed keeps
const DefaultFeedSize = 50

// Feed logs every notification and keeps the most recent ones for polling
type Feed struct {
	clock  clockwork.Clock
	size   int
	logger *zap.Logger

	mu    sync.RWMutex
	items []Notification
}

// NewFeed creates a feed bounded to size entries
func NewFeed(clock clockwork.Clock, size int, logger *zap.Logger) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{
		clock:  clock,
		size:   size,
		logger: logger,
	}
}

// Notify records and logs a notification
func (f *Feed) Notify(level Level, message string) {
	n := Notification{Level: level, Message: message, At: f.clock.Now()}

	f.mu.Lock()
	f.items = append(f.items, n)
	if over := len(f.items) - f.size; over > 0 {
		f.items = append([]Notification(nil), f.items[over:]...)
	}
	f.mu.Unlock()

	fields := []zap.Field{zap.String("level", string(level)), zap.String("message", message)}
	if level == LevelError {
		f.logger.Error("Notification", fields...)
	} else {
		f.logger.Info("Notification", fields...)
	}
}

// Recent returns the retained notifications, oldest first
func (f *Feed) Recent() []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}
