// Package ticker runs a cancellable periodic callback.
package ticker

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Ticker calls a function once per interval until stopped. At most one
// loop is active per Ticker; starting again replaces the previous loop.
type Ticker struct {
	clock    clockwork.Clock
	interval time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewTicker creates a ticker driven by clock
func NewTicker(clock clockwork.Clock, interval time.Duration, logger *zap.Logger) *Ticker {
	return &Ticker{
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

// Start begins calling fn every interval. Any running loop is cancelled first.
func (t *Ticker) Start(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()

	stop := make(chan struct{})
	t.stopChan = stop
	tk := t.clock.NewTicker(t.interval)

	t.wg.Add(1)
	go t.loop(tk, stop, fn)

	t.logger.Debug("Ticker started", zap.Duration("interval", t.interval))
}

// Stop cancels the running loop, if any. It does not wait for an in-flight
// callback to return, so it is safe to call from code that the callback
// itself may be blocked on.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelLocked() {
		t.logger.Debug("Ticker stopped")
	}
}

// Running reports whether a loop is active
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopChan != nil
}

// Wait blocks until every loop has exited
func (t *Ticker) Wait() {
	t.wg.Wait()
}

func (t *Ticker) cancelLocked() bool {
	if t.stopChan == nil {
		return false
	}
	close(t.stopChan)
	t.stopChan = nil
	return true
}

func (t *Ticker) loop(tk clockwork.Ticker, stop chan struct{}, fn func()) {
	defer t.wg.Done()
	defer tk.Stop()

	for {
		select {
		case <-stop:
			return
		case <-tk.Chan():
			// a stop may race with a pending tick; stop wins
			select {
			case <-stop:
				return
			default:
			}
			fn()
		}
	}
}
