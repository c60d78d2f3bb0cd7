// Package persistence saves and restores the timer snapshot.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Mansoor88-6/work-timer/internal/models"

	"go.uber.org/zap"
)

// ErrNoSnapshot is returned by a Store that has nothing saved yet
var ErrNoSnapshot = errors.New("no snapshot")

// Store reads and writes one serialized snapshot
type Store interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
}

// PersistenceError wraps a snapshot read or write failure
type PersistenceError struct {
	Op  string // save, load, decode, validate
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("snapshot %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

const saveTimeout = 5 * time.Second

// Adapter encodes snapshots onto a Store. Failures never propagate past it:
// Save reports and logs, Load degrades to the idle state.
type Adapter struct {
	store     Store
	logger    *zap.Logger
	onFailure func(err error)
}

// NewAdapter creates an adapter over store
func NewAdapter(store Store, logger *zap.Logger) *Adapter {
	return &Adapter{
		store:  store,
		logger: logger,
	}
}

// OnFailure registers a hook called for every persistence failure
func (a *Adapter) OnFailure(fn func(err error)) {
	a.onFailure = fn
}

// Save replaces the stored snapshot
func (a *Adapter) Save(ctx context.Context, snapshot models.Snapshot) error {
	data, err := Encode(snapshot)
	if err != nil {
		return a.fail(&PersistenceError{Op: "save", Err: err})
	}
	if err := a.store.Save(ctx, data); err != nil {
		return a.fail(&PersistenceError{Op: "save", Err: err})
	}
	return nil
}

// OnChange is a state-machine listener that saves every published snapshot
func (a *Adapter) OnChange(snapshot models.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	// already logged and reported
	_ = a.Save(ctx, snapshot)
}

// Load returns the last saved snapshot, or the idle state when nothing
// usable is stored.
func (a *Adapter) Load(ctx context.Context) models.Snapshot {
	data, err := a.store.Load(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		a.logger.Info("No timer snapshot found, starting idle")
		return models.Snapshot{TimerState: models.IdleState()}
	}
	if err != nil {
		a.fail(&PersistenceError{Op: "load", Err: err})
		return models.Snapshot{TimerState: models.IdleState()}
	}

	snapshot, err := Decode(data)
	if err != nil {
		a.fail(err)
		return models.Snapshot{TimerState: models.IdleState()}
	}

	a.logger.Info("Timer snapshot restored",
		zap.String("status", string(snapshot.Status)),
		zap.Int64("elapsed_seconds", snapshot.ElapsedSeconds),
		zap.Int("session_count", len(snapshot.Sessions)),
	)
	return snapshot
}

func (a *Adapter) fail(err error) error {
	a.logger.Error("Timer persistence failed", zap.Error(err))
	if a.onFailure != nil {
		a.onFailure(err)
	}
	return err
}
