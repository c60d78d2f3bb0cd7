package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"Mansoor88-6/work-timer/internal/database"
	"Mansoor88-6/work-timer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func int64Ptr(v int64) *int64 { return &v }

func runningSnapshot() models.Snapshot {
	started := time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)
	return models.Snapshot{
		TimerState: models.TimerState{
			Status:          models.StatusRunning,
			ElapsedSeconds:  125,
			ProjectID:       int64Ptr(7),
			Description:     "Design review",
			StartedAt:       &started,
			IsWidgetVisible: true,
		},
		Sessions: []models.Session{{
			ID:            "a1",
			ProjectID:     3,
			Description:   "Work on Client portal",
			StartedAt:     started.Add(-2 * time.Hour),
			EndedAt:       started.Add(-time.Hour),
			DurationHours: 1,
			Date:          "2026-10-14",
		}},
	}
}

func stores(t *testing.T) map[string]Store {
	db, err := database.New(filepath.Join(t.TempDir(), "timer.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Store{
		"sqlite": NewSQLiteStore(db.DB),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "state", "timer.json")),
	}
}

func TestAdapter_RoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a := NewAdapter(store, zap.NewNop())
			ctx := context.Background()

			want := runningSnapshot()
			require.NoError(t, a.Save(ctx, want))
			assert.Equal(t, want, a.Load(ctx))
		})
	}
}

func TestAdapter_SaveReplacesPrevious(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a := NewAdapter(store, zap.NewNop())
			ctx := context.Background()

			require.NoError(t, a.Save(ctx, runningSnapshot()))
			idle := models.Snapshot{TimerState: models.IdleState(), Sessions: []models.Session{}}
			require.NoError(t, a.Save(ctx, idle))

			assert.Equal(t, idle, a.Load(ctx))
		})
	}
}

func TestAdapter_LoadMissingIsIdle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got := NewAdapter(store, zap.NewNop()).Load(context.Background())
			assert.Equal(t, models.StatusIdle, got.Status)
			assert.Empty(t, got.Sessions)
		})
	}
}

func TestAdapter_LoadCorruptIsIdle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timer.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"status": "running", "elapsed`), 0644))

	var failures []error
	a := NewAdapter(NewFileStore(path), zap.NewNop())
	a.OnFailure(func(err error) { failures = append(failures, err) })

	got := a.Load(context.Background())
	assert.Equal(t, models.IdleState(), got.TimerState)

	require.Len(t, failures, 1)
	var perr *PersistenceError
	require.ErrorAs(t, failures[0], &perr)
	assert.Equal(t, "decode", perr.Op)
}

type brokenStore struct{}

func (brokenStore) Save(ctx context.Context, data []byte) error { return errors.New("disk full") }
func (brokenStore) Load(ctx context.Context) ([]byte, error)    { return nil, errors.New("io error") }

func TestAdapter_FailuresAreReported(t *testing.T) {
	var failures int
	a := NewAdapter(brokenStore{}, zap.NewNop())
	a.OnFailure(func(err error) { failures++ })

	err := a.Save(context.Background(), runningSnapshot())
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "save", perr.Op)

	// listener form swallows the error
	a.OnChange(runningSnapshot())

	assert.Equal(t, models.IdleState(), a.Load(context.Background()).TimerState)
	assert.Equal(t, 3, failures)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *models.Snapshot)
	}{
		{"unknown status", func(s *models.Snapshot) { s.Status = "stopping" }},
		{"negative elapsed", func(s *models.Snapshot) { s.ElapsedSeconds = -1 }},
		{"idle with elapsed", func(s *models.Snapshot) { s.Status = models.StatusIdle; s.ProjectID = nil }},
		{"idle with project", func(s *models.Snapshot) { s.Status = models.StatusIdle; s.ElapsedSeconds = 0 }},
		{"running without project", func(s *models.Snapshot) { s.ProjectID = nil }},
		{"session without id", func(s *models.Snapshot) { s.Sessions[0].ID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := runningSnapshot()
			tt.mutate(&s)
			assert.Error(t, Validate(s))
		})
	}

	assert.NoError(t, Validate(runningSnapshot()))
	assert.NoError(t, Validate(models.Snapshot{TimerState: models.IdleState()}))
}

func TestEncode_LayoutFields(t *testing.T) {
	data, err := Encode(models.Snapshot{TimerState: models.IdleState()})
	require.NoError(t, err)
	for _, key := range []string{`"status"`, `"elapsedSeconds"`, `"projectId":null`, `"description"`, `"startedAt":null`, `"isWidgetVisible"`, `"sessions":[]`} {
		assert.Contains(t, string(data), key)
	}
}
