package repository

import (
	"context"
	"path/filepath"
	"testing"

	"Mansoor88-6/work-timer/internal/database"
	"Mansoor88-6/work-timer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRepo(t *testing.T) *TimeEntryRepository {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "timer.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTimeEntryRepository(db.DB)
}

func TestTimeEntryRepository_CreateAndList(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	stored, err := repo.Create(ctx, models.TimeEntry{ProjectID: 7, Description: "Design review", Date: "2026-10-14", Duration: 0.03})
	require.NoError(t, err)
	assert.NotZero(t, stored.ID)

	require.NoError(t, repo.CreateTimeEntry(ctx, models.TimeEntry{ProjectID: 3, Description: "Work on Client portal", Date: "2026-10-14", Duration: 1}))
	require.NoError(t, repo.CreateTimeEntry(ctx, models.TimeEntry{ProjectID: 3, Description: "Other day", Date: "2026-10-13", Duration: 2}))

	entries, err := repo.GetByDate(ctx, "2026-10-14")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Design review", entries[0].Description)
	assert.Equal(t, 0.03, entries[0].Duration)
	assert.Equal(t, int64(3), entries[1].ProjectID)
}

func TestTimeEntryRepository_EmptyDay(t *testing.T) {
	entries, err := newRepo(t).GetByDate(context.Background(), "2026-01-01")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
