package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"Mansoor88-6/work-timer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticSource struct {
	projects []models.Project
	err      error
}

func (s staticSource) GetProjects(ctx context.Context) ([]models.Project, error) {
	return s.projects, s.err
}

func TestLoad(t *testing.T) {
	c, err := Load(context.Background(), staticSource{projects: []models.Project{
		{ID: 7, Name: "Apollo"},
		{ID: 3, Name: "Borealis"},
	}}, zap.NewNop())
	require.NoError(t, err)

	all := c.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, int64(7), all[0].ID)

	p, ok := c.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "Borealis", p.Name)

	_, ok = c.Lookup(99)
	assert.False(t, ok)
}

func TestLoad_SourceError(t *testing.T) {
	_, err := Load(context.Background(), staticSource{err: errors.New("offline")}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
}

func TestNew_RejectsBadIDs(t *testing.T) {
	_, err := New([]models.Project{{ID: 0, Name: "nameless"}})
	require.Error(t, err)

	_, err = New([]models.Project{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}})
	require.Error(t, err)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
projects:
  - id: 7
    name: Apollo
  - id: 3
    name: Borealis
`), 0644))

	projects, err := NewFileSource(path).GetProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Project{{ID: 7, Name: "Apollo"}, {ID: 3, Name: "Borealis"}}, projects)
}

func TestFileSource_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projects: [oops"), 0644))

	_, err := NewFileSource(path).GetProjects(context.Background())
	require.Error(t, err)
}
