// Package catalog holds the read-only set of selectable projects.
package catalog

import (
	"context"
	"fmt"
	"os"

	"Mansoor88-6/work-timer/internal/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Source supplies the ordered project list
type Source interface {
	GetProjects(ctx context.Context) ([]models.Project, error)
}

// Catalog is an immutable project index built once at startup
type Catalog struct {
	projects []models.Project
	byID     map[int64]models.Project
}

// Load reads all projects from src
func Load(ctx context.Context, src Source, logger *zap.Logger) (*Catalog, error) {
	projects, err := src.GetProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	c, err := New(projects)
	if err != nil {
		return nil, err
	}
	logger.Info("Project catalog loaded", zap.Int("project_count", len(projects)))
	return c, nil
}

// New indexes projects, rejecting zero or duplicate ids
func New(projects []models.Project) (*Catalog, error) {
	c := &Catalog{
		projects: make([]models.Project, 0, len(projects)),
		byID:     make(map[int64]models.Project, len(projects)),
	}
	for _, p := range projects {
		if p.ID == 0 {
			return nil, fmt.Errorf("project %q has no id", p.Name)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate project id %d", p.ID)
		}
		c.byID[p.ID] = p
		c.projects = append(c.projects, p)
	}
	return c, nil
}

// GetAll returns the projects in catalog order
func (c *Catalog) GetAll() []models.Project {
	out := make([]models.Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// Lookup finds a project by id
func (c *Catalog) Lookup(id int64) (models.Project, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// FileSource reads projects from a YAML file of the form
//
//	projects:
//	  - id: 1
//	    name: Website redesign
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

type projectFile struct {
	Projects []models.Project `yaml:"projects"`
}

func (s *FileSource) GetProjects(ctx context.Context) ([]models.Project, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	var f projectFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse project file: %w", err)
	}
	return f.Projects, nil
}
