package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"Mansoor88-6/work-timer/internal/models"
)

// TimeEntryRepository is the local SQLite time-log sink
type TimeEntryRepository struct {
	db *sql.DB
}

func NewTimeEntryRepository(db *sql.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

// CreateTimeEntry appends one time-log record
func (r *TimeEntryRepository) CreateTimeEntry(ctx context.Context, entry models.TimeEntry) error {
	_, err := r.Create(ctx, entry)
	return err
}

func (r *TimeEntryRepository) Create(ctx context.Context, entry models.TimeEntry) (*models.StoredTimeEntry, error) {
	query := `
		INSERT INTO time_entries (project_id, description, entry_date, duration_hours, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	createdAt := time.Now().UTC()
	result, err := r.db.ExecContext(
		ctx,
		query,
		entry.ProjectID,
		entry.Description,
		entry.Date,
		entry.Duration,
		createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create time entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted id: %w", err)
	}

	return &models.StoredTimeEntry{
		ID:          id,
		ProjectID:   entry.ProjectID,
		Description: entry.Description,
		Date:        entry.Date,
		Duration:    entry.Duration,
		CreatedAt:   createdAt,
	}, nil
}

func (r *TimeEntryRepository) GetByDate(ctx context.Context, date string) ([]*models.StoredTimeEntry, error) {
	query := `
		SELECT id, project_id, description, entry_date, duration_hours, created_at
		FROM time_entries
		WHERE entry_date = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.StoredTimeEntry
	for rows.Next() {
		var entry models.StoredTimeEntry
		err := rows.Scan(
			&entry.ID,
			&entry.ProjectID,
			&entry.Description,
			&entry.Date,
			&entry.Duration,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}
