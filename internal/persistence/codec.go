package persistence

import (
	"encoding/json"
	"errors"
	"fmt"

	"Mansoor88-6/work-timer/internal/models"
)

// Encode serializes a snapshot
func Encode(snapshot models.Snapshot) ([]byte, error) {
	if snapshot.Sessions == nil {
		snapshot.Sessions = []models.Session{}
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// Decode parses and validates a snapshot
func Decode(data []byte) (models.Snapshot, error) {
	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return models.Snapshot{}, &PersistenceError{Op: "decode", Err: err}
	}
	if err := Validate(snapshot); err != nil {
		return models.Snapshot{}, &PersistenceError{Op: "validate", Err: err}
	}
	return snapshot, nil
}

// Validate checks that a snapshot describes a reachable timer state
func Validate(s models.Snapshot) error {
	if !s.Status.Valid() {
		return fmt.Errorf("unknown status %q", s.Status)
	}
	if s.ElapsedSeconds < 0 {
		return errors.New("negative elapsed seconds")
	}
	switch s.Status {
	case models.StatusIdle:
		if s.ElapsedSeconds != 0 || s.ProjectID != nil {
			return errors.New("idle snapshot carries timer data")
		}
	default:
		if s.ProjectID == nil {
			return fmt.Errorf("%s snapshot has no project", s.Status)
		}
	}
	for i, session := range s.Sessions {
		if session.ID == "" {
			return fmt.Errorf("session %d has no id", i)
		}
		if session.DurationHours < 0 {
			return fmt.Errorf("session %s has negative duration", session.ID)
		}
	}
	return nil
}
