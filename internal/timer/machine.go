// Package timer implements the single-active work timer.
package timer

import (
	"fmt"
	"sync"
	"time"

	"Mansoor88-6/work-timer/internal/ledger"
	"Mansoor88-6/work-timer/internal/models"
	"Mansoor88-6/work-timer/internal/notify"
	"Mansoor88-6/work-timer/internal/recorder"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// TickInterval is the cadence at which elapsed time advances
const TickInterval = time.Second

// Ticker drives elapsed time while the machine is running
type Ticker interface {
	Start(fn func())
	Stop()
}

// Catalog resolves project ids
type Catalog interface {
	Lookup(id int64) (models.Project, bool)
}

// Recorder receives every stopped run that has elapsed time
type Recorder interface {
	Record(entry recorder.Entry)
}

// Transition names the mutation that produced an Event
type Transition string

const (
	TransitionRestore Transition = "restore"
	TransitionStart   Transition = "start"
	TransitionPause   Transition = "pause"
	TransitionResume  Transition = "resume"
	TransitionStop    Transition = "stop"
	TransitionReset   Transition = "reset"
	TransitionTick    Transition = "tick"
	TransitionUpdate  Transition = "update"
)

// Event is published after every mutation
type Event struct {
	Transition Transition
	Snapshot   models.Snapshot
}

// Listener observes events. Listeners run synchronously in mutation order
// and must not call back into the Machine.
type Listener func(Event)

// Machine owns the TimerState and is its only writer
type Machine struct {
	clock    clockwork.Clock
	ticker   Ticker
	catalog  Catalog
	ledger   *ledger.Ledger
	recorder Recorder
	notifier notify.Notifier
	logger   *zap.Logger

	mu        sync.Mutex
	state     models.TimerState
	tickGen   uint64
	listeners []Listener
}

// NewMachine creates an idle machine
func NewMachine(
	clock clockwork.Clock,
	ticker Ticker,
	catalog Catalog,
	ledger *ledger.Ledger,
	recorder Recorder,
	notifier notify.Notifier,
	logger *zap.Logger,
) *Machine {
	return &Machine{
		clock:    clock,
		ticker:   ticker,
		catalog:  catalog,
		ledger:   ledger,
		recorder: recorder,
		notifier: notifier,
		logger:   logger,
		state:    models.IdleState(),
	}
}

// Subscribe registers a listener for subsequent events
func (m *Machine) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Restore replaces the state with one loaded at startup. A running timer
// keeps counting from its saved elapsed seconds; time spent while the
// process was down is not added.
func (m *Machine) Restore(state models.TimerState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopTickerLocked()
	m.state = copyState(state)

	if m.state.ProjectID != nil {
		if _, ok := m.catalog.Lookup(*m.state.ProjectID); !ok {
			m.logger.Warn("Restored timer references unknown project", zap.Int64("project_id", *m.state.ProjectID))
		}
	}
	if m.state.Status == models.StatusRunning {
		m.startTickerLocked()
	}

	m.logger.Info("Timer restored",
		zap.String("status", string(m.state.Status)),
		zap.Int64("elapsed_seconds", m.state.ElapsedSeconds),
	)
	m.publishLocked(TransitionRestore)
}

// Start begins timing projectID. It is rejected unless the machine is idle.
// An empty description keeps the one set while idle.
func (m *Machine) Start(projectID int64, description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != models.StatusIdle {
		m.logger.Warn("Start rejected, timer already active",
			zap.String("status", string(m.state.Status)),
			zap.Int64p("project_id", m.state.ProjectID),
		)
		return &ValidationError{Field: "status", Message: "a timer is already active, stop or reset it first"}
	}
	if projectID == 0 {
		return &ValidationError{Field: "projectId", Message: "please select a project"}
	}
	project, ok := m.catalog.Lookup(projectID)
	if !ok {
		return &ValidationError{Field: "projectId", Message: fmt.Sprintf("project %d not found", projectID)}
	}

	if description == "" {
		description = m.state.Description
	}
	now := m.clock.Now()
	m.state = models.TimerState{
		Status:          models.StatusRunning,
		ElapsedSeconds:  0,
		ProjectID:       &projectID,
		Description:     description,
		StartedAt:       &now,
		IsWidgetVisible: true,
	}
	m.startTickerLocked()

	m.logger.Info("Timer started", zap.Int64("project_id", projectID), zap.String("project", project.Name))
	m.publishLocked(TransitionStart)
	m.notifier.Notify(notify.LevelSuccess, "Timer started for "+project.Name)
	return nil
}

// Pause freezes a running timer; otherwise it is a logged no-op
func (m *Machine) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != models.StatusRunning {
		m.logger.Warn("Pause ignored", zap.String("status", string(m.state.Status)))
		return
	}
	m.state.Status = models.StatusPaused
	m.stopTickerLocked()

	m.logger.Info("Timer paused", zap.Int64("elapsed_seconds", m.state.ElapsedSeconds))
	m.publishLocked(TransitionPause)
	m.notifier.Notify(notify.LevelInfo, "Timer paused")
}

// Resume continues a paused timer; otherwise it is a logged no-op
func (m *Machine) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != models.StatusPaused {
		m.logger.Warn("Resume ignored", zap.String("status", string(m.state.Status)))
		return
	}
	m.state.Status = models.StatusRunning
	m.startTickerLocked()

	m.logger.Info("Timer resumed", zap.Int64("elapsed_seconds", m.state.ElapsedSeconds))
	m.publishLocked(TransitionResume)
	m.notifier.Notify(notify.LevelInfo, "Timer resumed")
}

// Stop ends the active run. A run with elapsed time becomes a Session and
// is handed to the recorder; the machine returns to idle whatever the
// recording outcome. A run without elapsed time is discarded like Reset.
func (m *Machine) Stop() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status == models.StatusIdle {
		m.logger.Warn("Stop ignored, timer is idle")
		return nil
	}
	if m.state.ElapsedSeconds == 0 {
		m.resetLocked()
		return nil
	}

	m.stopTickerLocked()

	projectID := *m.state.ProjectID
	projectName := m.projectName(projectID)
	endedAt := m.clock.Now()
	startedAt := endedAt
	if m.state.StartedAt != nil {
		startedAt = *m.state.StartedAt
	}
	entry := recorder.Entry{
		ProjectID:      projectID,
		ProjectName:    projectName,
		Description:    m.state.Description,
		ElapsedSeconds: m.state.ElapsedSeconds,
		DurationHours:  ledger.RoundHours(float64(m.state.ElapsedSeconds) / 3600),
		Date:           endedAt.Format(models.DateLayout),
	}
	session := models.Session{
		ID:            uuid.NewString(),
		ProjectID:     projectID,
		Description:   recorder.ResolveDescription(entry.Description, projectName),
		StartedAt:     startedAt,
		EndedAt:       endedAt,
		DurationHours: entry.DurationHours,
		Date:          entry.Date,
	}
	m.ledger.Append(session)

	m.state = models.TimerState{Status: models.StatusIdle, IsWidgetVisible: m.state.IsWidgetVisible}

	m.logger.Info("Timer stopped",
		zap.Int64("project_id", projectID),
		zap.Int64("elapsed_seconds", entry.ElapsedSeconds),
		zap.Float64("hours", entry.DurationHours),
		zap.String("session_id", session.ID),
	)
	m.publishLocked(TransitionStop)
	m.recorder.Record(entry)
	return &session
}

// Reset discards any in-progress run without recording it
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Machine) resetLocked() {
	m.stopTickerLocked()
	m.state = models.TimerState{Status: models.StatusIdle, IsWidgetVisible: m.state.IsWidgetVisible}

	m.logger.Info("Timer reset")
	m.publishLocked(TransitionReset)
	m.notifier.Notify(notify.LevelInfo, "Timer reset")
}

// SetDescription edits the description before a run starts
func (m *Machine) SetDescription(description string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != models.StatusIdle {
		return &ValidationError{Field: "description", Message: "description can only be changed before the timer starts"}
	}
	m.state.Description = description
	m.publishLocked(TransitionUpdate)
	return nil
}

// SetWidgetVisible toggles the presentation flag
func (m *Machine) SetWidgetVisible(visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.IsWidgetVisible = visible
	m.publishLocked(TransitionUpdate)
}

// State returns a copy of the current state
func (m *Machine) State() models.TimerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyState(m.state)
}

// Close halts ticking without changing state, so a running timer is
// restored as running on the next start.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTickerLocked()
}

func (m *Machine) tick(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// stale callback from a cancelled ticker
	if gen != m.tickGen || m.state.Status != models.StatusRunning {
		return
	}
	m.state.ElapsedSeconds++
	m.publishLocked(TransitionTick)
}

func (m *Machine) startTickerLocked() {
	m.tickGen++
	gen := m.tickGen
	m.ticker.Start(func() { m.tick(gen) })
}

func (m *Machine) stopTickerLocked() {
	m.tickGen++
	m.ticker.Stop()
}

func (m *Machine) projectName(id int64) string {
	if p, ok := m.catalog.Lookup(id); ok {
		return p.Name
	}
	return fmt.Sprintf("project %d", id)
}

func (m *Machine) publishLocked(t Transition) {
	if len(m.listeners) == 0 {
		return
	}
	ev := Event{
		Transition: t,
		Snapshot: models.Snapshot{
			TimerState: copyState(m.state),
			Sessions:   m.ledger.Sessions(),
		},
	}
	for _, l := range m.listeners {
		l(ev)
	}
}

func copyState(s models.TimerState) models.TimerState {
	out := s
	if s.ProjectID != nil {
		id := *s.ProjectID
		out.ProjectID = &id
	}
	if s.StartedAt != nil {
		at := *s.StartedAt
		out.StartedAt = &at
	}
	return out
}
