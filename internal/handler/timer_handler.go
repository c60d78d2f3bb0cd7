package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"Mansoor88-6/work-timer/internal/catalog"
	"Mansoor88-6/work-timer/internal/format"
	"Mansoor88-6/work-timer/internal/ledger"
	"Mansoor88-6/work-timer/internal/models"
	"Mansoor88-6/work-timer/internal/notify"
	"Mansoor88-6/work-timer/internal/timer"

	"go.uber.org/zap"
)

// TimerHandler exposes the timer's user actions over HTTP
type TimerHandler struct {
	machine *timer.Machine
	ledger  *ledger.Ledger
	catalog *catalog.Catalog
	feed    *notify.Feed
	logger  *zap.Logger
}

func NewTimerHandler(machine *timer.Machine, ledger *ledger.Ledger, catalog *catalog.Catalog, feed *notify.Feed, logger *zap.Logger) *TimerHandler {
	return &TimerHandler{
		machine: machine,
		ledger:  ledger,
		catalog: catalog,
		feed:    feed,
		logger:  logger,
	}
}

// TimerView is the timer state as shown to the UI
type TimerView struct {
	models.TimerState
	ProjectName string `json:"projectName,omitempty"`
	Elapsed     string `json:"elapsed"`
}

type StartRequest struct {
	ProjectID   int64  `json:"projectId"`
	Description string `json:"description"`
}

type DescriptionRequest struct {
	Description string `json:"description"`
}

type WidgetRequest struct {
	Visible bool `json:"visible"`
}

type SessionsResponse struct {
	Sessions   []models.Session `json:"sessions"`
	TodayHours float64          `json:"todayHours"`
	WeekHours  float64          `json:"weekHours"`
}

type StopResponse struct {
	Timer   TimerView       `json:"timer"`
	Session *models.Session `json:"session,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (h *TimerHandler) GetTimer(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.view())
}

func (h *TimerHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode request", zap.Error(err))
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.machine.Start(req.ProjectID, req.Description); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.view())
}

func (h *TimerHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.machine.Pause()
	h.writeJSON(w, http.StatusOK, h.view())
}

func (h *TimerHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.machine.Resume()
	h.writeJSON(w, http.StatusOK, h.view())
}

func (h *TimerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	session := h.machine.Stop()
	h.writeJSON(w, http.StatusOK, StopResponse{Timer: h.view(), Session: session})
}

func (h *TimerHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.machine.Reset()
	h.writeJSON(w, http.StatusOK, h.view())
}

func (h *TimerHandler) SetDescription(w http.ResponseWriter, r *http.Request) {
	var req DescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	if err := h.machine.SetDescription(req.Description); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.view())
}

func (h *TimerHandler) SetWidget(w http.ResponseWriter, r *http.Request) {
	var req WidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	h.machine.SetWidgetVisible(req.Visible)
	h.writeJSON(w, http.StatusOK, h.view())
}

func (h *TimerHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, SessionsResponse{
		Sessions:   h.ledger.Sessions(),
		TodayHours: h.ledger.TodaysTotal(),
		WeekHours:  h.ledger.WeekTotal(),
	})
}

func (h *TimerHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.catalog.GetAll())
}

func (h *TimerHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.feed.Recent())
}

func (h *TimerHandler) view() TimerView {
	st := h.machine.State()
	v := TimerView{TimerState: st, Elapsed: format.Duration(st.ElapsedSeconds)}
	if st.ProjectID != nil {
		if p, ok := h.catalog.Lookup(*st.ProjectID); ok {
			v.ProjectName = p.Name
		}
	}
	return v
}

func (h *TimerHandler) writeError(w http.ResponseWriter, err error) {
	var verr *timer.ValidationError
	if errors.As(err, &verr) {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
		return
	}
	h.logger.Error("Timer request failed", zap.Error(err))
	h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal error"})
}

func (h *TimerHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Failed to encode response", zap.Error(err))
	}
}
