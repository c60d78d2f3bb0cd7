package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Mansoor88-6/work-timer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAPIClient_CreateTimeEntry(t *testing.T) {
	var got models.TimeEntry
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/time-entries", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL, "secret", time.Second, zap.NewNop())
	entry := models.TimeEntry{ProjectID: 7, Description: "Design review", Date: "2026-10-14", Duration: 0.03}
	require.NoError(t, c.CreateTimeEntry(context.Background(), entry))
	assert.Equal(t, entry, got)
}

func TestAPIClient_CreateTimeEntry_ErrorTypes(t *testing.T) {
	tests := []struct {
		status int
		check  func(t *testing.T, err error)
	}{
		{http.StatusUnauthorized, func(t *testing.T, err error) {
			var e *AuthError
			assert.ErrorAs(t, err, &e)
		}},
		{http.StatusTooManyRequests, func(t *testing.T, err error) {
			var e *RateLimitError
			assert.ErrorAs(t, err, &e)
		}},
		{http.StatusBadRequest, func(t *testing.T, err error) {
			var e *BadRequestError
			assert.ErrorAs(t, err, &e)
		}},
		{http.StatusBadGateway, func(t *testing.T, err error) {
			var e *BackendError
			require.ErrorAs(t, err, &e)
			assert.Equal(t, http.StatusBadGateway, e.StatusCode)
		}},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tt.status)
		}))
		c := NewAPIClient(srv.URL, "", time.Second, zap.NewNop())
		err := c.CreateTimeEntry(context.Background(), models.TimeEntry{ProjectID: 1})
		require.Error(t, err)
		tt.check(t, err)
		srv.Close()
	}
}

func TestAPIClient_CreateTimeEntry_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewAPIClient(url, "", time.Second, zap.NewNop())
	require.Error(t, c.CreateTimeEntry(context.Background(), models.TimeEntry{ProjectID: 1}))
}

func TestAPIClient_GetProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":7,"name":"Apollo"},{"id":3,"name":"Borealis"}]`))
	}))
	defer srv.Close()

	projects, err := NewAPIClient(srv.URL, "", time.Second, zap.NewNop()).GetProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Project{{ID: 7, Name: "Apollo"}, {ID: 3, Name: "Borealis"}}, projects)
}

func TestAPIClient_HealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	require.NoError(t, NewAPIClient(srv.URL, "", time.Second, zap.NewNop()).HealthCheck(context.Background()))
}
