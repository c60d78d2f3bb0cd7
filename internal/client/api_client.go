package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"Mansoor88-6/work-timer/internal/models"

	"go.uber.org/zap"
)

// APIClient handles communication with the backend API
type APIClient struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// CreateTimeEntry submits one time-log record to the backend
func (c *APIClient) CreateTimeEntry(ctx context.Context, entry models.TimeEntry) error {
	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal time entry: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/time-entries", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		c.logger.Error("Failed to send time entry",
			zap.Error(err),
			zap.Int64("project_id", entry.ProjectID),
			zap.Duration("duration", duration),
		)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Info("Time entry sent successfully",
			zap.Int64("project_id", entry.ProjectID),
			zap.Float64("hours", entry.Duration),
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("duration", duration),
		)
		return nil
	}

	return c.statusError(resp.StatusCode, body)
}

// GetProjects fetches the selectable project list
func (c *APIClient) GetProjects(ctx context.Context) ([]models.Project, error) {
	url := fmt.Sprintf("%s/api/v1/projects", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp.StatusCode, body)
	}

	var projects []models.Project
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return projects, nil
}

// HealthCheck checks if the backend is reachable
func (c *APIClient) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *APIClient) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *APIClient) statusError(statusCode int, body []byte) error {
	errMsg := fmt.Sprintf("backend returned status %d: %s", statusCode, string(body))

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.Error("Authentication failed",
			zap.Int("status_code", statusCode),
			zap.String("response", string(body)),
		)
		return &AuthError{Message: errMsg, StatusCode: statusCode}
	case http.StatusTooManyRequests:
		c.logger.Warn("Rate limited",
			zap.Int("status_code", statusCode),
		)
		return &RateLimitError{Message: errMsg, StatusCode: statusCode}
	case http.StatusBadRequest:
		c.logger.Error("Invalid request",
			zap.Int("status_code", statusCode),
			zap.String("response", string(body)),
		)
		return &BadRequestError{Message: errMsg, StatusCode: statusCode}
	default:
		c.logger.Error("Backend error",
			zap.Int("status_code", statusCode),
			zap.String("response", string(body)),
		)
		return &BackendError{Message: errMsg, StatusCode: statusCode}
	}
}

// Error types
type AuthError struct {
	Message    string
	StatusCode int
}

func (e *AuthError) Error() string {
	return e.Message
}

type RateLimitError struct {
	Message    string
	StatusCode int
}

func (e *RateLimitError) Error() string {
	return e.Message
}

type BadRequestError struct {
	Message    string
	StatusCode int
}

func (e *BadRequestError) Error() string {
	return e.Message
}

type BackendError struct {
	Message    string
	StatusCode int
}

func (e *BackendError) Error() string {
	return e.Message
}
