// Package client is a typed HTTP client for the study planner tasks API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"studyplanner/internal/tasks"
)

// APIError carries a non-2xx response; Message is the server's error field
// when one was decodable.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// CreateRequest is the creation payload; optional fields stay nil.
type CreateRequest struct {
	Title   string      `json:"title"`
	Notes   *string     `json:"notes"`
	DueDate *tasks.Date `json:"due_date"`
}

func (c *Client) List(ctx context.Context) ([]tasks.Task, error) {
	var out []tasks.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (tasks.Task, error) {
	var out tasks.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", req, http.StatusCreated, &out); err != nil {
		return tasks.Task{}, err
	}
	return out, nil
}

// Replace sends the complete task back; the server rewrites every mutable
// field from it.
func (c *Client) Replace(ctx context.Context, t tasks.Task) (tasks.Task, error) {
	var out tasks.Task
	path := fmt.Sprintf("/tasks/%d", t.ID)
	if err := c.do(ctx, http.MethodPut, path, t, http.StatusOK, &out); err != nil {
		return tasks.Task{}, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/tasks/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, http.StatusNoContent, nil)
}

// HealthStatus mirrors the probe payload.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Error     string `json:"error,omitempty"`
}

func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, http.StatusOK, &out); err != nil {
		return HealthStatus{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
