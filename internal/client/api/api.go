// Package api is the HTTP client wrapper for the task backend and the
// notification relay. It builds authenticated JSON requests, tags each
// with a correlation id and normalizes failures into one error shape.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/julimigwi/Task-Tracker/internal/models"
)

const requestTimeout = 10 * time.Second

// TokenSource supplies the current bearer token; an empty string means
// the request goes out unauthenticated.
type TokenSource func() string

// Client talks JSON over HTTP to one base URL.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   TokenSource
}

// New creates a Client for the given base URL. token may be nil for
// services that take no bearer token.
func New(baseURL string, token TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: requestTimeout},
		token:   token,
	}
}

// do sends one JSON request and decodes the response into out (skipped
// when out is nil). All failures come back as *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != nil {
		if t := c.token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return NetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return StatusError(resp.StatusCode, payload.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Post sends a JSON POST to path and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account and returns the created record.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login exchanges credentials for the user record and a bearer token.
// The backend contract is a dedicated login endpoint returning
// {user, token}; credentials never appear in a query string.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, string, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var resp struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return models.User{}, "", err
	}
	return resp.User, resp.Token, nil
}

// Tasks fetches every task owned by userID, in server order.
func (c *Client) Tasks(ctx context.Context, userID string) ([]models.Task, error) {
	q := url.Values{"userId": {userID}}
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", q, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask submits a new task; the backend assigns the id.
func (c *Client) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	var created models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, task, &created); err != nil {
		return models.Task{}, err
	}
	return created, nil
}

// UpdateTask patches the task with the given id and returns the
// authoritative updated record.
func (c *Client) UpdateTask(ctx context.Context, id string, patch any) (models.Task, error) {
	var updated models.Task
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+id, nil, patch, &updated); err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// UpdateStatus issues a status-only patch for the task.
func (c *Client) UpdateStatus(ctx context.Context, id string, completed bool) (models.Task, error) {
	patch := struct {
		Completed bool `json:"completed"`
	}{Completed: completed}
	return c.UpdateTask(ctx, id, patch)
}

// DeleteTask requests permanent removal of the task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+id, nil, nil, nil)
}
