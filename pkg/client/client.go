// Package client is an HTTP facade over the Between REST API. The view
// router and the terminal front-end go through it for every data operation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/roiro0607-create/Between/internal/models"
)

// AuthResponse is the payload returned by register and login.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// SelectionResult holds both records updated by a selection.
type SelectionResult struct {
	Event       *models.Event       `json:"event"`
	Application *models.Application `json:"application"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// Client talks to a Between server. It is safe for sequential use; the view
// router drives it from a single goroutine.
type Client struct {
	baseURL string
	client  *http.Client
	token   string
	logger  *zap.Logger
}

// New creates a client for the given server base URL.
func New(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// SetToken stores the bearer token attached to subsequent requests.
// An empty token makes the client anonymous again.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the stored bearer token.
func (c *Client) Token() string {
	return c.token
}

func (c *Client) Events(ctx context.Context, creatorID string) ([]models.Event, error) {
	path := "/events"
	if creatorID != "" {
		path += "?creatorId=" + url.QueryEscape(creatorID)
	}
	var events []models.Event
	if err := c.do(ctx, http.MethodGet, path, nil, &events, http.StatusOK); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) CreateEvent(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, http.MethodPost, "/events", req, &event, http.StatusCreated); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) Event(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, http.MethodGet, "/events/"+url.PathEscape(id), nil, &event, http.StatusOK); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) PatchEvent(ctx context.Context, id string, patch *models.EventPatch) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, http.MethodPatch, "/events/"+url.PathEscape(id), patch, &event, http.StatusOK); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) ReplaceEvent(ctx context.Context, id string, patch *models.EventPatch) (*models.Event, error) {
	var event models.Event
	if err := c.do(ctx, http.MethodPut, "/events/"+url.PathEscape(id), patch, &event, http.StatusOK); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil, nil, http.StatusOK)
}

func (c *Client) SelectApplicant(ctx context.Context, eventID, applicationID string) (*SelectionResult, error) {
	body := map[string]string{"applicationId": applicationID}
	var result SelectionResult
	if err := c.do(ctx, http.MethodPost, "/events/"+url.PathEscape(eventID)+"/select", body, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Applications(ctx context.Context, eventID string) ([]models.Application, error) {
	path := "/applications"
	if eventID != "" {
		path += "?eventId=" + url.QueryEscape(eventID)
	}
	var apps []models.Application
	if err := c.do(ctx, http.MethodGet, path, nil, &apps, http.StatusOK); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *Client) CreateApplication(ctx context.Context, req *models.CreateApplicationRequest) (*models.Application, error) {
	var app models.Application
	if err := c.do(ctx, http.MethodPost, "/applications", req, &app, http.StatusCreated); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) Application(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	if err := c.do(ctx, http.MethodGet, "/applications/"+url.PathEscape(id), nil, &app, http.StatusOK); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) PatchApplication(ctx context.Context, id string, patch *models.ApplicationPatch) (*models.Application, error) {
	var app models.Application
	if err := c.do(ctx, http.MethodPatch, "/applications/"+url.PathEscape(id), patch, &app, http.StatusOK); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) Register(ctx context.Context, email, password, name string, age int) (*AuthResponse, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"name":     name,
		"age":      age,
	}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, patch *models.ProfileUpdate) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/auth/profile", patch, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) error {
	body := map[string]string{"email": email, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", body, nil, http.StatusOK)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, wantStatus int) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		c.logger.Error("Server returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &APIError{Status: resp.StatusCode, Message: errBody.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.logger.Error("Failed to decode response", zap.String("path", path), zap.Error(err))
			return err
		}
	}
	return nil
}
