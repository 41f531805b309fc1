package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roiro0607-create/Between/internal/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   map[string]interface{}
}

// stubServer answers every request with the given status and payload and
// records what it saw.
func stubServer(t *testing.T, status int, payload interface{}) (*Client, *recordedRequest, func()) {
	t.Helper()
	rec := &recordedRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.Query = r.URL.RawQuery
		rec.Auth = r.Header.Get("Authorization")
		rec.Body = nil
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}))

	return New(srv.URL, zap.NewNop()), rec, srv.Close
}

func TestEventsRequestShape(t *testing.T) {
	c, rec, done := stubServer(t, http.StatusOK, []models.Event{{ID: "evt_1"}})
	defer done()

	events, err := c.Events(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, http.MethodGet, rec.Method)
	require.Equal(t, "/events", rec.Path)
	require.Empty(t, rec.Query)
	require.Empty(t, rec.Auth, "anonymous client sends no Authorization header")

	_, err = c.Events(context.Background(), "user_1")
	require.NoError(t, err)
	require.Equal(t, "creatorId=user_1", rec.Query)
}

func TestCreateEventSendsTokenWhenSet(t *testing.T) {
	c, rec, done := stubServer(t, http.StatusCreated, models.Event{ID: "evt_1", Title: "Coffee"})
	defer done()

	c.SetToken("abc")
	event, err := c.CreateEvent(context.Background(), &models.CreateEventRequest{
		Title: "Coffee", Description: "d", MaxParticipants: 3,
	})
	require.NoError(t, err)
	require.Equal(t, "evt_1", event.ID)
	require.Equal(t, http.MethodPost, rec.Method)
	require.Equal(t, "Bearer abc", rec.Auth)
	require.Equal(t, "Coffee", rec.Body["title"])
	require.Equal(t, float64(3), rec.Body["maxParticipants"])
}

func TestEventPathsAndMethods(t *testing.T) {
	c, rec, done := stubServer(t, http.StatusOK, models.Event{ID: "evt_1"})
	defer done()
	ctx := context.Background()

	_, err := c.Event(ctx, "evt_1")
	require.NoError(t, err)
	require.Equal(t, http.MethodGet, rec.Method)
	require.Equal(t, "/events/evt_1", rec.Path)

	title := "Tea"
	_, err = c.PatchEvent(ctx, "evt_1", &models.EventPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, http.MethodPatch, rec.Method)
	require.Equal(t, "Tea", rec.Body["title"])

	_, err = c.ReplaceEvent(ctx, "evt_1", &models.EventPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, rec.Method)

	require.NoError(t, c.DeleteEvent(ctx, "evt_1"))
	require.Equal(t, http.MethodDelete, rec.Method)
	require.Equal(t, "/events/evt_1", rec.Path)
}

func TestSelectApplicantRequest(t *testing.T) {
	c, rec, done := stubServer(t, http.StatusOK, SelectionResult{
		Event:       &models.Event{ID: "evt_1", SelectedApplicants: []string{"app_1"}},
		Application: &models.Application{ID: "app_1", Status: models.ApplicationStatusSelected},
	})
	defer done()

	result, err := c.SelectApplicant(context.Background(), "evt_1", "app_1")
	require.NoError(t, err)
	require.Equal(t, "/events/evt_1/select", rec.Path)
	require.Equal(t, "app_1", rec.Body["applicationId"])
	require.Equal(t, []string{"app_1"}, result.Event.SelectedApplicants)
	require.Equal(t, models.ApplicationStatusSelected, result.Application.Status)
}

func TestApplicationRequests(t *testing.T) {
	c, rec, done := stubServer(t, http.StatusOK, []models.Application{{ID: "app_1"}})
	defer done()

	apps, err := c.Applications(context.Background(), "evt_1")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Equal(t, "/applications", rec.Path)
	require.Equal(t, "eventId=evt_1", rec.Query)
}

func TestRegisterStoresToken(t *testing.T) {
	c, rec, done := stubServer(t, http.StatusCreated, AuthResponse{
		User:  &models.User{ID: "user_1", Email: "taro@example.com"},
		Token: "issued-token",
	})
	defer done()

	resp, err := c.Register(context.Background(), "taro@example.com", "secret1", "Taro", 28)
	require.NoError(t, err)
	require.Equal(t, "/auth/register", rec.Path)
	require.Equal(t, "taro@example.com", rec.Body["email"])
	require.Equal(t, "issued-token", resp.Token)
	require.Equal(t, "issued-token", c.Token(), "token retained for later calls")
}

func TestLoginStoresToken(t *testing.T) {
	c, rec, done := stubServer(t, http.StatusOK, AuthResponse{
		User:  &models.User{ID: "user_1"},
		Token: "issued-token",
	})
	defer done()

	_, err := c.Login(context.Background(), "taro@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "/auth/login", rec.Path)
	require.Equal(t, "issued-token", c.Token())
}

func TestMeAndProfile(t *testing.T) {
	c, rec, done := stubServer(t, http.StatusOK, map[string]interface{}{
		"user": models.User{ID: "user_1", Name: "Taro"},
	})
	defer done()
	c.SetToken("abc")

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "user_1", user.ID)
	require.Equal(t, "/auth/me", rec.Path)
	require.Equal(t, "Bearer abc", rec.Auth)

	name := "Renamed"
	_, err = c.UpdateProfile(context.Background(), &models.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, rec.Method)
	require.Equal(t, "/auth/profile", rec.Path)
	require.Equal(t, "Renamed", rec.Body["name"])
}

func TestAPIErrorCarriesStatusAndMessage(t *testing.T) {
	c, _, done := stubServer(t, http.StatusNotFound, map[string]string{"error": "Event not found"})
	defer done()

	_, err := c.Event(context.Background(), "evt_missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "Event not found", apiErr.Message)
	require.Contains(t, apiErr.Error(), "404")
}

func TestResetPassword(t *testing.T) {
	c, rec, done := stubServer(t, http.StatusOK, map[string]string{"message": "ok"})
	defer done()

	require.NoError(t, c.ResetPassword(context.Background(), "taro@example.com", "newsecret"))
	require.Equal(t, "/auth/reset-password", rec.Path)
	require.Equal(t, "newsecret", rec.Body["newPassword"])
}
