// Package view is the single-page state machine behind the Between
// front-end. It holds the current view, the session and cached lists, and
// delegates every data operation to the API facade.
package view

import (
	"context"
	"net/url"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/roiro0607-create/Between/internal/models"
	"github.com/roiro0607-create/Between/pkg/client"
)

// View names one screen of the application.
type View string

const (
	ViewHome               View = "home"
	ViewCreate             View = "create"
	ViewApply              View = "apply"
	ViewEventDetail        View = "event-detail"
	ViewApplicationSuccess View = "application-success"
	ViewLogin              View = "login"
	ViewRegister           View = "register"
	ViewProfile            View = "profile"
)

// API is the slice of the client facade the router needs. Tests substitute
// a fake.
type API interface {
	Events(ctx context.Context, creatorID string) ([]models.Event, error)
	Event(ctx context.Context, id string) (*models.Event, error)
	CreateEvent(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error)
	Applications(ctx context.Context, eventID string) ([]models.Application, error)
	CreateApplication(ctx context.Context, req *models.CreateApplicationRequest) (*models.Application, error)
	SelectApplicant(ctx context.Context, eventID, applicationID string) (*client.SelectionResult, error)
	Register(ctx context.Context, email, password, name string, age int) (*client.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*client.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, patch *models.ProfileUpdate) (*models.User, error)
	SetToken(token string)
}

// Session is the explicit authentication state threaded through the router.
// There is no ambient current-user singleton.
type Session struct {
	Token string
	User  *models.User
}

// Router is a single-process state machine over named views. It caches the
// lists it has fetched for display only; the store remains the source of
// truth.
type Router struct {
	api    API
	logger *zap.Logger
	now    func() time.Time

	mu           sync.Mutex
	view         View
	session      Session
	events       []models.Event
	applications []models.Application
	current      *models.Event
}

// NewRouter creates a router showing the home view.
func NewRouter(api API, logger *zap.Logger) *Router {
	return &Router{
		api:    api,
		logger: logger,
		now:    time.Now,
		view:   ViewHome,
	}
}

// Start processes the two load-time side inputs: an event=<id> query
// parameter routes directly to the apply view, and a stored token kicks off
// an identity check that fills the session without blocking the initial
// render.
func (r *Router) Start(ctx context.Context, query url.Values, storedToken string) error {
	if storedToken != "" {
		r.api.SetToken(storedToken)
		r.mu.Lock()
		r.session.Token = storedToken
		r.mu.Unlock()

		go func() {
			user, err := r.api.Me(ctx)
			if err != nil {
				r.logger.Warn("Stored token did not resolve to a user", zap.Error(err))
				return
			}
			r.mu.Lock()
			r.session.User = user
			r.mu.Unlock()
		}()
	}

	if eventID := query.Get("event"); eventID != "" {
		event, err := r.api.Event(ctx, eventID)
		if err != nil {
			r.logger.Warn("Deep-linked event not found", zap.String("event_id", eventID), zap.Error(err))
			return r.GoHome(ctx)
		}
		r.mu.Lock()
		r.current = event
		r.view = ViewApply
		r.mu.Unlock()
		return nil
	}

	return r.GoHome(ctx)
}

// GoHome fetches the event list and shows the home view. Events are sorted
// by creation time, newest first, and carry their derived status.
func (r *Router) GoHome(ctx context.Context) error {
	events, err := r.api.Events(ctx, "")
	if err != nil {
		return err
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	now := r.now()
	for i := range events {
		events[i].Status = models.DeriveStatus(&events[i], now)
	}

	r.mu.Lock()
	r.events = events
	r.view = ViewHome
	r.mu.Unlock()
	return nil
}

// GoCreate shows the event creation form.
func (r *Router) GoCreate() {
	r.setView(ViewCreate)
}

// CreateEvent submits a new event and jumps to its detail view.
func (r *Router) CreateEvent(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	event, err := r.api.CreateEvent(ctx, req)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.current = event
	r.applications = nil
	r.view = ViewEventDetail
	r.mu.Unlock()
	return event, nil
}

// OpenEvent shows the detail view for an event, re-fetching its
// applications.
func (r *Router) OpenEvent(ctx context.Context, id string) error {
	event, err := r.api.Event(ctx, id)
	if err != nil {
		return err
	}
	apps, err := r.api.Applications(ctx, id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.current = event
	r.applications = apps
	r.view = ViewEventDetail
	r.mu.Unlock()
	return nil
}

// GoApply shows the application form for an event.
func (r *Router) GoApply(ctx context.Context, eventID string) error {
	event, err := r.api.Event(ctx, eventID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.current = event
	r.view = ViewApply
	r.mu.Unlock()
	return nil
}

// Apply submits an application for the current event and shows the success
// view.
func (r *Router) Apply(ctx context.Context, req *models.CreateApplicationRequest) (*models.Application, error) {
	app, err := r.api.CreateApplication(ctx, req)
	if err != nil {
		return nil, err
	}
	r.setView(ViewApplicationSuccess)
	return app, nil
}

// SelectApplicant admits an application to the current event and refreshes
// the cached copies of both records.
func (r *Router) SelectApplicant(ctx context.Context, applicationID string) error {
	r.mu.Lock()
	current := r.current
	r.mu.Unlock()
	if current == nil {
		return &client.APIError{Status: 404, Message: "no event open"}
	}

	result, err := r.api.SelectApplicant(ctx, current.ID, applicationID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.current = result.Event
	for i := range r.applications {
		if r.applications[i].ID == result.Application.ID {
			r.applications[i] = *result.Application
		}
	}
	r.mu.Unlock()
	return nil
}

// GoLogin shows the login form.
func (r *Router) GoLogin() {
	r.setView(ViewLogin)
}

// Login authenticates, fills the session and returns to home.
func (r *Router) Login(ctx context.Context, email, password string) error {
	resp, err := r.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.session = Session{Token: resp.Token, User: resp.User}
	r.mu.Unlock()
	return r.GoHome(ctx)
}

// GoRegister shows the registration form.
func (r *Router) GoRegister() {
	r.setView(ViewRegister)
}

// Register creates an account, fills the session and returns to home.
func (r *Router) Register(ctx context.Context, email, password, name string, age int) error {
	resp, err := r.api.Register(ctx, email, password, name, age)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.session = Session{Token: resp.Token, User: resp.User}
	r.mu.Unlock()
	return r.GoHome(ctx)
}

// GoProfile shows the profile view, or the login form when there is no
// session.
func (r *Router) GoProfile() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session.User == nil {
		r.view = ViewLogin
		return
	}
	r.view = ViewProfile
}

// UpdateProfile saves profile changes and refreshes the session user.
func (r *Router) UpdateProfile(ctx context.Context, patch *models.ProfileUpdate) error {
	user, err := r.api.UpdateProfile(ctx, patch)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.session.User = user
	r.mu.Unlock()
	return nil
}

// View returns the current view.
func (r *Router) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// Session returns a copy of the current session.
func (r *Router) Session() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Events returns the cached event list.
func (r *Router) Events() []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Applications returns the cached applications for the open event.
func (r *Router) Applications() []models.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Application, len(r.applications))
	copy(out, r.applications)
	return out
}

// CurrentEvent returns the event open in the detail or apply view.
func (r *Router) CurrentEvent() *models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) setView(v View) {
	r.mu.Lock()
	r.view = v
	r.mu.Unlock()
}
