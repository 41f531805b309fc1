package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roiro0607-create/Between/internal/kv"
	"github.com/roiro0607-create/Between/internal/models"
	"github.com/roiro0607-create/Between/internal/repository"
)

type selectionFixture struct {
	svc    *SelectionService
	events repository.EventRepository
	apps   repository.ApplicationRepository
}

func newSelectionFixture(t *testing.T) *selectionFixture {
	t.Helper()
	store := kv.NewMemoryStore()
	events := repository.NewEventRepository(store, zap.NewNop())
	apps := repository.NewApplicationRepository(store, zap.NewNop())
	return &selectionFixture{
		svc:    NewSelectionService(events, apps, zap.NewNop()),
		events: events,
		apps:   apps,
	}
}

func (f *selectionFixture) event(t *testing.T, maxParticipants int) *models.Event {
	t.Helper()
	event, err := f.events.Create(context.Background(), &models.CreateEventRequest{
		Title:           "Board games",
		Description:     "d",
		MaxParticipants: maxParticipants,
	}, nil)
	require.NoError(t, err)
	return event
}

func (f *selectionFixture) application(t *testing.T, eventID string) *models.Application {
	t.Helper()
	app, err := f.apps.Create(context.Background(), &models.CreateApplicationRequest{
		EventID: eventID,
		Name:    "Hanako",
		Contact: "line:hanako",
	})
	require.NoError(t, err)
	return app
}

func TestSelectSuccess(t *testing.T) {
	ctx := context.Background()
	f := newSelectionFixture(t)

	event := f.event(t, 3)
	app := f.application(t, event.ID)

	updatedEvent, updatedApp, err := f.svc.Select(ctx, event.ID, app.ID)
	require.NoError(t, err)

	require.Equal(t, []string{app.ID}, updatedEvent.SelectedApplicants)
	require.Equal(t, models.ApplicationStatusSelected, updatedApp.Status)

	// All other fields are unchanged.
	require.Equal(t, event.Title, updatedEvent.Title)
	require.Equal(t, event.MaxParticipants, updatedEvent.MaxParticipants)
	require.Nil(t, updatedEvent.UpdatedAt)
	require.Equal(t, app.Name, updatedApp.Name)
	require.Equal(t, app.Contact, updatedApp.Contact)
	require.Equal(t, app.EventID, updatedApp.EventID)
}

func TestSelectPreservesOrder(t *testing.T) {
	ctx := context.Background()
	f := newSelectionFixture(t)

	event := f.event(t, 5)
	first := f.application(t, event.ID)
	second := f.application(t, event.ID)
	third := f.application(t, event.ID)

	for _, app := range []*models.Application{first, second, third} {
		_, _, err := f.svc.Select(ctx, event.ID, app.ID)
		require.NoError(t, err)
	}

	got, err := f.events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, []string{first.ID, second.ID, third.ID}, got.SelectedApplicants,
		"insertion order is selection order")
}

func TestSelectAtCapacityFailsWithoutWrites(t *testing.T) {
	ctx := context.Background()
	f := newSelectionFixture(t)

	event := f.event(t, 1)
	winner := f.application(t, event.ID)
	loser := f.application(t, event.ID)

	_, _, err := f.svc.Select(ctx, event.ID, winner.ID)
	require.NoError(t, err)

	_, _, err = f.svc.Select(ctx, event.ID, loser.ID)
	require.ErrorIs(t, err, ErrCapacityReached)

	// Neither record was touched by the failed attempt.
	gotEvent, err := f.events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, []string{winner.ID}, gotEvent.SelectedApplicants)

	gotApp, err := f.apps.GetByID(ctx, loser.ID)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusPending, gotApp.Status)
}

func TestSelectSameApplicationTwiceRejected(t *testing.T) {
	ctx := context.Background()
	f := newSelectionFixture(t)

	event := f.event(t, 5)
	app := f.application(t, event.ID)

	_, _, err := f.svc.Select(ctx, event.ID, app.ID)
	require.NoError(t, err)

	_, _, err = f.svc.Select(ctx, event.ID, app.ID)
	require.ErrorIs(t, err, ErrAlreadySelected)

	got, err := f.events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, []string{app.ID}, got.SelectedApplicants, "no duplicate entries")
}

func TestSelectUncappedSentinelIgnoresCapacity(t *testing.T) {
	ctx := context.Background()
	f := newSelectionFixture(t)

	event := f.event(t, models.UncappedParticipants)
	for i := 0; i < models.UncappedParticipants+1; i++ {
		app := f.application(t, event.ID)
		_, _, err := f.svc.Select(ctx, event.ID, app.ID)
		require.NoError(t, err, "selection %d should pass on an uncapped event", i+1)
	}

	got, err := f.events.GetByID(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, got.SelectedApplicants, models.UncappedParticipants+1)
}

func TestSelectUnknownRecords(t *testing.T) {
	ctx := context.Background()
	f := newSelectionFixture(t)

	event := f.event(t, 3)
	app := f.application(t, event.ID)

	_, _, err := f.svc.Select(ctx, "evt_missing", app.ID)
	require.ErrorIs(t, err, repository.ErrEventNotFound)

	_, _, err = f.svc.Select(ctx, event.ID, "app_missing")
	require.ErrorIs(t, err, repository.ErrApplicationNotFound)
}
