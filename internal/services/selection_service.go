package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/roiro0607-create/Between/internal/models"
	"github.com/roiro0607-create/Between/internal/repository"
)

var (
	// ErrCapacityReached is returned when an event's selected applicants
	// already fill its capacity
	ErrCapacityReached = errors.New("event is at capacity")
	// ErrAlreadySelected is returned when an application was already selected
	// for the event
	ErrAlreadySelected = errors.New("application already selected for this event")
)

// SelectionService admits applications to events, bounded by event capacity.
type SelectionService struct {
	events repository.EventRepository
	apps   repository.ApplicationRepository
	logger *zap.Logger
}

// NewSelectionService creates a new SelectionService.
func NewSelectionService(events repository.EventRepository, apps repository.ApplicationRepository, logger *zap.Logger) *SelectionService {
	return &SelectionService{
		events: events,
		apps:   apps,
		logger: logger,
	}
}

// Select appends the application to the event's selected list and flips the
// application status to "selected". An application can only be selected once
// per event, and selection past capacity is rejected unless the event
// carries the uncapped sentinel.
//
// The two writes are independent: a failure between them leaves the records
// partially updated. There is no cross-record transaction in the store.
func (s *SelectionService) Select(ctx context.Context, eventID, applicationID string) (*models.Event, *models.Application, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.apps.GetByID(ctx, applicationID); err != nil {
		return nil, nil, err
	}

	for _, id := range event.SelectedApplicants {
		if id == applicationID {
			return nil, nil, ErrAlreadySelected
		}
	}

	if event.MaxParticipants != models.UncappedParticipants && len(event.SelectedApplicants) >= event.MaxParticipants {
		return nil, nil, ErrCapacityReached
	}

	selected := make([]string, 0, len(event.SelectedApplicants)+1)
	selected = append(selected, event.SelectedApplicants...)
	selected = append(selected, applicationID)

	updatedEvent, err := s.events.Patch(ctx, eventID, &models.EventPatch{SelectedApplicants: &selected})
	if err != nil {
		return nil, nil, err
	}

	status := models.ApplicationStatusSelected
	updatedApp, err := s.apps.Patch(ctx, applicationID, &models.ApplicationPatch{Status: &status})
	if err != nil {
		s.logger.Error("Event updated but application status write failed",
			zap.String("event_id", eventID),
			zap.String("application_id", applicationID),
			zap.Error(err))
		return nil, nil, err
	}

	s.logger.Info("Applicant selected",
		zap.String("event_id", eventID),
		zap.String("application_id", applicationID),
		zap.Int("selected_count", len(updatedEvent.SelectedApplicants)))

	return updatedEvent, updatedApp, nil
}
