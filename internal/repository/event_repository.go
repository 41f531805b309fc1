package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roiro0607-create/Between/internal/kv"
	"github.com/roiro0607-create/Between/internal/models"
)

const eventKeyPrefix = "event:"

// AnonymousEventTTL is how long an event created without an authenticated
// session survives in the store.
const AnonymousEventTTL = 7 * 24 * time.Hour

// EventFilter narrows a listing. A zero value matches everything.
type EventFilter struct {
	CreatorID string
}

// EventRepository defines the interface for event data access. Events are
// stored under event:<id>.
type EventRepository interface {
	List(ctx context.Context, filter *EventFilter) ([]*models.Event, error)
	Create(ctx context.Context, req *models.CreateEventRequest, creatorID *string) (*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Patch(ctx context.Context, id string, patch *models.EventPatch) (*models.Event, error)
	Replace(ctx context.Context, id string, patch *models.EventPatch) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}

type eventRepository struct {
	store kv.Store
	log   *zap.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(store kv.Store, log *zap.Logger) EventRepository {
	return &eventRepository{
		store: store,
		log:   log,
	}
}

// List scans all event keys. Entries that disappear mid-scan (expired
// anonymous events) or fail to parse are skipped, not fatal. No ordering is
// guaranteed; callers sort for display.
func (r *eventRepository) List(ctx context.Context, filter *EventFilter) ([]*models.Event, error) {
	keys, err := r.store.Keys(ctx, eventKeyPrefix)
	if err != nil {
		return nil, err
	}

	events := make([]*models.Event, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				continue
			}
			return nil, err
		}

		event, err := decodeEvent(data)
		if err != nil {
			r.log.Warn("Skipping unreadable event record", zap.String("key", key), zap.Error(err))
			continue
		}

		if filter != nil && filter.CreatorID != "" {
			if event.CreatorID == nil || *event.CreatorID != filter.CreatorID {
				continue
			}
		}
		events = append(events, event)
	}

	return events, nil
}

// Create allocates an id and persists a new open event. A nil creatorID
// marks the event anonymous and stores it with a seven-day expiry.
func (r *eventRepository) Create(ctx context.Context, req *models.CreateEventRequest, creatorID *string) (*models.Event, error) {
	event := &models.Event{
		ID:                 fmt.Sprintf("evt_%s", uuid.NewString()),
		Title:              req.Title,
		Description:        req.Description,
		Date:               req.Date,
		Location:           req.Location,
		MaxParticipants:    req.MaxParticipants,
		Deadline:           req.Deadline,
		CreatorID:          creatorID,
		IsAnonymous:        creatorID == nil,
		Status:             models.EventStatusOpen,
		SelectedApplicants: []string{},
		CreatedAt:          time.Now().UTC(),
	}

	var ttl time.Duration
	if event.IsAnonymous {
		ttl = AnonymousEventTTL
	}

	if err := r.persist(ctx, event, ttl); err != nil {
		r.log.Error("Failed to create event", zap.String("event_id", event.ID), zap.Error(err))
		return nil, err
	}

	return event, nil
}

// GetByID retrieves an event by its ID
func (r *eventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	data, err := r.store.Get(ctx, eventKeyPrefix+id)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		r.log.Error("Failed to get event", zap.String("event_id", id), zap.Error(err))
		return nil, err
	}
	return decodeEvent(data)
}

// Patch merges the given fields over the stored record without stamping
// UpdatedAt. Used for incremental updates such as appending a selection.
func (r *eventRepository) Patch(ctx context.Context, id string, patch *models.EventPatch) (*models.Event, error) {
	event, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyEventPatch(event, patch)

	if err := r.save(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Replace merges the given fields and stamps UpdatedAt. Used for
// organizer-initiated edits.
func (r *eventRepository) Replace(ctx context.Context, id string, patch *models.EventPatch) (*models.Event, error) {
	event, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyEventPatch(event, patch)
	now := time.Now().UTC()
	event.UpdatedAt = &now

	if err := r.save(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes the event record. It does not cascade to applications.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, eventKeyPrefix+id); err != nil {
		r.log.Error("Failed to delete event", zap.String("event_id", id), zap.Error(err))
		return err
	}
	return nil
}

// save rewrites an existing record, carrying over whatever expiry the entry
// had so that updating an anonymous event does not make it permanent.
func (r *eventRepository) save(ctx context.Context, event *models.Event) error {
	ttl, err := r.store.TTL(ctx, eventKeyPrefix+event.ID)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	if err := r.persist(ctx, event, ttl); err != nil {
		r.log.Error("Failed to save event", zap.String("event_id", event.ID), zap.Error(err))
		return err
	}
	return nil
}

func (r *eventRepository) persist(ctx context.Context, event *models.Event, ttl time.Duration) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, eventKeyPrefix+event.ID, string(data), ttl)
}

func applyEventPatch(event *models.Event, patch *models.EventPatch) {
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Date != nil {
		event.Date = *patch.Date
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.MaxParticipants != nil {
		event.MaxParticipants = *patch.MaxParticipants
	}
	if patch.Deadline != nil {
		event.Deadline = patch.Deadline
	}
	if patch.Status != nil {
		event.Status = *patch.Status
	}
	if patch.SelectedApplicants != nil {
		event.SelectedApplicants = *patch.SelectedApplicants
	}
}

func decodeEvent(data string) (*models.Event, error) {
	var event models.Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, ErrCorruptRecord
	}
	if event.ID == "" {
		return nil, ErrCorruptRecord
	}
	if event.SelectedApplicants == nil {
		event.SelectedApplicants = []string{}
	}
	return &event, nil
}
