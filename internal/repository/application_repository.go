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

const applicationKeyPrefix = "app:"

// ApplicationFilter narrows a listing. A zero value matches everything.
type ApplicationFilter struct {
	EventID string
}

// ApplicationRepository defines the interface for application data access.
// Applications are stored under app:<id> and are never deleted.
type ApplicationRepository interface {
	List(ctx context.Context, filter *ApplicationFilter) ([]*models.Application, error)
	Create(ctx context.Context, req *models.CreateApplicationRequest) (*models.Application, error)
	GetByID(ctx context.Context, id string) (*models.Application, error)
	Patch(ctx context.Context, id string, patch *models.ApplicationPatch) (*models.Application, error)
}

type applicationRepository struct {
	store kv.Store
	log   *zap.Logger
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(store kv.Store, log *zap.Logger) ApplicationRepository {
	return &applicationRepository{
		store: store,
		log:   log,
	}
}

func (r *applicationRepository) List(ctx context.Context, filter *ApplicationFilter) ([]*models.Application, error) {
	keys, err := r.store.Keys(ctx, applicationKeyPrefix)
	if err != nil {
		return nil, err
	}

	apps := make([]*models.Application, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, kv.ErrNotFound) {
				continue
			}
			return nil, err
		}

		app, err := decodeApplication(data)
		if err != nil {
			r.log.Warn("Skipping unreadable application record", zap.String("key", key), zap.Error(err))
			continue
		}

		if filter != nil && filter.EventID != "" && app.EventID != filter.EventID {
			continue
		}
		apps = append(apps, app)
	}

	return apps, nil
}

// Create allocates an id and persists a new pending application.
func (r *applicationRepository) Create(ctx context.Context, req *models.CreateApplicationRequest) (*models.Application, error) {
	app := &models.Application{
		ID:        fmt.Sprintf("app_%s", uuid.NewString()),
		EventID:   req.EventID,
		Name:      req.Name,
		Message:   req.Message,
		Contact:   req.Contact,
		Status:    models.ApplicationStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(app)
	if err != nil {
		return nil, err
	}
	if err := r.store.Set(ctx, applicationKeyPrefix+app.ID, string(data), 0); err != nil {
		r.log.Error("Failed to create application", zap.String("application_id", app.ID), zap.Error(err))
		return nil, err
	}

	return app, nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	data, err := r.store.Get(ctx, applicationKeyPrefix+id)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		r.log.Error("Failed to get application", zap.String("application_id", id), zap.Error(err))
		return nil, err
	}
	return decodeApplication(data)
}

// Patch merges the given fields over the stored record. The selection
// workflow uses it to flip status to "selected".
func (r *applicationRepository) Patch(ctx context.Context, id string, patch *models.ApplicationPatch) (*models.Application, error) {
	app, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		app.Status = *patch.Status
	}
	if patch.Message != nil {
		app.Message = *patch.Message
	}
	if patch.Contact != nil {
		app.Contact = *patch.Contact
	}

	data, err := json.Marshal(app)
	if err != nil {
		return nil, err
	}
	if err := r.store.Set(ctx, applicationKeyPrefix+app.ID, string(data), 0); err != nil {
		r.log.Error("Failed to update application", zap.String("application_id", id), zap.Error(err))
		return nil, err
	}

	return app, nil
}

func decodeApplication(data string) (*models.Application, error) {
	var app models.Application
	if err := json.Unmarshal([]byte(data), &app); err != nil {
		return nil, ErrCorruptRecord
	}
	if app.ID == "" || app.EventID == "" {
		return nil, ErrCorruptRecord
	}
	return &app, nil
}
