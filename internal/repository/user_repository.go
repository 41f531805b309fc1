package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/roiro0607-create/Between/internal/kv"
	"github.com/roiro0607-create/Between/internal/models"
)

const (
	userKeyPrefix  = "user:"
	emailKeyPrefix = "user:email:"
)

// UserRepository defines the interface for user data access. Users are
// stored under user:<id> with a secondary index user:email:<email> -> id
// that enforces email uniqueness.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type userRepository struct {
	store kv.Store
	log   *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(store kv.Store, log *zap.Logger) UserRepository {
	return &userRepository{
		store: store,
		log:   log,
	}
}

// Create persists a new user and its email index entry. It fails with
// ErrEmailAlreadyExists when the email index already maps to a user.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	_, err := r.store.Get(ctx, emailKeyPrefix+user.Email)
	if err == nil {
		return ErrEmailAlreadyExists
	}
	if !errors.Is(err, kv.ErrNotFound) {
		r.log.Error("Failed to check email index", zap.String("email", user.Email), zap.Error(err))
		return err
	}

	user.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	if err := r.store.Set(ctx, userKeyPrefix+user.ID, string(data), 0); err != nil {
		r.log.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return err
	}
	if err := r.store.Set(ctx, emailKeyPrefix+user.Email, user.ID, 0); err != nil {
		r.log.Error("Failed to write email index", zap.String("email", user.Email), zap.Error(err))
		return err
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	data, err := r.store.Get(ctx, userKeyPrefix+id)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		r.log.Error("Failed to get user by ID", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return decodeUser(data)
}

// GetByEmail resolves the email index and loads the user record behind it.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := r.store.Get(ctx, emailKeyPrefix+email)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		r.log.Error("Failed to resolve email index", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Update overwrites the stored user record. The email index is left alone:
// email is immutable once registered.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, userKeyPrefix+user.ID, string(data), 0); err != nil {
		r.log.Error("Failed to update user", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	return nil
}

func decodeUser(data string) (*models.User, error) {
	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, ErrCorruptRecord
	}
	if user.ID == "" || user.Email == "" {
		return nil, ErrCorruptRecord
	}
	return &user, nil
}
