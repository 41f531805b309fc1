package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/roiro0607-create/Between/internal/models"
	"github.com/roiro0607-create/Between/internal/repository"
)

const (
	minPasswordLength = 6
	bcryptCost        = 10
)

var (
	// ErrMissingFields is returned when a registration omits a required field
	ErrMissingFields = errors.New("email, password, name and age are required")
	// ErrPasswordTooShort is returned when a password is below the minimum length
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	// ErrInvalidCredentials is the single message for every login failure,
	// so callers cannot probe which accounts exist
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned when a bearer token is missing, malformed or expired
	ErrInvalidToken = errors.New("invalid or expired token")
)

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	Age          int
	ProfileImage string
}

// AuthService registers and authenticates users and issues bearer tokens.
type AuthService struct {
	users     repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, jwtSecret string, jwtExpiry time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		logger:    logger,
	}
}

// Register creates an account and issues a session token. The returned user
// never carries the password hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" || in.Age == 0 {
		return nil, "", ErrMissingFields
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           fmt.Sprintf("user_%s", uuid.NewString()),
		Email:        in.Email,
		Password:     string(hash),
		Name:         in.Name,
		Age:          in.Age,
		ProfileImage: in.ProfileImage,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := signToken(s.jwtSecret, user.ID, user.Email, s.jwtExpiry)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.String("user_id", user.ID), zap.Error(err))
		return nil, "", err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return user.Sanitized(), token, nil
}

// Login authenticates by email and password. Unknown email, missing record
// and password mismatch all fail with the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := signToken(s.jwtSecret, user.ID, user.Email, s.jwtExpiry)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.String("user_id", user.ID), zap.Error(err))
		return nil, "", err
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID))
	return user.Sanitized(), token, nil
}

// Verify decodes a token and returns the user id it carries. It returns an
// empty string on any failure; callers treat that as anonymous.
func (s *AuthService) Verify(token string) string {
	claims, err := parseToken(s.jwtSecret, token)
	if err != nil {
		return ""
	}
	return claims.UserID
}

// CurrentUser resolves a token to its sanitized user record. A valid token
// whose user record is gone fails with repository.ErrUserNotFound.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID := s.Verify(token)
	if userID == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// UpdateProfile merges the given fields into the token holder's record and
// stamps UpdatedAt. Email is immutable through this path.
func (s *AuthService) UpdateProfile(ctx context.Context, token string, patch *models.ProfileUpdate) (*models.User, error) {
	userID := s.Verify(token)
	if userID == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Age != nil {
		user.Age = *patch.Age
	}
	if patch.ProfileImage != nil {
		user.ProfileImage = *patch.ProfileImage
	}
	now := time.Now().UTC()
	user.UpdatedAt = &now

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated", zap.String("user_id", user.ID))
	return user.Sanitized(), nil
}

// ResetPassword rehashes and stores a new password for the given email.
// Existing tokens stay valid: there is no revocation list.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if email == "" || newPassword == "" {
		return ErrMissingFields
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return err
	}

	user.Password = string(hash)
	now := time.Now().UTC()
	user.UpdatedAt = &now

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("Password reset", zap.String("user_id", user.ID))
	return nil
}
