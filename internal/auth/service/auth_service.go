package service

import (
	"context"
	"errors"

	"github.com/moto-tune/suspension-backend/internal/auth/domain"
)

// UserStore is implemented by repository.UserRepository.
type UserStore interface {
	GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, uid string) error
}

type AuthService struct {
	userRepo UserStore
}

func NewAuthService(userRepo UserStore) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// GetUserByFirebaseUID retrieves a user by Firebase UID
func (s *AuthService) GetUserByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	return s.userRepo.GetByFirebaseUID(ctx, uid)
}

// SyncUser creates or updates a user from Firebase Auth data
func (s *AuthService) SyncUser(ctx context.Context, req *domain.SyncUserRequest) (*domain.User, error) {
	if req.Level != "" && !domain.ValidLevel(req.Level) {
		return nil, domain.ErrInvalidLevel
	}

	existingUser, err := s.userRepo.GetByFirebaseUID(ctx, req.FirebaseUID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if existingUser != nil {
		// Preserve existing data if not provided in request
		if req.DisplayName != nil {
			existingUser.DisplayName = req.DisplayName
		}
		if req.PhotoURL != nil {
			existingUser.PhotoURL = req.PhotoURL
		}
		if req.Level != "" {
			existingUser.Level = req.Level
		}
		existingUser.Preferences = mergePreferences(existingUser.Preferences, req.Preferences)

		if err := s.userRepo.Update(ctx, existingUser); err != nil {
			return nil, err
		}
		return existingUser, nil
	}

	user := &domain.User{
		FirebaseUID: req.FirebaseUID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		Level:       req.Level,
		Preferences: mergePreferences(nil, req.Preferences),
	}
	if user.Level == "" {
		user.Level = domain.LevelIntermediate
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateUser updates user information
func (s *AuthService) UpdateUser(ctx context.Context, uid string, req *domain.UpdateUserRequest) (*domain.User, error) {
	if req.Level != nil && !domain.ValidLevel(*req.Level) {
		return nil, domain.ErrInvalidLevel
	}

	user, err := s.userRepo.GetByFirebaseUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = req.DisplayName
	}
	if req.PhotoURL != nil {
		user.PhotoURL = req.PhotoURL
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Level != nil {
		user.Level = *req.Level
	}
	if req.RiderWeightKg != nil {
		user.RiderWeightKg = req.RiderWeightKg
	}
	user.Preferences = mergePreferences(user.Preferences, req.Preferences)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// RecordLogin updates the last login timestamp
func (s *AuthService) RecordLogin(ctx context.Context, uid string) error {
	return s.userRepo.UpdateLastLogin(ctx, uid)
}

// mergePreferences never overwrites keys that are absent from incoming.
func mergePreferences(existing, incoming map[string]interface{}) map[string]interface{} {
	if existing == nil {
		existing = make(map[string]interface{})
	}
	for k, v := range incoming {
		existing[k] = v
	}
	return existing
}
