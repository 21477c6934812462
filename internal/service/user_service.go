package service

import (
	"context"
	"fmt"

	"github.com/arqdesk/backoffice/internal/model"
	"github.com/arqdesk/backoffice/pkg/token"
)

// UserService covers registration, provisioning and profile maintenance.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// RegisterInput carries the fields accepted at registration time.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	NationalID *string
	Profile    string
}

// Register creates an active, non-admin user. The profile label must be one
// of the known roles; unknown labels are rejected instead of stored.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	profile := model.RoleProduction
	if in.Profile != "" {
		normalized, ok := model.NormalizeRole(in.Profile)
		if !ok {
			return nil, fmt.Errorf("%w: unknown profile %q", model.ErrBadRequest, in.Profile)
		}
		profile = normalized
	}

	hash, err := token.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:       in.Name,
		Email:      in.Email,
		Password:   hash,
		NationalID: in.NationalID,
		Profile:    profile,
		Active:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get returns one user by id.
func (s *UserService) Get(ctx context.Context, userID uint) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfileInput carries the self-service mutable fields.
type UpdateProfileInput struct {
	Name     string
	PhotoURL string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.PhotoURL != "" {
		user.PhotoURL = in.PhotoURL
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !token.CheckPassword(current, user.Password) {
		return fmt.Errorf("%w: current password does not match", model.ErrUnauthorized)
	}
	hash, err := token.HashPassword(next)
	if err != nil {
		return err
	}
	user.Password = hash
	return s.users.Update(ctx, user)
}

// Delete soft-deletes by default; permanent removes the row and memberships.
func (s *UserService) Delete(ctx context.Context, userID uint, permanent bool) error {
	return s.users.Delete(ctx, userID, permanent)
}
