package service

import (
	"context"
	"fmt"

	"github.com/learnbatch/learnbatch/internal/errs"
	"github.com/learnbatch/learnbatch/internal/model"
	"github.com/learnbatch/learnbatch/internal/repository"
)

// UserService defines profile operations for the authenticated caller.
type UserService interface {
	// GetByEmail returns the user record for a token identity.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdateProfile applies a sparse profile patch to the caller's record.
	// The denormalized batches are never touched by a profile update.
	UpdateProfile(ctx context.Context, email string, p model.ProfilePatch) (*model.User, error)
}

type UserServiceImpl struct {
	users repository.UserRepository
}

// NewUserService constructs UserService.
func NewUserService(users repository.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{users: users}
}

// GetByEmail loads the caller's own record.
func (s *UserServiceImpl) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// UpdateProfile patches first/last name and image URL.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, email string, p model.ProfilePatch) (*model.User, error) {
	if p.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", errs.ErrValidation)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.users.UpdateProfile(ctx, u.ID, p)
}
