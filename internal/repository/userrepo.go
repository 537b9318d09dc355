// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/learnbatch/learnbatch/internal/model"
)

// UserRepository provides access to user records, including the denormalized
// batch snapshots they carry.
type UserRepository interface {
	// Create inserts a new user. Returns errs.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdateProfile applies a sparse profile patch and returns the updated user.
	UpdateProfile(ctx context.Context, id uuid.UUID, p model.ProfilePatch) (*model.User, error)
	// AppendBatch appends one batch snapshot to the user's batches and returns the updated user.
	AppendBatch(ctx context.Context, userID uuid.UUID, b model.Batch) (*model.User, error)
	// FindHoldersOfBatch returns the IDs of every user whose batches contain an
	// entry with the given batch ID.
	FindHoldersOfBatch(ctx context.Context, batchID uuid.UUID) ([]uuid.UUID, error)
	// ReplaceEmbeddedBatch swaps the single entry matching b.ID inside one
	// user's batches for the given snapshot, leaving other entries untouched.
	ReplaceEmbeddedBatch(ctx context.Context, userID uuid.UUID, b model.Batch) error
}
