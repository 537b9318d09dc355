package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/learnbatch/learnbatch/internal/model"
)

// BatchRepository stores canonical batch records.
type BatchRepository interface {
	// Create inserts a new batch with its embedded lecture sequence.
	Create(ctx context.Context, b *model.Batch) error
	// GetByID loads the canonical batch record.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Batch, error)
	// Update overwrites the canonical batch record.
	Update(ctx context.Context, b *model.Batch) error
}

// LectureRepository stores individual lecture records. Lectures are written
// once, alongside batch creation or update, and never modified.
type LectureRepository interface {
	// Create inserts a new lecture.
	Create(ctx context.Context, l *model.Lecture) error
}
