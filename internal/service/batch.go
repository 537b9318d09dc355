package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/learnbatch/learnbatch/internal/errs"
	"github.com/learnbatch/learnbatch/internal/model"
	"github.com/learnbatch/learnbatch/internal/repository"
)

// BatchService defines batch publishing, retrieval, and the denormalization
// synchronizer that keeps embedded user copies in step with the canonical record.
type BatchService interface {
	// Create persists the lectures and the batch, then embeds the new batch
	// snapshot into the publisher's record.
	Create(ctx context.Context, in model.NewBatch) (*model.Batch, *model.User, error)
	// Get returns the canonical batch record.
	Get(ctx context.Context, id uuid.UUID) (*model.Batch, error)
	// Update appends new lectures, overwrites the batch metadata, persists the
	// canonical record, and fans the fresh snapshot out to every holder.
	Update(ctx context.Context, batchID uuid.UUID, in model.BatchUpdate) (*model.Batch, error)
	// ReconcileEmbeddedCopies refreshes the embedded snapshot of b in every
	// user record holding it and returns the IDs it managed to refresh.
	ReconcileEmbeddedCopies(ctx context.Context, b *model.Batch) ([]uuid.UUID, error)
}

type BatchServiceImpl struct {
	batches  repository.BatchRepository
	lectures repository.LectureRepository
	users    repository.UserRepository
	log      *zap.Logger
}

// NewBatchService constructs BatchService with required dependencies.
func NewBatchService(batches repository.BatchRepository, lectures repository.LectureRepository, users repository.UserRepository, log *zap.Logger) *BatchServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchServiceImpl{batches: batches, lectures: lectures, users: users, log: log}
}

// Create validates input, then writes in order: one lecture per video, the
// batch, and the snapshot appended to the publisher's record.
//
// The publisher is resolved after the lectures are written, so an unknown
// publisher aborts with the lectures already persisted and no batch record.
// That matches the observed write ordering of the platform and is kept on
// purpose; callers treat lectures as owned by a batch and never list them
// independently, so the orphans are unreachable.
func (s *BatchServiceImpl) Create(ctx context.Context, in model.NewBatch) (*model.Batch, *model.User, error) {
	if in.Name == "" || in.Description == "" || in.Domain == "" || in.Price == nil {
		return nil, nil, fmt.Errorf("%w: name, description, domain and price are required", errs.ErrValidation)
	}
	if len(in.Videos) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one video is required", errs.ErrValidation)
	}

	lectures, err := s.createLectures(ctx, in.Videos)
	if err != nil {
		return nil, nil, err
	}

	publisher, err := s.users.GetByEmail(ctx, in.PublishedBy)
	if err != nil {
		return nil, nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, nil, err
	}
	now := time.Now()
	b := &model.Batch{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Thumbnail:   in.Thumbnail,
		Price:       *in.Price,
		Domain:      in.Domain,
		Lectures:    lectures,
		IsPublic:    in.IsPublished,
		PublishedBy: publisher.FirstName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.batches.Create(ctx, b); err != nil {
		return nil, nil, err
	}

	updated, err := s.users.AppendBatch(ctx, publisher.ID, *b)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("batch created",
		zap.String("batch", b.ID.String()),
		zap.String("publisher", publisher.ID.String()),
		zap.Int("lectures", len(b.Lectures)),
	)
	return b, updated, nil
}

// Get returns the canonical copy, never a user's embedded snapshot.
func (s *BatchServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Batch, error) {
	return s.batches.GetByID(ctx, id)
}

// Update is the consistency-critical operation. Steps, in order: append-only
// lecture growth, unconditional metadata overwrite, canonical write, fan-out.
// Appending is not idempotent: repeating the same call adds the same new
// lectures again.
func (s *BatchServiceImpl) Update(ctx context.Context, batchID uuid.UUID, in model.BatchUpdate) (*model.Batch, error) {
	b, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	appended, err := s.createLectures(ctx, in.NewVideos)
	if err != nil {
		return nil, err
	}
	b.Lectures = append(b.Lectures, appended...)

	// Full overwrite, not a patch: absent input fields clear the stored value.
	b.Name = in.Name
	b.Description = in.Description
	b.Thumbnail = in.Thumbnail
	b.Price = in.Price
	b.Domain = in.Domain
	b.IsPublic = in.IsPublished
	b.UpdatedAt = time.Now()

	if err := s.batches.Update(ctx, b); err != nil {
		return nil, err
	}

	synced, err := s.ReconcileEmbeddedCopies(ctx, b)
	if err != nil {
		// The canonical write above already committed; the caller learns which
		// holders still carry a stale copy via the returned error.
		return b, err
	}

	s.log.Info("batch updated",
		zap.String("batch", b.ID.String()),
		zap.Int("appendedLectures", len(appended)),
		zap.Int("holdersSynced", len(synced)),
	)
	return b, nil
}

// ReconcileEmbeddedCopies locates every user holding a snapshot of b and
// replaces that one entry with the fresh copy. Each holder is an independent
// write, persisted before the next holder is touched; there is no wrapping
// transaction and no retry. A mid-loop failure returns a PartialSyncError
// naming the refreshed and still-stale holders.
func (s *BatchServiceImpl) ReconcileEmbeddedCopies(ctx context.Context, b *model.Batch) ([]uuid.UUID, error) {
	holders, err := s.users.FindHoldersOfBatch(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	synced := make([]uuid.UUID, 0, len(holders))
	for i, userID := range holders {
		if err := s.users.ReplaceEmbeddedBatch(ctx, userID, *b); err != nil {
			s.log.Error("embedded copy refresh failed",
				zap.String("batch", b.ID.String()),
				zap.String("user", userID.String()),
				zap.Int("refreshed", len(synced)),
				zap.Int("stale", len(holders)-i),
				zap.Error(err),
			)
			return synced, &errs.PartialSyncError{
				BatchID:   b.ID,
				Synced:    synced,
				Remaining: holders[i:],
				Err:       err,
			}
		}
		synced = append(synced, userID)
	}
	return synced, nil
}

// createLectures persists one lecture per video, preserving input order.
func (s *BatchServiceImpl) createLectures(ctx context.Context, videos []model.NewVideo) ([]model.Lecture, error) {
	lectures := make([]model.Lecture, 0, len(videos))
	for i, v := range videos {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}
		l := model.Lecture{
			ID:        id,
			Name:      v.Title,
			Length:    v.LengthText(),
			Link:      v.VideoURL,
			IsFree:    v.IsFree,
			CreatedAt: time.Now(),
		}
		if err := s.lectures.Create(ctx, &l); err != nil {
			return nil, fmt.Errorf("video[%d]: %w", i, err)
		}
		lectures = append(lectures, l)
	}
	return lectures, nil
}
