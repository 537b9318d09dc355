package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/learnbatch/learnbatch/internal/errs"
	"github.com/learnbatch/learnbatch/internal/model"
)

// BatchRepo implements BatchRepository using PostgreSQL. The lectures column
// is a jsonb array of embedded lecture snapshots in publication order.
type BatchRepo struct{ db *DB }

// NewBatchRepo constructs a batch repository.
func NewBatchRepo(db *DB) *BatchRepo { return &BatchRepo{db: db} }

// Create inserts a new canonical batch row.
func (r *BatchRepo) Create(ctx context.Context, b *model.Batch) error {
	const q = `
INSERT INTO batches (id, name, description, thumbnail, price, domain, lectures, is_public, published_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	lecs, err := marshalLectures(b.Lectures)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, q,
		b.ID, b.Name, b.Description, b.Thumbnail, b.Price, b.Domain, lecs, b.IsPublic, b.PublishedBy, b.CreatedAt, b.UpdatedAt)
	return err
}

// GetByID selects the canonical batch by ID.
func (r *BatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Batch, error) {
	const q = `
SELECT id, name, description, thumbnail, price, domain, lectures, is_public, published_by, created_at, updated_at
FROM batches WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)

	var (
		b   model.Batch
		raw []byte
	)
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.Thumbnail, &b.Price, &b.Domain, &raw, &b.IsPublic, &b.PublishedBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &b.Lectures); err != nil {
		return nil, fmt.Errorf("decode lectures of batch %s: %w", b.ID, err)
	}
	return &b, nil
}

// Update overwrites the canonical batch row.
func (r *BatchRepo) Update(ctx context.Context, b *model.Batch) error {
	const q = `
UPDATE batches
SET name=$2, description=$3, thumbnail=$4, price=$5, domain=$6, lectures=$7, is_public=$8, updated_at=$9
WHERE id=$1`
	lecs, err := marshalLectures(b.Lectures)
	if err != nil {
		return err
	}
	tag, err := r.db.Pool.Exec(ctx, q,
		b.ID, b.Name, b.Description, b.Thumbnail, b.Price, b.Domain, lecs, b.IsPublic, b.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// marshalLectures encodes the lecture sequence as a jsonb array, never as SQL NULL.
func marshalLectures(lectures []model.Lecture) ([]byte, error) {
	if lectures == nil {
		lectures = []model.Lecture{}
	}
	return json.Marshal(lectures)
}
