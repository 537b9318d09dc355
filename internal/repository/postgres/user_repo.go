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

// UserRepo implements UserRepository using PostgreSQL. The batches column is a
// jsonb array holding full batch snapshots, mirroring the embedded-document
// layout of the user record.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, first_name, last_name, email, pwd_hash, image_url, role, batches, created_at`

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, first_name, last_name, email, pwd_hash, image_url, role, batches)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	snap, err := marshalBatches(u.Batches)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx, q, u.ID, u.FirstName, u.LastName, u.Email, u.PwdHash, u.ImageURL, string(u.Role), snap)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByEmail selects a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.db.Pool.QueryRow(ctx, q, email))
}

// UpdateProfile overwrites only the patched profile fields; batches and
// credentials are untouched.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, p model.ProfilePatch) (*model.User, error) {
	const q = `
UPDATE users
SET first_name = COALESCE($2, first_name),
    last_name  = COALESCE($3, last_name),
    image_url  = COALESCE($4, image_url)
WHERE id = $1
RETURNING ` + userColumns
	return scanUser(r.db.Pool.QueryRow(ctx, q, id, p.FirstName, p.LastName, p.ImageURL))
}

// AppendBatch appends one batch snapshot to the end of the user's batches array.
func (r *UserRepo) AppendBatch(ctx context.Context, userID uuid.UUID, b model.Batch) (*model.User, error) {
	const q = `
UPDATE users SET batches = batches || $2
WHERE id = $1
RETURNING ` + userColumns
	snap, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return scanUser(r.db.Pool.QueryRow(ctx, q, userID, snap))
}

// FindHoldersOfBatch returns IDs of all users holding an embedded copy of the batch.
func (r *UserRepo) FindHoldersOfBatch(ctx context.Context, batchID uuid.UUID) ([]uuid.UUID, error) {
	const q = `SELECT id FROM users WHERE batches @> $1 ORDER BY created_at, id`
	probe, err := json.Marshal([]map[string]string{{"id": batchID.String()}})
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Pool.Query(ctx, q, probe)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReplaceEmbeddedBatch refreshes the single snapshot matching b.ID inside one
// user's batches array. Deliberately a plain read-modify-write on that one
// row: each holder is persisted independently, so a failure between holders
// leaves previously written rows in place.
func (r *UserRepo) ReplaceEmbeddedBatch(ctx context.Context, userID uuid.UUID, b model.Batch) error {
	const sel = `SELECT batches FROM users WHERE id=$1`
	var raw []byte
	if err := r.db.Pool.QueryRow(ctx, sel, userID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}

	var batches []model.Batch
	if err := json.Unmarshal(raw, &batches); err != nil {
		return fmt.Errorf("decode batches of user %s: %w", userID, err)
	}
	for i := range batches {
		if batches[i].ID == b.ID {
			batches[i] = b
		}
	}
	snap, err := marshalBatches(batches)
	if err != nil {
		return err
	}

	const upd = `UPDATE users SET batches=$2 WHERE id=$1`
	_, err = r.db.Pool.Exec(ctx, upd, userID, snap)
	return err
}

// scanUser builds a User from a row selected with userColumns.
func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u    model.User
		role string
		raw  []byte
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PwdHash, &u.ImageURL, &role, &raw, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	u.Role = model.Role(role)
	if err := json.Unmarshal(raw, &u.Batches); err != nil {
		return nil, fmt.Errorf("decode batches of user %s: %w", u.ID, err)
	}
	return &u, nil
}

// marshalBatches encodes snapshots as a jsonb array, never as SQL NULL.
func marshalBatches(batches []model.Batch) ([]byte, error) {
	if batches == nil {
		batches = []model.Batch{}
	}
	return json.Marshal(batches)
}
