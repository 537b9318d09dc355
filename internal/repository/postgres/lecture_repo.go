package postgres

import (
	"context"

	"github.com/learnbatch/learnbatch/internal/model"
)

// LectureRepo implements LectureRepository using PostgreSQL.
type LectureRepo struct{ db *DB }

// NewLectureRepo constructs a lecture repository.
func NewLectureRepo(db *DB) *LectureRepo { return &LectureRepo{db: db} }

// Create inserts a new lecture row.
func (r *LectureRepo) Create(ctx context.Context, l *model.Lecture) error {
	const q = `
INSERT INTO lectures (id, name, length, link, is_free, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Pool.Exec(ctx, q, l.ID, l.Name, l.Length, l.Link, l.IsFree, l.CreatedAt)
	return err
}
