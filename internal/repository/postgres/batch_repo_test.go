package postgres

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/learnbatch/learnbatch/internal/errs"
	"github.com/learnbatch/learnbatch/internal/model"
)

func TestBatchRepo_Create_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewBatchRepo(db)

	b := sampleBatch(t, uuid.Must(uuid.NewV4()), "course")
	b.Lectures = []model.Lecture{{ID: uuid.Must(uuid.NewV4()), Name: "intro", Length: "60", Link: "v1", CreatedAt: fixedTime}}

	mock.ExpectExec(`INSERT INTO batches \(id, name, description, thumbnail, price, domain, lectures, is_public, published_by, created_at, updated_at\)`).
		WithArgs(b.ID, b.Name, b.Description, b.Thumbnail, b.Price, b.Domain, mustJSON(t, b.Lectures), b.IsPublic, b.PublishedBy, b.CreatedAt, b.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Create(context.Background(), &b))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepo_Create_NilLecturesAsEmptyArray(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewBatchRepo(db)

	b := sampleBatch(t, uuid.Must(uuid.NewV4()), "course")
	b.Lectures = nil

	mock.ExpectExec(`INSERT INTO batches`).
		WithArgs(b.ID, b.Name, b.Description, b.Thumbnail, b.Price, b.Domain, []byte(`[]`), b.IsPublic, b.PublishedBy, b.CreatedAt, b.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Create(context.Background(), &b))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepo_GetByID_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewBatchRepo(db)

	id := uuid.Must(uuid.NewV4())
	lectures := []model.Lecture{
		{ID: uuid.Must(uuid.NewV4()), Name: "intro", Length: "60", Link: "v1", CreatedAt: fixedTime},
		{ID: uuid.Must(uuid.NewV4()), Name: "types", Length: "0", Link: "v2", CreatedAt: fixedTime},
	}

	mock.ExpectQuery(`SELECT id, name, description, thumbnail, price, domain, lectures, is_public, published_by, created_at, updated_at\s+FROM batches WHERE id=\$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "thumbnail", "price", "domain", "lectures", "is_public", "published_by", "created_at", "updated_at"}).
			AddRow(id, "course", "desc", "t.png", int64(100), "go", mustJSON(t, lectures), true, "Grace", fixedTime, fixedTime))

	b, err := r.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, id, b.ID)
	require.Len(t, b.Lectures, 2)
	require.Equal(t, "intro", b.Lectures[0].Name)
	require.Equal(t, "types", b.Lectures[1].Name)
}

func TestBatchRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewBatchRepo(db)

	id := uuid.Must(uuid.NewV4())
	mock.ExpectQuery(`FROM batches WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := r.GetByID(context.Background(), id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBatchRepo_Update_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewBatchRepo(db)

	b := sampleBatch(t, uuid.Must(uuid.NewV4()), "renamed")

	mock.ExpectExec(`UPDATE batches\s+SET name=\$2, description=\$3, thumbnail=\$4, price=\$5, domain=\$6, lectures=\$7, is_public=\$8, updated_at=\$9\s+WHERE id=\$1`).
		WithArgs(b.ID, b.Name, b.Description, b.Thumbnail, b.Price, b.Domain, []byte(`[]`), b.IsPublic, b.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, r.Update(context.Background(), &b))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepo_Update_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewBatchRepo(db)

	b := sampleBatch(t, uuid.Must(uuid.NewV4()), "gone")

	mock.ExpectExec(`UPDATE batches`).
		WithArgs(b.ID, b.Name, b.Description, b.Thumbnail, b.Price, b.Domain, []byte(`[]`), b.IsPublic, b.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := r.Update(context.Background(), &b)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
