package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/learnbatch/learnbatch/internal/model"
)

func TestLectureRepo_Create_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewLectureRepo(db)

	l := model.Lecture{ID: uuid.Must(uuid.NewV4()), Name: "intro", Length: "120", Link: "v1", IsFree: true, CreatedAt: fixedTime}

	mock.ExpectExec(`INSERT INTO lectures \(id, name, length, link, is_free, created_at\)`).
		WithArgs(l.ID, l.Name, l.Length, l.Link, l.IsFree, l.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Create(context.Background(), &l))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLectureRepo_Create_Error(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewLectureRepo(db)

	l := model.Lecture{ID: uuid.Must(uuid.NewV4()), Name: "intro", Length: "0", Link: "v1", CreatedAt: fixedTime}
	boom := errors.New("disk full")

	mock.ExpectExec(`INSERT INTO lectures`).
		WithArgs(l.ID, l.Name, l.Length, l.Link, l.IsFree, l.CreatedAt).
		WillReturnError(boom)

	require.ErrorIs(t, r.Create(context.Background(), &l), boom)
}
