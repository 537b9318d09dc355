package service

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/learnbatch/learnbatch/internal/errs"
	"github.com/learnbatch/learnbatch/internal/limiter"
	"github.com/learnbatch/learnbatch/internal/model"
	"github.com/learnbatch/learnbatch/internal/repository"
)

// fakeUsers is an in-memory UserRepository with per-call error injection.
type fakeUsers struct {
	order []string // emails in insertion order
	byID  map[uuid.UUID]*model.User

	createErr  error
	getErr     error
	appendErr  error
	replaceErr map[uuid.UUID]error

	replaceCalls []uuid.UUID
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[uuid.UUID]*model.User{}, replaceErr: map[uuid.UUID]error{}}
}

func (f *fakeUsers) add(u model.User) *model.User {
	cpy := copyUser(u)
	f.byID[u.ID] = &cpy
	f.order = append(f.order, u.Email)
	return &cpy
}

func copyUser(u model.User) model.User {
	cpy := u
	cpy.Batches = append([]model.Batch(nil), u.Batches...)
	for i := range cpy.Batches {
		cpy.Batches[i].Lectures = append([]model.Lecture(nil), cpy.Batches[i].Lectures...)
	}
	return cpy
}

func (f *fakeUsers) byEmail(email string) *model.User {
	for _, u := range f.byID {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.byEmail(u.Email) != nil {
		return errs.ErrAlreadyExists
	}
	f.add(*u)
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := copyUser(*u)
	return &cpy, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u := f.byEmail(email)
	if u == nil {
		return nil, errs.ErrNotFound
	}
	cpy := copyUser(*u)
	return &cpy, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uuid.UUID, p model.ProfilePatch) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.ImageURL != nil {
		u.ImageURL = *p.ImageURL
	}
	cpy := copyUser(*u)
	return &cpy, nil
}

func (f *fakeUsers) AppendBatch(_ context.Context, userID uuid.UUID, b model.Batch) (*model.User, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	u.Batches = append(u.Batches, b)
	cpy := copyUser(*u)
	return &cpy, nil
}

func (f *fakeUsers) FindHoldersOfBatch(_ context.Context, batchID uuid.UUID) ([]uuid.UUID, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var ids []uuid.UUID
	for _, email := range f.order {
		u := f.byEmail(email)
		for _, b := range u.Batches {
			if b.ID == batchID {
				ids = append(ids, u.ID)
				break
			}
		}
	}
	return ids, nil
}

func (f *fakeUsers) ReplaceEmbeddedBatch(_ context.Context, userID uuid.UUID, b model.Batch) error {
	f.replaceCalls = append(f.replaceCalls, userID)
	if err := f.replaceErr[userID]; err != nil {
		return err
	}
	u, ok := f.byID[userID]
	if !ok {
		return errs.ErrNotFound
	}
	for i := range u.Batches {
		if u.Batches[i].ID == b.ID {
			u.Batches[i] = b
		}
	}
	return nil
}

// fakeBatches is an in-memory BatchRepository.
type fakeBatches struct {
	byID map[uuid.UUID]*model.Batch

	createErr error
	updateErr error
}

var _ repository.BatchRepository = (*fakeBatches)(nil)

func newFakeBatches() *fakeBatches { return &fakeBatches{byID: map[uuid.UUID]*model.Batch{}} }

func (f *fakeBatches) Create(_ context.Context, b *model.Batch) error {
	if f.createErr != nil {
		return f.createErr
	}
	cpy := *b
	cpy.Lectures = append([]model.Lecture(nil), b.Lectures...)
	f.byID[b.ID] = &cpy
	return nil
}

func (f *fakeBatches) GetByID(_ context.Context, id uuid.UUID) (*model.Batch, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *b
	cpy.Lectures = append([]model.Lecture(nil), b.Lectures...)
	return &cpy, nil
}

func (f *fakeBatches) Update(_ context.Context, b *model.Batch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[b.ID]; !ok {
		return errs.ErrNotFound
	}
	cpy := *b
	cpy.Lectures = append([]model.Lecture(nil), b.Lectures...)
	f.byID[b.ID] = &cpy
	return nil
}

// fakeLectures records created lectures in order; failAt fails the n-th create (1-based).
type fakeLectures struct {
	created []model.Lecture
	failAt  int
}

var _ repository.LectureRepository = (*fakeLectures)(nil)

func (f *fakeLectures) Create(_ context.Context, l *model.Lecture) error {
	if f.failAt > 0 && len(f.created)+1 == f.failAt {
		return errors.New("lecture store down")
	}
	f.created = append(f.created, *l)
	return nil
}

// fakeLimiter is a canned limiter with call counters.
type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool
	failErr     error

	successCalls int
	failureCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	return l.allowOK, 0, l.allowErr
}

func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return nil
}

func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, l.failErr
}

// helpers

func mustUUID() uuid.UUID { return uuid.Must(uuid.NewV4()) }

func i64(v int64) *int64 { return &v }

func str(v string) *string { return &v }
