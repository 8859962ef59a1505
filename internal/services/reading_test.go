package services

import (
	"context"
	"testing"
	"time"

	"alexandread/internal/models"
	"alexandread/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readingKey struct{ account, book int64 }

// fakeReading хранит одну строку на пару (аккаунт, книга), как первичный ключ acc_reading.
type fakeReading struct {
	rows  map[readingKey]*models.ReadingEntry
	books map[int64]bool
}

func newFakeReading(books ...int64) *fakeReading {
	f := &fakeReading{rows: map[readingKey]*models.ReadingEntry{}, books: map[int64]bool{}}
	for _, id := range books {
		f.books[id] = true
	}
	return f
}

func (f *fakeReading) list(accountID int64, finished bool) []models.ReadingEntry {
	out := []models.ReadingEntry{}
	for k, e := range f.rows {
		if k.account == accountID && e.IsFinished == finished {
			out = append(out, *e)
		}
	}
	return out
}

func (f *fakeReading) Current(_ context.Context, id int64) ([]models.ReadingEntry, error) {
	return f.list(id, false), nil
}

func (f *fakeReading) History(_ context.Context, id int64) ([]models.ReadingEntry, error) {
	return f.list(id, true), nil
}

func (f *fakeReading) Get(_ context.Context, accountID, bookID int64) (*models.ReadingEntry, error) {
	e, ok := f.rows[readingKey{accountID, bookID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeReading) Start(_ context.Context, accountID, bookID int64, today models.Date) (*models.ReadingEntry, error) {
	if !f.books[bookID] {
		return nil, repository.ErrNotFound
	}
	e := &models.ReadingEntry{UserID: accountID, BookID: bookID, StartReadDate: today}
	f.rows[readingKey{accountID, bookID}] = e
	cp := *e
	return &cp, nil
}

func (f *fakeReading) Finish(_ context.Context, accountID, bookID int64, today models.Date) (*models.ReadingEntry, error) {
	e, ok := f.rows[readingKey{accountID, bookID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	end := today
	e.EndReadDate, e.IsFinished = &end, true
	cp := *e
	return &cp, nil
}

func TestReadingLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newFakeReading(7)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := NewReadingService(store, func() time.Time { return now })

	e, created, err := svc.Start(ctx, 1, 7)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, day("2024-03-01"), e.StartReadDate)

	again, created, err := svc.Start(ctx, 1, 7)
	require.NoError(t, err)
	assert.False(t, created, "открытая запись возвращается как есть")
	assert.Equal(t, e.StartReadDate, again.StartReadDate)

	now = now.AddDate(0, 0, 10)
	done, err := svc.Finish(ctx, 1, 7)
	require.NoError(t, err)
	assert.True(t, done.IsFinished)
	assert.Equal(t, day("2024-03-11"), *done.EndReadDate)

	_, err = svc.Finish(ctx, 1, 7)
	assert.ErrorIs(t, err, ErrValidation)

	history, err := svc.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	now = now.AddDate(0, 1, 0)
	restarted, created, err := svc.Start(ctx, 1, 7)
	require.NoError(t, err)
	assert.False(t, created, "повторное чтение переиспользует строку")
	assert.Equal(t, day("2024-04-11"), restarted.StartReadDate)
	assert.Nil(t, restarted.EndReadDate)
	assert.False(t, restarted.IsFinished)
	assert.Len(t, store.rows, 1)

	history, err = svc.History(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestReadingErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewReadingService(newFakeReading(7), nil)

	_, _, err := svc.Start(ctx, 1, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Finish(ctx, 1, 7)
	assert.ErrorIs(t, err, ErrNotFound)

	status, err := svc.Status(ctx, 1, 7)
	require.NoError(t, err)
	assert.Nil(t, status)
}
