package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"alexandread/internal/models"
	"alexandread/internal/repository"
)

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

func day(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T { return &v }

// fakeAccounts - in-memory AccountStore.
type fakeAccounts struct {
	mu     sync.Mutex
	byID   map[int64]*models.Account
	nextID int64
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: map[int64]*models.Account{}}
}

func (f *fakeAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == a.Email {
			return nil, repository.ErrDuplicate
		}
	}
	f.nextID++
	cp := *a
	cp.ID = f.nextID
	f.byID[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id int64) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAccounts) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeAccounts) Update(_ context.Context, id int64, u models.AccountUpdate) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if u.Email != nil {
		for otherID, other := range f.byID {
			if otherID != id && other.Email == *u.Email {
				return nil, repository.ErrDuplicate
			}
		}
		a.Email = *u.Email
	}
	if u.Pseudo != nil {
		a.Pseudo = *u.Pseudo
	}
	if u.PasswordHash != nil {
		a.PasswordHash = *u.PasswordHash
	}
	if u.Name != nil {
		a.Name = nilIfEmpty(*u.Name)
	}
	if u.FavouriteAuthor != nil {
		a.FavouriteAuthor = nilIfEmpty(*u.FavouriteAuthor)
	}
	if u.DateOfBirth != nil {
		a.DateOfBirth = u.DateOfBirth
	}
	if u.ClearBirthDate {
		a.DateOfBirth = nil
	}
	if u.FavouriteGenres != nil {
		a.FavouriteGenres = *u.FavouriteGenres
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) SetAvatar(_ context.Context, id int64, url string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a.AvatarURL = &url
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// fakeSubscriptions повторяет семантику условных UPDATE из SubscriptionRepository.
type fakeSubscriptions struct {
	mu      sync.Mutex
	rows    map[int64]*models.Subscription
	renews  int
	failGet error
}

func newFakeSubscriptions() *fakeSubscriptions {
	return &fakeSubscriptions{rows: map[int64]*models.Subscription{}}
}

func (f *fakeSubscriptions) put(id int64, s models.Subscription) { f.rows[id] = &s }

func lapsed(s *models.Subscription, today models.Date) bool {
	return s.End == nil || s.End.Before(today.Time)
}

func (f *fakeSubscriptions) Get(_ context.Context, id int64) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	s, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubscriptions) Start(_ context.Context, id int64, start, end models.Date, value float64, autoRenew bool) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return nil, repository.ErrNotFound
	}
	s := &models.Subscription{Value: &value, Start: &start, End: &end, AutoRenew: autoRenew}
	f.rows[id] = s
	cp := *s
	return &cp, nil
}

func (f *fakeSubscriptions) RenewIfLapsed(_ context.Context, id int64, today, end models.Date, defaultValue float64) (*models.Subscription, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok || !s.AutoRenew || !lapsed(s, today) {
		return nil, false, nil
	}
	f.renew(s, today, end, defaultValue)
	cp := *s
	return &cp, true, nil
}

func (f *fakeSubscriptions) SetAutoRenew(_ context.Context, id int64, autoRenew bool, today, end models.Date, defaultValue float64) (*models.Subscription, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return nil, false, repository.ErrNotFound
	}
	renewed := autoRenew && lapsed(s, today)
	s.AutoRenew = autoRenew
	if renewed {
		f.renew(s, today, end, defaultValue)
	} else if s.Value == nil {
		s.Value = &defaultValue
	}
	cp := *s
	return &cp, renewed, nil
}

func (f *fakeSubscriptions) RenewAllLapsed(_ context.Context, today, end models.Date, defaultValue float64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.rows {
		if s.AutoRenew && lapsed(s, today) {
			f.renew(s, today, end, defaultValue)
			n++
		}
	}
	return n, nil
}

func (f *fakeSubscriptions) renew(s *models.Subscription, today, end models.Date, defaultValue float64) {
	start, stop := today, end
	s.Start, s.End = &start, &stop
	if s.Value == nil {
		s.Value = &defaultValue
	}
	f.renews++
}

// fakeBooks - каталог для рекомендаций, комментариев и BookService.
type fakeBooks struct {
	books     map[int64]*models.Book
	authorErr error
	genreErr  error
	fetchErr  error
	created   int
}

func newFakeBooks(books ...models.Book) *fakeBooks {
	f := &fakeBooks{books: map[int64]*models.Book{}}
	for i := range books {
		b := books[i]
		f.books[b.ID] = &b
	}
	return f
}

func (f *fakeBooks) IDsByAuthor(_ context.Context, author string, limit int) ([]int64, error) {
	if f.authorErr != nil {
		return nil, f.authorErr
	}
	var ids []int64
	for id := int64(1); id <= int64(len(f.books))+100 && len(ids) < limit; id++ {
		if b, ok := f.books[id]; ok && b.Author == author {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeBooks) IDsByGenres(_ context.Context, genres []string, limit int) ([]int64, error) {
	if f.genreErr != nil {
		return nil, f.genreErr
	}
	var ids []int64
	for id := int64(1); id <= int64(len(f.books))+100 && len(ids) < limit; id++ {
		b, ok := f.books[id]
		if !ok || b.Genre == nil {
			continue
		}
		for _, g := range genres {
			if *b.Genre == g {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids, nil
}

func (f *fakeBooks) SummariesByIDs(_ context.Context, ids []int64) ([]models.BookSummary, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []models.BookSummary
	for _, id := range ids {
		if b, ok := f.books[id]; ok {
			out = append(out, models.BookSummary{ID: b.ID, Title: b.Title, Author: b.Author, Genre: b.Genre, Premium: b.Premium})
		}
	}
	return out, nil
}

func (f *fakeBooks) List(context.Context) ([]models.BookSummary, error) {
	var ids []int64
	for id := range f.books {
		ids = append(ids, id)
	}
	return f.SummariesByIDs(context.Background(), ids)
}

func (f *fakeBooks) Search(_ context.Context, s models.BookSearch) ([]models.BookSummary, error) {
	return []models.BookSummary{}, nil
}

func (f *fakeBooks) GetByID(_ context.Context, id int64) (*models.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBooks) Create(_ context.Context, in models.CreateBookRequest) (*models.Book, error) {
	f.created++
	id := int64(1000 + f.created)
	b := &models.Book{ID: id, Title: in.Title, Author: in.Author, Genre: in.Genre, Summary: in.Summary, Premium: in.Premium}
	f.books[id] = b
	return b, nil
}

func (f *fakeBooks) Update(_ context.Context, id int64, in models.UpdateBookRequest) (*models.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Summary != nil {
		b.Summary = in.Summary
	}
	return b, nil
}

func (f *fakeBooks) Delete(_ context.Context, id int64) error {
	if _, ok := f.books[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.books, id)
	return nil
}

// staticSource - CandidateSource с заранее заданным ответом.
type staticSource struct {
	name  string
	ids   []int64
	err   error
	calls int
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Candidates(context.Context, int64, int) ([]int64, error) {
	s.calls++
	return s.ids, s.err
}

type fakePrefs struct {
	prefs *models.Preferences
	err   error
}

func (f fakePrefs) Preferences(context.Context, int64) (*models.Preferences, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.prefs == nil {
		return &models.Preferences{}, nil
	}
	return f.prefs, nil
}

type fakeHistory struct {
	ids []int64
	err error
}

func (f fakeHistory) BookIDs(context.Context, int64) ([]int64, error) { return f.ids, f.err }

var errBoom = errors.New("boom")
