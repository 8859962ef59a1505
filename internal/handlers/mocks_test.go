package handlers

import (
	"context"

	"alexandread/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Register(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*models.AuthResponse)
	return res, args.Error(1)
}

func (m *mockAuth) Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*models.AuthResponse)
	return res, args.Error(1)
}

type mockSubs struct{ mock.Mock }

func (m *mockSubs) Get(ctx context.Context, id int64) (models.SubscriptionStatus, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.SubscriptionStatus), args.Error(1)
}

func (m *mockSubs) Start(ctx context.Context, id int64, autoRenew *bool) (models.SubscriptionStatus, error) {
	args := m.Called(ctx, id, autoRenew)
	return args.Get(0).(models.SubscriptionStatus), args.Error(1)
}

func (m *mockSubs) SetAutoRenew(ctx context.Context, id int64, autoRenew bool) (models.SubscriptionStatus, error) {
	args := m.Called(ctx, id, autoRenew)
	return args.Get(0).(models.SubscriptionStatus), args.Error(1)
}

type mockRecs struct{ mock.Mock }

func (m *mockRecs) Recommend(ctx context.Context, id int64) ([]models.BookSummary, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).([]models.BookSummary)
	return res, args.Error(1)
}

type mockComments struct{ mock.Mock }

func (m *mockComments) Stats(ctx context.Context, bookID int64) (*models.CommentStats, error) {
	args := m.Called(ctx, bookID)
	res, _ := args.Get(0).(*models.CommentStats)
	return res, args.Error(1)
}

func (m *mockComments) ListForBook(ctx context.Context, bookID int64, limit, offset int) (*models.CommentPage, error) {
	args := m.Called(ctx, bookID, limit, offset)
	res, _ := args.Get(0).(*models.CommentPage)
	return res, args.Error(1)
}

func (m *mockComments) Create(ctx context.Context, accountID int64, in models.CommentRequest) (*models.Comment, error) {
	args := m.Called(ctx, accountID, in)
	res, _ := args.Get(0).(*models.Comment)
	return res, args.Error(1)
}

func (m *mockComments) Update(ctx context.Context, accountID, commentID int64, in models.CommentRequest) (*models.Comment, error) {
	args := m.Called(ctx, accountID, commentID, in)
	res, _ := args.Get(0).(*models.Comment)
	return res, args.Error(1)
}

func (m *mockComments) Delete(ctx context.Context, accountID, commentID int64) error {
	return m.Called(ctx, accountID, commentID).Error(0)
}

type mockReading struct{ mock.Mock }

func (m *mockReading) Current(ctx context.Context, id int64) ([]models.ReadingEntry, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).([]models.ReadingEntry)
	return res, args.Error(1)
}

func (m *mockReading) History(ctx context.Context, id int64) ([]models.ReadingEntry, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).([]models.ReadingEntry)
	return res, args.Error(1)
}

func (m *mockReading) Status(ctx context.Context, id, bookID int64) (*models.ReadingEntry, error) {
	args := m.Called(ctx, id, bookID)
	res, _ := args.Get(0).(*models.ReadingEntry)
	return res, args.Error(1)
}

func (m *mockReading) Start(ctx context.Context, id, bookID int64) (*models.ReadingEntry, bool, error) {
	args := m.Called(ctx, id, bookID)
	res, _ := args.Get(0).(*models.ReadingEntry)
	return res, args.Bool(1), args.Error(2)
}

func (m *mockReading) Finish(ctx context.Context, id, bookID int64) (*models.ReadingEntry, error) {
	args := m.Called(ctx, id, bookID)
	res, _ := args.Get(0).(*models.ReadingEntry)
	return res, args.Error(1)
}

type mockShelf struct{ mock.Mock }

func (m *mockShelf) IDs(ctx context.Context, id int64) ([]int64, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).([]int64)
	return res, args.Error(1)
}

func (m *mockShelf) Add(ctx context.Context, id int64, in models.BookIDRequest) error {
	return m.Called(ctx, id, in).Error(0)
}

func (m *mockShelf) Remove(ctx context.Context, id, bookID int64) error {
	return m.Called(ctx, id, bookID).Error(0)
}

type mockBooks struct{ mock.Mock }

func (m *mockBooks) List(ctx context.Context) ([]models.BookSummary, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]models.BookSummary)
	return res, args.Error(1)
}

func (m *mockBooks) Search(ctx context.Context, q models.BookSearch) ([]models.BookSummary, error) {
	args := m.Called(ctx, q)
	res, _ := args.Get(0).([]models.BookSummary)
	return res, args.Error(1)
}

func (m *mockBooks) Get(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.Book)
	return res, args.Error(1)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
