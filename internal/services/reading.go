package services

import (
	"context"
	"errors"

	"alexandread/internal/logger"
	"alexandread/internal/models"
	"alexandread/internal/repository"

	"go.uber.org/zap"
)

type ReadingStore interface {
	Current(ctx context.Context, accountID int64) ([]models.ReadingEntry, error)
	History(ctx context.Context, accountID int64) ([]models.ReadingEntry, error)
	Get(ctx context.Context, accountID, bookID int64) (*models.ReadingEntry, error)
	Start(ctx context.Context, accountID, bookID int64, today models.Date) (*models.ReadingEntry, error)
	Finish(ctx context.Context, accountID, bookID int64, today models.Date) (*models.ReadingEntry, error)
}

// ReadingService ведёт прогресс чтения. На пару (аккаунт, книга) хранится одна запись:
// повторный старт дочитанной книги перезаписывает её даты, прошлый проход не сохраняется.
type ReadingService struct {
	repo  ReadingStore
	clock Clock
}

func NewReadingService(repo ReadingStore, clock Clock) *ReadingService {
	return &ReadingService{repo: repo, clock: clock}
}

func (s *ReadingService) Current(ctx context.Context, accountID int64) ([]models.ReadingEntry, error) {
	return s.repo.Current(ctx, accountID)
}

func (s *ReadingService) History(ctx context.Context, accountID int64) ([]models.ReadingEntry, error) {
	return s.repo.History(ctx, accountID)
}

// Status - запись по книге или nil, если книгу не начинали.
func (s *ReadingService) Status(ctx context.Context, accountID, bookID int64) (*models.ReadingEntry, error) {
	e, err := s.repo.Get(ctx, accountID, bookID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return e, err
}

// Start возвращает запись и признак created (true - новая строка).
// Открытая запись возвращается как есть, дочитанная сбрасывается на сегодня.
func (s *ReadingService) Start(ctx context.Context, accountID, bookID int64) (*models.ReadingEntry, bool, error) {
	existing, err := s.Status(ctx, accountID, bookID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil && !existing.IsFinished && existing.EndReadDate == nil {
		return existing, false, nil
	}

	e, err := s.repo.Start(ctx, accountID, bookID, s.clock.today())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, fail(ErrNotFound, "Book not found.")
	}
	if err != nil {
		return nil, false, err
	}
	logger.WithCtx(ctx).Info("Начато чтение",
		zap.Int64("book_id", bookID), zap.Bool("restart", existing != nil))
	return e, existing == nil, nil
}

func (s *ReadingService) Finish(ctx context.Context, accountID, bookID int64) (*models.ReadingEntry, error) {
	existing, err := s.Status(ctx, accountID, bookID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fail(ErrNotFound, "Reading entry not found.")
	}
	if existing.IsFinished || existing.EndReadDate != nil {
		return nil, fail(ErrValidation, "This book is already marked as finished.")
	}

	e, err := s.repo.Finish(ctx, accountID, bookID, s.clock.today())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(ErrNotFound, "Reading entry not found.")
	}
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("Книга дочитана", zap.Int64("book_id", bookID))
	return e, nil
}
