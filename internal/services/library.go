package services

import (
	"context"
	"errors"

	"alexandread/internal/models"
	"alexandread/internal/repository"
)

type ShelfStore interface {
	IDs(ctx context.Context, accountID int64) ([]int64, error)
	Add(ctx context.Context, accountID, bookID int64) error
	Remove(ctx context.Context, accountID, bookID int64) error
}

// ShelfService - закладки или список прочитанного: множество id книг аккаунта.
type ShelfService struct {
	repo ShelfStore
}

func NewShelfService(repo ShelfStore) *ShelfService {
	return &ShelfService{repo: repo}
}

func (s *ShelfService) IDs(ctx context.Context, accountID int64) ([]int64, error) {
	return s.repo.IDs(ctx, accountID)
}

func (s *ShelfService) Add(ctx context.Context, accountID int64, in models.BookIDRequest) error {
	if in.BookID <= 0 {
		return fail(ErrValidation, "Valid bookId is required.")
	}
	err := s.repo.Add(ctx, accountID, in.BookID)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(ErrNotFound, "Book not found.")
	}
	return err
}

func (s *ShelfService) Remove(ctx context.Context, accountID, bookID int64) error {
	return s.repo.Remove(ctx, accountID, bookID)
}
