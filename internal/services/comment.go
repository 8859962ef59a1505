package services

import (
	"context"
	"errors"
	"html"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"alexandread/internal/cache"
	"alexandread/internal/logger"
	"alexandread/internal/models"
	"alexandread/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	MaxCommentLength    = 500
	DefaultCommentLimit = 10
	MaxCommentLimit     = 100
)

type CommentStore interface {
	Stats(ctx context.Context, bookID int64) (*models.CommentStats, error)
	List(ctx context.Context, f models.CommentFilter) ([]models.Comment, int, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	Exists(ctx context.Context, accountID, bookID int64) (bool, error)
	Create(ctx context.Context, accountID, bookID int64, rating int, text *string) (*models.Comment, error)
	Update(ctx context.Context, id int64, rating int, text *string) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type BookLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Book, error)
}

type SubscriptionChecker interface {
	IsActive(ctx context.Context, accountID int64) (bool, error)
}

type CommentService struct {
	repo   CommentStore
	books  BookLookup
	subs   SubscriptionChecker
	cache  cache.Cache
	ttl    time.Duration
	policy *bluemonday.Policy
}

func NewCommentService(repo CommentStore, books BookLookup, subs SubscriptionChecker, c cache.Cache, ttl time.Duration) *CommentService {
	if c == nil {
		c = cache.Noop{}
	}
	return &CommentService{repo: repo, books: books, subs: subs, cache: c, ttl: ttl, policy: bluemonday.StrictPolicy()}
}

// Stats - средняя оценка (1 знак после запятой, null без отзывов) и число отзывов.
func (s *CommentService) Stats(ctx context.Context, bookID int64) (*models.CommentStats, error) {
	var stats models.CommentStats
	if ok, err := s.cache.Get(ctx, cache.KeyCommentStats(bookID), &stats); err != nil {
		logger.WithCtx(ctx).Warn("Кэш статистики недоступен", zap.Error(err))
	} else if ok {
		return &stats, nil
	}

	st, err := s.repo.Stats(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if st.TotalComments == 0 {
		st.AverageRating = nil
	} else if st.AverageRating != nil {
		avg := math.Round(*st.AverageRating*10) / 10
		st.AverageRating = &avg
	}

	if err := s.cache.Set(ctx, cache.KeyCommentStats(bookID), st, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось записать статистику в кэш", zap.Error(err))
	}
	return st, nil
}

func (s *CommentService) ListForBook(ctx context.Context, bookID int64, limit, offset int) (*models.CommentPage, error) {
	return s.List(ctx, models.CommentFilter{BookID: &bookID, Limit: limit, Offset: offset})
}

func (s *CommentService) List(ctx context.Context, f models.CommentFilter) (*models.CommentPage, error) {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultCommentLimit
	case f.Limit > MaxCommentLimit:
		f.Limit = MaxCommentLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	comments, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &models.CommentPage{Comments: comments, Total: total}, nil
}

// Create - один отзыв на книгу от аккаунта; премиум-книги только с активной подпиской.
func (s *CommentService) Create(ctx context.Context, accountID int64, in models.CommentRequest) (*models.Comment, error) {
	log := logger.WithCtx(ctx)

	if in.BookID <= 0 {
		return nil, fail(ErrValidation, "bookId and rating are required.")
	}
	rating, err := validateRating(in.Rating)
	if err != nil {
		return nil, err
	}
	text, err := s.cleanText(in.Comment)
	if err != nil {
		return nil, err
	}

	book, err := s.books.GetByID(ctx, in.BookID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(ErrNotFound, "Book not found.")
	}
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, accountID, in.BookID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fail(ErrConflict, "You have already commented on this book.")
	}

	if book.Premium {
		active, err := s.subs.IsActive(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if !active {
			log.Info("Комментарий к премиум-книге без подписки", zap.Int64("book_id", book.ID))
			return nil, fail(ErrForbidden, "An active subscription is required to comment on premium books.")
		}
	}

	c, err := s.repo.Create(ctx, accountID, in.BookID, rating, text)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, fail(ErrConflict, "You have already commented on this book.")
	case errors.Is(err, repository.ErrNotFound):
		return nil, fail(ErrNotFound, "Book not found.")
	case err != nil:
		return nil, err
	}

	s.invalidate(ctx, in.BookID)
	log.Info("Комментарий создан", zap.Int64("comment_id", c.ID), zap.Int64("book_id", in.BookID))
	return c, nil
}

// Update - правка своего комментария.
func (s *CommentService) Update(ctx context.Context, accountID, commentID int64, in models.CommentRequest) (*models.Comment, error) {
	return s.update(ctx, &accountID, commentID, in)
}

// Moderate - правка любого комментария администратором.
func (s *CommentService) Moderate(ctx context.Context, commentID int64, in models.CommentRequest) (*models.Comment, error) {
	return s.update(ctx, nil, commentID, in)
}

func (s *CommentService) update(ctx context.Context, owner *int64, commentID int64, in models.CommentRequest) (*models.Comment, error) {
	rating, err := validateRating(in.Rating)
	if err != nil {
		return nil, err
	}
	text, err := s.cleanText(in.Comment)
	if err != nil {
		return nil, err
	}

	existing, err := s.owned(ctx, owner, commentID, "edit")
	if err != nil {
		return nil, err
	}

	c, err := s.repo.Update(ctx, commentID, rating, text)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(ErrNotFound, "Comment not found.")
	}
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, existing.BookID)
	logger.WithCtx(ctx).Info("Комментарий обновлён", zap.Int64("comment_id", commentID))
	return c, nil
}

// Delete - удаление своего комментария.
func (s *CommentService) Delete(ctx context.Context, accountID, commentID int64) error {
	return s.delete(ctx, &accountID, commentID)
}

// Remove - удаление любого комментария администратором.
func (s *CommentService) Remove(ctx context.Context, commentID int64) error {
	return s.delete(ctx, nil, commentID)
}

func (s *CommentService) delete(ctx context.Context, owner *int64, commentID int64) error {
	existing, err := s.owned(ctx, owner, commentID, "delete")
	if err != nil {
		return err
	}
	err = s.repo.Delete(ctx, commentID)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(ErrNotFound, "Comment not found.")
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx, existing.BookID)
	logger.WithCtx(ctx).Info("Комментарий удалён", zap.Int64("comment_id", commentID))
	return nil
}

// owned загружает комментарий и, если owner задан, проверяет авторство.
func (s *CommentService) owned(ctx context.Context, owner *int64, commentID int64, action string) (*models.Comment, error) {
	c, err := s.repo.GetByID(ctx, commentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(ErrNotFound, "Comment not found.")
	}
	if err != nil {
		return nil, err
	}
	if owner != nil && c.UserID != *owner {
		return nil, fail(ErrForbidden, "You can only %s your own comments.", action)
	}
	return c, nil
}

func (s *CommentService) invalidate(ctx context.Context, bookID int64) {
	if err := s.cache.Invalidate(ctx, cache.KeyCommentStats(bookID)); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось сбросить кэш статистики", zap.Error(err))
	}
}

func validateRating(r *float64) (int, error) {
	if r == nil {
		return 0, fail(ErrValidation, "bookId and rating are required.")
	}
	v := *r
	if math.IsNaN(v) || v != math.Trunc(v) || v < 1 || v > 10 {
		return 0, fail(ErrValidation, "Rating must be an integer between 1 and 10.")
	}
	return int(v), nil
}

// cleanText проверяет длину исходного текста и вырезает теги; пустой текст хранится как NULL.
func (s *CommentService) cleanText(text *string) (*string, error) {
	if text == nil {
		return nil, nil
	}
	if utf8.RuneCountInString(*text) > MaxCommentLength {
		return nil, fail(ErrValidation, "Comment must be at most %d characters.", MaxCommentLength)
	}
	clean := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(*text)))
	if clean == "" {
		return nil, nil
	}
	return &clean, nil
}
