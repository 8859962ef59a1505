package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"path"
	"strings"
	"time"

	"alexandread/internal/cache"
	"alexandread/internal/logger"
	"alexandread/internal/models"
	"alexandread/internal/repository"
	"alexandread/internal/storage"
	"alexandread/internal/utils"
	"alexandread/internal/utils/validation"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

type BookStore interface {
	List(ctx context.Context) ([]models.BookSummary, error)
	Search(ctx context.Context, s models.BookSearch) ([]models.BookSummary, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, in models.CreateBookRequest) (*models.Book, error)
	Update(ctx context.Context, id int64, in models.UpdateBookRequest) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
}

type BookService struct {
	repo      BookStore
	cache     cache.Cache
	ttl       time.Duration
	files     FileStore
	uploadMax int64
	policy    *bluemonday.Policy
	clock     Clock
}

func NewBookService(repo BookStore, c cache.Cache, ttl time.Duration, files FileStore, uploadMax int64, clock Clock) *BookService {
	if c == nil {
		c = cache.Noop{}
	}
	return &BookService{
		repo:      repo,
		cache:     c,
		ttl:       ttl,
		files:     files,
		uploadMax: uploadMax,
		policy:    bluemonday.StrictPolicy(),
		clock:     clock,
	}
}

func (s *BookService) List(ctx context.Context) ([]models.BookSummary, error) {
	var books []models.BookSummary
	if ok, err := s.cache.Get(ctx, cache.KeyBookList, &books); err != nil {
		logger.WithCtx(ctx).Warn("Кэш каталога недоступен", zap.Error(err))
	} else if ok {
		return books, nil
	}

	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cache.KeyBookList, books, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось записать каталог в кэш", zap.Error(err))
	}
	return books, nil
}

func (s *BookService) Search(ctx context.Context, q models.BookSearch) ([]models.BookSummary, error) {
	q.Query = strings.TrimSpace(q.Query)
	q.Genre = strings.TrimSpace(q.Genre)
	if q.Query == "" && q.Genre == "" {
		return nil, fail(ErrValidation, "Search query is required.")
	}
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultSearchLimit
	case q.Limit > MaxSearchLimit:
		q.Limit = MaxSearchLimit
	}
	return s.repo.Search(ctx, q)
}

func (s *BookService) Get(ctx context.Context, id int64) (*models.Book, error) {
	var book models.Book
	if ok, err := s.cache.Get(ctx, cache.KeyBook(id), &book); err != nil {
		logger.WithCtx(ctx).Warn("Кэш книги недоступен", zap.Error(err))
	} else if ok {
		return &book, nil
	}

	b, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(ErrNotFound, "Book not found.")
	}
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cache.KeyBook(id), b, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось записать книгу в кэш", zap.Error(err))
	}
	return b, nil
}

func (s *BookService) Create(ctx context.Context, in models.CreateBookRequest) (*models.Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, fail(ErrValidation, "%s", err.Error())
	}
	in.Summary = s.sanitize(in.Summary)

	logger.WithCtx(ctx).Info("Создание книги (service)", zap.String("title", in.Title))
	b, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, b.ID)
	return b, nil
}

func (s *BookService) Update(ctx context.Context, id int64, in models.UpdateBookRequest) (*models.Book, error) {
	if in.Empty() {
		return nil, fail(ErrValidation, "No fields to update.")
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		in.Title = &t
	}
	if in.Author != nil {
		a := strings.TrimSpace(*in.Author)
		in.Author = &a
	}
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, fail(ErrValidation, "%s", err.Error())
	}
	in.Summary = s.sanitize(in.Summary)

	logger.WithCtx(ctx).Info("Обновление книги (service)", zap.Int64("book_id", id))
	b, err := s.repo.Update(ctx, id, in)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(ErrNotFound, "Book not found.")
	}
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return b, nil
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	logger.WithCtx(ctx).Info("Удаление книги (service)", zap.Int64("book_id", id))
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(ErrNotFound, "Book not found.")
	}
	if err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Upload кладёт обложку (bucket covers) или текст книги (bucket books) из data URL.
func (s *BookService) Upload(ctx context.Context, bucket string, in models.UploadRequest) (*models.UploadResult, error) {
	if bucket != storage.BucketCovers && bucket != storage.BucketBooks {
		return nil, fail(ErrValidation, "Unknown bucket.")
	}
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, fail(ErrValidation, "%s", err.Error())
	}
	data, err := utils.ParseDataURL(in.File)
	if err != nil {
		return nil, fail(ErrValidation, "Invalid file payload.")
	}
	if bucket == storage.BucketCovers && !data.IsImage() {
		return nil, fail(ErrValidation, "Cover must be an image.")
	}
	if int64(len(data.Data)) > s.uploadMax {
		return nil, fail(ErrValidation, "File is too large (max %d bytes).", s.uploadMax)
	}

	objectPath := fmt.Sprintf("%d-%s-%s", s.clock.now().UnixMilli(), uuid.NewString()[:8], safeFilename(in.Filename, data.Ext()))
	url, err := s.files.Put(ctx, bucket, objectPath, data.Data)
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("Файл загружен (service)", zap.String("bucket", bucket), zap.String("path", objectPath))
	return &models.UploadResult{Path: objectPath, URL: url}, nil
}

func (s *BookService) sanitize(v *string) *string {
	if v == nil {
		return nil
	}
	clean := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(*v)))
	return &clean
}

func (s *BookService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, cache.KeyBookList, cache.KeyBook(id)); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось сбросить кэш каталога", zap.Error(err))
	}
}

// safeFilename оставляет в имени только [a-zA-Z0-9._-], расширение по умолчанию - ext.
func safeFilename(name, ext string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = "file"
	}
	if path.Ext(out) == "" {
		out += "." + ext
	}
	return out
}
