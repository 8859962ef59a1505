package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"alexandread/internal/logger"
	"alexandread/internal/metrics"
	"alexandread/internal/models"
	"alexandread/internal/repository"

	"go.uber.org/zap"
)

// RecommendationLimit - сколько кандидатов берём из каждого источника.
const RecommendationLimit = 5

// CandidateSource - внешний источник id книг-кандидатов для аккаунта.
type CandidateSource interface {
	Name() string
	Candidates(ctx context.Context, accountID int64, limit int) ([]int64, error)
}

type PreferenceReader interface {
	Preferences(ctx context.Context, accountID int64) (*models.Preferences, error)
}

type HistoryReader interface {
	BookIDs(ctx context.Context, accountID int64) ([]int64, error)
}

type CatalogueReader interface {
	IDsByAuthor(ctx context.Context, author string, limit int) ([]int64, error)
	IDsByGenres(ctx context.Context, genres []string, limit int) ([]int64, error)
	SummariesByIDs(ctx context.Context, ids []int64) ([]models.BookSummary, error)
}

type RecommendationService struct {
	prefs     PreferenceReader
	history   HistoryReader
	catalogue CatalogueReader
	collab    CandidateSource
	trending  CandidateSource
	shuffle   func(n int, swap func(i, j int))
}

func NewRecommendationService(prefs PreferenceReader, history HistoryReader, catalogue CatalogueReader, collab, trending CandidateSource) *RecommendationService {
	return &RecommendationService{
		prefs:     prefs,
		history:   history,
		catalogue: catalogue,
		collab:    collab,
		trending:  trending,
		shuffle:   rand.Shuffle,
	}
}

// candidateSet - множество кандидатов без книг из истории чтения.
type candidateSet struct {
	read  map[int64]struct{}
	ids   map[int64]struct{}
	order []int64
}

func (c *candidateSet) add(ids []int64) {
	for _, id := range ids {
		if _, seen := c.read[id]; seen {
			continue
		}
		if _, dup := c.ids[id]; dup {
			continue
		}
		c.ids[id] = struct{}{}
		c.order = append(c.order, id)
	}
}

// Recommend собирает кандидатов из источников и возвращает карточки в случайном порядке.
func (s *RecommendationService) Recommend(ctx context.Context, accountID int64) ([]models.BookSummary, error) {
	log := logger.WithCtx(ctx)

	prefs, err := s.prefs.Preferences(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(ErrNotFound, "Profile not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	history, err := s.history.BookIDs(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("load reading history: %w", err)
	}

	set := &candidateSet{
		read: make(map[int64]struct{}, len(history)),
		ids:  make(map[int64]struct{}),
	}
	for _, id := range history {
		set.read[id] = struct{}{}
	}

	set.add(s.fromSource(ctx, s.collab, accountID))

	if author := strings.TrimSpace(derefString(prefs.FavouriteAuthor)); author != "" {
		ids, err := s.catalogue.IDsByAuthor(ctx, author, RecommendationLimit)
		if err != nil {
			log.Warn("Рекомендации: ошибка выборки по автору", zap.Error(err))
			metrics.RecommendationSourceFailures.WithLabelValues("author").Inc()
		}
		set.add(ids)
	}

	if genres := models.NormalizeGenres(prefs.FavouriteGenres); len(genres) > 0 {
		ids, err := s.catalogue.IDsByGenres(ctx, genres, RecommendationLimit)
		if err != nil {
			log.Warn("Рекомендации: ошибка выборки по жанрам", zap.Error(err))
			metrics.RecommendationSourceFailures.WithLabelValues("genre").Inc()
		}
		set.add(ids)
	}

	if len(set.order) < RecommendationLimit {
		set.add(s.fromSource(ctx, s.trending, accountID))
	}

	if len(set.order) == 0 {
		return []models.BookSummary{}, nil
	}

	books, err := s.catalogue.SummariesByIDs(ctx, set.order)
	if err != nil {
		return nil, fmt.Errorf("load recommended books: %w", err)
	}

	s.shuffle(len(books), func(i, j int) { books[i], books[j] = books[j], books[i] })

	log.Info("Рекомендации сформированы", zap.Int64("account_id", accountID), zap.Int("count", len(books)))
	return books, nil
}

// fromSource опрашивает источник; ошибка не фатальна и считается пустым вкладом.
func (s *RecommendationService) fromSource(ctx context.Context, src CandidateSource, accountID int64) []int64 {
	if src == nil {
		return nil
	}
	ids, err := src.Candidates(ctx, accountID, RecommendationLimit)
	if err != nil {
		logger.WithCtx(ctx).Warn("Рекомендации: источник недоступен",
			zap.String("source", src.Name()), zap.Error(err))
		metrics.RecommendationSourceFailures.WithLabelValues(src.Name()).Inc()
		return nil
	}
	return ids
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
