package services

import (
	"context"
	"time"

	"alexandread/internal/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type CandidateStore interface {
	Collaborative(ctx context.Context, accountID int64, limit int) ([]int64, error)
	Trending(ctx context.Context, limit int) ([]int64, error)
}

type collabSource struct{ store CandidateStore }

// NewCollaborativeSource - кандидаты из get_collab_recs.
func NewCollaborativeSource(store CandidateStore) CandidateSource {
	return collabSource{store: store}
}

func (collabSource) Name() string { return "collaborative" }

func (s collabSource) Candidates(ctx context.Context, accountID int64, limit int) ([]int64, error) {
	return s.store.Collaborative(ctx, accountID, limit)
}

type trendingSource struct{ store CandidateStore }

// NewTrendingSource - кандидаты из get_trending_books, аккаунт не учитывается.
func NewTrendingSource(store CandidateStore) CandidateSource {
	return trendingSource{store: store}
}

func (trendingSource) Name() string { return "trending" }

func (s trendingSource) Candidates(ctx context.Context, _ int64, limit int) ([]int64, error) {
	return s.store.Trending(ctx, limit)
}

type BreakerSettings struct {
	// ConsecutiveFailures - после скольких ошибок подряд размыкаемся.
	ConsecutiveFailures uint32
	// OpenTimeout - сколько держим цепь разомкнутой до пробного запроса.
	OpenTimeout time.Duration
}

// breakerSource пропускает запросы к источнику через circuit breaker:
// пока цепь разомкнута, источник не опрашивается и сразу отдаёт ошибку.
type breakerSource struct {
	next CandidateSource
	cb   *gobreaker.CircuitBreaker[[]int64]
}

func WithBreaker(next CandidateSource, s BreakerSettings) CandidateSource {
	failures := s.ConsecutiveFailures
	if failures == 0 {
		failures = 3
	}
	cb := gobreaker.NewCircuitBreaker[[]int64](gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Log.Warn("Рекомендации: смена состояния breaker",
				zap.String("source", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return &breakerSource{next: next, cb: cb}
}

func (b *breakerSource) Name() string { return b.next.Name() }

func (b *breakerSource) Candidates(ctx context.Context, accountID int64, limit int) ([]int64, error) {
	return b.cb.Execute(func() ([]int64, error) {
		return b.next.Candidates(ctx, accountID, limit)
	})
}
