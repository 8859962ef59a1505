package services

import (
	"context"
	"errors"
	"math"
	"time"

	"alexandread/internal/logger"
	"alexandread/internal/metrics"
	"alexandread/internal/models"
	"alexandread/internal/repository"

	"go.uber.org/zap"
)

type SubscriptionStore interface {
	Get(ctx context.Context, accountID int64) (*models.Subscription, error)
	Start(ctx context.Context, accountID int64, start, end models.Date, value float64, autoRenew bool) (*models.Subscription, error)
	RenewIfLapsed(ctx context.Context, accountID int64, today, end models.Date, defaultValue float64) (*models.Subscription, bool, error)
	SetAutoRenew(ctx context.Context, accountID int64, autoRenew bool, today, end models.Date, defaultValue float64) (*models.Subscription, bool, error)
	RenewAllLapsed(ctx context.Context, today, end models.Date, defaultValue float64) (int64, error)
}

// Plan - цена и длительность периода, читаются из конфига один раз при старте.
type Plan struct {
	Price        float64
	DurationDays int
}

type SubscriptionService struct {
	store SubscriptionStore
	plan  Plan
	clock Clock
}

func NewSubscriptionService(store SubscriptionStore, plan Plan, clock Clock) *SubscriptionService {
	return &SubscriptionService{store: store, plan: plan, clock: clock}
}

// BuildStatus считает производные поля на момент now.
func BuildStatus(sub *models.Subscription, now time.Time, defaultPrice float64) models.SubscriptionStatus {
	status := models.SubscriptionStatus{Value: defaultPrice}
	if sub == nil {
		return status
	}
	if sub.Value != nil {
		status.Value = *sub.Value
	}
	status.Start = sub.Start
	status.End = sub.End
	status.AutoRenew = sub.AutoRenew

	today := models.NewDate(now)
	if sub.End != nil && !sub.End.Before(today.Time) {
		status.IsActive = true
		days := math.Ceil(sub.End.Sub(today.Time).Hours() / 24)
		status.DaysRemaining = int(math.Max(0, days))
	}
	return status
}

func isLapsed(sub *models.Subscription, today models.Date) bool {
	return sub.End == nil || sub.End.Before(today.Time)
}

// Get возвращает статус; истёкшая подписка с автопродлением продлевается перед ответом.
func (s *SubscriptionService) Get(ctx context.Context, accountID int64) (models.SubscriptionStatus, error) {
	now := s.clock.now()
	today := models.NewDate(now)

	sub, err := s.store.Get(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return BuildStatus(nil, now, s.plan.Price), nil
	}
	if err != nil {
		return models.SubscriptionStatus{}, err
	}

	if sub.AutoRenew && isLapsed(sub, today) {
		renewed, ok, err := s.store.RenewIfLapsed(ctx, accountID, today, today.AddDays(s.plan.DurationDays), s.plan.Price)
		if err != nil {
			return models.SubscriptionStatus{}, err
		}
		if ok {
			logger.WithCtx(ctx).Info("Подписка продлена при чтении",
				zap.Int64("account_id", accountID), zap.String("end", renewed.End.String()))
			metrics.SubscriptionRenewals.WithLabelValues("read").Inc()
			sub = renewed
		} else {
			// Параллельный запрос уже продлил - перечитываем.
			if sub, err = s.store.Get(ctx, accountID); err != nil {
				return models.SubscriptionStatus{}, err
			}
		}
	}

	return BuildStatus(sub, now, s.plan.Price), nil
}

// Start открывает новое окно независимо от текущего состояния.
func (s *SubscriptionService) Start(ctx context.Context, accountID int64, autoRenew *bool) (models.SubscriptionStatus, error) {
	now := s.clock.now()
	today := models.NewDate(now)
	renew := true
	if autoRenew != nil {
		renew = *autoRenew
	}

	logger.WithCtx(ctx).Info("Оформление подписки", zap.Int64("account_id", accountID), zap.Bool("auto_renew", renew))
	sub, err := s.store.Start(ctx, accountID, today, today.AddDays(s.plan.DurationDays), s.plan.Price, renew)
	if errors.Is(err, repository.ErrNotFound) {
		return models.SubscriptionStatus{}, fail(ErrNotFound, "Profile not found.")
	}
	if err != nil {
		return models.SubscriptionStatus{}, err
	}
	return BuildStatus(sub, now, s.plan.Price), nil
}

// SetAutoRenew меняет флаг; включение на истёкшей подписке сразу открывает новое окно.
func (s *SubscriptionService) SetAutoRenew(ctx context.Context, accountID int64, autoRenew bool) (models.SubscriptionStatus, error) {
	now := s.clock.now()
	today := models.NewDate(now)

	sub, renewed, err := s.store.SetAutoRenew(ctx, accountID, autoRenew, today, today.AddDays(s.plan.DurationDays), s.plan.Price)
	if errors.Is(err, repository.ErrNotFound) {
		return models.SubscriptionStatus{}, fail(ErrNotFound, "Profile not found.")
	}
	if err != nil {
		return models.SubscriptionStatus{}, err
	}
	if renewed {
		metrics.SubscriptionRenewals.WithLabelValues("auto_renew").Inc()
	}
	logger.WithCtx(ctx).Info("Автопродление изменено",
		zap.Int64("account_id", accountID), zap.Bool("auto_renew", autoRenew), zap.Bool("renewed", renewed))
	return BuildStatus(sub, now, s.plan.Price), nil
}

// IsActive проверяет текущее окно без продления: end_sub_date >= сегодня.
func (s *SubscriptionService) IsActive(ctx context.Context, accountID int64) (bool, error) {
	sub, err := s.store.Get(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return BuildStatus(sub, s.clock.now(), s.plan.Price).IsActive, nil
}

// RenewLapsed продлевает все истёкшие подписки с автопродлением (фоновая задача).
func (s *SubscriptionService) RenewLapsed(ctx context.Context) (int64, error) {
	today := s.clock.today()
	n, err := s.store.RenewAllLapsed(ctx, today, today.AddDays(s.plan.DurationDays), s.plan.Price)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.SubscriptionRenewals.WithLabelValues("sweep").Add(float64(n))
	}
	return n, nil
}
