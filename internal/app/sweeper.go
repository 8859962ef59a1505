package app

import (
	"context"
	"time"

	"alexandread/internal/logger"

	"go.uber.org/zap"
)

type lapsedRenewer interface {
	RenewLapsed(ctx context.Context) (int64, error)
}

// StartSubscriptionSweeper продлевает истёкшие подписки с автопродлением: сразу и затем раз в interval.
// interval <= 0 выключает фоновую задачу, продление при чтении работает и без неё.
func StartSubscriptionSweeper(ctx context.Context, svc lapsedRenewer, interval time.Duration) {
	if interval <= 0 {
		logger.Log.Info("Фоновое продление подписок выключено")
		return
	}

	sweep := func() {
		n, err := svc.RenewLapsed(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Log.Error("Ошибка фонового продления подписок", zap.Error(err))
			}
			return
		}
		if n > 0 {
			logger.Log.Info("Подписки продлены", zap.Int64("count", n))
		}
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		sweep()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				sweep()
			}
		}
	}()
}
