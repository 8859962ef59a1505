package app

import (
	"context"
	"time"

	"alexandread/internal/cache"
	"alexandread/internal/config"
	"alexandread/internal/db"
	"alexandread/internal/handlers"
	"alexandread/internal/logger"
	"alexandread/internal/middleware"
	"alexandread/internal/repository"
	"alexandread/internal/routes"
	"alexandread/internal/services"
	"alexandread/internal/storage"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// InitApp поднимает зависимости и собирает роутер. cleanup закрывает пул и Redis.
// Фоновое продление подписок живёт, пока не отменён ctx.
func InitApp(ctx context.Context, cfg *config.Config) (router *mux.Router, cleanup func(), err error) {
	conn, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){conn.Close}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	defer func() {
		if err != nil {
			closeAll()
		}
	}()

	if cfg.DbAutoMigrate {
		if err = db.Migrate(conn); err != nil {
			return nil, nil, err
		}
		logger.Log.Info("Миграции применены")
	}

	checks := map[string]handlers.Pinger{"postgres": conn}

	var c cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			logger.Log.Warn("Redis недоступен, кэш выключен", zap.Error(err))
		} else {
			closers = append(closers, func() { _ = rc.Close() })
			checks["redis"] = rc
			c = rc
		}
	}

	files, err := storage.NewLocalBuckets(cfg.StorageDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, nil, err
	}

	// Репозитории
	accountRepo := repository.NewAccountRepository(conn)
	subRepo := repository.NewSubscriptionRepository(conn)
	bookRepo := repository.NewBookRepository(conn)
	commentRepo := repository.NewCommentRepository(conn)
	readingRepo := repository.NewReadingRepository(conn)
	savedRepo := repository.NewSavedBooksRepository(conn)
	readBooksRepo := repository.NewReadBooksRepository(conn)
	candidateRepo := repository.NewCandidateRepository(conn)

	// Сервисы
	clock := services.Clock(time.Now)
	plan := services.Plan{Price: cfg.PlanPrice, DurationDays: cfg.PlanDuration()}
	breaker := services.BreakerSettings{ConsecutiveFailures: cfg.RecsBreakerFailures, OpenTimeout: cfg.BreakerTimeout()}

	authSvc := services.NewAuthService(accountRepo, cfg.JWTSecret, cfg.TokenTTL())
	accountSvc := services.NewAccountService(accountRepo, files, cfg.AvatarMaxFileBytes, clock)
	subSvc := services.NewSubscriptionService(subRepo, plan, clock)
	bookSvc := services.NewBookService(bookRepo, c, cfg.CacheDuration(), files, cfg.UploadMaxFileBytes, clock)
	commentSvc := services.NewCommentService(commentRepo, bookRepo, subSvc, c, cfg.CacheDuration())
	readingSvc := services.NewReadingService(readingRepo, clock)
	recSvc := services.NewRecommendationService(accountRepo, readingRepo, bookRepo,
		services.WithBreaker(services.NewCollaborativeSource(candidateRepo), breaker),
		services.WithBreaker(services.NewTrendingSource(candidateRepo), breaker),
	)

	// Хендлеры
	h := routes.Handlers{
		Health:          handlers.NewHealthHandler(checks),
		Auth:            handlers.NewAuthHandler(authSvc),
		Account:         handlers.NewAccountHandler(accountSvc),
		Books:           handlers.NewBookHandler(bookSvc),
		Admin:           handlers.NewAdminHandler(bookSvc, commentSvc),
		Comments:        handlers.NewCommentHandler(commentSvc),
		Reading:         handlers.NewReadingHandler(readingSvc),
		Saved:           handlers.NewSavedBooksHandler(services.NewShelfService(savedRepo)),
		ReadBooks:       handlers.NewReadBooksHandler(services.NewShelfService(readBooksRepo)),
		Recommendations: handlers.NewRecommendationHandler(recSvc),
		Subscription:    handlers.NewSubscriptionHandler(subSvc),
	}

	// Включается только явно: фоновое продление сдвигает окно на момент обхода, а не первого чтения.
	StartSubscriptionSweeper(ctx, subSvc, cfg.SweepInterval())

	// Маршруты
	router = mux.NewRouter()
	routes.InitRoutes(router, h, routes.Options{
		JWTSecret:   cfg.JWTSecret,
		AuthLimiter: middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst).TrustProxy(cfg.TrustProxy),
		StorageDir:  files.Root(),
	})

	return router, closeAll, nil
}
