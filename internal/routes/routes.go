package routes

import (
	"net/http"

	"alexandread/internal/handlers"
	"alexandread/internal/middleware"
	"alexandread/internal/storage"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	Account         *handlers.AccountHandler
	Books           *handlers.BookHandler
	Admin           *handlers.AdminHandler
	Comments        *handlers.CommentHandler
	Reading         *handlers.ReadingHandler
	Saved           *handlers.ShelfHandler
	ReadBooks       *handlers.ShelfHandler
	Recommendations *handlers.RecommendationHandler
	Subscription    *handlers.SubscriptionHandler
}

type Options struct {
	JWTSecret   string
	AuthLimiter *middleware.IPRateLimiter
	StorageDir  string
}

func InitRoutes(router *mux.Router, h Handlers, opts Options) {
	router.Use(middleware.Metrics)

	router.HandleFunc("/", h.Health.Root).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.Health.Healthz).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	router.PathPrefix(storage.PublicPrefix).Handler(
		http.StripPrefix(storage.PublicPrefix, http.FileServer(http.Dir(opts.StorageDir))))

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	auth := api.PathPrefix("/auth").Subrouter()
	if opts.AuthLimiter != nil {
		auth.Use(opts.AuthLimiter.Middleware)
	}
	auth.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Auth.Login).Methods(http.MethodPost)

	api.HandleFunc("/books", h.Books.List).Methods(http.MethodGet)
	api.HandleFunc("/books/search", h.Books.Search).Methods(http.MethodGet)
	api.HandleFunc("/books/{id}", h.Books.Get).Methods(http.MethodGet)

	api.HandleFunc("/comments/stats/{bookId}", h.Comments.Stats).Methods(http.MethodGet)
	api.HandleFunc("/comments/book/{bookId}", h.Comments.ListForBook).Methods(http.MethodGet)

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(opts.JWTSecret))

	protected.HandleFunc("/account/me", h.Account.Me).Methods(http.MethodGet)
	protected.HandleFunc("/account/me", h.Account.Update).Methods(http.MethodPut)
	protected.HandleFunc("/account/me", h.Account.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/account/me/avatar", h.Account.UploadAvatar).Methods(http.MethodPost)

	reading := protected.PathPrefix("/account/reading").Subrouter()
	reading.HandleFunc("", h.Reading.Current).Methods(http.MethodGet)
	reading.HandleFunc("/history", h.Reading.History).Methods(http.MethodGet)
	reading.HandleFunc("/{bookId}", h.Reading.Status).Methods(http.MethodGet)
	reading.HandleFunc("/{bookId}/start", h.Reading.Start).Methods(http.MethodPost)
	reading.HandleFunc("/{bookId}/finish", h.Reading.Finish).Methods(http.MethodPost)

	protected.HandleFunc("/account/saved", h.Saved.List).Methods(http.MethodGet)
	protected.HandleFunc("/account/saved", h.Saved.Add).Methods(http.MethodPost)
	protected.HandleFunc("/account/saved/{bookId}", h.Saved.Remove).Methods(http.MethodDelete)
	protected.HandleFunc("/account/read-books", h.ReadBooks.List).Methods(http.MethodGet)
	protected.HandleFunc("/account/read-books", h.ReadBooks.Add).Methods(http.MethodPost)

	protected.HandleFunc("/comments", h.Comments.Create).Methods(http.MethodPost)
	protected.HandleFunc("/comments/{commentId}", h.Comments.Update).Methods(http.MethodPut)
	protected.HandleFunc("/comments/{commentId}", h.Comments.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/recommendations", h.Recommendations.Get).Methods(http.MethodGet)

	protected.HandleFunc("/subscription/me", h.Subscription.Me).Methods(http.MethodGet)
	protected.HandleFunc("/subscription/start", h.Subscription.Start).Methods(http.MethodPost)
	protected.HandleFunc("/subscription/auto-renew", h.Subscription.SetAutoRenew).Methods(http.MethodPatch)

	// --- Только admin ---
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.OnlyRole("admin"))
	admin.HandleFunc("/books", h.Admin.CreateBook).Methods(http.MethodPost)
	admin.HandleFunc("/books/{id}", h.Admin.UpdateBook).Methods(http.MethodPut)
	admin.HandleFunc("/books/{id}", h.Admin.DeleteBook).Methods(http.MethodDelete)
	admin.HandleFunc("/upload/cover", h.Admin.UploadCover).Methods(http.MethodPost)
	admin.HandleFunc("/upload/book", h.Admin.UploadBook).Methods(http.MethodPost)
	admin.HandleFunc("/comments", h.Admin.ListComments).Methods(http.MethodGet)
	admin.HandleFunc("/comments/{id}", h.Admin.ModerateComment).Methods(http.MethodPut)
	admin.HandleFunc("/comments/{id}", h.Admin.RemoveComment).Methods(http.MethodDelete)
}
