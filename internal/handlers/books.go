package handlers

import (
	"context"
	"net/http"

	"alexandread/internal/models"
	"alexandread/internal/utils/helpers"
)

type BookCatalogue interface {
	List(ctx context.Context) ([]models.BookSummary, error)
	Search(ctx context.Context, q models.BookSearch) ([]models.BookSummary, error)
	Get(ctx context.Context, id int64) (*models.Book, error)
}

type BookHandler struct {
	books BookCatalogue
}

func NewBookHandler(books BookCatalogue) *BookHandler {
	return &BookHandler{books: books}
}

// List godoc
// @Summary Каталог книг
// @Tags books
// @Produce json
// @Success 200 {array} models.BookSummary
// @Router /api/books [get]
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "books.List", err)
		return
	}
	if books == nil {
		books = []models.BookSummary{}
	}
	helpers.JSON(w, http.StatusOK, books)
}

// Search godoc
// @Summary Поиск по названию и автору
// @Tags books
// @Produce json
// @Param q query string false "Подстрока названия или автора"
// @Param genre query string false "Жанр"
// @Param limit query int false "Максимум результатов (20, не больше 100)"
// @Success 200 {array} models.BookSummary
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/books/search [get]
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	books, err := h.books.Search(r.Context(), models.BookSearch{
		Query: q.Get("q"),
		Genre: q.Get("genre"),
		Limit: queryInt(r, "limit", 0),
	})
	if err != nil {
		writeServiceError(w, r, "books.Search", err)
		return
	}
	if books == nil {
		books = []models.BookSummary{}
	}
	helpers.JSON(w, http.StatusOK, books)
}

// Get godoc
// @Summary Книга по id
// @Tags books
// @Produce json
// @Param id path int true "ID книги"
// @Success 200 {object} models.Book
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/books/{id} [get]
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Invalid book id.")
	if !ok {
		return
	}
	b, err := h.books.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "books.Get", err)
		return
	}
	helpers.JSON(w, http.StatusOK, b)
}
