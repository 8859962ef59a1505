package handlers

import (
	"context"
	"net/http"

	"alexandread/internal/models"
	"alexandread/internal/utils/helpers"
)

type Shelf interface {
	IDs(ctx context.Context, accountID int64) ([]int64, error)
	Add(ctx context.Context, accountID int64, in models.BookIDRequest) error
	Remove(ctx context.Context, accountID, bookID int64) error
}

// ShelfHandler обслуживает и закладки, и список прочитанного; различается только ключ ответа.
type ShelfHandler struct {
	shelf Shelf
	key   string
	name  string
}

func NewSavedBooksHandler(shelf Shelf) *ShelfHandler {
	return &ShelfHandler{shelf: shelf, key: "savedBookIds", name: "saved"}
}

func NewReadBooksHandler(shelf Shelf) *ShelfHandler {
	return &ShelfHandler{shelf: shelf, key: "readBookIds", name: "read-books"}
}

type bookIDResponse struct {
	BookID int64 `json:"bookId"`
}

// List godoc
// @Summary Id книг на полке (savedBookIds или readBookIds)
// @Tags library
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string][]int64
// @Router /api/account/saved [get]
// @Router /api/account/read-books [get]
func (h *ShelfHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := currentUser(w, r)
	if !ok {
		return
	}
	ids, err := h.shelf.IDs(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, h.name+".List", err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	helpers.JSON(w, http.StatusOK, map[string][]int64{h.key: ids})
}

// Add godoc
// @Summary Положить книгу на полку
// @Tags library
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.BookIDRequest true "Книга"
// @Success 201 {object} bookIDResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/account/saved [post]
// @Router /api/account/read-books [post]
func (h *ShelfHandler) Add(w http.ResponseWriter, r *http.Request) {
	accountID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.BookIDRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.shelf.Add(r.Context(), accountID, req); err != nil {
		writeServiceError(w, r, h.name+".Add", err)
		return
	}
	helpers.JSON(w, http.StatusCreated, bookIDResponse{BookID: req.BookID})
}

// Remove godoc
// @Summary Убрать книгу из закладок
// @Tags library
// @Security ApiKeyAuth
// @Param bookId path int true "ID книги"
// @Success 204
// @Router /api/account/saved/{bookId} [delete]
func (h *ShelfHandler) Remove(w http.ResponseWriter, r *http.Request) {
	accountID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookID, ok := pathID(w, r, "bookId", "Invalid book id.")
	if !ok {
		return
	}
	if err := h.shelf.Remove(r.Context(), accountID, bookID); err != nil {
		writeServiceError(w, r, h.name+".Remove", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
