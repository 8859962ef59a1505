package handlers

import (
	"context"
	"net/http"

	"alexandread/internal/models"
	"alexandread/internal/storage"
	"alexandread/internal/utils/helpers"
)

type BookEditor interface {
	Create(ctx context.Context, in models.CreateBookRequest) (*models.Book, error)
	Update(ctx context.Context, id int64, in models.UpdateBookRequest) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
	Upload(ctx context.Context, bucket string, in models.UploadRequest) (*models.UploadResult, error)
}

type CommentModerator interface {
	List(ctx context.Context, f models.CommentFilter) (*models.CommentPage, error)
	Moderate(ctx context.Context, commentID int64, in models.CommentRequest) (*models.Comment, error)
	Remove(ctx context.Context, commentID int64) error
}

// AdminHandler - каталог и модерация отзывов. Роль проверяет middleware.OnlyRole.
type AdminHandler struct {
	books    BookEditor
	comments CommentModerator
}

func NewAdminHandler(books BookEditor, comments CommentModerator) *AdminHandler {
	return &AdminHandler{books: books, comments: comments}
}

// CreateBook godoc
// @Summary Добавить книгу
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CreateBookRequest true "Книга"
// @Success 201 {object} models.Book
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Router /api/admin/books [post]
func (h *AdminHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookRequest
	if !decode(w, r, &req) {
		return
	}
	b, err := h.books.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "admin.CreateBook", err)
		return
	}
	helpers.JSON(w, http.StatusCreated, b)
}

// UpdateBook godoc
// @Summary Изменить книгу
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID книги"
// @Param input body models.UpdateBookRequest true "Изменяемые поля"
// @Success 200 {object} models.Book
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/admin/books/{id} [put]
func (h *AdminHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Invalid book id.")
	if !ok {
		return
	}
	var req models.UpdateBookRequest
	if !decode(w, r, &req) {
		return
	}
	b, err := h.books.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, "admin.UpdateBook", err)
		return
	}
	helpers.JSON(w, http.StatusOK, b)
}

// DeleteBook godoc
// @Summary Удалить книгу
// @Tags admin
// @Security ApiKeyAuth
// @Param id path int true "ID книги"
// @Success 204
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/admin/books/{id} [delete]
func (h *AdminHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Invalid book id.")
	if !ok {
		return
	}
	if err := h.books.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, "admin.DeleteBook", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadCover godoc
// @Summary Загрузить обложку
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.UploadRequest true "Файл (data URL)"
// @Success 201 {object} models.UploadResult
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/admin/upload/cover [post]
func (h *AdminHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, storage.BucketCovers)
}

// UploadBook godoc
// @Summary Загрузить текст книги
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.UploadRequest true "Файл (data URL)"
// @Success 201 {object} models.UploadResult
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/admin/upload/book [post]
func (h *AdminHandler) UploadBook(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, storage.BucketBooks)
}

func (h *AdminHandler) upload(w http.ResponseWriter, r *http.Request, bucket string) {
	var req models.UploadRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.books.Upload(r.Context(), bucket, req)
	if err != nil {
		writeServiceError(w, r, "admin.Upload", err)
		return
	}
	helpers.JSON(w, http.StatusCreated, res)
}

// ListComments godoc
// @Summary Все отзывы с фильтрами
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param bookId query int false "ID книги"
// @Param userId query int false "ID аккаунта"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} models.CommentPage
// @Router /api/admin/comments [get]
func (h *AdminHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	f := models.CommentFilter{
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}
	if id := int64(queryInt(r, "bookId", 0)); id > 0 {
		f.BookID = &id
	}
	if id := int64(queryInt(r, "userId", 0)); id > 0 {
		f.UserID = &id
	}
	page, err := h.comments.List(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, "admin.ListComments", err)
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

// ModerateComment godoc
// @Summary Правка любого отзыва
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID отзыва"
// @Param input body models.CommentRequest true "Оценка и текст"
// @Success 200 {object} models.Comment
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/admin/comments/{id} [put]
func (h *AdminHandler) ModerateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Invalid comment id.")
	if !ok {
		return
	}
	var req models.CommentRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.comments.Moderate(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, "admin.ModerateComment", err)
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// RemoveComment godoc
// @Summary Удалить любой отзыв
// @Tags admin
// @Security ApiKeyAuth
// @Param id path int true "ID отзыва"
// @Success 204
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/admin/comments/{id} [delete]
func (h *AdminHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Invalid comment id.")
	if !ok {
		return
	}
	if err := h.comments.Remove(r.Context(), id); err != nil {
		writeServiceError(w, r, "admin.RemoveComment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
