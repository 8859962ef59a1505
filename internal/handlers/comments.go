package handlers

import (
	"context"
	"net/http"

	"alexandread/internal/models"
	"alexandread/internal/services"
	"alexandread/internal/utils/helpers"
)

type CommentBoard interface {
	Stats(ctx context.Context, bookID int64) (*models.CommentStats, error)
	ListForBook(ctx context.Context, bookID int64, limit, offset int) (*models.CommentPage, error)
	Create(ctx context.Context, accountID int64, in models.CommentRequest) (*models.Comment, error)
	Update(ctx context.Context, accountID, commentID int64, in models.CommentRequest) (*models.Comment, error)
	Delete(ctx context.Context, accountID, commentID int64) error
}

type CommentHandler struct {
	comments CommentBoard
}

func NewCommentHandler(comments CommentBoard) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Stats godoc
// @Summary Средняя оценка и число отзывов
// @Tags comments
// @Produce json
// @Param bookId path int true "ID книги"
// @Success 200 {object} models.CommentStats
// @Router /api/comments/stats/{bookId} [get]
func (h *CommentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(w, r, "bookId", "Invalid book id.")
	if !ok {
		return
	}
	st, err := h.comments.Stats(r.Context(), bookID)
	if err != nil {
		writeServiceError(w, r, "comments.Stats", err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

// ListForBook godoc
// @Summary Отзывы к книге, новые первыми
// @Tags comments
// @Produce json
// @Param bookId path int true "ID книги"
// @Param limit query int false "Размер страницы (10)"
// @Param offset query int false "Смещение"
// @Success 200 {object} models.CommentPage
// @Router /api/comments/book/{bookId} [get]
func (h *CommentHandler) ListForBook(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(w, r, "bookId", "Invalid book id.")
	if !ok {
		return
	}
	page, err := h.comments.ListForBook(r.Context(), bookID,
		queryInt(r, "limit", services.DefaultCommentLimit), queryInt(r, "offset", 0))
	if err != nil {
		writeServiceError(w, r, "comments.ListForBook", err)
		return
	}
	if page.Comments == nil {
		page.Comments = []models.Comment{}
	}
	helpers.JSON(w, http.StatusOK, page)
}

// Create godoc
// @Summary Оставить отзыв
// @Tags comments
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.CommentRequest true "Отзыв"
// @Success 201 {object} models.Comment
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 403 {object} helpers.ErrorResponse "Премиум-книга без активной подписки"
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse "Отзыв уже есть"
// @Router /api/comments [post]
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CommentRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.comments.Create(r.Context(), accountID, req)
	if err != nil {
		writeServiceError(w, r, "comments.Create", err)
		return
	}
	helpers.JSON(w, http.StatusCreated, c)
}

// Update godoc
// @Summary Изменить свой отзыв
// @Tags comments
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param commentId path int true "ID отзыва"
// @Param input body models.CommentRequest true "Оценка и текст"
// @Success 200 {object} models.Comment
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/comments/{commentId} [put]
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	accountID, ok := currentUser(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "commentId", "Invalid comment id.")
	if !ok {
		return
	}
	var req models.CommentRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.comments.Update(r.Context(), accountID, commentID, req)
	if err != nil {
		writeServiceError(w, r, "comments.Update", err)
		return
	}
	helpers.JSON(w, http.StatusOK, c)
}

// Delete godoc
// @Summary Удалить свой отзыв
// @Tags comments
// @Security ApiKeyAuth
// @Produce json
// @Param commentId path int true "ID отзыва"
// @Success 200 {object} messageResponse
// @Failure 403 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/comments/{commentId} [delete]
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, ok := currentUser(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "commentId", "Invalid comment id.")
	if !ok {
		return
	}
	if err := h.comments.Delete(r.Context(), accountID, commentID); err != nil {
		writeServiceError(w, r, "comments.Delete", err)
		return
	}
	helpers.JSON(w, http.StatusOK, messageResponse{Message: "Comment deleted successfully."})
}
