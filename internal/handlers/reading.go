package handlers

import (
	"context"
	"net/http"

	"alexandread/internal/models"
	"alexandread/internal/utils/helpers"
)

type ReadingTracker interface {
	Current(ctx context.Context, accountID int64) ([]models.ReadingEntry, error)
	History(ctx context.Context, accountID int64) ([]models.ReadingEntry, error)
	Status(ctx context.Context, accountID, bookID int64) (*models.ReadingEntry, error)
	Start(ctx context.Context, accountID, bookID int64) (*models.ReadingEntry, bool, error)
	Finish(ctx context.Context, accountID, bookID int64) (*models.ReadingEntry, error)
}

type ReadingHandler struct {
	reading ReadingTracker
}

func NewReadingHandler(reading ReadingTracker) *ReadingHandler {
	return &ReadingHandler{reading: reading}
}

type entriesResponse struct {
	Entries []models.ReadingEntry `json:"entries"`
}

type entryResponse struct {
	Entry *models.ReadingEntry `json:"entry"`
}

// Current godoc
// @Summary Книги в процессе чтения
// @Tags reading
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} entriesResponse
// @Router /api/account/reading [get]
func (h *ReadingHandler) Current(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "reading.Current", h.reading.Current)
}

// History godoc
// @Summary Дочитанные книги
// @Tags reading
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} entriesResponse
// @Router /api/account/reading/history [get]
func (h *ReadingHandler) History(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "reading.History", h.reading.History)
}

func (h *ReadingHandler) list(w http.ResponseWriter, r *http.Request, op string,
	load func(context.Context, int64) ([]models.ReadingEntry, error)) {
	accountID, ok := currentUser(w, r)
	if !ok {
		return
	}
	entries, err := load(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	if entries == nil {
		entries = []models.ReadingEntry{}
	}
	helpers.JSON(w, http.StatusOK, entriesResponse{Entries: entries})
}

// Status godoc
// @Summary Прогресс по книге (entry = null, если не начинали)
// @Tags reading
// @Security ApiKeyAuth
// @Produce json
// @Param bookId path int true "ID книги"
// @Success 200 {object} entryResponse
// @Router /api/account/reading/{bookId} [get]
func (h *ReadingHandler) Status(w http.ResponseWriter, r *http.Request) {
	accountID, bookID, ok := h.ids(w, r)
	if !ok {
		return
	}
	e, err := h.reading.Status(r.Context(), accountID, bookID)
	if err != nil {
		writeServiceError(w, r, "reading.Status", err)
		return
	}
	helpers.JSON(w, http.StatusOK, entryResponse{Entry: e})
}

// Start godoc
// @Summary Начать (или перечитать) книгу
// @Tags reading
// @Security ApiKeyAuth
// @Produce json
// @Param bookId path int true "ID книги"
// @Success 200 {object} entryResponse "Запись уже была"
// @Success 201 {object} entryResponse "Новая запись"
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/account/reading/{bookId}/start [post]
func (h *ReadingHandler) Start(w http.ResponseWriter, r *http.Request) {
	accountID, bookID, ok := h.ids(w, r)
	if !ok {
		return
	}
	e, created, err := h.reading.Start(r.Context(), accountID, bookID)
	if err != nil {
		writeServiceError(w, r, "reading.Start", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	helpers.JSON(w, status, entryResponse{Entry: e})
}

// Finish godoc
// @Summary Отметить книгу дочитанной
// @Tags reading
// @Security ApiKeyAuth
// @Produce json
// @Param bookId path int true "ID книги"
// @Success 200 {object} entryResponse
// @Failure 400 {object} helpers.ErrorResponse "Уже дочитана"
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/account/reading/{bookId}/finish [post]
func (h *ReadingHandler) Finish(w http.ResponseWriter, r *http.Request) {
	accountID, bookID, ok := h.ids(w, r)
	if !ok {
		return
	}
	e, err := h.reading.Finish(r.Context(), accountID, bookID)
	if err != nil {
		writeServiceError(w, r, "reading.Finish", err)
		return
	}
	helpers.JSON(w, http.StatusOK, entryResponse{Entry: e})
}

func (h *ReadingHandler) ids(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	accountID, ok := currentUser(w, r)
	if !ok {
		return 0, 0, false
	}
	bookID, ok := pathID(w, r, "bookId", "Invalid book id.")
	return accountID, bookID, ok
}
