package handlers

import (
	"context"
	"net/http"

	"alexandread/internal/models"
	"alexandread/internal/utils/helpers"
)

type Recommender interface {
	Recommend(ctx context.Context, accountID int64) ([]models.BookSummary, error)
}

type RecommendationHandler struct {
	recs Recommender
}

func NewRecommendationHandler(recs Recommender) *RecommendationHandler {
	return &RecommendationHandler{recs: recs}
}

// Get godoc
// @Summary Персональные рекомендации (без уже прочитанного)
// @Tags recommendations
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.BookSummary
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/recommendations [get]
func (h *RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := currentUser(w, r)
	if !ok {
		return
	}
	books, err := h.recs.Recommend(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, "recommendations.Get", err)
		return
	}
	if books == nil {
		books = []models.BookSummary{}
	}
	helpers.JSON(w, http.StatusOK, books)
}
