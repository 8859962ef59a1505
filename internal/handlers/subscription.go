package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"alexandread/internal/models"
	"alexandread/internal/utils/helpers"
	"alexandread/internal/utils/validation"
)

type SubscriptionManager interface {
	Get(ctx context.Context, accountID int64) (models.SubscriptionStatus, error)
	Start(ctx context.Context, accountID int64, autoRenew *bool) (models.SubscriptionStatus, error)
	SetAutoRenew(ctx context.Context, accountID int64, autoRenew bool) (models.SubscriptionStatus, error)
}

type SubscriptionHandler struct {
	subs SubscriptionManager
}

func NewSubscriptionHandler(subs SubscriptionManager) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs}
}

// Me godoc
// @Summary Статус подписки (истёкшая с автопродлением продлевается)
// @Tags subscription
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.SubscriptionResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /api/subscription/me [get]
func (h *SubscriptionHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := currentUser(w, r)
	if !ok {
		return
	}
	st, err := h.subs.Get(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, r, "subscription.Me", err)
		return
	}
	helpers.JSON(w, http.StatusOK, models.SubscriptionResponse{Subscription: st})
}

// Start godoc
// @Summary Оформить подписку на новый период
// @Tags subscription
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.StartSubscriptionRequest false "autoRenew (по умолчанию true)"
// @Success 201 {object} models.SubscriptionResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/subscription/start [post]
func (h *SubscriptionHandler) Start(w http.ResponseWriter, r *http.Request) {
	accountID, ok := currentUser(w, r)
	if !ok {
		return
	}
	// Тело необязательно: пустой запрос = autoRenew по умолчанию.
	var req models.StartSubscriptionRequest
	if err := helpers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}
	st, err := h.subs.Start(r.Context(), accountID, req.AutoRenew)
	if err != nil {
		writeServiceError(w, r, "subscription.Start", err)
		return
	}
	helpers.JSON(w, http.StatusCreated, models.SubscriptionResponse{Subscription: st})
}

// SetAutoRenew godoc
// @Summary Включить или выключить автопродление
// @Tags subscription
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.AutoRenewRequest true "autoRenew"
// @Success 200 {object} models.SubscriptionResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/subscription/auto-renew [patch]
func (h *SubscriptionHandler) SetAutoRenew(w http.ResponseWriter, r *http.Request) {
	accountID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.AutoRenewRequest
	if !decode(w, r, &req) {
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		writeServiceError(w, r, "subscription.SetAutoRenew", err)
		return
	}
	st, err := h.subs.SetAutoRenew(r.Context(), accountID, *req.AutoRenew)
	if err != nil {
		writeServiceError(w, r, "subscription.SetAutoRenew", err)
		return
	}
	helpers.JSON(w, http.StatusOK, models.SubscriptionResponse{Subscription: st})
}
