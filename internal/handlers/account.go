package handlers

import (
	"context"
	"net/http"

	"alexandread/internal/models"
	"alexandread/internal/utils/helpers"
)

type AccountManager interface {
	Get(ctx context.Context, id int64) (*models.Account, error)
	Update(ctx context.Context, id int64, in models.UpdateProfileRequest) (*models.Account, error)
	UploadAvatar(ctx context.Context, id int64, image string) (*models.Account, error)
	Delete(ctx context.Context, id int64) error
}

type AccountHandler struct {
	accounts AccountManager
}

func NewAccountHandler(accounts AccountManager) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type profileResponse struct {
	Profile *models.Account `json:"profile"`
}

// Me godoc
// @Summary Профиль текущего аккаунта
// @Tags account
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} profileResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/account/me [get]
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}
	a, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "account.Me", err)
		return
	}
	helpers.JSON(w, http.StatusOK, profileResponse{Profile: a})
}

// Update godoc
// @Summary Частичное обновление профиля
// @Tags account
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.UpdateProfileRequest true "Изменяемые поля"
// @Success 200 {object} profileResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Router /api/account/me [put]
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.accounts.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, "account.Update", err)
		return
	}
	helpers.JSON(w, http.StatusOK, profileResponse{Profile: a})
}

// UploadAvatar godoc
// @Summary Загрузка аватара (data URL)
// @Tags account
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.AvatarRequest true "Картинка"
// @Success 200 {object} profileResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/account/me/avatar [post]
func (h *AccountHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.AvatarRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.accounts.UploadAvatar(r.Context(), id, req.Image)
	if err != nil {
		writeServiceError(w, r, "account.UploadAvatar", err)
		return
	}
	helpers.JSON(w, http.StatusOK, profileResponse{Profile: a})
}

// Delete godoc
// @Summary Удаление аккаунта со всеми данными
// @Tags account
// @Security ApiKeyAuth
// @Success 204
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/account/me [delete]
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.accounts.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, "account.Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
