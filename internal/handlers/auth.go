package handlers

import (
	"context"
	"net/http"

	"alexandread/internal/models"
	"alexandread/internal/utils/helpers"
)

type Authenticator interface {
	Register(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error)
}

type AuthHandler struct {
	auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register godoc
// @Summary Регистрация аккаунта
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.RegisterRequest true "Данные регистрации"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 409 {object} helpers.ErrorResponse
// @Failure 429 {object} helpers.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "auth.Register", err)
		return
	}
	helpers.JSON(w, http.StatusCreated, res)
}

// Login godoc
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.LoginRequest true "Данные для входа"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Failure 429 {object} helpers.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "auth.Login", err)
		return
	}
	helpers.JSON(w, http.StatusOK, res)
}
