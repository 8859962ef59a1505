package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"alexandread/internal/logger"
	"alexandread/internal/reqctx"
	"alexandread/internal/services"
	"alexandread/internal/utils/helpers"
	"alexandread/internal/utils/validation"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const msgInternal = "Internal server error"

// writeServiceError переводит ошибку сервиса в HTTP-статус. Всё неизвестное - 500 с общим текстом.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		helpers.Error(w, http.StatusBadRequest, verr.Message)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error("Ошибка обработки запроса", zap.String("op", op), zap.Error(err))
		helpers.Error(w, status, msgInternal)
		return
	}
	logger.WithCtx(r.Context()).Info("Запрос отклонён", zap.String("op", op), zap.Int("status", status), zap.Error(err))
	helpers.Error(w, status, err.Error())
}

// currentUser достаёт id аккаунта, положенный JWTAuth; без него отвечает 401.
func currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := reqctx.GetUserID(r.Context())
	if !ok || id <= 0 {
		helpers.Error(w, http.StatusUnauthorized, "Unauthorized")
		return 0, false
	}
	return id, true
}

// pathID разбирает положительный целочисленный параметр маршрута; иначе 400.
func pathID(w http.ResponseWriter, r *http.Request, name, msg string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		helpers.Error(w, http.StatusBadRequest, msg)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := helpers.DecodeJSON(r, dst); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON", zap.String("path", r.URL.Path), zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Invalid JSON body.")
		return false
	}
	return true
}

type messageResponse struct {
	Message string `json:"message"`
}
