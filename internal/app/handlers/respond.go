package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/AlinaLna/fooddeli-app/internal/service"
	"github.com/AlinaLna/fooddeli-app/internal/storage"
)

var validate = validator.New()

// errorStatus переводит доменную ошибку в HTTP-статус. Ошибки вне таксономии
// считаются инфраструктурными и наружу не показываются.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrMissingIDs),
		errors.Is(err, service.ErrInvalidCoordinates),
		errors.Is(err, service.ErrInvalidRadius),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidPrepMinutes):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrProductNotFound),
		errors.Is(err, storage.ErrShopNotFound),
		errors.Is(err, storage.ErrCartNotFound),
		errors.Is(err, storage.ErrCartItemNotFound),
		errors.Is(err, storage.ErrAddressNotFound),
		errors.Is(err, storage.ErrNoDefaultAddress),
		errors.Is(err, storage.ErrOrderNotFound),
		errors.Is(err, storage.ErrVoucherNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrVoucherNotApplicable),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrMixedShopCart):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError отдаёт доменную ошибку с конкретным сообщением, а всё
// остальное — как обезличенную серверную ошибку.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", slog.Any("error", err))
		http.Error(w, "internal server error", status)
		return
	}
	logger.Warn("request rejected", slog.Any("error", err))
	http.Error(w, err.Error(), status)
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// urlParamInt64 достаёт числовой параметр пути; 0 и отрицательные значения
// считаются некорректными.
func urlParamInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return id, nil
}
