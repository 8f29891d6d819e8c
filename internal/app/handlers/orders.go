package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AlinaLna/fooddeli-app/internal/jwt-new/jwtmiddleware"
	"github.com/AlinaLna/fooddeli-app/internal/service"
)

// PlaceOrderRequest — входной JSON оформления заказа из корзины.
type PlaceOrderRequest struct {
	AddressID int64  `json:"address_id" validate:"required"`
	VoucherID *int64 `json:"voucher_id"`
}

// PlaceOrderHandler обрабатывает POST /api/orders.
func PlaceOrderHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PlaceOrderHandler"
		logger := log.With(slog.String("op", op))

		var req PlaceOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		order, err := checkoutService.PlaceOrder(r.Context(), userID, req.AddressID, req.VoucherID)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusCreated, order)
	}
}

// GetOrderHandler обрабатывает GET /api/orders/{orderID}.
func GetOrderHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := urlParamInt64(r, "orderID")
		if err != nil {
			logger.Error("invalid orderID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		order, err := checkoutService.GetOrder(r.Context(), userID, orderID)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, order)
	}
}
