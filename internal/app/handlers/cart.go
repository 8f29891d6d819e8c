package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
	"github.com/AlinaLna/fooddeli-app/internal/jwt-new/jwtmiddleware"
	"github.com/AlinaLna/fooddeli-app/internal/service"
)

// AddCartItemRequest — входной JSON добавления товара в корзину.
type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  *int  `json:"quantity" validate:"required"`
}

// UpdateCartItemRequest — входной JSON изменения количества. Ноль —
// валидное значение и означает удаление строки.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartResponse — корзина пользователя, свежие строки первыми.
type CartResponse struct {
	Items []*models.CartLine `json:"items"`
}

// GetCartHandler обрабатывает GET /api/cart.
func GetCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		lines, err := cartService.GetCart(r.Context(), userID)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, CartResponse{Items: lines})
	}
}

// AddCartItemHandler обрабатывает POST /api/cart/items.
func AddCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddCartItemHandler"
		logger := log.With(slog.String("op", op))

		var req AddCartItemRequest
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

		item, err := cartService.AddItem(r.Context(), userID, req.ProductID, *req.Quantity)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusCreated, item)
	}
}

// UpdateCartItemHandler обрабатывает PATCH /api/cart/items/{itemID}.
func UpdateCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCartItemHandler"
		logger := log.With(slog.String("op", op))

		itemID, err := urlParamInt64(r, "itemID")
		if err != nil {
			logger.Error("invalid itemID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req UpdateCartItemRequest
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

		item, err := cartService.UpdateQuantity(r.Context(), userID, itemID, *req.Quantity)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		// Количество 0 — строка удалена, возвращать нечего.
		if item == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		respondJSON(w, logger, http.StatusOK, item)
	}
}

// RemoveCartItemHandler обрабатывает DELETE /api/cart/items/{itemID}.
func RemoveCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RemoveCartItemHandler"
		logger := log.With(slog.String("op", op))

		itemID, err := urlParamInt64(r, "itemID")
		if err != nil {
			logger.Error("invalid itemID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := cartService.RemoveItem(r.Context(), userID, itemID); err != nil {
			respondError(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
