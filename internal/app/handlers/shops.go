package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
	"github.com/AlinaLna/fooddeli-app/internal/jwt-new/jwtmiddleware"
	"github.com/AlinaLna/fooddeli-app/internal/service"
)

// NearbyShopsResponse — магазины в радиусе, ближние первыми.
type NearbyShopsResponse struct {
	Shops []*models.NearbyShop `json:"shops"`
}

// UpdateShopStatusRequest — входной JSON смены статуса магазина.
type UpdateShopStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// NearbyShopsHandler обрабатывает GET /api/shops/nearby?lat=&lon=&radius_km=.
// radius_km необязателен, по умолчанию 5 км.
func NearbyShopsHandler(log *slog.Logger, shopService service.ShopService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.NearbyShopsHandler"
		logger := log.With(slog.String("op", op))

		lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		if err != nil {
			logger.Error("invalid lat parameter")
			http.Error(w, "lat query parameter is required and must be a number", http.StatusBadRequest)
			return
		}
		lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
		if err != nil {
			logger.Error("invalid lon parameter")
			http.Error(w, "lon query parameter is required and must be a number", http.StatusBadRequest)
			return
		}

		radiusKm := service.DefaultRadiusKm
		if raw := r.URL.Query().Get("radius_km"); raw != "" {
			radiusKm, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				logger.Error("invalid radius_km parameter")
				http.Error(w, "radius_km must be a number", http.StatusBadRequest)
				return
			}
		}

		shops, err := shopService.FindNearbyShops(r.Context(), lat, lon, radiusKm)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, NearbyShopsResponse{Shops: shops})
	}
}

// UpdateShopStatusHandler обрабатывает PATCH /api/shops/{shopID}/status.
func UpdateShopStatusHandler(log *slog.Logger, shopService service.ShopService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateShopStatusHandler"
		logger := log.With(slog.String("op", op))

		shopID, err := urlParamInt64(r, "shopID")
		if err != nil {
			logger.Error("invalid shopID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req UpdateShopStatusRequest
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

		shop, err := shopService.UpdateStatus(r.Context(), shopID, req.Status)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, shop)
	}
}

// MyShopHandler обрабатывает GET /api/shops/mine — магазин текущего владельца.
func MyShopHandler(log *slog.Logger, shopService service.ShopService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MyShopHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		shop, err := shopService.GetShopByUserID(r.Context(), userID)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, shop)
	}
}
