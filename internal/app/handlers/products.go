package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
	"github.com/AlinaLna/fooddeli-app/internal/service"
)

// UpdateAvailabilityRequest — входной JSON переключения «в продаже / снято».
type UpdateAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

// UpdateCategoryRequest — входной JSON смены категории.
type UpdateCategoryRequest struct {
	Category string `json:"category" validate:"required"`
}

// UpdatePrepMinutesRequest — входной JSON смены времени приготовления.
type UpdatePrepMinutesRequest struct {
	PrepMinutes *int `json:"prep_minutes" validate:"required"`
}

// ProductListResponse — список товаров.
type ProductListResponse struct {
	Products []*models.Product `json:"products"`
}

// UpdateAvailabilityHandler обрабатывает PATCH /api/products/{productID}/availability.
func UpdateAvailabilityHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateAvailabilityHandler"
		logger := log.With(slog.String("op", op))

		productID, err := urlParamInt64(r, "productID")
		if err != nil {
			logger.Error("invalid productID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req UpdateAvailabilityRequest
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

		product, err := catalogService.UpdateAvailability(r.Context(), productID, *req.IsAvailable)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, product)
	}
}

// UpdateCategoryHandler обрабатывает PATCH /api/products/{productID}/category.
func UpdateCategoryHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateCategoryHandler"
		logger := log.With(slog.String("op", op))

		productID, err := urlParamInt64(r, "productID")
		if err != nil {
			logger.Error("invalid productID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req UpdateCategoryRequest
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

		product, err := catalogService.UpdateCategory(r.Context(), productID, req.Category)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, product)
	}
}

// UpdatePrepMinutesHandler обрабатывает PATCH /api/products/{productID}/prep-minutes.
func UpdatePrepMinutesHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdatePrepMinutesHandler"
		logger := log.With(slog.String("op", op))

		productID, err := urlParamInt64(r, "productID")
		if err != nil {
			logger.Error("invalid productID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req UpdatePrepMinutesRequest
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

		product, err := catalogService.UpdatePrepMinutes(r.Context(), productID, *req.PrepMinutes)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, product)
	}
}

// ShopProductsHandler обрабатывает GET /api/shops/{shopID}/products.
func ShopProductsHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ShopProductsHandler"
		logger := log.With(slog.String("op", op))

		shopID, err := urlParamInt64(r, "shopID")
		if err != nil {
			logger.Error("invalid shopID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		products, err := catalogService.GetProductsByShop(r.Context(), shopID)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, ProductListResponse{Products: products})
	}
}

// AvailableProductsHandler обрабатывает GET /api/products/available.
func AvailableProductsHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AvailableProductsHandler"
		logger := log.With(slog.String("op", op))

		products, err := catalogService.GetAvailableProducts(r.Context())
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, ProductListResponse{Products: products})
	}
}
