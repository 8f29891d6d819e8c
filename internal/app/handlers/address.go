package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
	"github.com/AlinaLna/fooddeli-app/internal/jwt-new/jwtmiddleware"
	"github.com/AlinaLna/fooddeli-app/internal/service"
)

// AddressRequest — входной JSON адреса. address_line принимается и строкой
// (легаси-клиенты), и структурированным объектом — нормализация происходит
// при декодировании.
type AddressRequest struct {
	AddressLine models.AddressLine `json:"address_line"`
	Note        string             `json:"note"`
	AddressType string             `json:"address_type"`
	Lat         *float64           `json:"lat"`
	Lon         *float64           `json:"lon"`
	IsDefault   *bool              `json:"is_default"`
}

func (req *AddressRequest) toData() service.AddressData {
	return service.AddressData{
		AddressLine: req.AddressLine,
		Note:        req.Note,
		AddressType: req.AddressType,
		Lat:         req.Lat,
		Lon:         req.Lon,
	}
}

// AddressListResponse — адреса пользователя, default первым.
type AddressListResponse struct {
	Addresses []*models.Address `json:"addresses"`
}

// ListAddressesHandler обрабатывает GET /api/addresses.
func ListAddressesHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListAddressesHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		addresses, err := addressService.GetUserAddresses(r.Context(), userID)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, AddressListResponse{Addresses: addresses})
	}
}

// DefaultAddressHandler обрабатывает GET /api/addresses/default.
func DefaultAddressHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DefaultAddressHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		address, err := addressService.GetDefaultAddress(r.Context(), userID)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, address)
	}
}

// CreateAddressHandler обрабатывает POST /api/addresses.
func CreateAddressHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateAddressHandler"
		logger := log.With(slog.String("op", op))

		var req AddressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		makeDefault := req.IsDefault != nil && *req.IsDefault
		address, err := addressService.CreateAddressForUser(r.Context(), userID, req.toData(), makeDefault)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusCreated, address)
	}
}

// UpdateAddressHandler обрабатывает PATCH /api/addresses/{addressID}.
func UpdateAddressHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateAddressHandler"
		logger := log.With(slog.String("op", op))

		addressID, err := urlParamInt64(r, "addressID")
		if err != nil {
			logger.Error("invalid addressID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req AddressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		address, err := addressService.UpdateAddress(r.Context(), userID, addressID, req.toData(), req.IsDefault)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, address)
	}
}

// CompleteProfileAddressHandler обрабатывает PUT /api/profile/address —
// шаг завершения профиля. is_default по умолчанию true.
func CompleteProfileAddressHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CompleteProfileAddressHandler"
		logger := log.With(slog.String("op", op))

		var req AddressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		isPrimary := true
		if req.IsDefault != nil {
			isPrimary = *req.IsDefault
		}

		address, err := addressService.CompleteProfileAddress(r.Context(), userID, req.toData(), isPrimary)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, address)
	}
}
