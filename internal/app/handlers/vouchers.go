package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
	"github.com/AlinaLna/fooddeli-app/internal/service"
)

// AddOrderVoucherRequest — входной JSON применения ваучера к заказу.
type AddOrderVoucherRequest struct {
	VoucherID int64 `json:"voucher_id" validate:"required"`
}

// OrderVouchersResponse — набор ваучеров, применённых к заказу.
type OrderVouchersResponse struct {
	Vouchers []*models.Voucher `json:"vouchers"`
}

// ClearVouchersResponse — результат массовой очистки связок.
type ClearVouchersResponse struct {
	Removed int64 `json:"removed"`
}

// AddOrderVoucherHandler обрабатывает POST /api/orders/{orderID}/vouchers.
// Повторное применение того же ваучера — no-op, а не ошибка.
func AddOrderVoucherHandler(log *slog.Logger, voucherService service.VoucherService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddOrderVoucherHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := urlParamInt64(r, "orderID")
		if err != nil {
			logger.Error("invalid orderID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req AddOrderVoucherRequest
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

		if err := voucherService.AddVoucherToOrder(r.Context(), orderID, req.VoucherID); err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, map[string]string{"message": "voucher applied to order"})
	}
}

// ListOrderVouchersHandler обрабатывает GET /api/orders/{orderID}/vouchers.
func ListOrderVouchersHandler(log *slog.Logger, voucherService service.VoucherService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrderVouchersHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := urlParamInt64(r, "orderID")
		if err != nil {
			logger.Error("invalid orderID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		vouchers, err := voucherService.GetVouchersByOrderID(r.Context(), orderID)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, OrderVouchersResponse{Vouchers: vouchers})
	}
}

// ClearOrderVouchersHandler обрабатывает DELETE /api/orders/{orderID}/vouchers.
func ClearOrderVouchersHandler(log *slog.Logger, voucherService service.VoucherService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ClearOrderVouchersHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := urlParamInt64(r, "orderID")
		if err != nil {
			logger.Error("invalid orderID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		removed, err := voucherService.DeleteVouchersByOrderID(r.Context(), orderID)
		if err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, ClearVouchersResponse{Removed: removed})
	}
}

// RemoveOrderVoucherHandler обрабатывает DELETE /api/orders/{orderID}/vouchers/{voucherID}.
func RemoveOrderVoucherHandler(log *slog.Logger, voucherService service.VoucherService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RemoveOrderVoucherHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := urlParamInt64(r, "orderID")
		if err != nil {
			logger.Error("invalid orderID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		voucherID, err := urlParamInt64(r, "voucherID")
		if err != nil {
			logger.Error("invalid voucherID", slog.Any("error", err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if _, err := voucherService.DeleteSpecificVoucher(r.Context(), orderID, voucherID); err != nil {
			respondError(w, logger, err)
			return
		}

		respondJSON(w, logger, http.StatusOK, map[string]string{"message": "voucher removed from order"})
	}
}
