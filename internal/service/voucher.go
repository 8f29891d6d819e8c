package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
	"github.com/AlinaLna/fooddeli-app/internal/storage"
)

var (
	ErrMissingIDs           = errors.New("order id and voucher id are required")
	ErrVoucherNotApplicable = errors.New("voucher is not applied to this order")
)

// VoucherService управляет связкой «заказ — ваучер». Скидки здесь не
// считаются, это чистое управление ассоциацией.
type VoucherService interface {
	// AddVoucherToOrder идемпотентен: повторное применение того же ваучера
	// к тому же заказу не создаёт дубликата и не является ошибкой.
	AddVoucherToOrder(ctx context.Context, orderID, voucherID int64) error
	GetVouchersByOrderID(ctx context.Context, orderID int64) ([]*models.Voucher, error)
	DeleteVouchersByOrderID(ctx context.Context, orderID int64) (int64, error)
	// DeleteSpecificVoucher сначала проверяет, что ваучер действительно
	// применён к заказу; иначе ErrVoucherNotApplicable. Проверка — часть
	// контракта, а не оптимизация.
	DeleteSpecificVoucher(ctx context.Context, orderID, voucherID int64) (bool, error)
}

type voucherService struct {
	log         *slog.Logger
	db          *sql.DB
	voucherRepo storage.VoucherStorage
	orderRepo   storage.OrderStorage
}

func NewVoucherService(log *slog.Logger, db *sql.DB, voucherRepo storage.VoucherStorage, orderRepo storage.OrderStorage) VoucherService {
	return &voucherService{log: log, db: db, voucherRepo: voucherRepo, orderRepo: orderRepo}
}

func (s *voucherService) AddVoucherToOrder(ctx context.Context, orderID, voucherID int64) error {
	const op = "service.VoucherService.AddVoucherToOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID), slog.Int64("voucherID", voucherID))

	if orderID <= 0 || voucherID <= 0 {
		return fmt.Errorf("%s: %w", op, ErrMissingIDs)
	}

	if _, err := s.orderRepo.GetOrderByID(ctx, orderID); err != nil {
		logger.Error("failed to get order", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get order: %w", op, err)
	}
	if _, err := s.voucherRepo.GetVoucherByID(ctx, voucherID); err != nil {
		logger.Error("failed to get voucher", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get voucher: %w", op, err)
	}

	inserted, err := s.voucherRepo.AddVoucherToOrder(ctx, orderID, voucherID)
	if err != nil {
		logger.Error("failed to add voucher to order", slog.Any("error", err))
		return fmt.Errorf("%s: failed to add voucher to order: %w", op, err)
	}
	if !inserted {
		// Пара уже существует — для вызывающего это no-op.
		logger.Info("voucher already applied to order")
		return nil
	}

	logger.Info("voucher applied to order")
	return nil
}

func (s *voucherService) GetVouchersByOrderID(ctx context.Context, orderID int64) ([]*models.Voucher, error) {
	const op = "service.VoucherService.GetVouchersByOrderID"

	if orderID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingIDs)
	}

	vouchers, err := s.voucherRepo.GetVouchersByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if vouchers == nil {
		vouchers = []*models.Voucher{}
	}
	return vouchers, nil
}

func (s *voucherService) DeleteVouchersByOrderID(ctx context.Context, orderID int64) (int64, error) {
	const op = "service.VoucherService.DeleteVouchersByOrderID"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID))

	if orderID <= 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrMissingIDs)
	}

	removed, err := s.voucherRepo.DeleteVouchersByOrderID(ctx, orderID)
	if err != nil {
		logger.Error("failed to delete order vouchers", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to delete order vouchers: %w", op, err)
	}

	logger.Info("order vouchers cleared", slog.Int64("removed", removed))
	return removed, nil
}

// DeleteSpecificVoucher выполняет «проверить, потом удалить» в одной
// транзакции, чтобы конкурирующее удаление не прошло между шагами.
func (s *voucherService) DeleteSpecificVoucher(ctx context.Context, orderID, voucherID int64) (bool, error) {
	const op = "service.VoucherService.DeleteSpecificVoucher"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID), slog.Int64("voucherID", voucherID))

	if orderID <= 0 || voucherID <= 0 {
		return false, fmt.Errorf("%s: %w", op, ErrMissingIDs)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return false, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	applied, err := s.voucherRepo.VoucherAppliedTx(ctx, tx, orderID, voucherID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to check voucher association", slog.Any("error", err))
		return false, fmt.Errorf("%s: failed to check voucher association: %w", op, err)
	}
	if !applied {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Warn("voucher is not applied to order")
		return false, fmt.Errorf("%s: %w", op, ErrVoucherNotApplicable)
	}

	deleted, err := s.voucherRepo.DeleteVoucherFromOrderTx(ctx, tx, orderID, voucherID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to delete voucher from order", slog.Any("error", err))
		return false, fmt.Errorf("%s: failed to delete voucher from order: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return false, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("voucher removed from order")
	return deleted, nil
}
