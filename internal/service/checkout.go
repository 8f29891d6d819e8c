package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
	"github.com/AlinaLna/fooddeli-app/internal/storage"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrMixedShopCart = errors.New("cart contains items from more than one shop")
)

// OrderStatusPending — статус только что оформленного заказа.
const OrderStatusPending = "pending"

// CheckoutService конвертирует корзину в заказ. Снимки цен переносятся из
// строк корзины в строки заказа без изменений; корзина очищается в той же
// транзакции.
type CheckoutService interface {
	PlaceOrder(ctx context.Context, userID, addressID int64, voucherID *int64) (*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID int64) (*models.Order, error)
}

type checkoutService struct {
	log         *slog.Logger
	db          *sql.DB
	cartRepo    storage.CartStorage
	orderRepo   storage.OrderStorage
	addressRepo storage.AddressStorage
	voucherRepo storage.VoucherStorage
}

func NewCheckoutService(log *slog.Logger, db *sql.DB, cartRepo storage.CartStorage,
	orderRepo storage.OrderStorage, addressRepo storage.AddressStorage,
	voucherRepo storage.VoucherStorage) CheckoutService {
	return &checkoutService{
		log:         log,
		db:          db,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		addressRepo: addressRepo,
		voucherRepo: voucherRepo,
	}
}

// PlaceOrder оформляет заказ из корзины пользователя. Корзина из нескольких
// магазинов отклоняется: заказ всегда принадлежит одному магазину.
func (s *checkoutService) PlaceOrder(ctx context.Context, userID, addressID int64, voucherID *int64) (*models.Order, error) {
	const op = "service.CheckoutService.PlaceOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("addressID", addressID))
	logger.Info("starting checkout transaction")

	// Адрес доставки обязан существовать и принадлежать покупателю.
	address, err := s.addressRepo.GetAddressByID(ctx, addressID)
	if err != nil {
		logger.Error("failed to get delivery address", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get delivery address: %w", op, err)
	}
	if address.UserID != userID {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrAddressNotFound)
	}

	if voucherID != nil {
		if _, err := s.voucherRepo.GetVoucherByID(ctx, *voucherID); err != nil {
			logger.Error("failed to get voucher", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to get voucher: %w", op, err)
		}
	}

	cart, err := s.cartRepo.GetOrCreateCartByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	// Строки корзины блокируются до конца транзакции, чтобы параллельное
	// добавление/удаление не попало в середину конвертации.
	items, err := s.cartRepo.LockItemsByCartIDTx(ctx, tx, cart.ID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to lock cart items", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to lock cart items: %w", op, err)
	}
	if len(items) == 0 {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	shopID := items[0].ShopID
	total := decimal.Zero
	for _, item := range items {
		if item.ShopID != shopID {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Warn("cart spans multiple shops")
			return nil, fmt.Errorf("%s: %w", op, ErrMixedShopCart)
		}
		total = total.Add(item.LineTotal)
	}

	orderID, err := s.orderRepo.CreateOrderTx(ctx, tx, &models.Order{
		UserID:    userID,
		ShopID:    shopID,
		AddressID: addressID,
		Status:    OrderStatusPending,
		Total:     total,
	})
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	// Снимки цен переезжают из корзины в заказ как есть.
	for _, item := range items {
		orderItem := &models.OrderItem{
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
		if err := s.orderRepo.CreateOrderItemTx(ctx, tx, orderItem); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to create order item", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to create order item: %w", op, err)
		}
	}

	if voucherID != nil {
		if _, err := s.voucherRepo.AddVoucherToOrderTx(ctx, tx, orderID, *voucherID); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to apply voucher", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to apply voucher: %w", op, err)
		}
	}

	if err := s.cartRepo.ClearCartTx(ctx, tx, cart.ID); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to clear cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to clear cart: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("order placed", slog.Int64("orderID", orderID))
	return s.orderRepo.GetOrderByID(ctx, orderID)
}

func (s *checkoutService) GetOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	const op = "service.CheckoutService.GetOrder"

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Чужой заказ неотличим от несуществующего.
	if order.UserID != userID {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrOrderNotFound)
	}
	return order, nil
}
