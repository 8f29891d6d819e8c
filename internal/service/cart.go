package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
	"github.com/AlinaLna/fooddeli-app/internal/storage"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrProductUnavailable = errors.New("product is not available for sale")
)

// CartService — корзина с фиксацией цены: unit_price копируется из каталога
// в момент добавления и дальнейшие правки каталога его не трогают.
type CartService interface {
	AddItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error)
	GetCart(ctx context.Context, userID int64) ([]*models.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID int64) error
}

type cartService struct {
	log         *slog.Logger
	cartRepo    storage.CartStorage
	productRepo storage.ProductStorage
}

func NewCartService(log *slog.Logger, cartRepo storage.CartStorage, productRepo storage.ProductStorage) CartService {
	return &cartService{log: log, cartRepo: cartRepo, productRepo: productRepo}
}

// AddItem добавляет товар в корзину пользователя. Цена берётся из живого
// каталога ровно один раз — здесь — и замораживается в строке корзины.
func (s *cartService) AddItem(ctx context.Context, userID, productID int64, quantity int) (*models.CartItem, error) {
	const op = "service.CartService.AddItem"
	logger := s.log.With(slog.String("op", op),
		slog.Int64("userID", userID), slog.Int64("productID", productID), slog.Int("quantity", quantity))

	if quantity <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		logger.Error("failed to get product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get product: %w", op, err)
	}
	if !product.IsAvailable {
		logger.Warn("product is not available")
		return nil, fmt.Errorf("%s: %w", op, ErrProductUnavailable)
	}

	cart, err := s.cartRepo.GetOrCreateCartByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}

	// Снимок цены: product.Price на момент добавления.
	item, err := s.cartRepo.AddItem(ctx, cart.ID, product.ShopID, product.ID, quantity, product.Price)
	if err != nil {
		logger.Error("failed to add cart item", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to add cart item: %w", op, err)
	}

	logger.Info("item added to cart", slog.Int64("cartItemID", item.ID))
	return item, nil
}

// GetCart возвращает строки корзины, свежие первыми, с витринными полями
// товара и магазина.
func (s *cartService) GetCart(ctx context.Context, userID int64) ([]*models.CartLine, error) {
	const op = "service.CartService.GetCart"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	cart, err := s.cartRepo.GetOrCreateCartByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}

	lines, err := s.cartRepo.GetItemsByCartID(ctx, cart.ID)
	if err != nil {
		logger.Error("failed to get cart items", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart items: %w", op, err)
	}
	if lines == nil {
		lines = []*models.CartLine{}
	}
	return lines, nil
}

// UpdateQuantity меняет количество; ноль эквивалентен удалению строки.
// line_total пересчитывается от сохранённого unit_price.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error) {
	const op = "service.CartService.UpdateQuantity"
	logger := s.log.With(slog.String("op", op),
		slog.Int64("userID", userID), slog.Int64("itemID", itemID), slog.Int("quantity", quantity))

	if quantity < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	if err := s.checkItemOwnership(ctx, userID, itemID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if quantity == 0 {
		if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
			logger.Error("failed to remove cart item", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to remove cart item: %w", op, err)
		}
		logger.Info("cart item removed (quantity set to zero)")
		return nil, nil
	}

	item, err := s.cartRepo.UpdateItemQuantity(ctx, itemID, quantity)
	if err != nil {
		logger.Error("failed to update quantity", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update quantity: %w", op, err)
	}

	logger.Info("cart item quantity updated")
	return item, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	const op = "service.CartService.RemoveItem"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("itemID", itemID))

	if err := s.checkItemOwnership(ctx, userID, itemID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
		logger.Error("failed to remove cart item", slog.Any("error", err))
		return fmt.Errorf("%s: failed to remove cart item: %w", op, err)
	}

	logger.Info("cart item removed")
	return nil
}

// checkItemOwnership проверяет, что строка принадлежит корзине пользователя.
// Чужая строка неотличима от несуществующей.
func (s *cartService) checkItemOwnership(ctx context.Context, userID, itemID int64) error {
	item, err := s.cartRepo.GetItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	cart, err := s.cartRepo.GetOrCreateCartByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if item.CartID != cart.ID {
		return storage.ErrCartItemNotFound
	}
	return nil
}
