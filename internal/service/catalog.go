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
	ErrInvalidCategory    = errors.New("invalid product category")
	ErrInvalidPrepMinutes = errors.New("prep minutes must be a non-negative integer")
)

// CatalogService — операции каталога, за которыми стоит инвариант:
// фиксированный набор категорий, флаг доступности, время приготовления.
// Обычный CRUD по товарам сюда намеренно не входит.
type CatalogService interface {
	UpdateAvailability(ctx context.Context, productID int64, available bool) (*models.Product, error)
	UpdateCategory(ctx context.Context, productID int64, category string) (*models.Product, error)
	UpdatePrepMinutes(ctx context.Context, productID int64, minutes int) (*models.Product, error)
	GetProductsByShop(ctx context.Context, shopID int64) ([]*models.Product, error)
	GetAvailableProducts(ctx context.Context) ([]*models.Product, error)
}

type catalogService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage) CatalogService {
	return &catalogService{log: log, productRepo: productRepo}
}

func (s *catalogService) UpdateAvailability(ctx context.Context, productID int64, available bool) (*models.Product, error) {
	const op = "service.CatalogService.UpdateAvailability"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", productID), slog.Bool("available", available))

	product, err := s.productRepo.UpdateAvailability(ctx, productID, available)
	if err != nil {
		logger.Error("failed to update availability", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product availability updated")
	return product, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, productID int64, category string) (*models.Product, error) {
	const op = "service.CatalogService.UpdateCategory"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", productID), slog.String("category", category))

	if !models.IsValidCategory(category) {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrInvalidCategory, category)
	}

	product, err := s.productRepo.UpdateCategory(ctx, productID, category)
	if err != nil {
		logger.Error("failed to update category", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product category updated")
	return product, nil
}

func (s *catalogService) UpdatePrepMinutes(ctx context.Context, productID int64, minutes int) (*models.Product, error) {
	const op = "service.CatalogService.UpdatePrepMinutes"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", productID), slog.Int("minutes", minutes))

	if minutes < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPrepMinutes)
	}

	product, err := s.productRepo.UpdatePrepMinutes(ctx, productID, minutes)
	if err != nil {
		logger.Error("failed to update prep minutes", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product prep minutes updated")
	return product, nil
}

func (s *catalogService) GetProductsByShop(ctx context.Context, shopID int64) ([]*models.Product, error) {
	const op = "service.CatalogService.GetProductsByShop"

	products, err := s.productRepo.GetProductsByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return products, nil
}

func (s *catalogService) GetAvailableProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "service.CatalogService.GetAvailableProducts"

	products, err := s.productRepo.GetAvailableProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return products, nil
}
