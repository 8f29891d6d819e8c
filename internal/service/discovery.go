package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
	"github.com/AlinaLna/fooddeli-app/internal/lib/geo"
	"github.com/AlinaLna/fooddeli-app/internal/storage"
)

// DefaultRadiusKm — радиус поиска, если клиент его не передал.
const DefaultRadiusKm = 5.0

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidRadius      = errors.New("radius must be a positive number")
	ErrInvalidStatus      = errors.New("invalid shop status")
)

// ShopService — поиск магазинов по близости и управление статусом.
type ShopService interface {
	FindNearbyShops(ctx context.Context, lat, lon, radiusKm float64) ([]*models.NearbyShop, error)
	UpdateStatus(ctx context.Context, shopID int64, status string) (*models.ShopProfile, error)
	GetShopByUserID(ctx context.Context, userID int64) (*models.ShopProfile, error)
}

type shopService struct {
	log      *slog.Logger
	shopRepo storage.ShopStorage
}

func NewShopService(log *slog.Logger, shopRepo storage.ShopStorage) ShopService {
	return &shopService{log: log, shopRepo: shopRepo}
}

// FindNearbyShops считает хаверсинусное расстояние от запрашивающего до
// каждого ОТКРЫТОГО магазина и оставляет магазины в пределах радиуса
// (граница включительно). Закрытые и pending-магазины отсечены ещё на
// уровне выборки, до фильтра по расстоянию. Магазин без пригодной пары
// координат пропускается, а не роняет вычисление.
func (s *shopService) FindNearbyShops(ctx context.Context, lat, lon, radiusKm float64) ([]*models.NearbyShop, error) {
	const op = "service.ShopService.FindNearbyShops"
	logger := s.log.With(slog.String("op", op),
		slog.Float64("lat", lat), slog.Float64("lon", lon), slog.Float64("radiusKm", radiusKm))

	if !geo.ValidCoordinate(lat, lon) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCoordinates)
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidRadius)
	}

	locations, err := s.shopRepo.GetOpenShopLocations(ctx)
	if err != nil {
		logger.Error("failed to load open shops", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to load open shops: %w", op, err)
	}

	// Пустой список — валидный результат, не ошибка.
	result := make([]*models.NearbyShop, 0, len(locations))
	for _, loc := range locations {
		if loc.Lat == nil || loc.Lon == nil || !geo.ValidCoordinate(*loc.Lat, *loc.Lon) {
			logger.Warn("shop has no usable coordinates, skipping", slog.Int64("shopID", loc.ID))
			continue
		}
		distance := geo.Distance(lat, lon, *loc.Lat, *loc.Lon)
		if distance <= radiusKm {
			result = append(result, &models.NearbyShop{
				ShopProfile: loc.ShopProfile,
				DistanceKm:  distance,
			})
		}
	}

	// Строго по возрастанию расстояния, при равенстве — по id магазина,
	// чтобы порядок был детерминированным.
	sort.Slice(result, func(i, j int) bool {
		if result[i].DistanceKm != result[j].DistanceKm {
			return result[i].DistanceKm < result[j].DistanceKm
		}
		return result[i].ID < result[j].ID
	})

	logger.Info("nearby shops found", slog.Int("count", len(result)))
	return result, nil
}

// UpdateStatus переводит магазин в один из статусов open/closed/pending.
func (s *shopService) UpdateStatus(ctx context.Context, shopID int64, status string) (*models.ShopProfile, error) {
	const op = "service.ShopService.UpdateStatus"
	logger := s.log.With(slog.String("op", op), slog.Int64("shopID", shopID), slog.String("status", status))

	if !models.IsValidShopStatus(status) {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrInvalidStatus, status)
	}

	shop, err := s.shopRepo.UpdateStatus(ctx, shopID, status)
	if err != nil {
		logger.Error("failed to update shop status", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("shop status updated")
	return shop, nil
}

func (s *shopService) GetShopByUserID(ctx context.Context, userID int64) (*models.ShopProfile, error) {
	const op = "service.ShopService.GetShopByUserID"

	shop, err := s.shopRepo.GetShopByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return shop, nil
}
