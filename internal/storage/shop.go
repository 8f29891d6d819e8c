package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
)

var ErrShopNotFound = errors.New("shop not found")

// ShopStorage описывает методы для работы с таблицей shop_profiles.
type ShopStorage interface {
	GetShopByID(ctx context.Context, id int64) (*models.ShopProfile, error)
	GetShopByUserID(ctx context.Context, userID int64) (*models.ShopProfile, error)
	UpdateStatus(ctx context.Context, shopID int64, status string) (*models.ShopProfile, error)
	// GetOpenShopLocations возвращает открытые магазины вместе с координатами
	// их адресов. Магазины без адреса тоже попадают в выборку (LEFT JOIN),
	// отбрасывает их уже слой поиска.
	GetOpenShopLocations(ctx context.Context) ([]*models.ShopLocation, error)
}

type shopRepository struct {
	db *sql.DB
}

func NewShopRepository(db *sql.DB) *shopRepository {
	return &shopRepository{db: db}
}

const shopColumns = "id, user_id, shop_name, status, shop_address_id, created_at, updated_at"

func scanShop(row interface{ Scan(...interface{}) error }) (*models.ShopProfile, error) {
	s := &models.ShopProfile{}
	var addressID sql.NullInt64
	err := row.Scan(&s.ID, &s.UserID, &s.ShopName, &s.Status, &addressID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if addressID.Valid {
		s.ShopAddressID = &addressID.Int64
	}
	return s, nil
}

func (r *shopRepository) GetShopByID(ctx context.Context, id int64) (*models.ShopProfile, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+shopColumns+" FROM shop_profiles WHERE id = $1", id)
	shop, err := scanShop(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return shop, nil
}

// GetShopByUserID ищет магазин по владельцу (у каждого магазина ровно один
// пользователь-владелец).
func (r *shopRepository) GetShopByUserID(ctx context.Context, userID int64) (*models.ShopProfile, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+shopColumns+" FROM shop_profiles WHERE user_id = $1 LIMIT 1", userID)
	shop, err := scanShop(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	return shop, nil
}

// UpdateStatus выставляет статус open/closed/pending; валидность значения
// проверяет сервис.
func (r *shopRepository) UpdateStatus(ctx context.Context, shopID int64, status string) (*models.ShopProfile, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE shop_profiles SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING "+shopColumns,
		status, shopID)
	shop, err := scanShop(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to update shop status: %w", err)
	}
	return shop, nil
}

func (r *shopRepository) GetOpenShopLocations(ctx context.Context) ([]*models.ShopLocation, error) {
	query := `
		SELECT s.id, s.user_id, s.shop_name, s.status, s.shop_address_id, s.created_at, s.updated_at,
		       a.lat, a.lon
		FROM shop_profiles s
		LEFT JOIN addresses a ON s.shop_address_id = a.id
		WHERE s.status = 'open'
		ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query open shops: %w", err)
	}
	defer rows.Close()

	var shops []*models.ShopLocation
	for rows.Next() {
		loc := &models.ShopLocation{}
		var addressID sql.NullInt64
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&loc.ID, &loc.UserID, &loc.ShopName, &loc.Status, &addressID,
			&loc.CreatedAt, &loc.UpdatedAt, &lat, &lon); err != nil {
			return nil, err
		}
		if addressID.Valid {
			loc.ShopAddressID = &addressID.Int64
		}
		if lat.Valid {
			loc.Lat = &lat.Float64
		}
		if lon.Valid {
			loc.Lon = &lon.Float64
		}
		shops = append(shops, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shops, nil
}
