package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
)

var ErrProductNotFound = errors.New("product not found")

// ProductStorage описывает методы для работы с таблицей products.
type ProductStorage interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	UpdateAvailability(ctx context.Context, id int64, available bool) (*models.Product, error)
	UpdateCategory(ctx context.Context, id int64, category string) (*models.Product, error)
	UpdatePrepMinutes(ctx context.Context, id int64, minutes int) (*models.Product, error)
	GetProductsByShop(ctx context.Context, shopID int64) ([]*models.Product, error)
	GetAvailableProducts(ctx context.Context) ([]*models.Product, error)
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *productRepository {
	return &productRepository{db: db}
}

const productColumns = "id, shop_id, name, description, image_url, price, category, is_available, prep_minutes, created_at, updated_at"

func scanProduct(row interface{ Scan(...interface{}) error }) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.ShopID, &p.Name, &p.Description, &p.ImageURL,
		&p.Price, &p.Category, &p.IsAvailable, &p.PrepMinutes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// UpdateAvailability переключает флаг "ещё продаётся / снято с продажи".
func (r *productRepository) UpdateAvailability(ctx context.Context, id int64, available bool) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE products SET is_available = $1, updated_at = NOW() WHERE id = $2 RETURNING "+productColumns,
		available, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update availability: %w", err)
	}
	return product, nil
}

// UpdateCategory обновляет категорию; значение проверяется на уровне сервиса,
// а в миграции дополнительно стоит CHECK-ограничение.
func (r *productRepository) UpdateCategory(ctx context.Context, id int64, category string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE products SET category = $1, updated_at = NOW() WHERE id = $2 RETURNING "+productColumns,
		category, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return product, nil
}

func (r *productRepository) UpdatePrepMinutes(ctx context.Context, id int64, minutes int) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE products SET prep_minutes = $1, updated_at = NOW() WHERE id = $2 RETURNING "+productColumns,
		minutes, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update prep minutes: %w", err)
	}
	return product, nil
}

func (r *productRepository) GetProductsByShop(ctx context.Context, shopID int64) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE shop_id = $1 ORDER BY updated_at DESC", shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by shop: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *productRepository) GetAvailableProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE is_available = true ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query available products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]*models.Product, error) {
	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
