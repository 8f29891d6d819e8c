package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
	"github.com/shopspring/decimal"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartStorage описывает методы для работы с корзиной и её строками.
type CartStorage interface {
	GetOrCreateCartByUserID(ctx context.Context, userID int64) (*models.Cart, error)
	// AddItem вставляет строку корзины со снимком цены. При повторном
	// добавлении того же товара количество суммируется, а снимок цены
	// остаётся ИСХОДНЫМ; line_total пересчитывается в том же операторе.
	AddItem(ctx context.Context, cartID, shopID, productID int64, quantity int, unitPrice decimal.Decimal) (*models.CartItem, error)
	GetItemsByCartID(ctx context.Context, cartID int64) ([]*models.CartLine, error)
	GetItemByID(ctx context.Context, itemID int64) (*models.CartItem, error)
	// UpdateItemQuantity выставляет количество и пересчитывает line_total
	// от сохранённого unit_price, а не от живой цены товара.
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*models.CartItem, error)
	DeleteItem(ctx context.Context, itemID int64) error
	// LockItemsByCartIDTx читает строки корзины под FOR UPDATE — используется
	// при оформлении заказа, чтобы конкурирующие запросы не меняли корзину.
	LockItemsByCartIDTx(ctx context.Context, tx *sql.Tx, cartID int64) ([]*models.CartItem, error)
	ClearCartTx(ctx context.Context, tx *sql.Tx, cartID int64) error
}

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *cartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetOrCreateCartByUserID(ctx context.Context, userID int64) (*models.Cart, error) {
	cart := &models.Cart{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1", userID)
	err := row.Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	// Корзины нет — создаём. ON CONFLICT на случай гонки двух первых запросов
	// одного пользователя.
	row = r.db.QueryRowContext(ctx, `
		INSERT INTO carts (user_id, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id, user_id, created_at, updated_at`, userID)
	if err := row.Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return cart, nil
}

const cartItemColumns = "id, cart_id, shop_id, product_id, quantity, unit_price, line_total, created_at, updated_at"

func scanCartItem(row interface{ Scan(...interface{}) error }) (*models.CartItem, error) {
	item := &models.CartItem{}
	err := row.Scan(&item.ID, &item.CartID, &item.ShopID, &item.ProductID,
		&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *cartRepository) AddItem(ctx context.Context, cartID, shopID, productID int64, quantity int, unitPrice decimal.Decimal) (*models.CartItem, error) {
	query := `
		INSERT INTO cart_items (cart_id, shop_id, product_id, quantity, unit_price, line_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $4::numeric * $5, NOW(), NOW())
		ON CONFLICT (cart_id, product_id) DO UPDATE
		SET quantity   = cart_items.quantity + EXCLUDED.quantity,
		    line_total = (cart_items.quantity + EXCLUDED.quantity)::numeric * cart_items.unit_price,
		    updated_at = NOW()
		RETURNING ` + cartItemColumns
	row := r.db.QueryRowContext(ctx, query, cartID, shopID, productID, quantity, unitPrice)
	item, err := scanCartItem(row)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	return item, nil
}

// GetItemsByCartID возвращает строки корзины с витринными полями товара и
// магазина, свежие строки первыми.
func (r *cartRepository) GetItemsByCartID(ctx context.Context, cartID int64) ([]*models.CartLine, error) {
	query := `
		SELECT ci.id AS cart_item_id, ci.cart_id, ci.shop_id, ci.product_id,
		       ci.quantity, ci.unit_price, ci.line_total, ci.created_at, ci.updated_at,
		       p.name AS product_name, p.description AS product_description,
		       p.image_url AS product_image, p.price AS product_price, p.category,
		       s.shop_name
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		JOIN shop_profiles s ON ci.shop_id = s.id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var lines []*models.CartLine
	for rows.Next() {
		line := &models.CartLine{}
		if err := rows.Scan(&line.CartItemID, &line.CartID, &line.ShopID, &line.ProductID,
			&line.Quantity, &line.UnitPrice, &line.LineTotal, &line.CreatedAt, &line.UpdatedAt,
			&line.ProductName, &line.ProductDescription, &line.ProductImage,
			&line.ProductPrice, &line.Category, &line.ShopName); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) GetItemByID(ctx context.Context, itemID int64) (*models.CartItem, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+cartItemColumns+" FROM cart_items WHERE id = $1", itemID)
	item, err := scanCartItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*models.CartItem, error) {
	query := `
		UPDATE cart_items
		SET quantity = $2, line_total = $2::numeric * unit_price, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + cartItemColumns
	row := r.db.QueryRowContext(ctx, query, itemID, quantity)
	item, err := scanCartItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	return item, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, itemID int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id = $1", itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) LockItemsByCartIDTx(ctx context.Context, tx *sql.Tx, cartID int64) ([]*models.CartItem, error) {
	query := "SELECT " + cartItemColumns + " FROM cart_items WHERE cart_id = $1 ORDER BY created_at DESC FOR UPDATE"
	rows, err := tx.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cart items: %w", err)
	}
	defer rows.Close()

	var items []*models.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) ClearCartTx(ctx context.Context, tx *sql.Tx, cartID int64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = $1", cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
