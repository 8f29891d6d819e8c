package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart — активная корзина пользователя; одна на пользователя.
type Cart struct {
	ID        int64     `json:"cart_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem — строка корзины. UnitPrice — снимок цены товара на момент
// добавления; LineTotal всегда равен Quantity × UnitPrice и никогда не
// пересчитывается от живой цены каталога.
type CartItem struct {
	ID        int64           `json:"cart_item_id"`
	CartID    int64           `json:"cart_id"`
	ShopID    int64           `json:"shop_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CartLine — строка корзины, обогащённая витринными полями товара и
// магазина через JOIN. Витринные поля отражают живой каталог; заморожены
// только UnitPrice и LineTotal.
type CartLine struct {
	CartItemID         int64           `json:"cart_item_id"`
	CartID             int64           `json:"cart_id"`
	ShopID             int64           `json:"shop_id"`
	ProductID          int64           `json:"product_id"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	LineTotal          decimal.Decimal `json:"line_total"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	ProductName        string          `json:"product_name"`
	ProductDescription string          `json:"product_description"`
	ProductImage       string          `json:"product_image"`
	ProductPrice       decimal.Decimal `json:"product_price"`
	Category           string          `json:"category"`
	ShopName           string          `json:"shop_name"`
}
