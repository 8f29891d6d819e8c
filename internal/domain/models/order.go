package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order создаётся из корзины при оформлении. Его строки несут снимки цен,
// скопированные из строк корзины без изменений.
type Order struct {
	ID        int64           `json:"order_id"`
	UserID    int64           `json:"user_id"`
	ShopID    int64           `json:"shop_id"`
	AddressID int64           `json:"address_id"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Items     []*OrderItem    `json:"items,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// OrderItem — строка заказа, полученная конвертацией строки корзины.
type OrderItem struct {
	ID        int64           `json:"order_item_id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}
