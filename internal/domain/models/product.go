package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Допустимые категории товара. Набор фиксированный, всё остальное
// отбрасывается до обращения к БД.
const (
	CategoryFood    = "food"
	CategoryDrink   = "drink"
	CategoryDessert = "dessert"
	CategoryCombo   = "combo"
	CategoryOther   = "other"
)

var validCategories = map[string]struct{}{
	CategoryFood:    {},
	CategoryDrink:   {},
	CategoryDessert: {},
	CategoryCombo:   {},
	CategoryOther:   {},
}

// IsValidCategory проверяет, входит ли категория в фиксированный набор.
func IsValidCategory(category string) bool {
	_, ok := validCategories[category]
	return ok
}

// Product — позиция каталога, принадлежащая магазину. Price — «живая»
// изменяемая цена каталога; строки корзины хранят собственный снимок цены.
type Product struct {
	ID          int64           `json:"product_id"`
	ShopID      int64           `json:"shop_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	IsAvailable bool            `json:"is_available"`
	PrepMinutes int             `json:"prep_minutes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
