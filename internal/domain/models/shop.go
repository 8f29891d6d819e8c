package models

import "time"

// Статусы работы магазина. Переходы — явные действия владельца/админа,
// никакого автоматического конечного автомата за ними нет.
const (
	ShopStatusOpen    = "open"
	ShopStatusClosed  = "closed"
	ShopStatusPending = "pending"
)

// IsValidShopStatus проверяет, что статус один из open/closed/pending.
func IsValidShopStatus(status string) bool {
	switch status {
	case ShopStatusOpen, ShopStatusClosed, ShopStatusPending:
		return true
	}
	return false
}

// ShopProfile — операционная карточка магазина. Поиском по близости
// находятся только магазины со статусом "open".
type ShopProfile struct {
	ID            int64     `json:"shop_id"`
	UserID        int64     `json:"user_id"`
	ShopName      string    `json:"shop_name"`
	Status        string    `json:"status"`
	ShopAddressID *int64    `json:"shop_address_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ShopLocation — профиль магазина вместе с координатами его адреса.
// Lat/Lon равны nil, если у адреса нет пригодной пары координат.
type ShopLocation struct {
	ShopProfile
	Lat *float64 `json:"-"`
	Lon *float64 `json:"-"`
}

// NearbyShop — результат поиска: магазин плюс вычисленное расстояние
// по дуге большого круга до запрашивающего.
type NearbyShop struct {
	ShopProfile
	DistanceKm float64 `json:"distance_km"`
}
