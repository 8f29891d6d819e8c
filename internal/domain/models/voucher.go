package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher — промокод. Заказы ссылаются на ваучеры через таблицу-связку
// order_vouchers, а не встраиванием.
type Voucher struct {
	ID             int64           `json:"voucher_id"`
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
