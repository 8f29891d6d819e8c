package models

import (
	"encoding/json"
	"time"
)

// AddressLine — структурированная часть адреса. Старые клиенты присылают
// адрес одной строкой; обе формы приводятся к структурированной,
// отсутствующие подполя заполняются пустыми строками.
type AddressLine struct {
	Detail   string `json:"detail"`
	Ward     string `json:"ward"`
	District string `json:"district"`
	City     string `json:"city"`
}

func (l *AddressLine) UnmarshalJSON(data []byte) error {
	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		*l = AddressLine{Detail: legacy}
		return nil
	}

	type plain AddressLine
	var structured plain
	if err := json.Unmarshal(data, &structured); err != nil {
		return err
	}
	*l = AddressLine(structured)
	return nil
}

// Address принадлежит ровно одному пользователю. В любой момент времени
// флаг is_default стоит максимум у одного адреса пользователя.
type Address struct {
	ID          int64       `json:"address_id"`
	UserID      int64       `json:"user_id"`
	AddressLine AddressLine `json:"address_line"`
	Note        string      `json:"note"`
	AddressType string      `json:"address_type"`
	Lat         *float64    `json:"lat,omitempty"`
	Lon         *float64    `json:"lon,omitempty"`
	IsDefault   bool        `json:"is_default"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
