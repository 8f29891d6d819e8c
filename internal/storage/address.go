package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
)

var (
	ErrAddressNotFound  = errors.New("address not found")
	ErrNoDefaultAddress = errors.New("no default address")
)

// AddressStorage описывает методы для работы с таблицей addresses.
// Методы с суффиксом Tx выполняются внутри переданной транзакции: пара
// «снять старый default — поставить новый» обязана быть атомарной.
type AddressStorage interface {
	GetAddressesByUserID(ctx context.Context, userID int64) ([]*models.Address, error)
	GetAddressByID(ctx context.Context, id int64) (*models.Address, error)
	GetDefaultAddress(ctx context.Context, userID int64) (*models.Address, error)
	CreateAddressTx(ctx context.Context, tx *sql.Tx, address *models.Address) (*models.Address, error)
	UpdateAddressTx(ctx context.Context, tx *sql.Tx, address *models.Address) (*models.Address, error)
	// ClearDefaultTx снимает флаг default со всех адресов пользователя.
	ClearDefaultTx(ctx context.Context, tx *sql.Tx, userID int64) error
}

type addressRepository struct {
	db *sql.DB
}

func NewAddressRepository(db *sql.DB) *addressRepository {
	return &addressRepository{db: db}
}

const addressColumns = "id, user_id, detail, ward, district, city, note, address_type, lat, lon, is_default, created_at, updated_at"

func scanAddress(row interface{ Scan(...interface{}) error }) (*models.Address, error) {
	a := &models.Address{}
	var lat, lon sql.NullFloat64
	err := row.Scan(&a.ID, &a.UserID, &a.AddressLine.Detail, &a.AddressLine.Ward,
		&a.AddressLine.District, &a.AddressLine.City, &a.Note, &a.AddressType,
		&lat, &lon, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		a.Lat = &lat.Float64
	}
	if lon.Valid {
		a.Lon = &lon.Float64
	}
	return a, nil
}

// GetAddressesByUserID возвращает адреса пользователя, default первым.
func (r *addressRepository) GetAddressesByUserID(ctx context.Context, userID int64) ([]*models.Address, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	var addresses []*models.Address
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *addressRepository) GetAddressByID(ctx context.Context, id int64) (*models.Address, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE id = $1", id)
	address, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return address, nil
}

func (r *addressRepository) GetDefaultAddress(ctx context.Context, userID int64) (*models.Address, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+addressColumns+" FROM addresses WHERE user_id = $1 AND is_default = true", userID)
	address, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDefaultAddress
		}
		return nil, err
	}
	return address, nil
}

func (r *addressRepository) CreateAddressTx(ctx context.Context, tx *sql.Tx, address *models.Address) (*models.Address, error) {
	query := `
		INSERT INTO addresses (user_id, detail, ward, district, city, note, address_type, lat, lon, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING ` + addressColumns
	row := tx.QueryRowContext(ctx, query,
		address.UserID, address.AddressLine.Detail, address.AddressLine.Ward,
		address.AddressLine.District, address.AddressLine.City, address.Note,
		address.AddressType, nullFloat(address.Lat), nullFloat(address.Lon), address.IsDefault)
	created, err := scanAddress(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return created, nil
}

func (r *addressRepository) UpdateAddressTx(ctx context.Context, tx *sql.Tx, address *models.Address) (*models.Address, error) {
	query := `
		UPDATE addresses
		SET detail = $2, ward = $3, district = $4, city = $5,
		    note = $6, address_type = $7, lat = $8, lon = $9, is_default = $10,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + addressColumns
	row := tx.QueryRowContext(ctx, query,
		address.ID, address.AddressLine.Detail, address.AddressLine.Ward,
		address.AddressLine.District, address.AddressLine.City, address.Note,
		address.AddressType, nullFloat(address.Lat), nullFloat(address.Lon), address.IsDefault)
	updated, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to update address: %w", err)
	}
	return updated, nil
}

func (r *addressRepository) ClearDefaultTx(ctx context.Context, tx *sql.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE addresses SET is_default = false, updated_at = NOW() WHERE user_id = $1 AND is_default = true", userID)
	if err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
