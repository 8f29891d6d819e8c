package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
)

var ErrVoucherNotFound = errors.New("voucher not found")

// VoucherStorage описывает методы для работы с ваучерами и связкой
// order_vouchers. Уникальность пары (order_id, voucher_id) обеспечивает
// ограничение в БД, вставка идемпотентна через ON CONFLICT DO NOTHING.
type VoucherStorage interface {
	GetVoucherByID(ctx context.Context, id int64) (*models.Voucher, error)
	// AddVoucherToOrder возвращает false, если связка уже существовала.
	AddVoucherToOrder(ctx context.Context, orderID, voucherID int64) (bool, error)
	AddVoucherToOrderTx(ctx context.Context, tx *sql.Tx, orderID, voucherID int64) (bool, error)
	GetVouchersByOrderID(ctx context.Context, orderID int64) ([]*models.Voucher, error)
	// DeleteVouchersByOrderID — безусловная массовая очистка; возвращает
	// число удалённых связок (может быть ноль).
	DeleteVouchersByOrderID(ctx context.Context, orderID int64) (int64, error)
	// VoucherAppliedTx проверяет наличие связки под блокировкой строки —
	// предусловие точечного удаления.
	VoucherAppliedTx(ctx context.Context, tx *sql.Tx, orderID, voucherID int64) (bool, error)
	DeleteVoucherFromOrderTx(ctx context.Context, tx *sql.Tx, orderID, voucherID int64) (bool, error)
}

type voucherRepository struct {
	db *sql.DB
}

func NewVoucherRepository(db *sql.DB) *voucherRepository {
	return &voucherRepository{db: db}
}

func (r *voucherRepository) GetVoucherByID(ctx context.Context, id int64) (*models.Voucher, error) {
	v := &models.Voucher{}
	var expiresAt sql.NullTime
	row := r.db.QueryRowContext(ctx,
		"SELECT id, code, description, discount_amount, expires_at, created_at FROM vouchers WHERE id = $1", id)
	if err := row.Scan(&v.ID, &v.Code, &v.Description, &v.DiscountAmount, &expiresAt, &v.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVoucherNotFound
		}
		return nil, err
	}
	if expiresAt.Valid {
		v.ExpiresAt = &expiresAt.Time
	}
	return v, nil
}

const insertOrderVoucherQuery = `
	INSERT INTO order_vouchers (order_id, voucher_id, created_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (order_id, voucher_id) DO NOTHING`

func (r *voucherRepository) AddVoucherToOrder(ctx context.Context, orderID, voucherID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, insertOrderVoucherQuery, orderID, voucherID)
	if err != nil {
		return false, fmt.Errorf("failed to add voucher to order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *voucherRepository) AddVoucherToOrderTx(ctx context.Context, tx *sql.Tx, orderID, voucherID int64) (bool, error) {
	res, err := tx.ExecContext(ctx, insertOrderVoucherQuery, orderID, voucherID)
	if err != nil {
		return false, fmt.Errorf("failed to add voucher to order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *voucherRepository) GetVouchersByOrderID(ctx context.Context, orderID int64) ([]*models.Voucher, error) {
	query := `
		SELECT v.id, v.code, v.description, v.discount_amount, v.expires_at, v.created_at
		FROM order_vouchers ov
		JOIN vouchers v ON ov.voucher_id = v.id
		WHERE ov.order_id = $1
		ORDER BY v.id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []*models.Voucher
	for rows.Next() {
		v := &models.Voucher{}
		var expiresAt sql.NullTime
		if err := rows.Scan(&v.ID, &v.Code, &v.Description, &v.DiscountAmount, &expiresAt, &v.CreatedAt); err != nil {
			return nil, err
		}
		if expiresAt.Valid {
			v.ExpiresAt = &expiresAt.Time
		}
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vouchers, nil
}

func (r *voucherRepository) DeleteVouchersByOrderID(ctx context.Context, orderID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM order_vouchers WHERE order_id = $1", orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete order vouchers: %w", err)
	}
	return res.RowsAffected()
}

func (r *voucherRepository) VoucherAppliedTx(ctx context.Context, tx *sql.Tx, orderID, voucherID int64) (bool, error) {
	var one int
	row := tx.QueryRowContext(ctx,
		"SELECT 1 FROM order_vouchers WHERE order_id = $1 AND voucher_id = $2 FOR UPDATE", orderID, voucherID)
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *voucherRepository) DeleteVoucherFromOrderTx(ctx context.Context, tx *sql.Tx, orderID, voucherID int64) (bool, error) {
	res, err := tx.ExecContext(ctx,
		"DELETE FROM order_vouchers WHERE order_id = $1 AND voucher_id = $2", orderID, voucherID)
	if err != nil {
		return false, fmt.Errorf("failed to delete voucher from order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
