package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AlinaLna/fooddeli-app/internal/domain/models"
	"github.com/AlinaLna/fooddeli-app/internal/storage"
)

// DefaultAddressType подставляется, когда клиент не указал тип адреса.
const DefaultAddressType = "home"

// AddressData — данные адреса, приходящие от клиента. AddressLine уже
// нормализована к структурированной форме при декодировании.
type AddressData struct {
	AddressLine models.AddressLine
	Note        string
	AddressType string
	Lat         *float64
	Lon         *float64
}

// AddressService поддерживает инвариант «максимум один default-адрес на
// пользователя». Пара «снять старый — поставить новый» всегда выполняется
// в одной транзакции.
type AddressService interface {
	GetUserAddresses(ctx context.Context, userID int64) ([]*models.Address, error)
	GetDefaultAddress(ctx context.Context, userID int64) (*models.Address, error)
	CreateAddressForUser(ctx context.Context, userID int64, data AddressData, makeDefault bool) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID int64, data AddressData, isDefault *bool) (*models.Address, error)
	// CompleteProfileAddress реализует политику завершения профиля:
	// (1) адресов нет — создать и пометить default;
	// (2) default существует — обновить его на месте;
	// (3) адреса есть, но default не помечен — создать новый default.
	CompleteProfileAddress(ctx context.Context, userID int64, data AddressData, isPrimary bool) (*models.Address, error)
}

type addressService struct {
	log         *slog.Logger
	db          *sql.DB
	addressRepo storage.AddressStorage
}

func NewAddressService(log *slog.Logger, db *sql.DB, addressRepo storage.AddressStorage) AddressService {
	return &addressService{log: log, db: db, addressRepo: addressRepo}
}

func (s *addressService) GetUserAddresses(ctx context.Context, userID int64) ([]*models.Address, error) {
	const op = "service.AddressService.GetUserAddresses"

	addresses, err := s.addressRepo.GetAddressesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if addresses == nil {
		addresses = []*models.Address{}
	}
	return addresses, nil
}

func (s *addressService) GetDefaultAddress(ctx context.Context, userID int64) (*models.Address, error) {
	const op = "service.AddressService.GetDefaultAddress"

	address, err := s.addressRepo.GetDefaultAddress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return address, nil
}

// CreateAddressForUser создаёт адрес; при makeDefault прежний default того же
// пользователя снимается в той же транзакции, чтобы два default не сосуществовали.
func (s *addressService) CreateAddressForUser(ctx context.Context, userID int64, data AddressData, makeDefault bool) (*models.Address, error) {
	const op = "service.AddressService.CreateAddressForUser"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Bool("makeDefault", makeDefault))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	if makeDefault {
		if err := s.addressRepo.ClearDefaultTx(ctx, tx, userID); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to clear previous default", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to clear previous default: %w", op, err)
		}
	}

	address := &models.Address{
		UserID:      userID,
		AddressLine: data.AddressLine,
		Note:        data.Note,
		AddressType: addressTypeOrDefault(data.AddressType),
		Lat:         data.Lat,
		Lon:         data.Lon,
		IsDefault:   makeDefault,
	}
	created, err := s.addressRepo.CreateAddressTx(ctx, tx, address)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create address", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create address: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("address created", slog.Int64("addressID", created.ID))
	return created, nil
}

// UpdateAddress обновляет адрес пользователя. isDefault == nil оставляет флаг
// как есть; true дополнительно снимает default с остальных адресов в той же
// транзакции.
func (s *addressService) UpdateAddress(ctx context.Context, userID, addressID int64, data AddressData, isDefault *bool) (*models.Address, error) {
	const op = "service.AddressService.UpdateAddress"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("addressID", addressID))

	existing, err := s.addressRepo.GetAddressByID(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Чужой адрес неотличим от несуществующего.
	if existing.UserID != userID {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrAddressNotFound)
	}

	makeDefault := existing.IsDefault
	if isDefault != nil {
		makeDefault = *isDefault
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	if makeDefault {
		if err := s.addressRepo.ClearDefaultTx(ctx, tx, userID); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to clear previous default", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to clear previous default: %w", op, err)
		}
	}

	existing.AddressLine = data.AddressLine
	existing.Note = data.Note
	existing.AddressType = addressTypeOrDefault(data.AddressType)
	existing.Lat = data.Lat
	existing.Lon = data.Lon
	existing.IsDefault = makeDefault

	updated, err := s.addressRepo.UpdateAddressTx(ctx, tx, existing)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to update address", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update address: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("address updated")
	return updated, nil
}

// CompleteProfileAddress — трёхвариантная развилка политики завершения
// профиля. Порядок проверок фиксированный: сначала «есть ли адреса вообще»,
// потом «есть ли default».
func (s *addressService) CompleteProfileAddress(ctx context.Context, userID int64, data AddressData, isPrimary bool) (*models.Address, error) {
	const op = "service.AddressService.CompleteProfileAddress"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	existing, err := s.addressRepo.GetAddressesByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to list addresses", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list addresses: %w", op, err)
	}

	// (1) Адресов нет — создаём первый.
	if len(existing) == 0 {
		logger.Info("no addresses yet, creating the first one")
		return s.CreateAddressForUser(ctx, userID, data, isPrimary)
	}

	defaultAddr, err := s.addressRepo.GetDefaultAddress(ctx, userID)
	switch {
	case err == nil:
		// (2) Default уже есть — обновляем его на месте.
		logger.Info("updating existing default address", slog.Int64("addressID", defaultAddr.ID))
		return s.UpdateAddress(ctx, userID, defaultAddr.ID, data, &isPrimary)
	case errors.Is(err, storage.ErrNoDefaultAddress):
		// (3) Адреса есть, default не помечен — создаём новый default.
		logger.Info("addresses exist but none is default, creating a new default")
		return s.CreateAddressForUser(ctx, userID, data, true)
	default:
		logger.Error("failed to get default address", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get default address: %w", op, err)
	}
}

func addressTypeOrDefault(addressType string) string {
	if addressType == "" {
		return DefaultAddressType
	}
	return addressType
}
