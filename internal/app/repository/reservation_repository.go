package repository

import (
	"errors"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReservationRepository interface {
	Create(reservation *model.Reservation) error
	FindByID(id uint) (*model.Reservation, error)
	Update(reservation *model.Reservation) error
	Delete(id uint) error
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(reservation *model.Reservation) error {
	logger.Debug("Creating reservation in database", map[string]interface{}{
		"product_type": reservation.ProductType,
		"wedding_date": reservation.WeddingDate,
	})

	if err := r.db.Create(reservation).Error; err != nil {
		logger.Error("Failed to create reservation in database", err, map[string]interface{}{
			"product_type": reservation.ProductType,
		})
		return err
	}

	logger.Debug("Reservation created in database", map[string]interface{}{
		"reservation_id": reservation.ID,
	})
	return nil
}

func (r *reservationRepository) FindByID(id uint) (*model.Reservation, error) {
	logger.Debug("Finding reservation by ID in database", map[string]interface{}{
		"reservation_id": id,
	})

	var reservation model.Reservation
	if err := r.db.Preload("CustomRequest").First(&reservation, id).Error; err != nil {
		logger.Error("Failed to find reservation by ID in database", err, map[string]interface{}{
			"reservation_id": id,
		})
		return nil, err
	}

	return &reservation, nil
}

// Update 예약서와 맞춤 촬영 요청을 함께 저장 (요청이 nil 이면 기존 요청 삭제)
func (r *reservationRepository) Update(reservation *model.Reservation) error {
	logger.Debug("Updating reservation in database", map[string]interface{}{
		"reservation_id": reservation.ID,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("CustomRequest").Save(reservation).Error; err != nil {
			return err
		}

		if reservation.CustomRequest == nil {
			return tx.Where("reservation_id = ?", reservation.ID).Delete(&model.CustomShootRequest{}).Error
		}

		reservation.CustomRequest.ReservationID = reservation.ID
		var existing model.CustomShootRequest
		err := tx.Where("reservation_id = ?", reservation.ID).First(&existing).Error
		switch {
		case err == nil:
			reservation.CustomRequest.ID = existing.ID
			reservation.CustomRequest.CreatedAt = existing.CreatedAt
			return tx.Save(reservation.CustomRequest).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			reservation.CustomRequest.ID = 0
			return tx.Create(reservation.CustomRequest).Error
		default:
			return err
		}
	})
	if err != nil {
		logger.Error("Failed to update reservation in database", err, map[string]interface{}{
			"reservation_id": reservation.ID,
		})
		return err
	}

	logger.Debug("Reservation updated in database", map[string]interface{}{
		"reservation_id": reservation.ID,
	})
	return nil
}

func (r *reservationRepository) Delete(id uint) error {
	logger.Debug("Deleting reservation from database", map[string]interface{}{
		"reservation_id": id,
	})

	if err := r.db.Delete(&model.Reservation{}, id).Error; err != nil {
		logger.Error("Failed to delete reservation from database", err, map[string]interface{}{
			"reservation_id": id,
		})
		return err
	}
	return nil
}
