package repository

import (
	"errors"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingFilter 예약 목록 조회 조건
type BookingFilter struct {
	Status *model.BookingStatus
	Limit  int
	Offset int
}

type BookingRepository interface {
	Create(booking *model.Booking) error
	FindByID(id uint) (*model.Booking, error)
	FindByIDForUpdate(id uint) (*model.Booking, error)
	FindByReservationID(reservationID uint) (*model.Booking, error)
	List(filter BookingFilter) ([]model.Booking, int64, error)
	UpdateWithVersion(booking *model.Booking, fromVersion int64) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(booking *model.Booking) error {
	logger.Debug("Creating booking in database", map[string]interface{}{
		"reservation_id": booking.ReservationID,
		"product_type":   booking.ProductType,
	})

	if booking.Version == 0 {
		booking.Version = 1
	}
	if err := r.db.Omit(clause.Associations).Create(booking).Error; err != nil {
		logger.Error("Failed to create booking in database", err, map[string]interface{}{
			"reservation_id": booking.ReservationID,
		})
		return err
	}

	logger.Debug("Booking created in database", map[string]interface{}{
		"booking_id": booking.ID,
	})
	return nil
}

func (r *bookingRepository) FindByID(id uint) (*model.Booking, error) {
	logger.Debug("Finding booking by ID in database", map[string]interface{}{
		"booking_id": id,
	})

	var booking model.Booking
	if err := r.db.Preload("Event").First(&booking, id).Error; err != nil {
		logger.Error("Failed to find booking by ID in database", err, map[string]interface{}{
			"booking_id": id,
		})
		return nil, err
	}

	return &booking, nil
}

// FindByIDForUpdate 트랜잭션 안에서 행 잠금 후 조회 (SQLite 는 잠금 절을 무시)
func (r *bookingRepository) FindByIDForUpdate(id uint) (*model.Booking, error) {
	logger.Debug("Finding booking by ID for update in database", map[string]interface{}{
		"booking_id": id,
	})

	var booking model.Booking
	query := r.db
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.First(&booking, id).Error; err != nil {
		logger.Error("Failed to lock booking in database", err, map[string]interface{}{
			"booking_id": id,
		})
		return nil, err
	}

	return &booking, nil
}

func (r *bookingRepository) FindByReservationID(reservationID uint) (*model.Booking, error) {
	logger.Debug("Finding booking by reservation ID in database", map[string]interface{}{
		"reservation_id": reservationID,
	})

	var booking model.Booking
	if err := r.db.Where("reservation_id = ?", reservationID).First(&booking).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find booking by reservation ID in database", err, map[string]interface{}{
				"reservation_id": reservationID,
			})
		}
		return nil, err
	}

	return &booking, nil
}

func (r *bookingRepository) List(filter BookingFilter) ([]model.Booking, int64, error) {
	logger.Debug("Listing bookings in database", map[string]interface{}{
		"status": filter.Status,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})

	query := r.db.Model(&model.Booking{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count bookings in database", err)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var bookings []model.Booking
	if err := query.Order("id DESC").Find(&bookings).Error; err != nil {
		logger.Error("Failed to list bookings in database", err)
		return nil, 0, err
	}

	logger.Debug("Bookings listed from database", map[string]interface{}{
		"count": len(bookings),
		"total": total,
	})
	return bookings, total, nil
}

// UpdateWithVersion writes every column of the booking only if the stored version
// still equals fromVersion, then bumps the version.
func (r *bookingRepository) UpdateWithVersion(booking *model.Booking, fromVersion int64) error {
	logger.Debug("Updating booking with version check", map[string]interface{}{
		"booking_id":   booking.ID,
		"from_version": fromVersion,
		"status":       booking.Status,
	})

	booking.Version = fromVersion + 1
	result := r.db.Model(booking).
		Where("version = ?", fromVersion).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(booking)
	if result.Error != nil {
		booking.Version = fromVersion
		logger.Error("Failed to update booking in database", result.Error, map[string]interface{}{
			"booking_id": booking.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		booking.Version = fromVersion
		logger.Warn("Booking version mismatch", map[string]interface{}{
			"booking_id":   booking.ID,
			"from_version": fromVersion,
		})
		return ErrConcurrentModification
	}

	logger.Debug("Booking updated in database", map[string]interface{}{
		"booking_id": booking.ID,
		"version":    booking.Version,
	})
	return nil
}
