package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"gorm.io/gorm"
)

// 파트너 코드가 유효한 예약 상태
var codeHoldingStatuses = []model.BookingStatus{
	model.BookingStatusConfirmed,
	model.BookingStatusDepositCompleted,
	model.BookingStatusDelivered,
}

type ReferralCodeRepository interface {
	Create(code *model.ReferralCode) error
	FindByCode(ctx context.Context, code string) (*model.ReferralCode, error)
	FindActiveByBookingID(bookingID uint) (*model.ReferralCode, error)
	Search(ctx context.Context, query string, limit int) ([]model.ReferralCodeSummary, error)
	Retire(id uint, at time.Time) error
	Reassign(id uint, bookingID uint, ownerName string) error

	CreateRedemption(redemption *model.ReferralRedemption) error
	FindRedemptionByBookingID(bookingID uint) (*model.ReferralRedemption, error)
	DeleteRedemptionByBookingID(bookingID uint) error
	CountRedemptions(code string) (int64, error)
}

type referralCodeRepository struct {
	db *gorm.DB
}

func NewReferralCodeRepository(db *gorm.DB) ReferralCodeRepository {
	return &referralCodeRepository{db: db}
}

func (r *referralCodeRepository) Create(code *model.ReferralCode) error {
	logger.Debug("Creating referral code in database", map[string]interface{}{
		"booking_id": code.BookingID,
	})

	if err := r.db.Omit("Booking").Create(code).Error; err != nil {
		if IsDuplicateKey(err) {
			logger.Debug("Referral code collision", map[string]interface{}{
				"booking_id": code.BookingID,
			})
		} else {
			logger.Error("Failed to create referral code in database", err, map[string]interface{}{
				"booking_id": code.BookingID,
			})
		}
		return err
	}

	logger.Debug("Referral code created in database", map[string]interface{}{
		"code_id":    code.ID,
		"booking_id": code.BookingID,
	})
	return nil
}

func (r *referralCodeRepository) FindByCode(ctx context.Context, code string) (*model.ReferralCode, error) {
	logger.Debug("Finding referral code in database", map[string]interface{}{
		"code": code,
	})

	var referralCode model.ReferralCode
	err := r.db.WithContext(ctx).
		Preload("Booking").
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&referralCode).Error
	if err != nil {
		return nil, err
	}

	return &referralCode, nil
}

func (r *referralCodeRepository) FindActiveByBookingID(bookingID uint) (*model.ReferralCode, error) {
	var referralCode model.ReferralCode
	err := r.db.
		Where("booking_id = ? AND retired_at IS NULL", bookingID).
		Order("id DESC").
		First(&referralCode).Error
	if err != nil {
		return nil, err
	}
	return &referralCode, nil
}

// Search 코드 앞부분 또는 소유자 이름으로 대소문자 구분 없이 검색 (유효한 코드만)
func (r *referralCodeRepository) Search(ctx context.Context, query string, limit int) ([]model.ReferralCodeSummary, error) {
	logger.Debug("Searching referral codes in database", map[string]interface{}{
		"query": query,
		"limit": limit,
	})

	escaped := escapeLike(strings.ToLower(strings.TrimSpace(query)))

	var results []model.ReferralCodeSummary
	err := r.db.WithContext(ctx).
		Table("referral_codes").
		Select("referral_codes.code, referral_codes.owner_name").
		Joins("JOIN bookings ON bookings.id = referral_codes.booking_id").
		Where("referral_codes.retired_at IS NULL").
		Where("bookings.status IN ?", codeHoldingStatuses).
		Where(
			r.db.Where(`LOWER(referral_codes.code) LIKE ? ESCAPE '\'`, escaped+"%").
				Or(`LOWER(referral_codes.owner_name) LIKE ? ESCAPE '\'`, "%"+escaped+"%"),
		).
		Order("referral_codes.code ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		logger.Error("Failed to search referral codes in database", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}

	logger.Debug("Referral codes searched in database", map[string]interface{}{
		"query": query,
		"count": len(results),
	})
	return results, nil
}

func (r *referralCodeRepository) Retire(id uint, at time.Time) error {
	logger.Debug("Retiring referral code in database", map[string]interface{}{
		"code_id": id,
	})

	if err := r.db.Model(&model.ReferralCode{}).Where("id = ?", id).Update("retired_at", at).Error; err != nil {
		logger.Error("Failed to retire referral code in database", err, map[string]interface{}{
			"code_id": id,
		})
		return err
	}
	return nil
}

func (r *referralCodeRepository) Reassign(id uint, bookingID uint, ownerName string) error {
	logger.Debug("Reassigning referral code in database", map[string]interface{}{
		"code_id":    id,
		"booking_id": bookingID,
	})

	err := r.db.Model(&model.ReferralCode{}).Where("id = ?", id).Updates(map[string]interface{}{
		"booking_id": bookingID,
		"owner_name": ownerName,
	}).Error
	if err != nil {
		logger.Error("Failed to reassign referral code in database", err, map[string]interface{}{
			"code_id": id,
		})
		return err
	}
	return nil
}

func (r *referralCodeRepository) CreateRedemption(redemption *model.ReferralRedemption) error {
	logger.Debug("Creating referral redemption in database", map[string]interface{}{
		"booking_id": redemption.BookingID,
		"code":       redemption.Code,
	})

	if err := r.db.Create(redemption).Error; err != nil {
		logger.Error("Failed to create referral redemption in database", err, map[string]interface{}{
			"booking_id": redemption.BookingID,
		})
		return err
	}
	return nil
}

func (r *referralCodeRepository) FindRedemptionByBookingID(bookingID uint) (*model.ReferralRedemption, error) {
	var redemption model.ReferralRedemption
	if err := r.db.Where("booking_id = ?", bookingID).First(&redemption).Error; err != nil {
		return nil, err
	}
	return &redemption, nil
}

func (r *referralCodeRepository) DeleteRedemptionByBookingID(bookingID uint) error {
	if err := r.db.Where("booking_id = ?", bookingID).Delete(&model.ReferralRedemption{}).Error; err != nil {
		logger.Error("Failed to delete referral redemption in database", err, map[string]interface{}{
			"booking_id": bookingID,
		})
		return err
	}
	return nil
}

func (r *referralCodeRepository) CountRedemptions(code string) (int64, error) {
	var count int64
	err := r.db.Model(&model.ReferralRedemption{}).Where("code = ?", code).Count(&count).Error
	return count, err
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
