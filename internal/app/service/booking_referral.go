package service

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"gorm.io/gorm"
)

// applyReferral points the booking at code (empty clears it) and keeps exactly one
// redemption row for the booking. The booking row itself is not written.
func applyReferral(ctx context.Context, tx *gorm.DB, b *model.Booking, code string, now time.Time) error {
	codeRepo := repository.NewReferralCodeRepository(tx)
	code = normalizeCode(code)

	if code == "" {
		if b.ReferredBy == nil {
			return nil
		}
		if err := codeRepo.DeleteRedemptionByBookingID(b.ID); err != nil {
			return err
		}
		b.ReferredBy = nil
		return nil
	}

	if code == b.OwnCode() {
		return ErrSelfReferral
	}

	// 이미 사용 처리된 코드는 소유 예약 상태가 바뀌어도 유지
	if code == b.ReferredCode() {
		redemption, err := codeRepo.FindRedemptionByBookingID(b.ID)
		if err == nil && redemption.Code == code {
			return nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	rc, err := findRedeemableCode(ctx, codeRepo, code)
	if err != nil {
		return err
	}
	if rc.BookingID == b.ID {
		return ErrSelfReferral
	}

	if err := codeRepo.DeleteRedemptionByBookingID(b.ID); err != nil {
		return err
	}
	if err := codeRepo.CreateRedemption(&model.ReferralRedemption{
		BookingID:  b.ID,
		Code:       rc.Code,
		RedeemedAt: now,
	}); err != nil {
		return err
	}

	redeemed := rc.Code
	b.ReferredBy = &redeemed

	logger.Info("Referral code redeemed", map[string]interface{}{
		"booking_id": b.ID,
		"code":       redeemed,
		"owner_id":   rc.BookingID,
	})
	return nil
}
