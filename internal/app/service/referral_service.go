package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ikkim/weddingfilm-backend/config"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/internal/metrics"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"github.com/ikkim/weddingfilm-backend/pkg/util"
	"gorm.io/gorm"
)

// ReferralService 파트너 코드 발급/검색/검증/소유 이전
type ReferralService interface {
	// Generate issues a new code for the booking inside tx (s.db when nil).
	Generate(tx *gorm.DB, bookingID uint, ownerName string) (*model.ReferralCode, error)
	Search(ctx context.Context, query string) ([]model.ReferralCodeSummary, error)
	Validate(ctx context.Context, code string) (bool, error)
	ReassignOwner(code string, newBookingID uint) (*model.ReferralCode, error)
}

type referralService struct {
	db      *gorm.DB
	cfg     config.ReferralConfig
	newCode func() (string, error)
	now     func() time.Time
}

func NewReferralService(db *gorm.DB, cfg config.ReferralConfig) ReferralService {
	return &referralService{
		db:  db,
		cfg: cfg,
		newCode: func() (string, error) {
			return util.GenerateCode(cfg.CodeAlphabet, cfg.CodeLength)
		},
		now: time.Now,
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *referralService) Generate(tx *gorm.DB, bookingID uint, ownerName string) (*model.ReferralCode, error) {
	if tx == nil {
		tx = s.db
	}

	for attempt := 1; attempt <= s.cfg.MaxGenerateAttempts; attempt++ {
		value, err := s.newCode()
		if err != nil {
			logger.Error("Failed to generate referral code value", err, map[string]interface{}{
				"booking_id": bookingID,
			})
			return nil, err
		}

		code := &model.ReferralCode{
			Code:        value,
			BookingID:   bookingID,
			OwnerName:   ownerName,
			GeneratedAt: s.now(),
		}

		// 세이브포인트: 중복 실패가 바깥 트랜잭션을 중단시키지 않도록
		err = tx.Transaction(func(sp *gorm.DB) error {
			return repository.NewReferralCodeRepository(sp).Create(code)
		})
		if err == nil {
			metrics.IncReferralCode("created")
			logger.Info("Referral code generated", map[string]interface{}{
				"booking_id": bookingID,
				"code":       code.Code,
				"attempt":    attempt,
			})
			return code, nil
		}
		if !repository.IsDuplicateKey(err) {
			return nil, err
		}

		metrics.IncReferralCode("collision")
		logger.Warn("Referral code collision, retrying", map[string]interface{}{
			"booking_id": bookingID,
			"attempt":    attempt,
		})
	}

	metrics.IncReferralCode("exhausted")
	logger.Error("Referral code space exhausted", ErrCodeSpaceExhausted, map[string]interface{}{
		"booking_id": bookingID,
		"attempts":   s.cfg.MaxGenerateAttempts,
	})
	return nil, fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, s.cfg.MaxGenerateAttempts)
}

func (s *referralService) Search(ctx context.Context, query string) ([]model.ReferralCodeSummary, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < s.cfg.SearchMinLength {
		return []model.ReferralCodeSummary{}, nil
	}

	results, err := repository.NewReferralCodeRepository(s.db).Search(ctx, query, s.cfg.SearchLimit)
	if err != nil {
		logger.Error("Failed to search referral codes", err, map[string]interface{}{
			"query": query,
		})
		return nil, fmt.Errorf("%w: %v", ErrReferralUnavailable, err)
	}
	if results == nil {
		results = []model.ReferralCodeSummary{}
	}
	return results, nil
}

func (s *referralService) Validate(ctx context.Context, code string) (bool, error) {
	_, err := findRedeemableCode(ctx, repository.NewReferralCodeRepository(s.db), code)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrReferralCodeInvalid):
		return false, nil
	default:
		return false, err
	}
}

// findRedeemableCode returns the code if it exists, is not retired and its owning
// booking is confirmed or later. Storage failures are reported as unavailable.
func findRedeemableCode(ctx context.Context, repo repository.ReferralCodeRepository, code string) (*model.ReferralCode, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, ErrReferralCodeInvalid
	}

	rc, err := repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferralCodeInvalid
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Error("Referral registry lookup failed", err, map[string]interface{}{
			"code": code,
		})
		return nil, fmt.Errorf("%w: %v", ErrReferralUnavailable, err)
	}

	if rc.RetiredAt != nil || !rc.Booking.Status.HoldsReferralCode() {
		return nil, ErrReferralCodeInvalid
	}
	return rc, nil
}

func (s *referralService) ReassignOwner(code string, newBookingID uint) (*model.ReferralCode, error) {
	code = normalizeCode(code)
	logger.Info("Reassigning referral code owner", map[string]interface{}{
		"code":           code,
		"new_booking_id": newBookingID,
	})

	var result *model.ReferralCode
	err := s.db.Transaction(func(tx *gorm.DB) error {
		codeRepo := repository.NewReferralCodeRepository(tx)
		bookingRepo := repository.NewBookingRepository(tx)

		rc, err := codeRepo.FindByCode(context.Background(), code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReferralCodeNotFound
			}
			return err
		}
		if rc.RetiredAt != nil {
			return fmt.Errorf("%w: code %s is retired", ErrReferralCodeInvalid, code)
		}
		if rc.BookingID == newBookingID {
			result = rc
			return nil
		}

		target, err := bookingRepo.FindByIDForUpdate(newBookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if target.OwnCode() != "" {
			return fmt.Errorf("%w: booking %d owns %s", ErrCodeAlreadyOwned, target.ID, target.OwnCode())
		}
		if target.ReferredCode() == rc.Code {
			return ErrSelfReferral
		}

		// 기존 소유 예약의 코드를 먼저 비워야 유니크 제약을 지킨다
		previous, err := bookingRepo.FindByIDForUpdate(rc.BookingID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if previous != nil && previous.OwnCode() == rc.Code {
			previous.PartnerCode = nil
			if err := bookingRepo.UpdateWithVersion(previous, previous.Version); err != nil {
				return err
			}
		}

		owned := rc.Code
		target.PartnerCode = &owned
		if err := bookingRepo.UpdateWithVersion(target, target.Version); err != nil {
			return err
		}

		if err := codeRepo.Reassign(rc.ID, target.ID, target.CustomerName); err != nil {
			return err
		}

		rc.BookingID = target.ID
		rc.OwnerName = target.CustomerName
		rc.Booking = *target
		result = rc
		return nil
	})
	if err != nil {
		logger.Warn("Referral code reassignment failed", map[string]interface{}{
			"code":           code,
			"new_booking_id": newBookingID,
			"error":          err.Error(),
		})
		return nil, err
	}

	// 이전은 사용 내역을 건드리지 않으므로 관리자가 확인할 수 있게 함께 돌려준다
	count, err := repository.NewReferralCodeRepository(s.db).CountRedemptions(result.Code)
	if err != nil {
		return nil, err
	}
	result.RedemptionCount = count

	logger.Info("Referral code reassigned", map[string]interface{}{
		"code":        result.Code,
		"booking_id":  result.BookingID,
		"redemptions": count,
	})
	return result, nil
}
