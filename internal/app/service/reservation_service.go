package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/weddingfilm-backend/internal/app/intake"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/pricing"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"github.com/ikkim/weddingfilm-backend/pkg/util"
	"gorm.io/gorm"
)

type ReservationService interface {
	ValidateSection(ctx context.Context, draft *model.Reservation, section intake.Section) error
	CreateReservation(ctx context.Context, draft *model.Reservation) (*model.Reservation, error)
	GetReservation(id uint, cred Credential) (*model.Reservation, error)
	UpdateReservation(ctx context.Context, id uint, cred Credential, patch *model.Reservation) (*model.Reservation, error)
	DeleteReservation(id uint) error
}

type reservationService struct {
	db        *gorm.DB
	validator *intake.Validator
	rules     *pricing.Rules
	pricer    *bookingPricer
	resolver  CredentialResolver
	now       func() time.Time
}

func NewReservationService(db *gorm.DB, validator *intake.Validator, calc *pricing.Calculator, resolver CredentialResolver) ReservationService {
	if resolver == nil {
		resolver = ContactCredentialResolver{}
	}
	return &reservationService{
		db:        db,
		validator: validator,
		rules:     calc.Rules(),
		pricer:    newBookingPricer(calc),
		resolver:  resolver,
		now:       time.Now,
	}
}

// normalize 저장 형식으로 정리하고 선택 불가능한 할인 의사를 끈다
func (s *reservationService) normalize(r *model.Reservation) {
	r.GroomName = strings.TrimSpace(r.GroomName)
	r.BrideName = strings.TrimSpace(r.BrideName)
	r.GroomPhone = util.DigitsOnly(r.GroomPhone)
	r.BridePhone = util.DigitsOnly(r.BridePhone)
	r.Email = strings.TrimSpace(r.Email)
	r.Venue = strings.TrimSpace(r.Venue)
	r.MainVendor = strings.TrimSpace(r.MainVendor)
	if !r.AddOns.USB {
		r.USBAddress = ""
	}
	r.Discounts, r.PartnerCode = s.rules.Normalize(r.ProductType, r.MainVendor, r.Discounts, r.PartnerCode)
}

func (s *reservationService) ValidateSection(ctx context.Context, draft *model.Reservation, section intake.Section) error {
	normalized := *draft
	s.normalize(&normalized)
	return s.validator.Validate(ctx, &normalized, section)
}

func (s *reservationService) CreateReservation(ctx context.Context, draft *model.Reservation) (*model.Reservation, error) {
	logger.Info("Creating reservation", map[string]interface{}{
		"product_type": draft.ProductType,
		"overseas":     draft.Overseas,
	})

	draft.ID = 0
	s.normalize(draft)
	if err := s.validator.Validate(ctx, draft, intake.SectionAll); err != nil {
		logger.Warn("Reservation rejected by validation", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	secret, err := s.resolver.Resolve(draft.Contractor(), draft.Overseas, draft)
	if err != nil {
		return nil, err
	}
	hash, err := util.HashPassword(secret)
	if err != nil {
		logger.Error("Failed to hash reservation credential", err)
		return nil, err
	}
	draft.PasswordHash = hash

	if draft.CustomRequest != nil {
		draft.CustomRequest.ID = 0
	}

	if err := repository.NewReservationRepository(s.db).Create(draft); err != nil {
		logger.Error("Failed to create reservation", err)
		return nil, err
	}

	logger.Info("Reservation created", map[string]interface{}{
		"reservation_id": draft.ID,
	})
	return draft, nil
}

func (s *reservationService) findAuthorized(repo repository.ReservationRepository, id uint, cred Credential) (*model.Reservation, error) {
	reservation, err := repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if !matchesCredential(reservation.PasswordHash, cred) {
		logger.Warn("Reservation credential mismatch", map[string]interface{}{
			"reservation_id": id,
		})
		return nil, ErrInvalidCredential
	}
	return reservation, nil
}

func (s *reservationService) GetReservation(id uint, cred Credential) (*model.Reservation, error) {
	return s.findAuthorized(repository.NewReservationRepository(s.db), id, cred)
}

func (s *reservationService) UpdateReservation(ctx context.Context, id uint, cred Credential, patch *model.Reservation) (*model.Reservation, error) {
	logger.Info("Updating reservation", map[string]interface{}{
		"reservation_id": id,
		"admin":          cred.Admin,
	})

	existing, err := s.findAuthorized(repository.NewReservationRepository(s.db), id, cred)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEditable(s.db, id); err != nil {
		return nil, err
	}

	applyReservationPatch(existing, patch)
	s.normalize(existing)

	validator := s.validator
	redeemed, err := s.redeemedCode(s.db, id)
	if err != nil {
		return nil, err
	}
	if redeemed != "" && redeemed == existing.PartnerCode {
		validator = validator.AcceptingRedeemed(redeemed)
	}
	if err := validator.Validate(ctx, existing, intake.SectionAll); err != nil {
		return nil, err
	}

	// 연락처가 바뀌면 비밀번호도 새 연락처 기준
	secret, err := s.resolver.Resolve(existing.Contractor(), existing.Overseas, existing)
	if err != nil {
		return nil, err
	}
	if !util.VerifyPassword(existing.PasswordHash, secret) {
		hash, err := util.HashPassword(secret)
		if err != nil {
			return nil, err
		}
		existing.PasswordHash = hash
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ensureEditable(tx, id); err != nil {
			return err
		}
		if err := repository.NewReservationRepository(tx).Update(existing); err != nil {
			return err
		}
		return s.syncBooking(ctx, tx, existing)
	})
	if err != nil {
		logger.Warn("Reservation update failed", map[string]interface{}{
			"reservation_id": id,
			"error":          err.Error(),
		})
		return nil, err
	}

	logger.Info("Reservation updated", map[string]interface{}{
		"reservation_id": id,
	})
	return existing, nil
}

// redeemedCode 연결된 예약이 이미 사용 처리한 파트너 코드 (없으면 빈 문자열)
func (s *reservationService) redeemedCode(conn *gorm.DB, reservationID uint) (string, error) {
	b, err := repository.NewBookingRepository(conn).FindByReservationID(reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	if b.ReferredCode() == "" {
		return "", nil
	}

	redemption, err := repository.NewReferralCodeRepository(conn).FindRedemptionByBookingID(b.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	if redemption.Code != b.ReferredCode() {
		return "", nil
	}
	return redemption.Code, nil
}

// ensureEditable 연결된 예약이 전달 완료되면 예약서 수정 불가
func (s *reservationService) ensureEditable(conn *gorm.DB, reservationID uint) error {
	b, err := repository.NewBookingRepository(conn).FindByReservationID(reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if b.Status == model.BookingStatusDelivered {
		return fmt.Errorf("%w: booking %d is delivered", ErrReservationLocked, b.ID)
	}
	return nil
}

// syncBooking copies the customer's selections into the linked booking and reprices it.
func (s *reservationService) syncBooking(ctx context.Context, tx *gorm.DB, r *model.Reservation) error {
	repo := repository.NewBookingRepository(tx)
	b, err := repo.FindByReservationID(r.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if b.Status == model.BookingStatusCancelled {
		return nil
	}
	version := b.Version

	if r.ProductType != model.ProductNone {
		b.ProductType = r.ProductType
	}
	if name := r.ContractorName(); name != "" {
		b.CustomerName = name
	}
	b.MainVendor = r.MainVendor
	b.AddOns = r.AddOns

	var code string
	b.Discounts, code = s.rules.Normalize(b.ProductType, b.MainVendor, r.Discounts, r.PartnerCode)
	if err := applyReferral(ctx, tx, b, code, s.now()); err != nil {
		return err
	}

	if _, err := s.pricer.reprice(tx, b); err != nil {
		return err
	}
	if err := repo.UpdateWithVersion(b, version); err != nil {
		return err
	}

	logger.Info("Linked booking synced from reservation", map[string]interface{}{
		"reservation_id": r.ID,
		"booking_id":     b.ID,
		"balance":        b.Balance,
	})
	return nil
}

func applyReservationPatch(existing, patch *model.Reservation) {
	existing.ProductType = patch.ProductType
	existing.ContractorGroom = patch.ContractorGroom
	existing.ContractorBride = patch.ContractorBride
	existing.GroomName = patch.GroomName
	existing.GroomPhone = patch.GroomPhone
	existing.BrideName = patch.BrideName
	existing.BridePhone = patch.BridePhone
	existing.Email = patch.Email
	existing.Overseas = patch.Overseas
	existing.WeddingDate = patch.WeddingDate
	existing.WeddingTime = patch.WeddingTime
	existing.Venue = patch.Venue
	existing.MainVendor = patch.MainVendor
	existing.AddOns = patch.AddOns
	existing.USBAddress = patch.USBAddress
	existing.Discounts = patch.Discounts
	existing.PartnerCode = patch.PartnerCode
	existing.Notes = patch.Notes

	if patch.CustomRequest == nil {
		existing.CustomRequest = nil
		return
	}
	custom := *patch.CustomRequest
	custom.ID = 0
	if existing.CustomRequest != nil {
		custom.ID = existing.CustomRequest.ID
		custom.CreatedAt = existing.CustomRequest.CreatedAt
	}
	custom.ReservationID = existing.ID
	existing.CustomRequest = &custom
}

func (s *reservationService) DeleteReservation(id uint) error {
	repo := repository.NewReservationRepository(s.db)
	if _, err := repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		return err
	}
	if err := s.ensureEditable(s.db, id); err != nil {
		return err
	}
	if err := repo.Delete(id); err != nil {
		return err
	}
	logger.Info("Reservation deleted", map[string]interface{}{
		"reservation_id": id,
	})
	return nil
}
