package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/pricing"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/internal/metrics"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"gorm.io/gorm"
)

// CreateBookingInput 관리자 예약 생성. ReservationID 가 있으면 예약서의 옵션/할인 항목을 복사
type CreateBookingInput struct {
	ReservationID *uint
	CustomerName  string
	ProductType   model.ProductType
	MainVendor    string
	AddOns        model.AddOnSelection
	Discounts     model.DiscountIntents
	ReferredBy    string
	Deposit       int64
	TravelFee     int64
}

// FinancialsInput 관리자 금액 수정 (전체 교체). EventID 가 nil 이면 이벤트 해제
type FinancialsInput struct {
	Deposit         int64
	TravelFee       int64
	SpecialDiscount int64
	SpecialReason   string
	EventID         *uint
}

type BookingService interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*model.Booking, error)
	GetBooking(id uint) (*model.Booking, error)
	ListBookings(filter repository.BookingFilter) ([]model.Booking, int64, error)
	Confirm(id uint) (*model.Booking, error)
	SetStatus(id uint, target model.BookingStatus) (*model.Booking, error)
	RecordDelivery(id uint, videoURL, contractURL string) (*model.Booking, error)
	UpdateFinancials(id uint, input FinancialsInput) (*model.Booking, error)
	SetReferredBy(ctx context.Context, id uint, code string) (*model.Booking, error)
	Recalculate(id uint, historicalOverride bool) (*pricing.Breakdown, error)
	GetBreakdown(id uint) (*pricing.Breakdown, error)
	ExportBookings(filter repository.BookingFilter) ([]byte, error)
}

type bookingService struct {
	db        *gorm.DB
	rules     *pricing.Rules
	pricer    *bookingPricer
	referrals ReferralService
	now       func() time.Time
}

func NewBookingService(db *gorm.DB, calc *pricing.Calculator, referrals ReferralService) BookingService {
	return &bookingService{
		db:        db,
		rules:     calc.Rules(),
		pricer:    newBookingPricer(calc),
		referrals: referrals,
		now:       time.Now,
	}
}

func findBookingForUpdate(repo repository.BookingRepository, id uint) (*model.Booking, error) {
	b, err := repo.FindByIDForUpdate(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*model.Booking, error) {
	logger.Info("Creating booking", map[string]interface{}{
		"reservation_id": input.ReservationID,
		"product_type":   input.ProductType,
	})

	if input.Deposit < 0 || input.TravelFee < 0 {
		return nil, fmt.Errorf("%w: deposit and travel fee must not be negative", ErrInvalidInput)
	}

	var created *model.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		bookingRepo := repository.NewBookingRepository(tx)

		b := &model.Booking{
			Status:       model.BookingStatusPending,
			CustomerName: strings.TrimSpace(input.CustomerName),
			ProductType:  input.ProductType,
			MainVendor:   strings.TrimSpace(input.MainVendor),
			AddOns:       input.AddOns,
			Discounts:    input.Discounts,
			Deposit:      input.Deposit,
			TravelFee:    input.TravelFee,
		}
		referredBy := input.ReferredBy

		if input.ReservationID != nil {
			reservation, err := repository.NewReservationRepository(tx).FindByID(*input.ReservationID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrReservationNotFound
				}
				return err
			}
			if _, err := bookingRepo.FindByReservationID(reservation.ID); err == nil {
				return ErrReservationAlreadyBooked
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			b.ReservationID = &reservation.ID
			if b.CustomerName == "" {
				b.CustomerName = strings.TrimSpace(reservation.ContractorName())
			}
			if b.ProductType == model.ProductNone {
				b.ProductType = reservation.ProductType
			}
			b.MainVendor = strings.TrimSpace(reservation.MainVendor)
			b.AddOns = reservation.AddOns
			b.Discounts = reservation.Discounts
			referredBy = reservation.PartnerCode
		}

		if b.CustomerName == "" {
			return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
		}
		if b.ProductType == model.ProductNone || !b.ProductType.IsValid() {
			return fmt.Errorf("%w: product type %q", ErrInvalidInput, b.ProductType)
		}

		b.Discounts, referredBy = s.rules.Normalize(b.ProductType, b.MainVendor, b.Discounts, referredBy)

		if err := bookingRepo.Create(b); err != nil {
			if repository.IsDuplicateKey(err) {
				return ErrReservationAlreadyBooked
			}
			return err
		}

		if referredBy != "" {
			err := applyReferral(ctx, tx, b, referredBy, s.now())
			if errors.Is(err, ErrReferralCodeInvalid) {
				// 예약서 제출 후 코드가 무효화된 경우: 할인 없이 생성
				logger.Warn("Partner code no longer valid, booking created without referral", map[string]interface{}{
					"booking_id": b.ID,
					"code":       referredBy,
				})
			} else if err != nil {
				return err
			}
		}

		if _, err := s.pricer.reprice(tx, b); err != nil {
			return err
		}
		if err := bookingRepo.UpdateWithVersion(b, b.Version); err != nil {
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		logger.Warn("Booking creation failed", map[string]interface{}{
			"reservation_id": input.ReservationID,
			"error":          err.Error(),
		})
		return nil, err
	}

	logger.Info("Booking created", map[string]interface{}{
		"booking_id": created.ID,
		"balance":    created.Balance,
	})
	return created, nil
}

func (s *bookingService) GetBooking(id uint) (*model.Booking, error) {
	b, err := repository.NewBookingRepository(s.db).FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *bookingService) ListBookings(filter repository.BookingFilter) ([]model.Booking, int64, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, fmt.Errorf("%w: status %q", ErrInvalidInput, *filter.Status)
	}
	return repository.NewBookingRepository(s.db).List(filter)
}

// transition re-reads the booking inside a transaction, checks the move against the
// allowed table, runs side effects and writes with a version check.
func (s *bookingService) transition(id uint, target model.BookingStatus, sideEffects func(tx *gorm.DB, b *model.Booking) error) (*model.Booking, error) {
	var (
		updated *model.Booking
		from    model.BookingStatus
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewBookingRepository(tx)

		b, err := findBookingForUpdate(repo, id)
		if err != nil {
			return err
		}
		from = b.Status
		if err := checkTransition(b.Status, target); err != nil {
			return err
		}

		version := b.Version
		if sideEffects != nil {
			if err := sideEffects(tx, b); err != nil {
				return err
			}
		}
		b.Status = target

		if err := repo.UpdateWithVersion(b, version); err != nil {
			return err
		}
		updated = b
		return nil
	})

	s.recordTransition(id, from, target, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *bookingService) recordTransition(id uint, from, to model.BookingStatus, err error) {
	fields := map[string]interface{}{
		"booking_id": id,
		"from":       from,
		"to":         to,
	}

	switch {
	case err == nil:
		metrics.IncTransition(string(from), string(to), "ok")
		logger.Info("Booking status changed", fields)
	case errors.Is(err, ErrInvalidTransition):
		metrics.IncTransition(string(from), string(to), "invalid")
		fields["error"] = err.Error()
		logger.Warn("Booking status change rejected", fields)
	case errors.Is(err, ErrConcurrentModification):
		metrics.IncTransition(string(from), string(to), "conflict")
		logger.Warn("Booking status change lost a concurrent update", fields)
	default:
		metrics.IncTransition(string(from), string(to), "error")
		logger.Error("Booking status change failed", err, fields)
	}
}

// Confirm moves Pending -> Confirmed and issues a new partner code in the same transaction.
func (s *bookingService) Confirm(id uint) (*model.Booking, error) {
	return s.transition(id, model.BookingStatusConfirmed, func(tx *gorm.DB, b *model.Booking) error {
		now := s.now()
		codeRepo := repository.NewReferralCodeRepository(tx)

		// 복구 후 재확정: 이전 코드는 폐기하고 새 코드 발급
		previous, err := codeRepo.FindActiveByBookingID(b.ID)
		switch {
		case err == nil:
			if err := codeRepo.Retire(previous.ID, now); err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		code, err := s.referrals.Generate(tx, b.ID, b.CustomerName)
		if err != nil {
			return err
		}

		b.PartnerCode = &code.Code
		b.ConfirmedAt = &now
		return nil
	})
}

func (s *bookingService) SetStatus(id uint, target model.BookingStatus) (*model.Booking, error) {
	switch target {
	case model.BookingStatusConfirmed:
		return s.Confirm(id)
	case model.BookingStatusDelivered:
		return s.transition(id, target, s.deliver)
	case model.BookingStatusCancelled:
		return s.transition(id, target, func(_ *gorm.DB, b *model.Booking) error {
			now := s.now()
			b.CancelledAt = &now
			return nil
		})
	case model.BookingStatusPending:
		return s.transition(id, target, func(_ *gorm.DB, b *model.Booking) error {
			b.CancelledAt = nil
			return nil
		})
	default:
		return s.transition(id, target, nil)
	}
}

// deliver reprices against the current catalog and freezes the result.
func (s *bookingService) deliver(tx *gorm.DB, b *model.Booking) error {
	br, err := s.pricer.reprice(tx, b)
	if err != nil {
		return err
	}
	if err := freezeBreakdown(b, br); err != nil {
		return err
	}
	now := s.now()
	b.DeliveredAt = &now
	return nil
}

func (s *bookingService) RecordDelivery(id uint, videoURL, contractURL string) (*model.Booking, error) {
	videoURL = strings.TrimSpace(videoURL)
	contractURL = strings.TrimSpace(contractURL)
	if videoURL == "" {
		return nil, fmt.Errorf("%w: video url is required", ErrInvalidInput)
	}

	var (
		updated  *model.Booking
		from     model.BookingStatus
		advanced bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewBookingRepository(tx)

		b, err := findBookingForUpdate(repo, id)
		if err != nil {
			return err
		}
		from = b.Status
		version := b.Version

		b.VideoURL = videoURL
		if contractURL != "" {
			b.ContractURL = contractURL
		}

		// 입금 완료 상태에서만 영상 URL 기록으로 전달 완료 처리
		if b.Status == model.BookingStatusDepositCompleted {
			if err := s.deliver(tx, b); err != nil {
				return err
			}
			b.Status = model.BookingStatusDelivered
			advanced = true
		}

		if err := repo.UpdateWithVersion(b, version); err != nil {
			return err
		}
		updated = b
		return nil
	})

	if advanced || (err != nil && from == model.BookingStatusDepositCompleted) {
		s.recordTransition(id, from, model.BookingStatusDelivered, err)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Delivery recorded", map[string]interface{}{
		"booking_id": id,
		"status":     updated.Status,
		"advanced":   advanced,
	})
	return updated, nil
}

func (s *bookingService) UpdateFinancials(id uint, input FinancialsInput) (*model.Booking, error) {
	if input.Deposit < 0 || input.TravelFee < 0 || input.SpecialDiscount < 0 {
		return nil, fmt.Errorf("%w: amounts must not be negative", ErrInvalidInput)
	}

	var updated *model.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewBookingRepository(tx)

		b, err := findBookingForUpdate(repo, id)
		if err != nil {
			return err
		}
		if b.Status.IsTerminal() {
			return fmt.Errorf("%w: %s", ErrBookingNotEditable, b.Status)
		}
		version := b.Version

		b.Deposit = input.Deposit
		b.TravelFee = input.TravelFee
		b.SpecialDiscount = input.SpecialDiscount
		b.SpecialReason = strings.TrimSpace(input.SpecialReason)

		if err := s.assignEvent(tx, b, input.EventID); err != nil {
			return err
		}

		if _, err := s.pricer.reprice(tx, b); err != nil {
			return err
		}
		if err := repo.UpdateWithVersion(b, version); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		logger.Warn("Booking financial update failed", map[string]interface{}{
			"booking_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}

	logger.Info("Booking financials updated", map[string]interface{}{
		"booking_id": id,
		"balance":    updated.Balance,
	})
	return updated, nil
}

// assignEvent fixes the event amount at assignment time; re-sending the same event keeps it.
func (s *bookingService) assignEvent(tx *gorm.DB, b *model.Booking, eventID *uint) error {
	if eventID == nil {
		b.EventID = nil
		b.EventName = ""
		b.EventDiscount = 0
		b.Event = nil
		return nil
	}
	if b.EventID != nil && *b.EventID == *eventID {
		return nil
	}

	event, err := repository.NewDiscountEventRepository(tx).FindByID(*eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if !event.IsOpenAt(s.now()) {
		return fmt.Errorf("%w: %s", ErrEventNotApplicable, event.Name)
	}

	product, err := repository.NewProductRepository(tx).FindByType(b.ProductType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrProductNotFound, b.ProductType)
		}
		return err
	}

	amount := pricing.EventAmount(pricing.EventTerms{
		Name:   event.Name,
		Type:   event.DiscountType,
		Amount: event.Amount,
		Rate:   event.Rate,
	}, product.Price)

	b.EventID = &event.ID
	b.EventName = event.Name
	b.EventDiscount = amount
	b.Event = nil
	return nil
}

func (s *bookingService) SetReferredBy(ctx context.Context, id uint, code string) (*model.Booking, error) {
	var updated *model.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewBookingRepository(tx)

		b, err := findBookingForUpdate(repo, id)
		if err != nil {
			return err
		}
		switch b.Status {
		case model.BookingStatusDelivered:
			return ErrBreakdownFrozen
		case model.BookingStatusCancelled:
			return fmt.Errorf("%w: %s", ErrBookingNotEditable, b.Status)
		}
		version := b.Version

		if err := applyReferral(ctx, tx, b, code, s.now()); err != nil {
			return err
		}
		b.Discounts.Couple = b.ReferredBy != nil

		if _, err := s.pricer.reprice(tx, b); err != nil {
			return err
		}
		if err := repo.UpdateWithVersion(b, version); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		logger.Warn("Setting referred-by code failed", map[string]interface{}{
			"booking_id": id,
			"code":       code,
			"error":      err.Error(),
		})
		return nil, err
	}
	return updated, nil
}

func (s *bookingService) Recalculate(id uint, historicalOverride bool) (*pricing.Breakdown, error) {
	var result *pricing.Breakdown
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewBookingRepository(tx)

		b, err := findBookingForUpdate(repo, id)
		if err != nil {
			return err
		}

		if b.Status == model.BookingStatusDelivered {
			if !historicalOverride {
				return ErrBreakdownFrozen
			}
			// 현재 카탈로그 기준 재계산 결과만 반환, 저장된 견적은 유지
			br, err := s.pricer.compute(tx, b)
			if err != nil {
				return err
			}
			br.HistoricalOverride = true
			result = br
			logger.Warn("Historical override recalculation", map[string]interface{}{
				"booking_id": id,
			})
			return nil
		}

		version := b.Version
		br, err := s.pricer.reprice(tx, b)
		if err != nil {
			return err
		}
		if err := repo.UpdateWithVersion(b, version); err != nil {
			return err
		}
		result = br
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *bookingService) GetBreakdown(id uint) (*pricing.Breakdown, error) {
	b, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}
	if b.Status == model.BookingStatusDelivered && len(b.FrozenBreakdown) > 0 {
		return frozenBreakdown(b)
	}
	return s.pricer.compute(s.db, b)
}
