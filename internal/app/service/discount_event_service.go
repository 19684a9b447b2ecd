package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type CreateEventInput struct {
	Name         string
	DiscountType model.DiscountType
	Amount       int64
	Rate         decimal.Decimal
	StartsAt     time.Time
	EndsAt       time.Time
}

type DiscountEventService interface {
	CreateEvent(input CreateEventInput) (*model.DiscountEvent, error)
	ListEvents(activeOnly bool) ([]model.DiscountEvent, error)
	DeactivateExpired() (int64, error)
}

type discountEventService struct {
	eventRepo repository.DiscountEventRepository
	now       func() time.Time
}

func NewDiscountEventService(eventRepo repository.DiscountEventRepository) DiscountEventService {
	return &discountEventService{
		eventRepo: eventRepo,
		now:       time.Now,
	}
}

var maxEventRate = decimal.NewFromInt(100)

func (s *discountEventService) CreateEvent(input CreateEventInput) (*model.DiscountEvent, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrInvalidInput)
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, fmt.Errorf("%w: event must end after it starts", ErrInvalidInput)
	}

	event := &model.DiscountEvent{
		Name:         name,
		DiscountType: input.DiscountType,
		StartsAt:     input.StartsAt,
		EndsAt:       input.EndsAt,
		Active:       true,
	}

	switch input.DiscountType {
	case model.DiscountTypeFixed:
		if input.Amount <= 0 {
			return nil, fmt.Errorf("%w: fixed event amount must be positive", ErrInvalidInput)
		}
		event.Amount = input.Amount
	case model.DiscountTypePercent:
		if !input.Rate.IsPositive() || input.Rate.GreaterThan(maxEventRate) {
			return nil, fmt.Errorf("%w: event rate must be within (0, 100]", ErrInvalidInput)
		}
		event.Rate = input.Rate
	default:
		return nil, fmt.Errorf("%w: discount type %q", ErrInvalidInput, input.DiscountType)
	}

	if err := s.eventRepo.Create(event); err != nil {
		return nil, err
	}

	logger.Info("Discount event created", map[string]interface{}{
		"event_id": event.ID,
		"name":     event.Name,
		"type":     event.DiscountType,
	})
	return event, nil
}

func (s *discountEventService) ListEvents(activeOnly bool) ([]model.DiscountEvent, error) {
	return s.eventRepo.List(activeOnly)
}

// DeactivateExpired 종료된 이벤트 비활성화 (이미 배정된 예약의 할인 금액은 유지)
func (s *discountEventService) DeactivateExpired() (int64, error) {
	count, err := s.eventRepo.DeactivateExpired(s.now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("Expired discount events deactivated", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}
