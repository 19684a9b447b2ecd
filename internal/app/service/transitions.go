package service

import (
	"fmt"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
)

// allowedTransitions 관리자 상태 변경 허용표. 취소 -> 대기(복구)만 유일한 역방향 전이
var allowedTransitions = map[model.BookingStatus]map[model.BookingStatus]bool{
	model.BookingStatusPending:          {model.BookingStatusConfirmed: true, model.BookingStatusCancelled: true},
	model.BookingStatusConfirmed:        {model.BookingStatusDepositCompleted: true, model.BookingStatusCancelled: true},
	model.BookingStatusDepositCompleted: {model.BookingStatusDelivered: true, model.BookingStatusCancelled: true},
	model.BookingStatusCancelled:        {model.BookingStatusPending: true},
	model.BookingStatusDelivered:        {},
}

func CanTransition(from, to model.BookingStatus) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

func checkTransition(from, to model.BookingStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
