package service

import (
	"errors"

	"github.com/ikkim/weddingfilm-backend/internal/app/intake"
	"github.com/ikkim/weddingfilm-backend/internal/app/pricing"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
)

// 조회 실패
var (
	ErrBookingNotFound      = errors.New("booking not found")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrAddOnNotFound        = errors.New("add-on not found")
	ErrEventNotFound        = errors.New("discount event not found")
	ErrReferralCodeNotFound = errors.New("referral code not found")
	ErrUserNotFound         = errors.New("user not found")
)

// 입력 오류
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredential  = errors.New("invalid reservation credential")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// 충돌 (새 상태를 다시 읽기 전에는 재시도하지 않음)
var (
	ErrInvalidTransition        = errors.New("invalid booking status transition")
	ErrConcurrentModification   = repository.ErrConcurrentModification
	ErrCodeSpaceExhausted       = errors.New("referral code space exhausted")
	ErrCodeAlreadyOwned         = errors.New("booking already owns a referral code")
	ErrReferralCodeInvalid      = errors.New("referral code is not valid for redemption")
	ErrBreakdownFrozen          = errors.New("price breakdown is frozen after delivery")
	ErrBookingNotEditable       = errors.New("booking cannot be edited in its current status")
	ErrReservationLocked        = errors.New("reservation can no longer be edited")
	ErrReservationAlreadyBooked = errors.New("reservation already has a booking")
	ErrEventNotApplicable       = errors.New("discount event is not open")
)

// ErrSelfReferral 요청으로 자기 코드를 사용하려 함 (계산기의 불변식 위반과 별개, 충돌로 응답)
var ErrSelfReferral = errors.New("booking cannot redeem its own partner code")

// 일시 장애
var (
	ErrReferralUnavailable = intake.ErrReferralUnavailable
	ErrValidationTimeout   = intake.ErrValidationTimeout
)

// 내부 불변식 위반
var (
	ErrInvariantViolation = pricing.ErrInvariantViolation
)
