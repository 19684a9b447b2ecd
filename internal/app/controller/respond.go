package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/weddingfilm-backend/internal/app/intake"
	"github.com/ikkim/weddingfilm-backend/internal/app/service"
	apperrors "github.com/ikkim/weddingfilm-backend/internal/errors"
	"github.com/ikkim/weddingfilm-backend/internal/middleware"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// 순서 중요: 더 구체적인 에러가 먼저.
// 계산기의 pricing.ErrSelfReferral 은 여기 없고 불변식 위반(500)으로 처리된다.
var serviceErrorMappings = []errorMapping{
	{service.ErrBookingNotFound, http.StatusNotFound, apperrors.BookingNotFound, "예약을 찾을 수 없습니다"},
	{service.ErrReservationNotFound, http.StatusNotFound, apperrors.ReservationNotFound, "예약서를 찾을 수 없습니다"},
	{service.ErrReferralCodeNotFound, http.StatusNotFound, apperrors.ReferralCodeNotFound, "파트너 코드를 찾을 수 없습니다"},
	{service.ErrProductNotFound, http.StatusNotFound, apperrors.CatalogProductNotFound, "상품을 찾을 수 없습니다"},
	{service.ErrAddOnNotFound, http.StatusNotFound, apperrors.CatalogAddOnNotFound, "추가 옵션을 찾을 수 없습니다"},
	{service.ErrEventNotFound, http.StatusNotFound, apperrors.CatalogEventNotFound, "이벤트를 찾을 수 없습니다"},
	{service.ErrUserNotFound, http.StatusNotFound, apperrors.ResourceNotFound, "사용자를 찾을 수 없습니다"},

	{service.ErrInvalidInput, http.StatusBadRequest, apperrors.ValidationInvalidInput, "입력값이 올바르지 않습니다"},
	{service.ErrInvalidCredential, http.StatusUnauthorized, apperrors.ReservationInvalidCredential, "예약서 비밀번호가 올바르지 않습니다"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "이메일 또는 비밀번호가 올바르지 않습니다"},

	{service.ErrSelfReferral, http.StatusConflict, apperrors.ReferralSelfReferral, "본인 예약의 파트너 코드는 사용할 수 없습니다"},
	{service.ErrInvalidTransition, http.StatusConflict, apperrors.BookingInvalidTransition, "현재 상태에서 변경할 수 없는 상태입니다"},
	{service.ErrConcurrentModification, http.StatusConflict, apperrors.BookingConcurrentUpdate, "다른 요청이 먼저 예약을 수정했습니다. 새로고침 후 다시 시도해주세요"},
	{service.ErrCodeSpaceExhausted, http.StatusConflict, apperrors.ReferralCodeExhausted, "파트너 코드를 발급하지 못했습니다. 다시 시도해주세요"},
	{service.ErrCodeAlreadyOwned, http.StatusConflict, apperrors.ReferralCodeAlreadyOwned, "이미 파트너 코드를 가진 예약입니다"},
	{service.ErrReferralCodeInvalid, http.StatusConflict, apperrors.ReferralCodeInvalid, "사용할 수 없는 파트너 코드입니다"},
	{service.ErrBreakdownFrozen, http.StatusConflict, apperrors.BookingBreakdownFrozen, "영상 전달이 완료된 예약의 금액은 변경할 수 없습니다"},
	{service.ErrBookingNotEditable, http.StatusConflict, apperrors.BookingNotEditable, "현재 상태에서는 예약을 수정할 수 없습니다"},
	{service.ErrReservationLocked, http.StatusConflict, apperrors.ReservationLocked, "영상 전달이 완료되어 예약서를 수정할 수 없습니다"},
	{service.ErrReservationAlreadyBooked, http.StatusConflict, apperrors.ReservationAlreadyBooked, "이미 예약이 연결된 예약서입니다"},
	{service.ErrEventNotApplicable, http.StatusConflict, apperrors.BookingEventNotApplicable, "진행 중인 이벤트가 아닙니다"},
}

// respondServiceError 서비스 에러를 API 응답으로 변환.
// 일시 장애와 불변식 위반은 내부 정보 없이 일반 메시지만 내보낸다.
func respondServiceError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	var vErr *intake.ValidationError
	if errors.As(err, &vErr) {
		respondValidation(c, vErr)
		return
	}

	for _, m := range serviceErrorMappings {
		if errors.Is(err, m.target) {
			log.Warn("Request rejected", map[string]interface{}{
				"action": action,
				"error":  err.Error(),
			})
			apperrors.RespondWithError(c, m.status, m.code, m.message)
			return
		}
	}

	switch {
	case errors.Is(err, service.ErrReferralUnavailable), errors.Is(err, service.ErrValidationTimeout):
		log.Warn("Referral registry unavailable", map[string]interface{}{
			"action": action,
			"error":  err.Error(),
		})
		apperrors.ServiceUnavailable(c, apperrors.ReferralUnavailable)
	case errors.Is(err, service.ErrInvariantViolation):
		log.Error("Pricing invariant violated", err, map[string]interface{}{
			"action": action,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalPricingError,
			"금액 계산 중 오류가 발생했습니다. 관리자에게 문의해주세요")
	case errors.Is(err, context.Canceled):
		// 클라이언트가 연결을 끊음
		c.Status(499)
	default:
		log.Error("Request failed", err, map[string]interface{}{
			"action": action,
		})
		apperrors.ParseAndRespond(c, err, action)
	}
}

func respondValidation(c *gin.Context, vErr *intake.ValidationError) {
	fields := make([]apperrors.FieldError, 0, len(vErr.Issues))
	for _, issue := range vErr.Issues {
		fields = append(fields, apperrors.FieldError{Field: string(issue.Field), Code: string(issue.Code)})
	}
	apperrors.RespondWithValidationError(c, fields, string(vErr.Focus))
}

// parseIDParam 경로 파라미터 ID 파싱
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID입니다")
		return 0, false
	}
	return uint(id), true
}
