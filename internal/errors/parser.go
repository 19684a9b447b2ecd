package errors

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Status  int    // HTTP 상태 코드
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 저장소 계층 에러를 사용자 친화적인 메시지와 코드로 변환
// 내부 정보(쿼리, 제약 조건 이름)는 메시지에 포함하지 않는다
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(errStrLower)
	}

	// 2. 드라이버 에러 문자열 (TranslateError 미적용 연결)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Status:  http.StatusConflict,
			Code:    ResourceConflict,
			Message: "연결된 데이터가 있어 처리할 수 없습니다",
		}
	}

	// 3. 연결 장애는 재시도 안내
	if isTransient(err, errStrLower) {
		return ErrorInfo{
			Status:  http.StatusServiceUnavailable,
			Code:    InternalUnavailable,
			Message: "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func isTransient(err error, errStrLower string) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "database is closed") ||
		strings.Contains(errStrLower, "timeout")
}

// parseDuplicateKeyError Unique constraint 위반 에러 파싱
func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "reservation_id"):
		return ErrorInfo{Status: http.StatusConflict, Code: ReservationAlreadyBooked, Message: "이미 예약이 연결된 예약서입니다"}
	case strings.Contains(errLower, "partner_code") || strings.Contains(errLower, "booking_id"):
		return ErrorInfo{Status: http.StatusConflict, Code: ReferralCodeAlreadyOwned, Message: "이미 파트너 코드를 가진 예약입니다"}
	case strings.Contains(errLower, "referral_codes") || strings.Contains(errLower, ".code"):
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "이미 사용 중인 파트너 코드입니다"}
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "이미 사용 중인 이메일입니다"}
	}
	return ErrorInfo{
		Status:  http.StatusConflict,
		Code:    ResourceAlreadyExists,
		Message: "이미 존재하는 데이터입니다",
	}
}

// getNotFoundMessage context에 따른 Not Found 메시지
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "reservation") || strings.Contains(contextLower, "예약서"):
		return "예약서를 찾을 수 없습니다"
	case strings.Contains(contextLower, "booking") || strings.Contains(contextLower, "예약"):
		return "예약을 찾을 수 없습니다"
	case strings.Contains(contextLower, "referral") || strings.Contains(contextLower, "코드"):
		return "파트너 코드를 찾을 수 없습니다"
	case strings.Contains(contextLower, "product") || strings.Contains(contextLower, "상품"):
		return "상품을 찾을 수 없습니다"
	case strings.Contains(contextLower, "event") || strings.Contains(contextLower, "이벤트"):
		return "이벤트를 찾을 수 없습니다"
	case strings.Contains(contextLower, "user") || strings.Contains(contextLower, "사용자"):
		return "사용자를 찾을 수 없습니다"
	}
	return "요청한 데이터를 찾을 수 없습니다"
}

// getDefaultErrorMessage context에 따른 기본 에러 메시지
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create") || strings.Contains(contextLower, "생성") || strings.Contains(contextLower, "등록"):
		return "등록 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "update") || strings.Contains(contextLower, "수정"):
		return "수정 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "삭제"):
		return "삭제 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "export") || strings.Contains(contextLower, "내보내기"):
		return "내보내기 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	return "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
}

// ParseAndRespond 에러를 파싱하여 응답 반환 (헬퍼 함수)
// controller에서 간편하게 사용할 수 있도록
func ParseAndRespond(c interface{ JSON(int, interface{}) }, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(errorInfo.Status, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
