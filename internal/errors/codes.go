package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 이메일/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // 관리자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 잘못된 형식
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목
	ValidationFields        = "VALIDATION_FIELDS"         // 필드별 오류 목록

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 예약서 (RESERVATION_) ====================
	ReservationNotFound          = "RESERVATION_NOT_FOUND"          // 예약서 없음
	ReservationInvalidCredential = "RESERVATION_INVALID_CREDENTIAL" // 예약서 비밀번호 불일치
	ReservationLocked            = "RESERVATION_LOCKED"             // 영상 전달 후 수정 불가
	ReservationAlreadyBooked     = "RESERVATION_ALREADY_BOOKED"     // 이미 예약이 연결됨

	// ==================== 예약 (BOOKING_) ====================
	BookingNotFound           = "BOOKING_NOT_FOUND"            // 예약 없음
	BookingInvalidTransition  = "BOOKING_INVALID_TRANSITION"   // 허용되지 않는 상태 변경
	BookingConcurrentUpdate   = "BOOKING_CONCURRENT_UPDATE"    // 동시 수정 충돌
	BookingNotEditable        = "BOOKING_NOT_EDITABLE"         // 수정 불가 상태
	BookingBreakdownFrozen    = "BOOKING_BREAKDOWN_FROZEN"     // 전달 완료 견적 고정
	BookingEventNotApplicable = "BOOKING_EVENT_NOT_APPLICABLE" // 이벤트 기간 아님

	// ==================== 파트너 코드 (REFERRAL_) ====================
	ReferralCodeNotFound     = "REFERRAL_CODE_NOT_FOUND"     // 코드 없음
	ReferralCodeInvalid      = "REFERRAL_CODE_INVALID"       // 사용 불가 코드
	ReferralCodeExhausted    = "REFERRAL_CODE_EXHAUSTED"     // 코드 발급 실패 (중복 한도 초과)
	ReferralCodeAlreadyOwned = "REFERRAL_CODE_ALREADY_OWNED" // 이미 코드를 가진 예약
	ReferralSelfReferral     = "REFERRAL_SELF_REFERRAL"      // 자기 코드 사용
	ReferralUnavailable      = "REFERRAL_UNAVAILABLE"        // 코드 확인 일시 불가

	// ==================== 카탈로그 (CATALOG_) ====================
	CatalogProductNotFound = "CATALOG_PRODUCT_NOT_FOUND" // 상품 없음
	CatalogAddOnNotFound   = "CATALOG_ADDON_NOT_FOUND"   // 추가 옵션 없음
	CatalogEventNotFound   = "CATALOG_EVENT_NOT_FOUND"   // 이벤트 없음

	// ==================== 요청 제한 (RATE_) ====================
	RateLimitExceeded = "RATE_LIMIT_EXCEEDED" // 요청 횟수 초과

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalUnavailable   = "INTERNAL_UNAVAILABLE"    // 일시적 장애
	InternalPricingError  = "INTERNAL_PRICING_ERROR"  // 견적 계산 불변식 위반
)
