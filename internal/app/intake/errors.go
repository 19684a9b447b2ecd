package intake

import (
	"errors"
	"strings"
)

var (
	// ErrReferralUnavailable 파트너 코드 저장소 일시 장애 (재시도 가능, "유효하지 않음"과 구분)
	ErrReferralUnavailable = errors.New("referral registry unavailable")
	// ErrValidationTimeout 파트너 코드 확인이 제한 시간 안에 끝나지 않음
	ErrValidationTimeout = errors.New("referral validation timed out")
)

// Field 검증 대상 필드 식별자 (클라이언트가 그대로 매핑하므로 값 변경 금지)
type Field string

const (
	FieldContractor  Field = "contractor"
	FieldGroomName   Field = "groom_name"
	FieldGroomPhone  Field = "groom_phone"
	FieldBrideName   Field = "bride_name"
	FieldBridePhone  Field = "bride_phone"
	FieldEmail       Field = "email"
	FieldProductType Field = "product_type"
	FieldWeddingDate Field = "wedding_date"
	FieldWeddingTime Field = "wedding_time"
	FieldVenue       Field = "venue"
	FieldUSBAddress  Field = "usb_address"
	FieldPartnerCode Field = "partner_code"
	FieldNotes       Field = "notes"

	FieldCustomStyle     Field = "custom_request.style"
	FieldCustomEditStyle Field = "custom_request.edit_style"
	FieldCustomMusic     Field = "custom_request.music"
	FieldCustomLength    Field = "custom_request.length"
	FieldCustomEffects   Field = "custom_request.effects"
	FieldCustomContent   Field = "custom_request.content"
	FieldCustomRequest   Field = "custom_request.request"
)

// IssueCode 필드 오류 종류
type IssueCode string

const (
	IssueRequired   IssueCode = "required"
	IssueInvalid    IssueCode = "invalid"
	IssueUnverified IssueCode = "unverified" // 파트너 코드가 존재하지 않거나 사용 불가
	IssueTooLong    IssueCode = "too_long"
)

type Issue struct {
	Field Field     `json:"field"`
	Code  IssueCode `json:"code"`
}

// ValidationError 섹션 검증 실패. Issues 는 화면 표시 순서, Focus 는 첫 번째 필드
type ValidationError struct {
	Issues []Issue `json:"issues"`
	Focus  Field   `json:"focus"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, string(issue.Field)+":"+string(issue.Code))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Fields 오류 필드 목록 (순서 유지)
func (e *ValidationError) Fields() []Field {
	fields := make([]Field, 0, len(e.Issues))
	for _, issue := range e.Issues {
		fields = append(fields, issue.Field)
	}
	return fields
}

// Has 특정 필드 오류 포함 여부
func (e *ValidationError) Has(field Field) bool {
	for _, issue := range e.Issues {
		if issue.Field == field {
			return true
		}
	}
	return false
}
