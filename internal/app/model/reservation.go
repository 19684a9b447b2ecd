package model

import (
	"time"

	"gorm.io/gorm"
)

// DiscountIntents 고객이 선택한 할인 희망 항목 (적용 여부는 할인 규칙이 결정)
type DiscountIntents struct {
	NewYear    bool `gorm:"default:false" json:"new_year"`    // 신년 할인
	Review     bool `gorm:"default:false" json:"review"`      // 촬영 후기 할인
	Couple     bool `gorm:"default:false" json:"couple"`      // 커플(지인 추천) 할인
	ReviewBlog bool `gorm:"default:false" json:"review_blog"` // 블로그 후기 할인
}

// Reservation 고객이 제출한 촬영 예약서
type Reservation struct {
	ID          uint        `gorm:"primarykey" json:"id"`                       // 예약서 ID
	ProductType ProductType `gorm:"type:varchar(30);index" json:"product_type"` // 상품 유형 (미선택 가능)

	ContractorGroom bool `gorm:"default:false" json:"contractor_groom"` // 계약자: 신랑
	ContractorBride bool `gorm:"default:false" json:"contractor_bride"` // 계약자: 신부

	GroomName  string `json:"groom_name"`                    // 신랑 이름
	GroomPhone string `json:"groom_phone"`                   // 신랑 연락처 (숫자만)
	BrideName  string `json:"bride_name"`                    // 신부 이름
	BridePhone string `json:"bride_phone"`                   // 신부 연락처 (숫자만)
	Email      string `gorm:"index" json:"email"`            // 이메일
	Overseas   bool   `gorm:"default:false" json:"overseas"` // 해외 거주 여부

	WeddingDate string `gorm:"type:varchar(10)" json:"wedding_date"` // 예식일 (YYYY-MM-DD)
	WeddingTime string `gorm:"type:varchar(5)" json:"wedding_time"`  // 예식 시간 (HH:MM)
	Venue       string `json:"venue"`                                // 예식장
	MainVendor  string `json:"main_vendor"`                          // 메인 업체 (웨딩 플래너)

	AddOns     AddOnSelection `gorm:"embedded;embeddedPrefix:addon_" json:"addons"` // 추가 옵션
	USBAddress string         `gorm:"type:text" json:"usb_address"`                 // USB 배송지

	Discounts   DiscountIntents `gorm:"embedded;embeddedPrefix:discount_" json:"discounts"` // 할인 희망 항목
	PartnerCode string          `gorm:"type:varchar(16)" json:"partner_code"`               // 입력한 파트너 코드

	Notes        string `gorm:"type:text" json:"notes"` // 요청 사항
	PasswordHash string `gorm:"not null" json:"-"`      // 수정용 비밀번호 해시

	CreatedAt time.Time      `json:"created_at"`      // 생성 시각
	UpdatedAt time.Time      `json:"updated_at"`      // 수정 시각
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // 삭제 시각(소프트 삭제)

	CustomRequest *CustomShootRequest `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"custom_request,omitempty"` // 맞춤 촬영 요청
}

func (Reservation) TableName() string {
	return "reservations"
}

// ContractorRole 계약자 역할
type ContractorRole string

const (
	ContractorGroom ContractorRole = "groom"
	ContractorBride ContractorRole = "bride"
)

// Contractor 계약자 역할 (미지정이거나 둘 다 선택된 경우 빈 문자열)
func (r *Reservation) Contractor() ContractorRole {
	switch {
	case r.ContractorGroom && !r.ContractorBride:
		return ContractorGroom
	case r.ContractorBride && !r.ContractorGroom:
		return ContractorBride
	default:
		return ""
	}
}

// ContractorName 계약자 이름 (파트너 코드 소유자 표시명)
func (r *Reservation) ContractorName() string {
	if r.Contractor() == ContractorBride {
		return r.BrideName
	}
	return r.GroomName
}

// ContractorPhone 계약자 연락처
func (r *Reservation) ContractorPhone() string {
	if r.Contractor() == ContractorBride {
		return r.BridePhone
	}
	return r.GroomPhone
}

// 맞춤 촬영 요청 선택지
const (
	ShootStyleClassic     = "classic"
	ShootStyleNatural     = "natural"
	ShootStyleDocumentary = "documentary"

	EditStyleWarm  = "warm"
	EditStyleVivid = "vivid"
	EditStyleFilm  = "film"

	MusicBright    = "bright"
	MusicCalm      = "calm"
	MusicCustomer  = "customer"
	LengthShort    = "short"
	LengthStandard = "standard"
	LengthLong     = "long"

	EffectsNone    = "none"
	EffectsMinimal = "minimal"
	EffectsRich    = "rich"

	ContentCeremony  = "ceremony"
	ContentInterview = "interview"
	ContentHighlight = "highlight"
)

// CustomShootOptions 필드별 허용 값
var CustomShootOptions = map[string][]string{
	"style":      {ShootStyleClassic, ShootStyleNatural, ShootStyleDocumentary},
	"edit_style": {EditStyleWarm, EditStyleVivid, EditStyleFilm},
	"music":      {MusicBright, MusicCalm, MusicCustomer},
	"length":     {LengthShort, LengthStandard, LengthLong},
	"effects":    {EffectsNone, EffectsMinimal, EffectsRich},
	"content":    {ContentCeremony, ContentInterview, ContentHighlight},
}

// CustomShootRequest 맞춤 촬영 요청서
type CustomShootRequest struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ReservationID uint      `gorm:"uniqueIndex;not null" json:"reservation_id"`
	Style         string    `gorm:"type:varchar(20)" json:"style"`
	EditStyle     string    `gorm:"type:varchar(20)" json:"edit_style"`
	Music         string    `gorm:"type:varchar(20)" json:"music"`
	Length        string    `gorm:"type:varchar(20)" json:"length"`
	Effects       string    `gorm:"type:varchar(20)" json:"effects"`
	Content       string    `gorm:"type:varchar(20)" json:"content"`
	Request       string    `gorm:"type:text" json:"request"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (CustomShootRequest) TableName() string {
	return "custom_shoot_requests"
}

// Values 필드 이름 -> 선택 값 (검증용)
func (c *CustomShootRequest) Values() map[string]string {
	return map[string]string{
		"style":      c.Style,
		"edit_style": c.EditStyle,
		"music":      c.Music,
		"length":     c.Length,
		"effects":    c.Effects,
		"content":    c.Content,
	}
}
