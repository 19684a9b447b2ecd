package model

import (
	"time"

	"gorm.io/datatypes"
)

type BookingStatus string // 예약 진행 상태

const (
	BookingStatusPending          BookingStatus = "pending"           // 접수 대기
	BookingStatusConfirmed        BookingStatus = "confirmed"         // 예약 확정
	BookingStatusDepositCompleted BookingStatus = "deposit_completed" // 계약금 입금 완료
	BookingStatusDelivered        BookingStatus = "delivered"         // 영상 전달 완료
	BookingStatusCancelled        BookingStatus = "cancelled"         // 취소
)

// BookingStatuses 모든 예약 상태
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusDepositCompleted,
	BookingStatusDelivered,
	BookingStatusCancelled,
}

// IsValid 알려진 상태인지 확인
func (s BookingStatus) IsValid() bool {
	for _, status := range BookingStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// IsTerminal 종료 상태 여부 (취소는 복구 가능하지만 금액 수정은 불가)
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusDelivered || s == BookingStatusCancelled
}

// HoldsReferralCode 파트너 코드가 사용 가능한 상태 (확정 이후 진행 중/완료)
func (s BookingStatus) HoldsReferralCode() bool {
	return s == BookingStatusConfirmed || s == BookingStatusDepositCompleted || s == BookingStatusDelivered
}

// Booking 운영/정산용 예약 (예약서와 1:1 연결 가능)
type Booking struct {
	ID            uint          `gorm:"primarykey" json:"id"`                                    // 예약 ID
	ReservationID *uint         `gorm:"uniqueIndex" json:"reservation_id,omitempty"`             // 연결된 예약서 ID
	Status        BookingStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"` // 진행 상태
	Version       int64         `gorm:"not null;default:1" json:"version"`                       // 낙관적 잠금 버전

	CustomerName string      `gorm:"not null" json:"customer_name"`                   // 계약자 이름 (파트너 코드 표시명)
	ProductType  ProductType `gorm:"type:varchar(30);not null" json:"product_type"` // 상품 유형
	MainVendor   string      `json:"main_vendor,omitempty"`                         // 메인 업체 (제휴 할인 판단)

	AddOns    AddOnSelection  `gorm:"embedded;embeddedPrefix:addon_" json:"addons"`       // 추가 옵션
	Discounts DiscountIntents `gorm:"embedded;embeddedPrefix:discount_" json:"discounts"` // 할인 희망 항목 (예약서에서 복사)

	ListPrice  int64 `gorm:"not null;default:0" json:"list_price"`  // 마지막 계산 시 정가
	AddOnTotal int64 `gorm:"not null;default:0" json:"addon_total"` // 마지막 계산 시 추가 옵션 합계
	Deposit    int64 `gorm:"not null;default:0" json:"deposit"`     // 계약금
	TravelFee  int64 `gorm:"not null;default:0" json:"travel_fee"`  // 출장비

	EventID          *uint  `gorm:"index" json:"event_id,omitempty"`             // 적용 이벤트 ID
	EventName        string `json:"event_name,omitempty"`                        // 적용 이벤트 이름
	EventDiscount    int64  `gorm:"not null;default:0" json:"event_discount"`    // 이벤트 할인
	SpecialDiscount  int64  `gorm:"not null;default:0" json:"special_discount"`  // 특별 할인 (관리자 입력)
	SpecialReason    string `gorm:"type:text" json:"special_reason,omitempty"`   // 특별 할인 사유
	NewYearDiscount  int64  `gorm:"not null;default:0" json:"new_year_discount"` // 신년 할인
	VendorDiscount   int64  `gorm:"not null;default:0" json:"vendor_discount"`   // 제휴 업체 할인
	ReferralDiscount int64  `gorm:"not null;default:0" json:"referral_discount"` // 파트너 코드 할인
	ReviewDiscount   int64  `gorm:"not null;default:0" json:"review_discount"`   // 후기 할인 (블로그 포함)
	Balance          int64  `gorm:"not null;default:0" json:"balance"`           // 잔금

	PartnerCode *string `gorm:"type:varchar(16);uniqueIndex" json:"partner_code,omitempty"` // 이 예약이 소유한 파트너 코드
	ReferredBy  *string `gorm:"type:varchar(16);index" json:"referred_by,omitempty"`        // 이 예약이 사용한 파트너 코드

	VideoURL    string `gorm:"type:text" json:"video_url,omitempty"`    // 영상 전달 URL
	ContractURL string `gorm:"type:text" json:"contract_url,omitempty"` // 계약서 URL

	FrozenBreakdown datatypes.JSON `json:"frozen_breakdown,omitempty"` // 전달 완료 시점 견적 (수정 불가)

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"` // 확정 시각
	DeliveredAt *time.Time `json:"delivered_at,omitempty"` // 전달 완료 시각
	CancelledAt *time.Time `json:"cancelled_at,omitempty"` // 취소 시각
	CreatedAt   time.Time  `json:"created_at"`             // 생성 시각
	UpdatedAt   time.Time  `json:"updated_at"`             // 수정 시각

	Reservation *Reservation   `gorm:"foreignKey:ReservationID;constraint:OnDelete:SET NULL" json:"reservation,omitempty"` // 예약서
	Event       *DiscountEvent `gorm:"foreignKey:EventID;constraint:OnDelete:SET NULL" json:"event,omitempty"`             // 적용 이벤트
}

func (Booking) TableName() string {
	return "bookings"
}

// OwnCode 소유 파트너 코드 (없으면 빈 문자열)
func (b *Booking) OwnCode() string {
	if b.PartnerCode == nil {
		return ""
	}
	return *b.PartnerCode
}

// ReferredCode 사용한 파트너 코드 (없으면 빈 문자열)
func (b *Booking) ReferredCode() string {
	if b.ReferredBy == nil {
		return ""
	}
	return *b.ReferredBy
}
