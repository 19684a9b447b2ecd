package model

import "time"

// ReferralCode 파트너(지인 추천) 코드. 값은 생성 후 변경되지 않으며 소유 예약만 이전 가능
type ReferralCode struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Code        string     `gorm:"type:varchar(16);uniqueIndex;not null" json:"code"`  // 코드 값 (전역 유일)
	BookingID   uint       `gorm:"not null;index" json:"booking_id"`                   // 소유 예약 ID
	OwnerName   string     `gorm:"not null" json:"owner_name"`                         // 소유자 표시명
	GeneratedAt time.Time  `gorm:"not null" json:"generated_at"`                       // 생성 시각
	RetiredAt   *time.Time `json:"retired_at,omitempty"`                               // 재확정 등으로 폐기된 시각

	RedemptionCount int64 `gorm:"-" json:"redemption_count"` // 이 코드를 사용한 예약 수 (조회 시 채움)

	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
}

func (ReferralCode) TableName() string {
	return "referral_codes"
}

// ReferralRedemption 파트너 코드 사용 내역 (예약당 1회)
type ReferralRedemption struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	BookingID  uint      `gorm:"uniqueIndex;not null" json:"booking_id"`    // 코드를 사용한 예약 ID
	Code       string    `gorm:"type:varchar(16);index;not null" json:"code"` // 사용한 코드
	RedeemedAt time.Time `gorm:"not null" json:"redeemed_at"`
}

func (ReferralRedemption) TableName() string {
	return "referral_redemptions"
}

// ReferralCodeSummary 코드 검색 결과
type ReferralCodeSummary struct {
	Code      string `json:"code"`
	OwnerName string `json:"owner_name"`
}
