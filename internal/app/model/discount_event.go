package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string // 이벤트 할인 방식

const (
	DiscountTypeFixed   DiscountType = "fixed"   // 정액
	DiscountTypePercent DiscountType = "percent" // 정률 (정가 기준)
)

// DiscountEvent 기간 한정 프로모션 이벤트
type DiscountEvent struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	DiscountType DiscountType    `gorm:"type:varchar(10);not null" json:"discount_type"`
	Amount       int64           `gorm:"not null;default:0" json:"amount"`     // 정액 할인 금액
	Rate         decimal.Decimal `gorm:"type:decimal(5,2)" json:"rate"`        // 정률 할인 (%)
	StartsAt     time.Time       `gorm:"not null" json:"starts_at"`
	EndsAt       time.Time       `gorm:"not null;index" json:"ends_at"`
	Active       bool            `gorm:"default:true;index" json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (DiscountEvent) TableName() string {
	return "discount_events"
}

// IsOpenAt 지정 시각에 적용 가능한 이벤트인지 확인
func (e *DiscountEvent) IsOpenAt(t time.Time) bool {
	return e.Active && !t.Before(e.StartsAt) && t.Before(e.EndsAt)
}
