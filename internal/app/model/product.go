package model

import (
	"time"
)

type ProductType string // 촬영 상품 유형

const (
	ProductNone        ProductType = ""             // 미선택
	ProductBudget      ProductType = "budget"       // 실속형
	ProductStandard    ProductType = "standard"     // 기본형
	ProductCinematic   ProductType = "cinematic"    // 시네마틱
	ProductOutdoorSnap ProductType = "outdoor_snap" // 야외 스냅
	ProductPreWedding  ProductType = "pre_wedding"  // 웨딩 전 촬영
)

// ProductTypes 카탈로그에 존재하는 모든 상품 유형 (표시 순서)
var ProductTypes = []ProductType{
	ProductBudget,
	ProductStandard,
	ProductCinematic,
	ProductOutdoorSnap,
	ProductPreWedding,
}

// IsValid 알려진 상품 유형인지 확인 (미선택 포함)
func (p ProductType) IsValid() bool {
	if p == ProductNone {
		return true
	}
	for _, t := range ProductTypes {
		if t == p {
			return true
		}
	}
	return false
}

// IsWeddingVideo 본식 영상 상품 여부 (예식 일시/장소 필수)
func (p ProductType) IsWeddingVideo() bool {
	return p == ProductBudget || p == ProductStandard || p == ProductCinematic
}

// Product 상품 카탈로그 (정가는 계산 시점에 항상 카탈로그에서 조회)
type Product struct {
	ID        uint        `gorm:"primarykey" json:"id"`                               // 상품 ID
	Type      ProductType `gorm:"type:varchar(30);uniqueIndex;not null" json:"type"` // 상품 유형
	Name      string      `gorm:"not null" json:"name"`                              // 표시 이름
	Price     int64       `gorm:"not null" json:"price"`                             // 정가 (원)
	CreatedAt time.Time   `json:"created_at"`                                        // 생성 시각
	UpdatedAt time.Time   `json:"updated_at"`                                        // 수정 시각
}

func (Product) TableName() string {
	return "products"
}
