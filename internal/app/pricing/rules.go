// Package pricing holds the discount rule table and the price calculator.
// Both are pure: no storage access, no clock, no randomness.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/weddingfilm-backend/config"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

var (
	ErrInvariantViolation = errors.New("pricing invariant violated")
	ErrNegativeDiscount   = fmt.Errorf("%w: negative discount", ErrInvariantViolation)
	ErrNegativeAmount     = fmt.Errorf("%w: negative amount", ErrInvariantViolation)
	ErrSelfReferral       = fmt.Errorf("%w: booking refers to its own partner code", ErrInvariantViolation)
)

type DiscountKind string

const (
	DiscountPartnerVendor DiscountKind = "partner_vendor" // 제휴 업체 할인
	DiscountNewYear       DiscountKind = "new_year"       // 신년 할인
	DiscountReferral      DiscountKind = "referral"       // 커플(파트너 코드) 할인
	DiscountReview        DiscountKind = "review"         // 촬영 후기 할인
	DiscountReviewBlog    DiscountKind = "review_blog"    // 블로그 후기 할인
	DiscountEvent         DiscountKind = "event"          // 이벤트 할인
	DiscountSpecial       DiscountKind = "special"        // 특별 할인
)

// Discount 적용된 할인 한 줄
type Discount struct {
	Kind   DiscountKind `json:"kind"`
	Label  string       `json:"label"`
	Amount int64        `json:"amount"`
}

// EventTerms 관리자가 지정한 프로모션 이벤트 조건
type EventTerms struct {
	Name   string
	Type   model.DiscountType
	Amount int64
	Rate   decimal.Decimal
}

// DiscountInput 할인 규칙 평가 입력
type DiscountInput struct {
	ProductType model.ProductType
	MainVendor  string
	Intents     model.DiscountIntents
	BasePrice   int64

	// ReferralCode is the code being consumed; ReferralValidated must be set
	// by the caller after the registry confirmed it.
	ReferralCode      string
	ReferralValidated bool
	OwnCode           string

	Event           *EventTerms
	SpecialDiscount int64
	SpecialReason   string
}

// Rules 할인 규칙 테이블
type Rules struct {
	cfg config.PricingConfig
}

func NewRules(cfg config.PricingConfig) *Rules {
	return &Rules{cfg: cfg}
}

// IsPartnerVendor 메인 업체가 제휴 업체이고 상품이 기본형/시네마틱인 경우
func (r *Rules) IsPartnerVendor(productType model.ProductType, mainVendor string) bool {
	if productType != model.ProductStandard && productType != model.ProductCinematic {
		return false
	}
	vendor := strings.TrimSpace(mainVendor)
	if vendor == "" {
		return false
	}
	for _, name := range r.cfg.PartnerVendorNames {
		if strings.EqualFold(vendor, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}

// NewYearAvailable 신년 할인 선택 가능 여부
func (r *Rules) NewYearAvailable(productType model.ProductType, mainVendor string) bool {
	if productType == model.ProductBudget {
		return false
	}
	return !r.IsPartnerVendor(productType, mainVendor)
}

// Normalize 선택 불가능한 할인 의사를 끄고, 커플 할인이 꺼져 있으면 입력된 코드를 지운다.
func (r *Rules) Normalize(productType model.ProductType, mainVendor string, intents model.DiscountIntents, partnerCode string) (model.DiscountIntents, string) {
	if !r.NewYearAvailable(productType, mainVendor) {
		intents.NewYear = false
	}
	if !intents.Couple {
		partnerCode = ""
	}
	return intents, strings.ToUpper(strings.TrimSpace(partnerCode))
}

// ReviewLabel 후기 할인 문구 (금액과 무관)
func ReviewLabel(productType model.ProductType, blog bool) string {
	if productType == model.ProductBudget {
		if blog {
			return "실속형 블로그 후기 이벤트"
		}
		return "실속형 후기 이벤트"
	}
	if blog {
		return "블로그 촬영 후기 할인"
	}
	return "촬영 후기 할인"
}

// EventAmount 이벤트 할인 금액 (정률은 정가 기준, 원 단위 절사)
func EventAmount(terms EventTerms, basePrice int64) int64 {
	if terms.Type == model.DiscountTypePercent {
		return decimal.NewFromInt(basePrice).
			Mul(terms.Rate).
			Div(decimal.NewFromInt(100)).
			Floor().
			IntPart()
	}
	return terms.Amount
}

// Evaluate returns the applicable discounts in display order.
func (r *Rules) Evaluate(in DiscountInput) ([]Discount, error) {
	var discounts []Discount

	switch {
	case r.IsPartnerVendor(in.ProductType, in.MainVendor):
		discounts = append(discounts, Discount{
			Kind:   DiscountPartnerVendor,
			Label:  "제휴 업체 할인",
			Amount: r.cfg.PartnerVendorDiscount,
		})
	case in.Intents.NewYear && r.NewYearAvailable(in.ProductType, in.MainVendor):
		discounts = append(discounts, Discount{
			Kind:   DiscountNewYear,
			Label:  "신년 할인",
			Amount: r.cfg.NewYearDiscount,
		})
	}

	code := strings.ToUpper(strings.TrimSpace(in.ReferralCode))
	if in.Intents.Couple && code != "" {
		if own := strings.ToUpper(strings.TrimSpace(in.OwnCode)); own != "" && own == code {
			return nil, ErrSelfReferral
		}
		if in.ReferralValidated {
			discounts = append(discounts, Discount{
				Kind:   DiscountReferral,
				Label:  "커플 할인 (" + code + ")",
				Amount: r.cfg.CoupleDiscount,
			})
		}
	}

	if in.Intents.Review {
		discounts = append(discounts, Discount{
			Kind:   DiscountReview,
			Label:  ReviewLabel(in.ProductType, false),
			Amount: r.cfg.ReviewDiscount,
		})
	}
	if in.Intents.ReviewBlog {
		discounts = append(discounts, Discount{
			Kind:   DiscountReviewBlog,
			Label:  ReviewLabel(in.ProductType, true),
			Amount: r.cfg.ReviewBlogDiscount,
		})
	}

	if in.Event != nil {
		discounts = append(discounts, Discount{
			Kind:   DiscountEvent,
			Label:  in.Event.Name,
			Amount: EventAmount(*in.Event, in.BasePrice),
		})
	}

	if in.SpecialDiscount != 0 {
		label := "특별 할인"
		if in.SpecialReason != "" {
			label += " (" + in.SpecialReason + ")"
		}
		discounts = append(discounts, Discount{
			Kind:   DiscountSpecial,
			Label:  label,
			Amount: in.SpecialDiscount,
		})
	}

	for _, d := range discounts {
		if d.Amount < 0 {
			return nil, fmt.Errorf("%w: %s=%d", ErrNegativeDiscount, d.Kind, d.Amount)
		}
	}

	return discounts, nil
}
