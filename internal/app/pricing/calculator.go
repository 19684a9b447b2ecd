package pricing

import (
	"fmt"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
)

type LineKind string

const (
	LineCharge   LineKind = "charge"
	LineDiscount LineKind = "discount"
	LinePayment  LineKind = "payment"
)

// LineItem 견적서 한 줄
type LineItem struct {
	Code   string   `json:"code"`
	Label  string   `json:"label"`
	Kind   LineKind `json:"kind"`
	Amount int64    `json:"amount"`
}

// AddOnCharge 선택된 추가 옵션과 카탈로그 단가
type AddOnCharge struct {
	Key   model.AddOnKey
	Name  string
	Price int64
}

// Input 견적 계산 입력 (가격은 모두 호출 시점 카탈로그 값)
type Input struct {
	ProductName string
	BasePrice   int64
	AddOns      []AddOnCharge
	TravelFee   int64
	Deposit     int64
	Discount    DiscountInput
}

// Breakdown 견적 계산 결과
type Breakdown struct {
	Items              []LineItem `json:"items"`
	BasePrice          int64      `json:"base_price"`
	AddOnTotal         int64      `json:"addon_total"`
	TravelFee          int64      `json:"travel_fee"`
	Subtotal           int64      `json:"subtotal"`
	Deposit            int64      `json:"deposit"`
	DiscountTotal      int64      `json:"discount_total"`
	Balance            int64      `json:"balance"`
	Clamped            bool       `json:"clamped"`
	HistoricalOverride bool       `json:"historical_override,omitempty"`
}

// DiscountAmount 지정 종류 할인 합계
func (b *Breakdown) DiscountAmount(kinds ...DiscountKind) int64 {
	var total int64
	for _, item := range b.Items {
		if item.Kind != LineDiscount {
			continue
		}
		for _, kind := range kinds {
			if item.Code == string(kind) {
				total += item.Amount
			}
		}
	}
	return total
}

type Calculator struct {
	rules *Rules
}

func NewCalculator(rules *Rules) *Calculator {
	return &Calculator{rules: rules}
}

func (c *Calculator) Rules() *Rules {
	return c.rules
}

// Compute builds the breakdown. Balance = max(0, Subtotal - Deposit - sum(discounts)).
func (c *Calculator) Compute(in Input) (*Breakdown, error) {
	if in.BasePrice < 0 {
		return nil, fmt.Errorf("%w: base price %d", ErrNegativeAmount, in.BasePrice)
	}
	if in.TravelFee < 0 {
		return nil, fmt.Errorf("%w: travel fee %d", ErrNegativeAmount, in.TravelFee)
	}
	if in.Deposit < 0 {
		return nil, fmt.Errorf("%w: deposit %d", ErrNegativeAmount, in.Deposit)
	}

	b := &Breakdown{
		BasePrice: in.BasePrice,
		TravelFee: in.TravelFee,
		Deposit:   in.Deposit,
	}

	productName := in.ProductName
	if productName == "" {
		productName = "기본 상품"
	}
	b.Items = append(b.Items, LineItem{Code: "base", Label: productName, Kind: LineCharge, Amount: in.BasePrice})

	for _, addOn := range in.AddOns {
		if addOn.Price < 0 {
			return nil, fmt.Errorf("%w: add-on %s price %d", ErrNegativeAmount, addOn.Key, addOn.Price)
		}
		b.AddOnTotal += addOn.Price
		b.Items = append(b.Items, LineItem{
			Code:   "addon_" + string(addOn.Key),
			Label:  addOn.Name,
			Kind:   LineCharge,
			Amount: addOn.Price,
		})
	}

	if in.TravelFee > 0 {
		b.Items = append(b.Items, LineItem{Code: "travel_fee", Label: "출장비", Kind: LineCharge, Amount: in.TravelFee})
	}

	b.Subtotal = b.BasePrice + b.AddOnTotal + b.TravelFee

	discountInput := in.Discount
	discountInput.BasePrice = in.BasePrice
	discounts, err := c.rules.Evaluate(discountInput)
	if err != nil {
		return nil, err
	}
	for _, d := range discounts {
		b.DiscountTotal += d.Amount
		b.Items = append(b.Items, LineItem{Code: string(d.Kind), Label: d.Label, Kind: LineDiscount, Amount: d.Amount})
	}

	if in.Deposit > 0 {
		b.Items = append(b.Items, LineItem{Code: "deposit", Label: "계약금", Kind: LinePayment, Amount: in.Deposit})
	}

	balance := b.Subtotal - b.Deposit - b.DiscountTotal
	if balance < 0 {
		balance = 0
		b.Clamped = true
	}
	b.Balance = balance

	return b, nil
}
