package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/pricing"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/internal/metrics"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// bookingPricer 예약 + 현재 카탈로그 가격으로 견적을 계산
type bookingPricer struct {
	calc *pricing.Calculator
}

func newBookingPricer(calc *pricing.Calculator) *bookingPricer {
	return &bookingPricer{calc: calc}
}

// compute reads catalog prices through conn so it can run inside a transaction.
func (p *bookingPricer) compute(conn *gorm.DB, b *model.Booking) (*pricing.Breakdown, error) {
	product, err := repository.NewProductRepository(conn).FindByType(b.ProductType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, b.ProductType)
		}
		return nil, err
	}

	addOns, err := p.addOnCharges(conn, b.AddOns)
	if err != nil {
		return nil, err
	}

	// 코드 사용 내역이 있어야 검증된 것으로 본다 (취소된 소유 예약이어도 소급 회수하지 않음)
	validated := false
	if code := b.ReferredCode(); code != "" && b.Discounts.Couple {
		redemption, err := repository.NewReferralCodeRepository(conn).FindRedemptionByBookingID(b.ID)
		switch {
		case err == nil:
			validated = redemption.Code == code
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	var event *pricing.EventTerms
	if b.EventID != nil || b.EventDiscount != 0 {
		event = &pricing.EventTerms{
			Name:   b.EventName,
			Type:   model.DiscountTypeFixed,
			Amount: b.EventDiscount,
		}
	}

	breakdown, err := p.calc.Compute(pricing.Input{
		ProductName: product.Name,
		BasePrice:   product.Price,
		AddOns:      addOns,
		TravelFee:   b.TravelFee,
		Deposit:     b.Deposit,
		Discount: pricing.DiscountInput{
			ProductType:       b.ProductType,
			MainVendor:        b.MainVendor,
			Intents:           b.Discounts,
			ReferralCode:      b.ReferredCode(),
			ReferralValidated: validated,
			OwnCode:           b.OwnCode(),
			Event:             event,
			SpecialDiscount:   b.SpecialDiscount,
			SpecialReason:     b.SpecialReason,
		},
	})
	if err != nil {
		if errors.Is(err, pricing.ErrInvariantViolation) {
			metrics.IncBreakdown("invariant_violation")
			logger.Error("Price computation aborted", err, map[string]interface{}{
				"booking_id": b.ID,
			})
		} else {
			metrics.IncBreakdown("error")
		}
		return nil, err
	}

	metrics.IncBreakdown("ok")
	return breakdown, nil
}

func (p *bookingPricer) addOnCharges(conn *gorm.DB, selection model.AddOnSelection) ([]pricing.AddOnCharge, error) {
	keys := selection.Selected()
	if len(keys) == 0 {
		return nil, nil
	}

	catalog, err := repository.NewAddOnRepository(conn).FindByKeys(keys)
	if err != nil {
		return nil, err
	}
	byKey := make(map[model.AddOnKey]model.AddOn, len(catalog))
	for _, a := range catalog {
		byKey[a.Key] = a
	}

	charges := make([]pricing.AddOnCharge, 0, len(keys))
	for _, key := range keys {
		a, ok := byKey[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrAddOnNotFound, key)
		}
		charges = append(charges, pricing.AddOnCharge{Key: a.Key, Name: a.Name, Price: a.Price})
	}
	return charges, nil
}

// apply copies the computed amounts onto the booking columns.
func applyBreakdown(b *model.Booking, br *pricing.Breakdown) {
	b.ListPrice = br.BasePrice
	b.AddOnTotal = br.AddOnTotal
	b.NewYearDiscount = br.DiscountAmount(pricing.DiscountNewYear)
	b.VendorDiscount = br.DiscountAmount(pricing.DiscountPartnerVendor)
	b.ReferralDiscount = br.DiscountAmount(pricing.DiscountReferral)
	b.ReviewDiscount = br.DiscountAmount(pricing.DiscountReview, pricing.DiscountReviewBlog)
	b.Balance = br.Balance
}

// reprice computes and applies in one step.
func (p *bookingPricer) reprice(conn *gorm.DB, b *model.Booking) (*pricing.Breakdown, error) {
	br, err := p.compute(conn, b)
	if err != nil {
		return nil, err
	}
	applyBreakdown(b, br)
	return br, nil
}

func freezeBreakdown(b *model.Booking, br *pricing.Breakdown) error {
	data, err := json.Marshal(br)
	if err != nil {
		return err
	}
	b.FrozenBreakdown = datatypes.JSON(data)
	return nil
}

func frozenBreakdown(b *model.Booking) (*pricing.Breakdown, error) {
	var br pricing.Breakdown
	if err := json.Unmarshal(b.FrozenBreakdown, &br); err != nil {
		return nil, err
	}
	return &br, nil
}
