package service

import (
	"context"
	"testing"

	"github.com/ikkim/weddingfilm-backend/config"
	"github.com/ikkim/weddingfilm-backend/internal/app/intake"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/pricing"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type serviceFixture struct {
	db           *gorm.DB
	referrals    *referralService
	bookings     BookingService
	reservations ReservationService
	catalog      CatalogService
	events       DiscountEventService
}

func setupServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	testDB, err := db.SetupSeededTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	referralCfg := config.DefaultReferral()
	referrals := NewReferralService(testDB, referralCfg).(*referralService)
	calc := pricing.NewCalculator(pricing.NewRules(config.DefaultPricing()))
	validator := intake.NewValidator(calc.Rules(), referrals, referralCfg)

	return &serviceFixture{
		db:           testDB,
		referrals:    referrals,
		bookings:     NewBookingService(testDB, calc, referrals),
		reservations: NewReservationService(testDB, validator, calc, nil),
		catalog:      NewCatalogService(repository.NewProductRepository(testDB), repository.NewAddOnRepository(testDB)),
		events:       NewDiscountEventService(repository.NewDiscountEventRepository(testDB)),
	}
}

func (f *serviceFixture) createBooking(t *testing.T, name string, productType model.ProductType) *model.Booking {
	t.Helper()
	b, err := f.bookings.CreateBooking(context.Background(), CreateBookingInput{
		CustomerName: name,
		ProductType:  productType,
		Deposit:      100000,
	})
	require.NoError(t, err)
	return b
}

// confirmedBooking 확정 상태 예약과 소유 코드
func (f *serviceFixture) confirmedBooking(t *testing.T, name string) (*model.Booking, string) {
	t.Helper()
	b := f.createBooking(t, name, model.ProductStandard)
	confirmed, err := f.bookings.Confirm(b.ID)
	require.NoError(t, err)
	require.NotNil(t, confirmed.PartnerCode)
	return confirmed, *confirmed.PartnerCode
}

// forceStatus 전이 규칙을 거치지 않고 상태만 바꾼다
func (f *serviceFixture) forceStatus(t *testing.T, id uint, status model.BookingStatus) {
	t.Helper()
	require.NoError(t, f.db.Model(&model.Booking{}).Where("id = ?", id).Update("status", status).Error)
}

func (f *serviceFixture) reload(t *testing.T, id uint) *model.Booking {
	t.Helper()
	b, err := f.bookings.GetBooking(id)
	require.NoError(t, err)
	return b
}
