package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ikkim/weddingfilm-backend/internal/app/intake"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReservationDraft() *model.Reservation {
	return &model.Reservation{
		ProductType:     model.ProductStandard,
		ContractorGroom: true,
		GroomName:       "김신랑",
		GroomPhone:      "010-1234-5678",
		BrideName:       "이신부",
		BridePhone:      "010-8765-4321",
		Email:           "couple@example.com",
		WeddingDate:     "2026-11-21",
		WeddingTime:     "13:30",
		Venue:           "더채플 청담",
	}
}

func requireIssues(t *testing.T, err error) *intake.ValidationError {
	t.Helper()
	var vErr *intake.ValidationError
	require.True(t, errors.As(err, &vErr), "expected validation error, got %v", err)
	return vErr
}

func TestReservationService_ScenarioD_CoupleWithoutCode(t *testing.T) {
	f := setupServiceFixture(t)

	draft := validReservationDraft()
	draft.Discounts.Couple = true

	created, err := f.reservations.CreateReservation(context.Background(), draft)
	assert.Nil(t, created)

	vErr := requireIssues(t, err)
	assert.Equal(t, intake.FieldPartnerCode, vErr.Focus)
	assert.Equal(t, []intake.Issue{{Field: intake.FieldPartnerCode, Code: intake.IssueRequired}}, vErr.Issues)

	var count int64
	f.db.Model(&model.Reservation{}).Count(&count)
	assert.Zero(t, count)
}

func TestReservationService_CreateWithPartnerCode(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	_, code := f.confirmedBooking(t, "박지영")

	t.Run("Valid code is stored normalized", func(t *testing.T) {
		draft := validReservationDraft()
		draft.Discounts.Couple = true
		draft.PartnerCode = " " + strings.ToLower(code) + " "

		created, err := f.reservations.CreateReservation(ctx, draft)
		require.NoError(t, err)
		assert.Equal(t, code, created.PartnerCode)
		assert.Equal(t, "01012345678", created.GroomPhone)
		assert.NotEmpty(t, created.PasswordHash)
	})

	t.Run("Unknown code is unverified", func(t *testing.T) {
		draft := validReservationDraft()
		draft.Discounts.Couple = true
		draft.PartnerCode = "NOPE99"

		_, err := f.reservations.CreateReservation(ctx, draft)
		vErr := requireIssues(t, err)
		assert.Equal(t, []intake.Issue{{Field: intake.FieldPartnerCode, Code: intake.IssueUnverified}}, vErr.Issues)
	})

	t.Run("Code dropped when couple discount is off", func(t *testing.T) {
		draft := validReservationDraft()
		draft.PartnerCode = "NOPE99"

		created, err := f.reservations.CreateReservation(ctx, draft)
		require.NoError(t, err)
		assert.Empty(t, created.PartnerCode)
	})
}

func TestReservationService_ValidateSectionDoesNotModifyDraft(t *testing.T) {
	f := setupServiceFixture(t)

	draft := validReservationDraft()
	draft.ProductType = model.ProductBudget
	draft.Discounts.NewYear = true

	require.NoError(t, f.reservations.ValidateSection(context.Background(), draft, intake.SectionAll))
	assert.Equal(t, "010-1234-5678", draft.GroomPhone)
	assert.True(t, draft.Discounts.NewYear)

	draft.Venue = ""
	err := f.reservations.ValidateSection(context.Background(), draft, intake.SectionSchedule)
	vErr := requireIssues(t, err)
	assert.True(t, vErr.Has(intake.FieldVenue))
}

func TestReservationService_Credentials(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	domestic, err := f.reservations.CreateReservation(ctx, validReservationDraft())
	require.NoError(t, err)

	overseasDraft := validReservationDraft()
	overseasDraft.Overseas = true
	overseasDraft.GroomPhone = ""
	overseasDraft.Email = "Couple@Example.com"
	overseas, err := f.reservations.CreateReservation(ctx, overseasDraft)
	require.NoError(t, err)

	brideDraft := validReservationDraft()
	brideDraft.ContractorGroom = false
	brideDraft.ContractorBride = true
	bride, err := f.reservations.CreateReservation(ctx, brideDraft)
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      uint
		cred    Credential
		wantErr error
	}{
		{"Phone digits", domestic.ID, Credential{Password: "01012345678"}, nil},
		{"Phone with hyphens", domestic.ID, Credential{Password: "010-1234-5678"}, nil},
		{"Phone with spaces", domestic.ID, Credential{Password: " 010 1234 5678 "}, nil},
		{"Phone digits inside other text", domestic.ID, Credential{Password: "garbage01012345678junk"}, ErrInvalidCredential},
		{"Phone digits with a prefix", domestic.ID, Credential{Password: "tel:01012345678"}, ErrInvalidCredential},
		{"Bride is contractor", bride.ID, Credential{Password: "01087654321"}, nil},
		{"Groom phone when bride is contractor", bride.ID, Credential{Password: "01012345678"}, ErrInvalidCredential},
		{"Wrong password", domestic.ID, Credential{Password: "01099999999"}, ErrInvalidCredential},
		{"Empty password", domestic.ID, Credential{}, ErrInvalidCredential},
		{"Admin session", domestic.ID, Credential{Admin: true}, nil},
		{"Overseas email", overseas.ID, Credential{Password: "couple@example.com"}, nil},
		{"Overseas email mixed case", overseas.ID, Credential{Password: "COUPLE@example.COM"}, nil},
		{"Overseas phone is not accepted", overseas.ID, Credential{Password: "01012345678"}, ErrInvalidCredential},
		{"Unknown reservation", 9999, Credential{Admin: true}, ErrReservationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := f.reservations.GetReservation(tt.id, tt.cred)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, r)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, r.ID)
		})
	}
}

func TestReservationService_UpdateSyncsLinkedBooking(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	_, code := f.confirmedBooking(t, "박지영")

	reservation, err := f.reservations.CreateReservation(ctx, validReservationDraft())
	require.NoError(t, err)
	b, err := f.bookings.CreateBooking(ctx, CreateBookingInput{ReservationID: &reservation.ID, Deposit: 100000})
	require.NoError(t, err)
	assert.Equal(t, int64(500000), b.Balance)

	patch := validReservationDraft()
	patch.AddOns.USB = true
	patch.USBAddress = "서울시 마포구 월드컵로 1"
	patch.Discounts.Couple = true
	patch.PartnerCode = code
	patch.CustomRequest = &model.CustomShootRequest{Style: model.ShootStyleNatural, Request: "야외 위주로"}

	updated, err := f.reservations.UpdateReservation(ctx, reservation.ID, Credential{Password: "01012345678"}, patch)
	require.NoError(t, err)
	require.NotNil(t, updated.CustomRequest)
	assert.Equal(t, model.ShootStyleNatural, updated.CustomRequest.Style)

	synced := f.reload(t, b.ID)
	assert.True(t, synced.AddOns.USB)
	assert.Equal(t, int64(20000), synced.AddOnTotal)
	assert.Equal(t, code, synced.ReferredCode())
	// 600,000 + 20,000 - 100,000 - 10,000
	assert.Equal(t, int64(510000), synced.Balance)

	t.Run("Couple off clears the code", func(t *testing.T) {
		patch := validReservationDraft()
		patch.PartnerCode = code

		updated, err := f.reservations.UpdateReservation(ctx, reservation.ID, Credential{Admin: true}, patch)
		require.NoError(t, err)
		assert.Empty(t, updated.PartnerCode)
		assert.Nil(t, updated.CustomRequest)

		synced := f.reload(t, b.ID)
		assert.Nil(t, synced.ReferredBy)
		assert.Zero(t, synced.ReferralDiscount)
		assert.Equal(t, int64(500000), synced.Balance)
	})
}

func TestReservationService_UpdateKeepsRedeemedCodeAfterOwnerCancelled(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	owner, code := f.confirmedBooking(t, "박지영")

	draft := validReservationDraft()
	draft.Discounts.Couple = true
	draft.PartnerCode = code
	reservation, err := f.reservations.CreateReservation(ctx, draft)
	require.NoError(t, err)
	b, err := f.bookings.CreateBooking(ctx, CreateBookingInput{ReservationID: &reservation.ID, Deposit: 100000})
	require.NoError(t, err)
	require.Equal(t, code, b.ReferredCode())

	_, err = f.bookings.SetStatus(owner.ID, model.BookingStatusCancelled)
	require.NoError(t, err)

	valid, err := f.referrals.Validate(ctx, code)
	require.NoError(t, err)
	require.False(t, valid)

	patch := validReservationDraft()
	patch.Discounts.Couple = true
	patch.PartnerCode = strings.ToLower(code)
	patch.Notes = "본식 30분 전 도착 예정"

	updated, err := f.reservations.UpdateReservation(ctx, reservation.ID, Credential{Password: "010-1234-5678"}, patch)
	require.NoError(t, err)
	assert.Equal(t, "본식 30분 전 도착 예정", updated.Notes)
	assert.Equal(t, code, updated.PartnerCode)

	synced := f.reload(t, b.ID)
	assert.Equal(t, code, synced.ReferredCode())
	assert.Equal(t, int64(10000), synced.ReferralDiscount)
	// 600,000 - 100,000 - 10,000
	assert.Equal(t, int64(490000), synced.Balance)

	t.Run("Another code from a cancelled owner is still rejected", func(t *testing.T) {
		other, otherCode := f.confirmedBooking(t, "최유진")
		_, err := f.bookings.SetStatus(other.ID, model.BookingStatusCancelled)
		require.NoError(t, err)

		patch := validReservationDraft()
		patch.Discounts.Couple = true
		patch.PartnerCode = otherCode

		_, err = f.reservations.UpdateReservation(ctx, reservation.ID, Credential{Admin: true}, patch)
		vErr := requireIssues(t, err)
		assert.Equal(t, []intake.Issue{{Field: intake.FieldPartnerCode, Code: intake.IssueUnverified}}, vErr.Issues)

		assert.Equal(t, code, f.reload(t, b.ID).ReferredCode())
	})
}

func TestReservationService_UpdateRehashesOnContactChange(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	reservation, err := f.reservations.CreateReservation(ctx, validReservationDraft())
	require.NoError(t, err)

	patch := validReservationDraft()
	patch.GroomPhone = "010-5555-6666"
	_, err = f.reservations.UpdateReservation(ctx, reservation.ID, Credential{Password: "01012345678"}, patch)
	require.NoError(t, err)

	_, err = f.reservations.GetReservation(reservation.ID, Credential{Password: "01012345678"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
	_, err = f.reservations.GetReservation(reservation.ID, Credential{Password: "010-5555-6666"})
	assert.NoError(t, err)
}

func TestReservationService_UpdateRejections(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	reservation, err := f.reservations.CreateReservation(ctx, validReservationDraft())
	require.NoError(t, err)

	t.Run("Wrong credential", func(t *testing.T) {
		_, err := f.reservations.UpdateReservation(ctx, reservation.ID, Credential{Password: "0000"}, validReservationDraft())
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("Invalid patch", func(t *testing.T) {
		patch := validReservationDraft()
		patch.AddOns.USB = true

		_, err := f.reservations.UpdateReservation(ctx, reservation.ID, Credential{Admin: true}, patch)
		vErr := requireIssues(t, err)
		assert.True(t, vErr.Has(intake.FieldUSBAddress))
	})
}

func TestReservationService_DeliveredBookingLocksReservation(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	reservation, err := f.reservations.CreateReservation(ctx, validReservationDraft())
	require.NoError(t, err)
	b, err := f.bookings.CreateBooking(ctx, CreateBookingInput{ReservationID: &reservation.ID})
	require.NoError(t, err)
	f.forceStatus(t, b.ID, model.BookingStatusDelivered)

	_, err = f.reservations.UpdateReservation(ctx, reservation.ID, Credential{Admin: true}, validReservationDraft())
	assert.ErrorIs(t, err, ErrReservationLocked)

	err = f.reservations.DeleteReservation(reservation.ID)
	assert.ErrorIs(t, err, ErrReservationLocked)

	_, err = f.reservations.GetReservation(reservation.ID, Credential{Admin: true})
	assert.NoError(t, err)
}

func TestReservationService_Delete(t *testing.T) {
	f := setupServiceFixture(t)

	reservation, err := f.reservations.CreateReservation(context.Background(), validReservationDraft())
	require.NoError(t, err)

	require.NoError(t, f.reservations.DeleteReservation(reservation.ID))

	_, err = f.reservations.GetReservation(reservation.ID, Credential{Admin: true})
	assert.ErrorIs(t, err, ErrReservationNotFound)

	assert.ErrorIs(t, f.reservations.DeleteReservation(reservation.ID), ErrReservationNotFound)
}
