package service

import (
	"context"
	"strings"
	"testing"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequenceCodes(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

func TestReferralService_GenerateRetriesOnCollision(t *testing.T) {
	f := setupServiceFixture(t)
	first := f.createBooking(t, "김민수", model.ProductStandard)
	second := f.createBooking(t, "박지영", model.ProductStandard)

	f.referrals.newCode = sequenceCodes("AAAAAA", "AAAAAA", "BBBBBB")

	code, err := f.referrals.Generate(nil, first.ID, first.CustomerName)
	require.NoError(t, err)
	assert.Equal(t, "AAAAAA", code.Code)

	code, err = f.referrals.Generate(nil, second.ID, second.CustomerName)
	require.NoError(t, err)
	assert.Equal(t, "BBBBBB", code.Code)
	assert.Equal(t, "박지영", code.OwnerName)
}

func TestReferralService_GenerateExhausted(t *testing.T) {
	f := setupServiceFixture(t)
	first := f.createBooking(t, "김민수", model.ProductStandard)
	second := f.createBooking(t, "박지영", model.ProductStandard)

	calls := 0
	f.referrals.newCode = func() (string, error) {
		calls++
		return "AAAAAA", nil
	}

	_, err := f.referrals.Generate(nil, first.ID, first.CustomerName)
	require.NoError(t, err)

	calls = 0
	code, err := f.referrals.Generate(nil, second.ID, second.CustomerName)
	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
	assert.Nil(t, code)
	assert.Equal(t, f.referrals.cfg.MaxGenerateAttempts, calls)
}

func TestReferralService_Search(t *testing.T) {
	f := setupServiceFixture(t)
	_, code := f.confirmedBooking(t, "김민수")
	f.createBooking(t, "김민지", model.ProductStandard) // 대기 상태: 코드 없음

	tests := []struct {
		name  string
		query string
		want  []model.ReferralCodeSummary
	}{
		{
			name:  "Owner name partial match",
			query: "김민",
			want:  []model.ReferralCodeSummary{{Code: code, OwnerName: "김민수"}},
		},
		{
			name:  "Code prefix case insensitive",
			query: strings.ToLower(code[:3]),
			want:  []model.ReferralCodeSummary{{Code: code, OwnerName: "김민수"}},
		},
		{
			name:  "Below minimum length",
			query: "김",
			want:  []model.ReferralCodeSummary{},
		},
		{
			name:  "No match",
			query: "없는이름",
			want:  []model.ReferralCodeSummary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := f.referrals.Search(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, results)
		})
	}
}

func TestReferralService_ValidateFollowsOwnerStatus(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	b, oldCode := f.confirmedBooking(t, "김민수")

	ok, err := f.referrals.Validate(ctx, strings.ToLower(oldCode))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.bookings.SetStatus(b.ID, model.BookingStatusCancelled)
	require.NoError(t, err)
	ok, err = f.referrals.Validate(ctx, oldCode)
	require.NoError(t, err)
	assert.False(t, ok, "cancelled owner")

	_, err = f.bookings.SetStatus(b.ID, model.BookingStatusPending)
	require.NoError(t, err)
	ok, err = f.referrals.Validate(ctx, oldCode)
	require.NoError(t, err)
	assert.False(t, ok, "revived but not confirmed")

	reconfirmed, err := f.bookings.Confirm(b.ID)
	require.NoError(t, err)
	newCode := reconfirmed.OwnCode()
	assert.NotEqual(t, oldCode, newCode)

	ok, err = f.referrals.Validate(ctx, newCode)
	require.NoError(t, err)
	assert.True(t, ok, "new code")

	ok, err = f.referrals.Validate(ctx, oldCode)
	require.NoError(t, err)
	assert.False(t, ok, "old code is not resurrected")
}

func TestReferralService_ValidateUnknownAndEmpty(t *testing.T) {
	f := setupServiceFixture(t)

	for _, code := range []string{"", "   ", "NOPE99"} {
		ok, err := f.referrals.Validate(context.Background(), code)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestReferralService_ValidateStorageOutageIsUnavailable(t *testing.T) {
	f := setupServiceFixture(t)
	db.CleanupTestDB(f.db)

	ok, err := f.referrals.Validate(context.Background(), "ABC234")
	assert.ErrorIs(t, err, ErrReferralUnavailable)
	assert.False(t, ok)
}

func TestReferralService_ReassignOwner(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	original, code := f.confirmedBooking(t, "김민수")
	consumer := f.createBooking(t, "박지영", model.ProductStandard)
	_, err := f.bookings.SetReferredBy(ctx, consumer.ID, code)
	require.NoError(t, err)

	target := f.createBooking(t, "최서연", model.ProductCinematic)
	f.forceStatus(t, target.ID, model.BookingStatusConfirmed)

	reassigned, err := f.referrals.ReassignOwner(strings.ToLower(code), target.ID)
	require.NoError(t, err)
	assert.Equal(t, code, reassigned.Code)
	assert.Equal(t, target.ID, reassigned.BookingID)
	assert.Equal(t, "최서연", reassigned.OwnerName)
	assert.Equal(t, int64(1), reassigned.RedemptionCount)

	assert.Empty(t, f.reload(t, original.ID).OwnCode())
	assert.Equal(t, code, f.reload(t, target.ID).OwnCode())

	// 이미 사용한 예약은 영향 없음
	consumerAfter := f.reload(t, consumer.ID)
	assert.Equal(t, code, consumerAfter.ReferredCode())
	assert.Equal(t, int64(10000), consumerAfter.ReferralDiscount)

	ok, err := f.referrals.Validate(ctx, code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReferralService_ReassignOwnerConflicts(t *testing.T) {
	f := setupServiceFixture(t)

	_, code := f.confirmedBooking(t, "김민수")
	owner, _ := f.confirmedBooking(t, "박지영")

	_, err := f.referrals.ReassignOwner(code, owner.ID)
	assert.ErrorIs(t, err, ErrCodeAlreadyOwned)

	_, err = f.referrals.ReassignOwner("NOPE99", owner.ID)
	assert.ErrorIs(t, err, ErrReferralCodeNotFound)

	_, err = f.referrals.ReassignOwner(code, 9999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
