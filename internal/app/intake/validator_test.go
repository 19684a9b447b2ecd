package intake

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ikkim/weddingfilm-backend/config"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	calls   int32
	respond func(ctx context.Context, attempt int32, code string) (bool, error)
}

func (s *stubChecker) Validate(ctx context.Context, code string) (bool, error) {
	attempt := atomic.AddInt32(&s.calls, 1)
	return s.respond(ctx, attempt, code)
}

func validCodes(codes ...string) *stubChecker {
	return &stubChecker{respond: func(_ context.Context, _ int32, code string) (bool, error) {
		for _, c := range codes {
			if c == code {
				return true, nil
			}
		}
		return false, nil
	}}
}

func newTestValidator(checker ReferralChecker) *Validator {
	cfg := config.DefaultReferral()
	cfg.ValidateTimeout = 50 * time.Millisecond
	cfg.ValidateMaxRetries = 2
	cfg.ValidateRetryDelay = time.Millisecond
	cfg.ValidateRetryMax = 5 * time.Millisecond
	return NewValidator(pricing.NewRules(config.DefaultPricing()), checker, cfg)
}

func completeDraft() *model.Reservation {
	return &model.Reservation{
		ProductType:     model.ProductStandard,
		ContractorGroom: true,
		GroomName:       "김신랑",
		GroomPhone:      "010-1234-5678",
		BrideName:       "이신부",
		BridePhone:      "01087654321",
		Email:           "couple@example.com",
		WeddingDate:     "2026-11-21",
		WeddingTime:     "13:30",
		Venue:           "더채플 청담",
	}
}

func requireValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr), "expected *ValidationError, got %v", err)
	return vErr
}

func TestValidator_CompleteDraftPasses(t *testing.T) {
	v := newTestValidator(validCodes())
	assert.NoError(t, v.Validate(context.Background(), completeDraft(), SectionAll))
}

func TestValidator_ScenarioD_CoupleWithoutCode(t *testing.T) {
	checker := validCodes("ABC234")
	v := newTestValidator(checker)

	draft := completeDraft()
	draft.Discounts.Couple = true

	for _, section := range []Section{SectionDiscounts, SectionAll} {
		err := v.Validate(context.Background(), draft, section)
		vErr := requireValidationError(t, err)
		assert.True(t, vErr.Has(FieldPartnerCode))
		assert.Equal(t, FieldPartnerCode, vErr.Focus)
	}
	assert.Zero(t, atomic.LoadInt32(&checker.calls))
}

func TestValidator_PartnerCode(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantIssue *Issue
	}{
		{name: "Valid code normalized", code: " abc234 "},
		{name: "Unknown code", code: "ZZZ999", wantIssue: &Issue{Field: FieldPartnerCode, Code: IssueUnverified}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(validCodes("ABC234"))
			draft := completeDraft()
			draft.Discounts.Couple = true
			draft.PartnerCode = tt.code

			err := v.Validate(context.Background(), draft, SectionDiscounts)
			if tt.wantIssue == nil {
				assert.NoError(t, err)
				return
			}
			vErr := requireValidationError(t, err)
			assert.Equal(t, []Issue{*tt.wantIssue}, vErr.Issues)
		})
	}
}

func TestValidator_CodeIgnoredWhenCoupleOff(t *testing.T) {
	checker := validCodes()
	v := newTestValidator(checker)

	draft := completeDraft()
	draft.PartnerCode = "ZZZ999"

	assert.NoError(t, v.Validate(context.Background(), draft, SectionDiscounts))
	assert.Zero(t, atomic.LoadInt32(&checker.calls))
}

func TestValidator_AcceptingRedeemed(t *testing.T) {
	checker := validCodes("LIVE23")
	base := newTestValidator(checker)
	v := base.AcceptingRedeemed(" used45 ")

	draft := completeDraft()
	draft.Discounts.Couple = true
	draft.PartnerCode = "USED45"
	require.NoError(t, v.Validate(context.Background(), draft, SectionDiscounts))
	assert.Equal(t, int32(0), atomic.LoadInt32(&checker.calls))

	draft.PartnerCode = "LIVE23"
	require.NoError(t, v.Validate(context.Background(), draft, SectionDiscounts))
	assert.Equal(t, int32(1), atomic.LoadInt32(&checker.calls))

	// 원본 검증기는 영향을 받지 않는다
	draft.PartnerCode = "USED45"
	err := base.Validate(context.Background(), draft, SectionDiscounts)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.True(t, vErr.Has(FieldPartnerCode))

	assert.Same(t, base, base.AcceptingRedeemed(""))
}

func TestValidator_RetriesUnavailableThenSucceeds(t *testing.T) {
	checker := &stubChecker{respond: func(_ context.Context, attempt int32, _ string) (bool, error) {
		if attempt < 3 {
			return false, ErrReferralUnavailable
		}
		return true, nil
	}}
	v := newTestValidator(checker)

	draft := completeDraft()
	draft.Discounts.Couple = true
	draft.PartnerCode = "ABC234"

	assert.NoError(t, v.Validate(context.Background(), draft, SectionDiscounts))
	assert.Equal(t, int32(3), atomic.LoadInt32(&checker.calls))
}

func TestValidator_UnavailableIsNotInvalid(t *testing.T) {
	checker := &stubChecker{respond: func(context.Context, int32, string) (bool, error) {
		return false, ErrReferralUnavailable
	}}
	v := newTestValidator(checker)

	draft := completeDraft()
	draft.Discounts.Couple = true
	draft.PartnerCode = "ABC234"

	err := v.Validate(context.Background(), draft, SectionDiscounts)
	assert.ErrorIs(t, err, ErrReferralUnavailable)
	var vErr *ValidationError
	assert.False(t, errors.As(err, &vErr))
	assert.Equal(t, int32(3), atomic.LoadInt32(&checker.calls))
}

func TestValidator_TimeoutIsBounded(t *testing.T) {
	// 컨텍스트를 무시하고 오래 걸리는 확인 함수
	checker := &stubChecker{respond: func(context.Context, int32, string) (bool, error) {
		time.Sleep(time.Second)
		return true, nil
	}}
	v := newTestValidator(checker)

	draft := completeDraft()
	draft.Discounts.Couple = true
	draft.PartnerCode = "ABC234"

	start := time.Now()
	err := v.Validate(context.Background(), draft, SectionDiscounts)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrValidationTimeout)
	assert.Less(t, elapsed, 500*time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(&checker.calls))
}

func TestValidator_CallerCancellation(t *testing.T) {
	checker := &stubChecker{respond: func(ctx context.Context, _ int32, _ string) (bool, error) {
		<-ctx.Done()
		return false, ctx.Err()
	}}
	v := newTestValidator(checker)

	draft := completeDraft()
	draft.Discounts.Couple = true
	draft.PartnerCode = "ABC234"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := v.Validate(ctx, draft, SectionDiscounts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidator_Contractor(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.Reservation)
		want   []Issue
	}{
		{
			name:   "No contractor",
			mutate: func(r *model.Reservation) { r.ContractorGroom = false },
			want:   []Issue{{FieldContractor, IssueRequired}},
		},
		{
			name:   "Both contractors",
			mutate: func(r *model.Reservation) { r.ContractorBride = true },
			want:   []Issue{{FieldContractor, IssueRequired}},
		},
		{
			name:   "Contractor phone missing",
			mutate: func(r *model.Reservation) { r.GroomPhone = "" },
			want:   []Issue{{FieldGroomPhone, IssueRequired}},
		},
		{
			name: "Partner phone optional",
			mutate: func(r *model.Reservation) {
				r.BridePhone = ""
			},
		},
		{
			name:   "Invalid phone",
			mutate: func(r *model.Reservation) { r.BridePhone = "12345" },
			want:   []Issue{{FieldBridePhone, IssueInvalid}},
		},
		{
			name: "Overseas without phones",
			mutate: func(r *model.Reservation) {
				r.Overseas = true
				r.GroomPhone = ""
				r.BridePhone = ""
			},
		},
		{
			name: "Overseas requires email",
			mutate: func(r *model.Reservation) {
				r.Overseas = true
				r.GroomPhone = ""
				r.Email = ""
			},
			want: []Issue{{FieldEmail, IssueRequired}},
		},
		{
			name:   "Malformed email",
			mutate: func(r *model.Reservation) { r.Email = "not-an-email" },
			want:   []Issue{{FieldEmail, IssueInvalid}},
		},
		{
			name:   "Display-name email form",
			mutate: func(r *model.Reservation) { r.Email = "Couple <couple@example.com>" },
			want:   []Issue{{FieldEmail, IssueInvalid}},
		},
		{
			name:   "Email with subdomain",
			mutate: func(r *model.Reservation) { r.Email = "bride.kim@mail.example.co.kr" },
		},
		{
			name: "Names in form order",
			mutate: func(r *model.Reservation) {
				r.GroomName = ""
				r.BrideName = " "
			},
			want: []Issue{{FieldGroomName, IssueRequired}, {FieldBrideName, IssueRequired}},
		},
	}

	v := newTestValidator(validCodes())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := completeDraft()
			tt.mutate(draft)

			err := v.Validate(context.Background(), draft, SectionContractor)
			if len(tt.want) == 0 {
				assert.NoError(t, err)
				return
			}
			vErr := requireValidationError(t, err)
			assert.Equal(t, tt.want, vErr.Issues)
			assert.Equal(t, tt.want[0].Field, vErr.Focus)
		})
	}
}

func TestValidator_Schedule(t *testing.T) {
	v := newTestValidator(validCodes())

	t.Run("Wedding video requires date time venue", func(t *testing.T) {
		draft := completeDraft()
		draft.WeddingDate, draft.WeddingTime, draft.Venue = "", "", ""

		vErr := requireValidationError(t, v.Validate(context.Background(), draft, SectionSchedule))
		assert.Equal(t, []Field{FieldWeddingDate, FieldWeddingTime, FieldVenue}, vErr.Fields())
	})

	t.Run("Outdoor snap does not", func(t *testing.T) {
		draft := completeDraft()
		draft.ProductType = model.ProductOutdoorSnap
		draft.WeddingDate, draft.WeddingTime, draft.Venue = "", "", ""

		assert.NoError(t, v.Validate(context.Background(), draft, SectionSchedule))
	})

	t.Run("Unset product allowed", func(t *testing.T) {
		draft := completeDraft()
		draft.ProductType = model.ProductNone
		assert.NoError(t, v.Validate(context.Background(), draft, SectionSchedule))
	})

	t.Run("Malformed values", func(t *testing.T) {
		draft := completeDraft()
		draft.ProductType = "deluxe"
		draft.WeddingDate = "2026/11/21"
		draft.WeddingTime = "25:00"

		vErr := requireValidationError(t, v.Validate(context.Background(), draft, SectionSchedule))
		assert.Equal(t, []Field{FieldProductType, FieldWeddingDate, FieldWeddingTime}, vErr.Fields())
	})
}

func TestValidator_USBRequiresAddress(t *testing.T) {
	v := newTestValidator(validCodes())

	draft := completeDraft()
	draft.AddOns.USB = true

	vErr := requireValidationError(t, v.Validate(context.Background(), draft, SectionOptions))
	assert.Equal(t, []Field{FieldUSBAddress}, vErr.Fields())

	draft.USBAddress = "서울시 강남구 테헤란로 1"
	assert.NoError(t, v.Validate(context.Background(), draft, SectionOptions))
}

func TestValidator_CustomRequest(t *testing.T) {
	v := newTestValidator(validCodes())

	draft := completeDraft()
	draft.CustomRequest = &model.CustomShootRequest{
		Style:   model.ShootStyleNatural,
		Music:   "heavy_metal",
		Content: "drone",
	}

	vErr := requireValidationError(t, v.Validate(context.Background(), draft, SectionCustom))
	assert.Equal(t, []Field{FieldCustomMusic, FieldCustomContent}, vErr.Fields())

	draft.CustomRequest.Music = model.MusicCalm
	draft.CustomRequest.Content = ""
	assert.NoError(t, v.Validate(context.Background(), draft, SectionCustom))
}

func TestValidator_AllSectionsOrderedAndFocusFirst(t *testing.T) {
	v := newTestValidator(validCodes())

	draft := completeDraft()
	draft.GroomPhone = ""
	draft.Venue = ""
	draft.AddOns.USB = true
	draft.Discounts.Couple = true

	vErr := requireValidationError(t, v.Validate(context.Background(), draft, SectionAll))
	assert.Equal(t, []Field{FieldGroomPhone, FieldVenue, FieldUSBAddress, FieldPartnerCode}, vErr.Fields())
	assert.Equal(t, FieldGroomPhone, vErr.Focus)
}

func TestValidator_DoesNotModifyDraft(t *testing.T) {
	v := newTestValidator(validCodes("ABC234"))

	draft := completeDraft()
	draft.ProductType = model.ProductBudget
	draft.Discounts = model.DiscountIntents{NewYear: true, Couple: true}
	draft.PartnerCode = " abc234 "
	before := *draft

	first := v.Validate(context.Background(), draft, SectionAll)
	second := v.Validate(context.Background(), draft, SectionAll)

	assert.NoError(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, before, *draft)
}

func TestValidator_UnknownSection(t *testing.T) {
	v := newTestValidator(validCodes())
	err := v.Validate(context.Background(), completeDraft(), Section("payment"))
	assert.Error(t, err)
}
