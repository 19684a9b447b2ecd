package service

import (
	"testing"
	"time"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountEventService_CreateEvent(t *testing.T) {
	f := setupServiceFixture(t)
	now := time.Now()
	start, end := now, now.Add(7*24*time.Hour)

	tests := []struct {
		name    string
		input   CreateEventInput
		wantErr error
	}{
		{
			name:  "Fixed",
			input: CreateEventInput{Name: "봄 이벤트", DiscountType: model.DiscountTypeFixed, Amount: 30000, StartsAt: start, EndsAt: end},
		},
		{
			name:  "Percent",
			input: CreateEventInput{Name: "10% 이벤트", DiscountType: model.DiscountTypePercent, Rate: decimal.NewFromInt(10), StartsAt: start, EndsAt: end},
		},
		{
			name:    "Missing name",
			input:   CreateEventInput{Name: " ", DiscountType: model.DiscountTypeFixed, Amount: 30000, StartsAt: start, EndsAt: end},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "Ends before start",
			input:   CreateEventInput{Name: "이벤트", DiscountType: model.DiscountTypeFixed, Amount: 30000, StartsAt: end, EndsAt: start},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "Fixed without amount",
			input:   CreateEventInput{Name: "이벤트", DiscountType: model.DiscountTypeFixed, StartsAt: start, EndsAt: end},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "Rate above 100",
			input:   CreateEventInput{Name: "이벤트", DiscountType: model.DiscountTypePercent, Rate: decimal.NewFromInt(101), StartsAt: start, EndsAt: end},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "Unknown type",
			input:   CreateEventInput{Name: "이벤트", DiscountType: model.DiscountType("bogo"), Amount: 1, StartsAt: start, EndsAt: end},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := f.events.CreateEvent(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, event)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, event.ID)
			assert.True(t, event.Active)
		})
	}
}

func TestDiscountEventService_DeactivateExpired(t *testing.T) {
	f := setupServiceFixture(t)
	now := time.Now()

	_, err := f.events.CreateEvent(CreateEventInput{
		Name: "진행 중", DiscountType: model.DiscountTypeFixed, Amount: 10000,
		StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = f.events.CreateEvent(CreateEventInput{
		Name: "종료", DiscountType: model.DiscountTypeFixed, Amount: 10000,
		StartsAt: now.Add(-48 * time.Hour), EndsAt: now.Add(-time.Hour),
	})
	require.NoError(t, err)

	count, err := f.events.DeactivateExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	active, err := f.events.ListEvents(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "진행 중", active[0].Name)

	all, err := f.events.ListEvents(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	count, err = f.events.DeactivateExpired()
	require.NoError(t, err)
	assert.Zero(t, count)
}
