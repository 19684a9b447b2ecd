package service

import (
	"context"
	"testing"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_List(t *testing.T) {
	f := setupServiceFixture(t)

	products, err := f.catalog.ListProducts()
	require.NoError(t, err)
	assert.Len(t, products, len(model.ProductTypes))

	addOns, err := f.catalog.ListAddOns()
	require.NoError(t, err)
	assert.Len(t, addOns, len(model.AddOnKeys))
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	f := setupServiceFixture(t)

	tests := []struct {
		name        string
		productType model.ProductType
		productName string
		price       int64
		wantErr     error
		wantName    string
	}{
		{"Price only keeps name", model.ProductStandard, "", 650000, nil, "기본형"},
		{"Rename", model.ProductCinematic, " 시네마틱 플러스 ", 950000, nil, "시네마틱 플러스"},
		{"Zero price allowed", model.ProductOutdoorSnap, "", 0, nil, "야외 스냅"},
		{"Negative price", model.ProductBudget, "", -1, ErrInvalidInput, ""},
		{"Unknown product", model.ProductType("deluxe"), "", 1000, ErrProductNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := f.catalog.UpdateProduct(tt.productType, tt.productName, tt.price)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.price, product.Price)
			assert.Equal(t, tt.wantName, product.Name)
		})
	}
}

func TestCatalogService_UpdateAddOnRepricesOpenBookings(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	b, err := f.bookings.CreateBooking(ctx, CreateBookingInput{
		CustomerName: "김민수",
		ProductType:  model.ProductStandard,
		AddOns:       model.AddOnSelection{Makeup: true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), b.AddOnTotal)

	_, err = f.catalog.UpdateAddOn(model.AddOnMakeup, "", 120000)
	require.NoError(t, err)

	br, err := f.bookings.GetBreakdown(b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(120000), br.AddOnTotal)

	_, err = f.catalog.UpdateAddOn(model.AddOnKey("drone"), "", 1000)
	assert.ErrorIs(t, err, ErrAddOnNotFound)
	_, err = f.catalog.UpdateAddOn(model.AddOnUSB, "", -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
