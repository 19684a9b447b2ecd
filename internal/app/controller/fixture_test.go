package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/weddingfilm-backend/config"
	"github.com/ikkim/weddingfilm-backend/internal/app/intake"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/pricing"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/internal/app/service"
	"github.com/ikkim/weddingfilm-backend/internal/db"
	"github.com/ikkim/weddingfilm-backend/internal/middleware"
	"github.com/ikkim/weddingfilm-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testJWTSecret     = "test-secret"
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "admin-password"
)

type controllerFixture struct {
	db         *gorm.DB
	router     *gin.Engine
	adminToken string
	bookings   service.BookingService
}

// setupControllerTest 실제 서비스 + SQLite 로 API 전체를 구성
func setupControllerTest(t *testing.T) *controllerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupSeededTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	require.NoError(t, db.SeedAdmin(testDB, config.AdminConfig{
		Email:    testAdminEmail,
		Password: testAdminPassword,
		Name:     "관리자",
	}))

	referralCfg := config.DefaultReferral()
	referralService := service.NewReferralService(testDB, referralCfg)
	calc := pricing.NewCalculator(pricing.NewRules(config.DefaultPricing()))
	validator := intake.NewValidator(calc.Rules(), referralService, referralCfg)

	authService := service.NewAuthService(repository.NewUserRepository(testDB), testJWTSecret, 15*time.Minute, 24*time.Hour)
	bookingService := service.NewBookingService(testDB, calc, referralService)
	reservationService := service.NewReservationService(testDB, validator, calc, nil)
	catalogService := service.NewCatalogService(repository.NewProductRepository(testDB), repository.NewAddOnRepository(testDB))
	eventService := service.NewDiscountEventService(repository.NewDiscountEventRepository(testDB))

	authCtrl := NewAuthController(authService)
	reservationCtrl := NewReservationController(reservationService)
	referralCtrl := NewReferralController(referralService)
	bookingCtrl := NewBookingController(bookingService)
	catalogCtrl := NewCatalogController(catalogService, eventService)
	auth := middleware.NewAuthMiddleware(testJWTSecret)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())

	v1 := router.Group("/api/v1")
	v1.POST("/auth/login", authCtrl.Login)
	v1.POST("/auth/refresh", authCtrl.Refresh)
	v1.GET("/auth/me", auth.Authenticate(), authCtrl.GetMe)

	v1.GET("/products", catalogCtrl.ListProducts)
	v1.GET("/addons", catalogCtrl.ListAddOns)
	v1.GET("/referral-codes/search", referralCtrl.SearchCodes)
	v1.GET("/referral-codes/:code/validate", referralCtrl.ValidateCode)

	reservations := v1.Group("/reservations", auth.OptionalAuthenticate())
	reservations.POST("", reservationCtrl.CreateReservation)
	reservations.POST("/validate", reservationCtrl.ValidateReservation)
	reservations.GET("/:id", reservationCtrl.GetReservation)
	reservations.PUT("/:id", reservationCtrl.UpdateReservation)

	admin := v1.Group("/admin", auth.Authenticate(), auth.RequireRole(string(model.RoleAdmin)))
	admin.DELETE("/reservations/:id", reservationCtrl.DeleteReservation)
	admin.GET("/bookings", bookingCtrl.ListBookings)
	admin.POST("/bookings", bookingCtrl.CreateBooking)
	admin.GET("/bookings/export", bookingCtrl.ExportBookings)
	admin.GET("/bookings/:id", bookingCtrl.GetBooking)
	admin.POST("/bookings/:id/confirm", bookingCtrl.ConfirmBooking)
	admin.PUT("/bookings/:id/status", bookingCtrl.UpdateStatus)
	admin.PUT("/bookings/:id/financials", bookingCtrl.UpdateFinancials)
	admin.PUT("/bookings/:id/referred-by", bookingCtrl.SetReferredBy)
	admin.POST("/bookings/:id/recalculate", bookingCtrl.Recalculate)
	admin.GET("/bookings/:id/breakdown", bookingCtrl.GetBreakdown)
	admin.POST("/bookings/:id/delivery", bookingCtrl.RecordDelivery)
	admin.PUT("/referral-codes/:code/owner", referralCtrl.ReassignOwner)
	admin.PUT("/products/:type", catalogCtrl.UpdateProduct)
	admin.PUT("/addons/:key", catalogCtrl.UpdateAddOn)
	admin.GET("/events", catalogCtrl.ListEvents)
	admin.POST("/events", catalogCtrl.CreateEvent)

	_, tokens, err := authService.Login(testAdminEmail, testAdminPassword)
	require.NoError(t, err)

	return &controllerFixture{
		db:         testDB,
		router:     router,
		adminToken: tokens.AccessToken,
		bookings:   bookingService,
	}
}

type requestOption func(*http.Request)

func withToken(token string) requestOption {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func withHeader(key, value string) requestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

func (f *controllerFixture) do(t *testing.T, method, path string, body interface{}, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// admin 관리자 토큰을 붙여 요청
func (f *controllerFixture) admin(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(t, method, path, body, withToken(f.adminToken))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func staffToken(t *testing.T) string {
	t.Helper()
	tokens, err := util.GenerateTokenPair(99, "staff@example.com", string(model.RoleStaff), testJWTSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

func validReservationRequest() ReservationRequest {
	return ReservationRequest{
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
