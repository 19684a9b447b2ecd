package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/weddingfilm-backend/config"
	"github.com/ikkim/weddingfilm-backend/internal/app/controller"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/metrics"
	"github.com/ikkim/weddingfilm-backend/internal/middleware"
)

type Router struct {
	authController        *controller.AuthController
	reservationController *controller.ReservationController
	bookingController     *controller.BookingController
	referralController    *controller.ReferralController
	catalogController     *controller.CatalogController
	authMiddleware        *middleware.AuthMiddleware
	limiter               middleware.Limiter
	config                *config.Config
}

// NewRouter limiter 가 nil 이면 공개 조회 API 요청 제한을 끈다
func NewRouter(
	authController *controller.AuthController,
	reservationController *controller.ReservationController,
	bookingController *controller.BookingController,
	referralController *controller.ReferralController,
	catalogController *controller.CatalogController,
	authMiddleware *middleware.AuthMiddleware,
	limiter middleware.Limiter,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:        authController,
		reservationController: reservationController,
		bookingController:     bookingController,
		referralController:    referralController,
		catalogController:     catalogController,
		authMiddleware:        authMiddleware,
		limiter:               limiter,
		config:                cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "WEDDINGFILM API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		v1.GET("/products", r.catalogController.ListProducts)
		v1.GET("/addons", r.catalogController.ListAddOns)

		// 고객 화면의 입력 중 조회: IP 기준 요청 제한
		referrals := v1.Group("/referral-codes")
		referrals.Use(middleware.RateLimit(r.limiter))
		{
			referrals.GET("/search", r.referralController.SearchCodes)
			referrals.GET("/:code/validate", r.referralController.ValidateCode)
		}

		// 예약서는 비밀번호 헤더 또는 관리자 세션으로 접근
		reservations := v1.Group("/reservations")
		reservations.Use(r.authMiddleware.OptionalAuthenticate())
		{
			reservations.POST("", r.reservationController.CreateReservation)
			reservations.POST("/validate", r.reservationController.ValidateReservation)
			reservations.GET("/:id", r.reservationController.GetReservation)
			reservations.PUT("/:id", r.reservationController.UpdateReservation)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(string(model.RoleAdmin)))
		{
			admin.DELETE("/reservations/:id", r.reservationController.DeleteReservation)

			bookings := admin.Group("/bookings")
			{
				bookings.GET("", r.bookingController.ListBookings)
				bookings.POST("", r.bookingController.CreateBooking)
				bookings.GET("/export", r.bookingController.ExportBookings)
				bookings.GET("/:id", r.bookingController.GetBooking)
				bookings.POST("/:id/confirm", r.bookingController.ConfirmBooking)
				bookings.PUT("/:id/status", r.bookingController.UpdateStatus)
				bookings.PUT("/:id/financials", r.bookingController.UpdateFinancials)
				bookings.PUT("/:id/referred-by", r.bookingController.SetReferredBy)
				bookings.POST("/:id/recalculate", r.bookingController.Recalculate)
				bookings.GET("/:id/breakdown", r.bookingController.GetBreakdown)
				bookings.POST("/:id/delivery", r.bookingController.RecordDelivery)
			}

			admin.PUT("/referral-codes/:code/owner", r.referralController.ReassignOwner)

			admin.PUT("/products/:type", r.catalogController.UpdateProduct)
			admin.PUT("/addons/:key", r.catalogController.UpdateAddOn)
			admin.GET("/events", r.catalogController.ListEvents)
			admin.POST("/events", r.catalogController.CreateEvent)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, "+
			middleware.RequestIDHeader+", "+controller.ReservationPasswordHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", middleware.RequestIDHeader+", Content-Disposition")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
