package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/internal/app/service"
	apperrors "github.com/ikkim/weddingfilm-backend/internal/errors"
	"github.com/ikkim/weddingfilm-backend/internal/middleware"
)

const (
	defaultBookingPageSize = 50
	maxBookingPageSize     = 200
	xlsxContentType        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type BookingController struct {
	bookingService service.BookingService
}

func NewBookingController(bookingService service.BookingService) *BookingController {
	return &BookingController{
		bookingService: bookingService,
	}
}

type CreateBookingRequest struct {
	ReservationID *uint                 `json:"reservation_id"`
	CustomerName  string                `json:"customer_name"`
	ProductType   model.ProductType     `json:"product_type"`
	MainVendor    string                `json:"main_vendor"`
	AddOns        model.AddOnSelection  `json:"addons"`
	Discounts     model.DiscountIntents `json:"discounts"`
	ReferredBy    string                `json:"referred_by"`
	Deposit       int64                 `json:"deposit" binding:"min=0"`
	TravelFee     int64                 `json:"travel_fee" binding:"min=0"`
}

type UpdateStatusRequest struct {
	Status model.BookingStatus `json:"status" binding:"required"`
}

type UpdateFinancialsRequest struct {
	Deposit         int64  `json:"deposit" binding:"min=0"`
	TravelFee       int64  `json:"travel_fee" binding:"min=0"`
	SpecialDiscount int64  `json:"special_discount" binding:"min=0"`
	SpecialReason   string `json:"special_reason"`
	EventID         *uint  `json:"event_id"`
}

type SetReferredByRequest struct {
	Code string `json:"code"`
}

type RecalculateRequest struct {
	HistoricalOverride bool `json:"historical_override"`
}

type RecordDeliveryRequest struct {
	VideoURL    string `json:"video_url" binding:"required"`
	ContractURL string `json:"contract_url"`
}

// bookingFilter ?status=&limit=&offset=
func bookingFilter(c *gin.Context) (repository.BookingFilter, bool) {
	filter := repository.BookingFilter{Limit: defaultBookingPageSize}

	if status := c.Query("status"); status != "" {
		s := model.BookingStatus(status)
		if !s.IsValid() {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "알 수 없는 예약 상태입니다")
			return filter, false
		}
		filter.Status = &s
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "limit 값이 올바르지 않습니다")
			return filter, false
		}
		if n > maxBookingPageSize {
			n = maxBookingPageSize
		}
		filter.Limit = n
	}
	if offset := c.Query("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "offset 값이 올바르지 않습니다")
			return filter, false
		}
		filter.Offset = n
	}
	return filter, true
}

// ListBookings GET /api/v1/admin/bookings
func (ctrl *BookingController) ListBookings(c *gin.Context) {
	filter, ok := bookingFilter(c)
	if !ok {
		return
	}

	bookings, total, err := ctrl.bookingService.ListBookings(filter)
	if err != nil {
		respondServiceError(c, err, "list bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    len(bookings),
		"total":    total,
	})
}

// CreateBooking POST /api/v1/admin/bookings
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	booking, err := ctrl.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingInput{
		ReservationID: req.ReservationID,
		CustomerName:  req.CustomerName,
		ProductType:   req.ProductType,
		MainVendor:    req.MainVendor,
		AddOns:        req.AddOns,
		Discounts:     req.Discounts,
		ReferredBy:    req.ReferredBy,
		Deposit:       req.Deposit,
		TravelFee:     req.TravelFee,
	})
	if err != nil {
		respondServiceError(c, err, "create booking")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GetBooking GET /api/v1/admin/bookings/:id
func (ctrl *BookingController) GetBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := ctrl.bookingService.GetBooking(id)
	if err != nil {
		respondServiceError(c, err, "get booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// ConfirmBooking 확정 + 파트너 코드 발급
// POST /api/v1/admin/bookings/:id/confirm
func (ctrl *BookingController) ConfirmBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := ctrl.bookingService.Confirm(id)
	if err != nil {
		respondServiceError(c, err, "confirm booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking": booking,
		"code":    booking.OwnCode(),
	})
}

// UpdateStatus PUT /api/v1/admin/bookings/:id/status
func (ctrl *BookingController) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.IsValid() {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "알 수 없는 예약 상태입니다")
		return
	}

	booking, err := ctrl.bookingService.SetStatus(id, req.Status)
	if err != nil {
		respondServiceError(c, err, "update booking status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// UpdateFinancials PUT /api/v1/admin/bookings/:id/financials
func (ctrl *BookingController) UpdateFinancials(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateFinancialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "금액은 0 이상이어야 합니다")
		return
	}

	booking, err := ctrl.bookingService.UpdateFinancials(id, service.FinancialsInput{
		Deposit:         req.Deposit,
		TravelFee:       req.TravelFee,
		SpecialDiscount: req.SpecialDiscount,
		SpecialReason:   req.SpecialReason,
		EventID:         req.EventID,
	})
	if err != nil {
		respondServiceError(c, err, "update booking financials")
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// SetReferredBy 사용 파트너 코드 지정 (빈 값이면 해제)
// PUT /api/v1/admin/bookings/:id/referred-by
func (ctrl *BookingController) SetReferredBy(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetReferredByRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	booking, err := ctrl.bookingService.SetReferredBy(c.Request.Context(), id, req.Code)
	if err != nil {
		respondServiceError(c, err, "set referred-by")
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// Recalculate POST /api/v1/admin/bookings/:id/recalculate
func (ctrl *BookingController) Recalculate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecalculateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
			return
		}
	}

	if req.HistoricalOverride {
		userID, _ := middleware.GetUserID(c)
		middleware.GetLoggerFromContext(c).Warn("Historical override requested", map[string]interface{}{
			"booking_id": id,
			"user_id":    userID,
		})
	}

	breakdown, err := ctrl.bookingService.Recalculate(id, req.HistoricalOverride)
	if err != nil {
		respondServiceError(c, err, "recalculate booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{"breakdown": breakdown})
}

// GetBreakdown GET /api/v1/admin/bookings/:id/breakdown
func (ctrl *BookingController) GetBreakdown(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	breakdown, err := ctrl.bookingService.GetBreakdown(id)
	if err != nil {
		respondServiceError(c, err, "get booking breakdown")
		return
	}

	c.JSON(http.StatusOK, gin.H{"breakdown": breakdown})
}

// RecordDelivery 영상 URL 기록 (입금 완료 상태면 전달 완료로 전환)
// POST /api/v1/admin/bookings/:id/delivery
func (ctrl *BookingController) RecordDelivery(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecordDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "영상 URL은 필수입니다")
		return
	}

	booking, err := ctrl.bookingService.RecordDelivery(id, req.VideoURL, req.ContractURL)
	if err != nil {
		respondServiceError(c, err, "record delivery")
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// ExportBookings 정산용 xlsx 다운로드
// GET /api/v1/admin/bookings/export?status=
func (ctrl *BookingController) ExportBookings(c *gin.Context) {
	filter, ok := bookingFilter(c)
	if !ok {
		return
	}

	data, err := ctrl.bookingService.ExportBookings(filter)
	if err != nil {
		respondServiceError(c, err, "export bookings")
		return
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
