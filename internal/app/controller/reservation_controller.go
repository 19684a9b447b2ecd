package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/weddingfilm-backend/internal/app/intake"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/service"
	apperrors "github.com/ikkim/weddingfilm-backend/internal/errors"
	"github.com/ikkim/weddingfilm-backend/internal/middleware"
)

// ReservationPasswordHeader 고객 예약서 비밀번호 (휴대폰 번호 또는 해외 거주자 이메일)
const ReservationPasswordHeader = "X-Reservation-Password"

type ReservationController struct {
	reservationService service.ReservationService
}

func NewReservationController(reservationService service.ReservationService) *ReservationController {
	return &ReservationController{
		reservationService: reservationService,
	}
}

type CustomRequestPayload struct {
	Style     string `json:"style"`
	EditStyle string `json:"edit_style"`
	Music     string `json:"music"`
	Length    string `json:"length"`
	Effects   string `json:"effects"`
	Content   string `json:"content"`
	Request   string `json:"request"`
}

// ReservationRequest 예약서 작성/수정 요청 (필드 검증은 서비스에서 한 번에 수행)
type ReservationRequest struct {
	ProductType     model.ProductType     `json:"product_type"`
	ContractorGroom bool                  `json:"contractor_groom"`
	ContractorBride bool                  `json:"contractor_bride"`
	GroomName       string                `json:"groom_name"`
	GroomPhone      string                `json:"groom_phone"`
	BrideName       string                `json:"bride_name"`
	BridePhone      string                `json:"bride_phone"`
	Email           string                `json:"email"`
	Overseas        bool                  `json:"overseas"`
	WeddingDate     string                `json:"wedding_date"`
	WeddingTime     string                `json:"wedding_time"`
	Venue           string                `json:"venue"`
	MainVendor      string                `json:"main_vendor"`
	AddOns          model.AddOnSelection  `json:"addons"`
	USBAddress      string                `json:"usb_address"`
	Discounts       model.DiscountIntents `json:"discounts"`
	PartnerCode     string                `json:"partner_code"`
	Notes           string                `json:"notes"`
	CustomRequest   *CustomRequestPayload `json:"custom_request"`
}

func (r *ReservationRequest) toModel() *model.Reservation {
	reservation := &model.Reservation{
		ProductType:     r.ProductType,
		ContractorGroom: r.ContractorGroom,
		ContractorBride: r.ContractorBride,
		GroomName:       r.GroomName,
		GroomPhone:      r.GroomPhone,
		BrideName:       r.BrideName,
		BridePhone:      r.BridePhone,
		Email:           r.Email,
		Overseas:        r.Overseas,
		WeddingDate:     r.WeddingDate,
		WeddingTime:     r.WeddingTime,
		Venue:           r.Venue,
		MainVendor:      r.MainVendor,
		AddOns:          r.AddOns,
		USBAddress:      r.USBAddress,
		Discounts:       r.Discounts,
		PartnerCode:     r.PartnerCode,
		Notes:           r.Notes,
	}
	if r.CustomRequest != nil {
		reservation.CustomRequest = &model.CustomShootRequest{
			Style:     r.CustomRequest.Style,
			EditStyle: r.CustomRequest.EditStyle,
			Music:     r.CustomRequest.Music,
			Length:    r.CustomRequest.Length,
			Effects:   r.CustomRequest.Effects,
			Content:   r.CustomRequest.Content,
			Request:   r.CustomRequest.Request,
		}
	}
	return reservation
}

func credentialFromRequest(c *gin.Context) service.Credential {
	return service.Credential{
		Password: c.GetHeader(ReservationPasswordHeader),
		Admin:    middleware.IsAdmin(c),
	}
}

func bindReservation(c *gin.Context) (*model.Reservation, bool) {
	var req ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid reservation payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "요청 형식이 올바르지 않습니다")
		return nil, false
	}
	return req.toModel(), true
}

// CreateReservation 예약서 제출
// POST /api/v1/reservations
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	draft, ok := bindReservation(c)
	if !ok {
		return
	}

	reservation, err := ctrl.reservationService.CreateReservation(c.Request.Context(), draft)
	if err != nil {
		respondServiceError(c, err, "create reservation")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          reservation.ID,
		"reservation": reservation,
	})
}

// ValidateReservation 단계별 검증 (저장하지 않음)
// POST /api/v1/reservations/validate?section=contractor
func (ctrl *ReservationController) ValidateReservation(c *gin.Context) {
	section := intake.Section(c.DefaultQuery("section", string(intake.SectionAll)))
	if !section.IsValid() {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "알 수 없는 단계입니다")
		return
	}

	draft, ok := bindReservation(c)
	if !ok {
		return
	}

	if err := ctrl.reservationService.ValidateSection(c.Request.Context(), draft, section); err != nil {
		respondServiceError(c, err, "validate reservation")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"section": section,
	})
}

// GetReservation 예약서 조회 (비밀번호 또는 관리자 세션)
// GET /api/v1/reservations/:id
func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reservation, err := ctrl.reservationService.GetReservation(id, credentialFromRequest(c))
	if err != nil {
		respondServiceError(c, err, "get reservation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservation": reservation})
}

// UpdateReservation 예약서 수정 (전체 교체)
// PUT /api/v1/reservations/:id
func (ctrl *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	patch, ok := bindReservation(c)
	if !ok {
		return
	}

	reservation, err := ctrl.reservationService.UpdateReservation(c.Request.Context(), id, credentialFromRequest(c), patch)
	if err != nil {
		respondServiceError(c, err, "update reservation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservation": reservation})
}

// DeleteReservation 예약서 삭제 (관리자)
// DELETE /api/v1/admin/reservations/:id
func (ctrl *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reservationService.DeleteReservation(id); err != nil {
		respondServiceError(c, err, "delete reservation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "예약서가 삭제되었습니다"})
}
