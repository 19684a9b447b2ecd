package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/weddingfilm-backend/internal/app/service"
	apperrors "github.com/ikkim/weddingfilm-backend/internal/errors"
)

type ReferralController struct {
	referralService service.ReferralService
}

func NewReferralController(referralService service.ReferralService) *ReferralController {
	return &ReferralController{
		referralService: referralService,
	}
}

type ReassignOwnerRequest struct {
	BookingID uint `json:"booking_id" binding:"required"`
}

// SearchCodes 파트너 코드 검색 (코드 접두어 또는 소유자 이름)
// GET /api/v1/referral-codes/search?q=
func (ctrl *ReferralController) SearchCodes(c *gin.Context) {
	query := c.Query("q")

	results, err := ctrl.referralService.Search(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err, "search referral codes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// ValidateCode 파트너 코드 사용 가능 여부
// GET /api/v1/referral-codes/:code/validate
func (ctrl *ReferralController) ValidateCode(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	valid, err := ctrl.referralService.Validate(c.Request.Context(), code)
	if err != nil {
		respondServiceError(c, err, "validate referral code")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":  code,
		"valid": valid,
	})
}

// ReassignOwner 코드 소유 예약 변경 (관리자)
// PUT /api/v1/admin/referral-codes/:code/owner
func (ctrl *ReferralController) ReassignOwner(c *gin.Context) {
	var req ReassignOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "booking_id가 필요합니다")
		return
	}

	code, err := ctrl.referralService.ReassignOwner(c.Param("code"), req.BookingID)
	if err != nil {
		respondServiceError(c, err, "reassign referral code")
		return
	}

	c.JSON(http.StatusOK, gin.H{"referral_code": code})
}
