package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/service"
	apperrors "github.com/ikkim/weddingfilm-backend/internal/errors"
	"github.com/shopspring/decimal"
)

type CatalogController struct {
	catalogService service.CatalogService
	eventService   service.DiscountEventService
}

func NewCatalogController(catalogService service.CatalogService, eventService service.DiscountEventService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		eventService:   eventService,
	}
}

type UpdateCatalogItemRequest struct {
	Name  string `json:"name"`
	Price *int64 `json:"price" binding:"required"`
}

type CreateEventRequest struct {
	Name         string             `json:"name" binding:"required"`
	DiscountType model.DiscountType `json:"discount_type" binding:"required"`
	Amount       int64              `json:"amount"`
	Rate         decimal.Decimal    `json:"rate"`
	StartsAt     time.Time          `json:"starts_at" binding:"required"`
	EndsAt       time.Time          `json:"ends_at" binding:"required"`
}

// ListProducts GET /api/v1/products
func (ctrl *CatalogController) ListProducts(c *gin.Context) {
	products, err := ctrl.catalogService.ListProducts()
	if err != nil {
		respondServiceError(c, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// ListAddOns GET /api/v1/addons
func (ctrl *CatalogController) ListAddOns(c *gin.Context) {
	addOns, err := ctrl.catalogService.ListAddOns()
	if err != nil {
		respondServiceError(c, err, "list addons")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addons": addOns,
		"count":  len(addOns),
	})
}

// UpdateProduct 상품 가격 변경 (진행 중 예약은 재계산됨)
// PUT /api/v1/admin/products/:type
func (ctrl *CatalogController) UpdateProduct(c *gin.Context) {
	var req UpdateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "가격은 필수입니다")
		return
	}

	product, err := ctrl.catalogService.UpdateProduct(model.ProductType(c.Param("type")), req.Name, *req.Price)
	if err != nil {
		respondServiceError(c, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// UpdateAddOn PUT /api/v1/admin/addons/:key
func (ctrl *CatalogController) UpdateAddOn(c *gin.Context) {
	var req UpdateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "가격은 필수입니다")
		return
	}

	addOn, err := ctrl.catalogService.UpdateAddOn(model.AddOnKey(c.Param("key")), req.Name, *req.Price)
	if err != nil {
		respondServiceError(c, err, "update addon")
		return
	}

	c.JSON(http.StatusOK, gin.H{"addon": addOn})
}

// ListEvents GET /api/v1/admin/events?active=true
func (ctrl *CatalogController) ListEvents(c *gin.Context) {
	events, err := ctrl.eventService.ListEvents(c.Query("active") == "true")
	if err != nil {
		respondServiceError(c, err, "list events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// CreateEvent POST /api/v1/admin/events
func (ctrl *CatalogController) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "이벤트 정보가 올바르지 않습니다")
		return
	}

	event, err := ctrl.eventService.CreateEvent(service.CreateEventInput{
		Name:         req.Name,
		DiscountType: req.DiscountType,
		Amount:       req.Amount,
		Rate:         req.Rate,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
	})
	if err != nil {
		respondServiceError(c, err, "create event")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}
