package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"hospital-directory/internal/config"
	"hospital-directory/internal/middleware"
	"hospital-directory/internal/models"
	"hospital-directory/internal/service"
	"hospital-directory/pkg/utils"
)

type OfferingHandler struct {
	offeringService *service.OfferingService
	queryCfg        config.QueryConfig
}

func NewOfferingHandler(offeringService *service.OfferingService, queryCfg config.QueryConfig) *OfferingHandler {
	return &OfferingHandler{
		offeringService: offeringService,
		queryCfg:        queryCfg,
	}
}

// GetAllOfferings lists offerings matching the query filters with their prices
func (h *OfferingHandler) GetAllOfferings(c *gin.Context) {
	var filter models.OfferingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.HandleError(c, invalidQuery(err))
		return
	}

	sort, err := sortOf(c, models.OfferingSortFields, models.ByPrice)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	page, err := h.offeringService.ListOfferings(c.Request.Context(), filter, sort, pageOf(c, h.queryCfg), flag(c, "include_home_collection"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PaginatedResponse(c, page.Offerings, page.Pagination)
}

// GetFeaturedOfferings lists featured offerings, cheapest first
func (h *OfferingHandler) GetFeaturedOfferings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit > h.queryCfg.MaxLimit {
		limit = h.queryCfg.MaxLimit
	}

	offerings, err := h.offeringService.FeaturedOfferings(c.Request.Context(), limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, offerings)
}

// GetOfferingStats summarizes offerings and their prices per currency
func (h *OfferingHandler) GetOfferingStats(c *gin.Context) {
	overview, err := h.offeringService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, overview)
}

// GetOffering retrieves an offering with its hospital and test
func (h *OfferingHandler) GetOffering(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	view, err := h.offeringService.GetOfferingByID(c.Request.Context(), id, flag(c, "include_home_collection"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// GetBookingSummary returns what a patient needs to book an offering
func (h *OfferingHandler) GetBookingSummary(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	summary, err := h.offeringService.BookingSummary(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, summary)
}

// CreateOffering adds a hospital's terms for a test (admin only)
func (h *OfferingHandler) CreateOffering(c *gin.Context) {
	var offering models.HospitalTestOffering
	if err := bindJSON(c, &offering); err != nil {
		utils.HandleError(c, err)
		return
	}

	if err := h.offeringService.CreateOffering(c.Request.Context(), &offering, middleware.UserID(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	h.respondView(c, offering.ID, true)
}

// ReplaceOffering overwrites every field of an offering (admin only)
func (h *OfferingHandler) ReplaceOffering(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var offering models.HospitalTestOffering
	if err := bindJSON(c, &offering); err != nil {
		utils.HandleError(c, err)
		return
	}
	offering.ID = id

	h.update(c, &offering)
}

// PatchOffering changes only the fields present in the body (admin only)
func (h *OfferingHandler) PatchOffering(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	view, err := h.offeringService.GetOfferingByID(c.Request.Context(), id, false)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	offering := view.HospitalTestOffering
	if err := bindJSON(c, &offering); err != nil {
		utils.HandleError(c, err)
		return
	}
	offering.ID = id

	h.update(c, &offering)
}

func (h *OfferingHandler) update(c *gin.Context, offering *models.HospitalTestOffering) {
	if err := h.offeringService.UpdateOffering(c.Request.Context(), offering, middleware.UserID(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	h.respondView(c, offering.ID, false)
}

// respondView answers with the priced form of a freshly written offering
func (h *OfferingHandler) respondView(c *gin.Context, id uint, created bool) {
	view, err := h.offeringService.GetOfferingByID(c.Request.Context(), id, false)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if created {
		utils.CreatedResponse(c, view)
		return
	}
	utils.SuccessResponse(c, view)
}

// DeleteOffering removes an offering (admin only)
func (h *OfferingHandler) DeleteOffering(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if err := h.offeringService.DeleteOffering(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.MessageResponse(c, "Offering deleted successfully")
}
