package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hospital-directory/internal/config"
	"hospital-directory/internal/middleware"
	"hospital-directory/internal/models"
	"hospital-directory/internal/query"
	"hospital-directory/internal/service"
	"hospital-directory/pkg/utils"
)

type HospitalHandler struct {
	hospitalService *service.HospitalService
	offeringService *service.OfferingService
	queryCfg        config.QueryConfig
}

func NewHospitalHandler(hospitalService *service.HospitalService, offeringService *service.OfferingService, queryCfg config.QueryConfig) *HospitalHandler {
	return &HospitalHandler{
		hospitalService: hospitalService,
		offeringService: offeringService,
		queryCfg:        queryCfg,
	}
}

// GetAllHospitals lists hospitals matching the query filters, one page at a time
func (h *HospitalHandler) GetAllHospitals(c *gin.Context) {
	var filter models.HospitalFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.HandleError(c, invalidQuery(err))
		return
	}

	sort, err := sortOf(c, models.HospitalSortFields, service.ByRank)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	list, err := h.hospitalService.ListHospitals(c.Request.Context(), filter, sort, pageOf(c, h.queryCfg))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetHospital retrieves a specific hospital by ID
func (h *HospitalHandler) GetHospital(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	hospital, err := h.hospitalService.GetHospitalByID(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, hospital)
}

// CreateHospital creates a new hospital (admin only)
func (h *HospitalHandler) CreateHospital(c *gin.Context) {
	var hospital models.Hospital
	if err := bindJSON(c, &hospital); err != nil {
		utils.HandleError(c, err)
		return
	}

	if err := h.hospitalService.CreateHospital(c.Request.Context(), &hospital, middleware.UserID(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, hospital)
}

// ReplaceHospital overwrites every field of a hospital (admin only)
func (h *HospitalHandler) ReplaceHospital(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var hospital models.Hospital
	if err := bindJSON(c, &hospital); err != nil {
		utils.HandleError(c, err)
		return
	}
	hospital.ID = id

	h.update(c, &hospital)
}

// PatchHospital changes only the fields present in the body (admin only)
func (h *HospitalHandler) PatchHospital(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	hospital, err := h.hospitalService.GetHospitalByID(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	if err := bindJSON(c, hospital); err != nil {
		utils.HandleError(c, err)
		return
	}
	hospital.ID = id

	h.update(c, hospital)
}

func (h *HospitalHandler) update(c *gin.Context, hospital *models.Hospital) {
	if err := h.hospitalService.UpdateHospital(c.Request.Context(), hospital, middleware.UserID(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, hospital)
}

// DeleteHospital deletes a hospital (admin only)
func (h *HospitalHandler) DeleteHospital(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if err := h.hospitalService.DeleteHospital(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Hospital deleted successfully"})
}

// GetHospitalsByLocation lists hospitals in a city, optionally narrowed to a division
func (h *HospitalHandler) GetHospitalsByLocation(c *gin.Context) {
	hospitals, err := h.hospitalService.FindByLocation(c.Request.Context(), c.Query("city"), c.Query("division"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, hospitals)
}

// GetHospitalsByDepartment lists hospitals with a department
func (h *HospitalHandler) GetHospitalsByDepartment(c *gin.Context) {
	hospitals, err := h.hospitalService.FindByDepartment(c.Request.Context(), c.Query("department"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, hospitals)
}

// GetNearbyHospitals lists hospitals within maxDistance meters of lat/lng
func (h *HospitalHandler) GetNearbyHospitals(c *gin.Context) {
	center, err := query.ParsePoint(c.Query("lat"), c.Query("lng"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	radius, err := query.ParseRadius(c.Query("maxDistance"), h.queryCfg.NearbyDefaultRadius)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	hospitals, err := h.hospitalService.FindNearby(c.Request.Context(), center, radius)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, hospitals)
}

// GetHospitalTests lists the active test offerings of a hospital
func (h *HospitalHandler) GetHospitalTests(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	offerings, err := h.offeringService.OfferingsByHospital(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"offerings": offerings,
		"count":     len(offerings),
	})
}
