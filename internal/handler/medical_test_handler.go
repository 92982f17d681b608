package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hospital-directory/internal/config"
	"hospital-directory/internal/middleware"
	"hospital-directory/internal/models"
	"hospital-directory/internal/query"
	"hospital-directory/internal/service"
	"hospital-directory/internal/stats"
	"hospital-directory/pkg/utils"
)

type MedicalTestHandler struct {
	testService     *service.MedicalTestService
	offeringService *service.OfferingService
	queryCfg        config.QueryConfig
}

func NewMedicalTestHandler(testService *service.MedicalTestService, offeringService *service.OfferingService, queryCfg config.QueryConfig) *MedicalTestHandler {
	return &MedicalTestHandler{
		testService:     testService,
		offeringService: offeringService,
		queryCfg:        queryCfg,
	}
}

// BulkCreateRequest is the body of POST /tests/bulk
type BulkCreateRequest struct {
	Tests []models.MedicalTest `json:"tests"`
}

func (h *MedicalTestHandler) respondPage(c *gin.Context, page *service.TestPage, err error) {
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.PaginatedResponse(c, page.Tests, page.Pagination)
}

// GetAllTests lists catalog tests matching the query filters
func (h *MedicalTestHandler) GetAllTests(c *gin.Context) {
	var filter models.MedicalTestFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.HandleError(c, invalidQuery(err))
		return
	}

	sort, err := sortOf(c, models.TestSortFields, query.ByName)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	page, err := h.testService.ListTests(c.Request.Context(), filter, sort, pageOf(c, h.queryCfg))
	h.respondPage(c, page, err)
}

// SearchTests matches q against names, descriptions, keywords and aliases
func (h *MedicalTestHandler) SearchTests(c *gin.Context) {
	sort, err := sortOf(c, models.TestSortFields, query.ByName)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	page, err := h.testService.SearchTests(c.Request.Context(), c.Query("q"), sort, pageOf(c, h.queryCfg))
	h.respondPage(c, page, err)
}

// GetTestsByCategory lists tests of one category
func (h *MedicalTestHandler) GetTestsByCategory(c *gin.Context) {
	page, err := h.testService.TestsByCategory(c.Request.Context(), c.Param("category"), pageOf(c, h.queryCfg))
	h.respondPage(c, page, err)
}

// GetTestsBySymptoms lists tests associated with any of the given symptoms
func (h *MedicalTestHandler) GetTestsBySymptoms(c *gin.Context) {
	page, err := h.testService.TestsBySymptoms(c.Request.Context(), c.Query("symptoms"), pageOf(c, h.queryCfg))
	h.respondPage(c, page, err)
}

// GetFastingTests lists tests that require fasting
func (h *MedicalTestHandler) GetFastingTests(c *gin.Context) {
	page, err := h.testService.FastingTests(c.Request.Context(), pageOf(c, h.queryCfg))
	h.respondPage(c, page, err)
}

// GetTestsByGender lists tests suitable for a gender
func (h *MedicalTestHandler) GetTestsByGender(c *gin.Context) {
	page, err := h.testService.TestsByGender(c.Request.Context(), c.Param("gender"), pageOf(c, h.queryCfg))
	h.respondPage(c, page, err)
}

// GetCategories groups the catalog by category
func (h *MedicalTestHandler) GetCategories(c *gin.Context) {
	groups, err := h.testService.Categories(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, groups)
}

// GetStats returns catalog statistics
func (h *MedicalTestHandler) GetStats(c *gin.Context) {
	st, err := h.testService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, st)
}

// GetPopularTests ranks tests by their keyword and alias counts
func (h *MedicalTestHandler) GetPopularTests(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = stats.DefaultPopularLimit
	}
	if limit > h.queryCfg.MaxLimit {
		limit = h.queryCfg.MaxLimit
	}

	tests, err := h.testService.Popular(c.Request.Context(), limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, tests)
}

// GetTest retrieves a specific test by ID
func (h *MedicalTestHandler) GetTest(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	test, err := h.testService.GetTestByID(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, test)
}

// GetTestSummary retrieves the short form of a test
func (h *MedicalTestHandler) GetTestSummary(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	summary, err := h.testService.GetTestSummary(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, summary)
}

// GetTestHospitals lists the hospitals offering a test, cheapest first
func (h *MedicalTestHandler) GetTestHospitals(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	offerings, err := h.offeringService.HospitalsOfferingTest(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"offerings": offerings,
		"count":     len(offerings),
	})
}

// CreateTest adds a test to the catalog (admin only)
func (h *MedicalTestHandler) CreateTest(c *gin.Context) {
	var test models.MedicalTest
	if err := bindJSON(c, &test); err != nil {
		utils.HandleError(c, err)
		return
	}

	if err := h.testService.CreateTest(c.Request.Context(), &test, middleware.UserID(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, test)
}

// UpdateTest overwrites every field of a test (admin only)
func (h *MedicalTestHandler) UpdateTest(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var test models.MedicalTest
	if err := bindJSON(c, &test); err != nil {
		utils.HandleError(c, err)
		return
	}
	test.ID = id

	if err := h.testService.UpdateTest(c.Request.Context(), &test, middleware.UserID(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, test)
}

// DeleteTest removes a test that no hospital offers (admin only)
func (h *MedicalTestHandler) DeleteTest(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if err := h.testService.DeleteTest(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.MessageResponse(c, "Medical test deleted successfully")
}

// BulkCreateTests creates many tests at once (admin only). The status is 201
// when every item was created, 207 when some were and 400 when none were.
func (h *MedicalTestHandler) BulkCreateTests(c *gin.Context) {
	var req BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.testService.BulkCreateTests(c.Request.Context(), req.Tests, middleware.UserID(c))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	status := http.StatusCreated
	message := "All tests created successfully"
	switch result.Outcome() {
	case service.BulkPartial:
		status = http.StatusMultiStatus
		message = "Some tests could not be created"
	case service.BulkNoneCreated:
		status = http.StatusBadRequest
		message = "No tests were created"
	}

	c.JSON(status, gin.H{
		"success": status != http.StatusBadRequest,
		"message": message,
		"data":    result,
		"count":   len(result.Created),
	})
}
