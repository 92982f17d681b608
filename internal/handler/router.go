package handler

import (
	"github.com/gin-gonic/gin"

	"hospital-directory/internal/middleware"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Health      *HealthHandler
	Auth        *AuthHandler
	Hospital    *HospitalHandler
	MedicalTest *MedicalTestHandler
	Offering    *OfferingHandler
	Audit       *AuditHandler
}

// NewRouter builds the gin engine. Reads are public; writes need an admin token.
func NewRouter(h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.CORS(allowedOrigins),
	)

	r.GET("/health", h.Health.Health)

	// Auth routes (public)
	auth := r.Group("/auth")
	{
		auth.POST("/register", middleware.OptionalAuth(), h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	admin := []gin.HandlerFunc{middleware.AuthMiddleware(), middleware.RequireAdmin()}
	withAdmin := func(next gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, admin...), next)
	}

	hospitals := r.Group("/hospitals")
	{
		hospitals.GET("", h.Hospital.GetAllHospitals)
		hospitals.GET("/location", h.Hospital.GetHospitalsByLocation)
		hospitals.GET("/department", h.Hospital.GetHospitalsByDepartment)
		hospitals.GET("/nearby", h.Hospital.GetNearbyHospitals)
		hospitals.GET("/:id", h.Hospital.GetHospital)
		hospitals.GET("/:id/tests", h.Hospital.GetHospitalTests)

		hospitals.POST("", withAdmin(h.Hospital.CreateHospital)...)
		hospitals.PUT("/:id", withAdmin(h.Hospital.ReplaceHospital)...)
		hospitals.PATCH("/:id", withAdmin(h.Hospital.PatchHospital)...)
		hospitals.DELETE("/:id", withAdmin(h.Hospital.DeleteHospital)...)
	}

	tests := r.Group("/tests")
	{
		tests.GET("", h.MedicalTest.GetAllTests)
		tests.GET("/search", h.MedicalTest.SearchTests)
		tests.GET("/categories", h.MedicalTest.GetCategories)
		tests.GET("/stats", h.MedicalTest.GetStats)
		tests.GET("/popular", h.MedicalTest.GetPopularTests)
		tests.GET("/fasting", h.MedicalTest.GetFastingTests)
		tests.GET("/symptoms", h.MedicalTest.GetTestsBySymptoms)
		tests.GET("/category/:category", h.MedicalTest.GetTestsByCategory)
		tests.GET("/gender/:gender", h.MedicalTest.GetTestsByGender)
		tests.GET("/:id", h.MedicalTest.GetTest)
		tests.GET("/:id/summary", h.MedicalTest.GetTestSummary)
		tests.GET("/:id/hospitals", h.MedicalTest.GetTestHospitals)

		tests.POST("", withAdmin(h.MedicalTest.CreateTest)...)
		tests.POST("/bulk", withAdmin(h.MedicalTest.BulkCreateTests)...)
		tests.PUT("/:id", withAdmin(h.MedicalTest.UpdateTest)...)
		tests.DELETE("/:id", withAdmin(h.MedicalTest.DeleteTest)...)
	}

	offerings := r.Group("/offerings")
	{
		offerings.GET("", h.Offering.GetAllOfferings)
		offerings.GET("/featured", h.Offering.GetFeaturedOfferings)
		offerings.GET("/stats", h.Offering.GetOfferingStats)
		offerings.GET("/:id", h.Offering.GetOffering)
		offerings.GET("/:id/booking", h.Offering.GetBookingSummary)

		offerings.POST("", withAdmin(h.Offering.CreateOffering)...)
		offerings.PUT("/:id", withAdmin(h.Offering.ReplaceOffering)...)
		offerings.PATCH("/:id", withAdmin(h.Offering.PatchOffering)...)
		offerings.DELETE("/:id", withAdmin(h.Offering.DeleteOffering)...)
	}

	r.GET("/audit-logs", withAdmin(h.Audit.GetAuditLogs)...)

	return r
}
