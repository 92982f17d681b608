package service

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"hospital-directory/internal/models"
	"hospital-directory/internal/query"
	"hospital-directory/internal/repository"
	"hospital-directory/pkg/apperror"
)

type HospitalService struct {
	hospitalRepo repository.Collection[models.Hospital]
	offeringRepo repository.Collection[models.HospitalTestOffering]
	auditRepo    AuditLogger
	geo          query.BoundingBoxCalculator
}

func NewHospitalService(
	hospitalRepo repository.Collection[models.Hospital],
	offeringRepo repository.Collection[models.HospitalTestOffering],
	auditRepo AuditLogger,
	geo query.BoundingBoxCalculator,
) *HospitalService {
	return &HospitalService{
		hospitalRepo: hospitalRepo,
		offeringRepo: offeringRepo,
		auditRepo:    auditRepo,
		geo:          geo,
	}
}

// ByRank is the default hospital ordering
var ByRank = query.Sort{Field: "hospital_rank"}

// HospitalList is one page of the hospital directory
type HospitalList struct {
	Hospitals   []models.Hospital `json:"hospitals"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
}

// ListHospitals filters, searches and paginates the directory
func (s *HospitalService) ListHospitals(ctx context.Context, filter models.HospitalFilter, sort query.Sort, page query.Page) (*HospitalList, error) {
	pred, err := filter.Predicate()
	if err != nil {
		return nil, err
	}

	hospitals, total, err := s.hospitalRepo.Find(ctx, pred, sort, page)
	if err != nil {
		return nil, err
	}
	if hospitals == nil {
		hospitals = []models.Hospital{}
	}

	p := page.Paginate(total)
	return &HospitalList{
		Hospitals:   hospitals,
		TotalPages:  p.TotalPages,
		CurrentPage: p.CurrentPage,
	}, nil
}

// GetHospitalByID retrieves a hospital by ID
func (s *HospitalService) GetHospitalByID(ctx context.Context, id uint) (*models.Hospital, error) {
	return s.hospitalRepo.GetByID(ctx, id)
}

// CreateHospital creates a new hospital
func (s *HospitalService) CreateHospital(ctx context.Context, hospital *models.Hospital, userID uint) error {
	hospital.ID = 0
	hospital.Normalize()
	if err := hospital.Validate(); err != nil {
		return err
	}

	if err := s.hospitalRepo.Create(ctx, hospital); err != nil {
		return err
	}

	details := fmt.Sprintf("Created hospital: %s (ID: %d)", hospital.Name, hospital.ID)
	audit(ctx, s.auditRepo, userID, "hospital_create", details)
	return nil
}

// UpdateHospital saves every field of an existing hospital
func (s *HospitalService) UpdateHospital(ctx context.Context, hospital *models.Hospital, userID uint) error {
	existing, err := s.hospitalRepo.GetByID(ctx, hospital.ID)
	if err != nil {
		return err
	}

	hospital.CreatedAt = existing.CreatedAt
	hospital.Normalize()
	if err := hospital.Validate(); err != nil {
		return err
	}

	if err := s.hospitalRepo.Update(ctx, hospital); err != nil {
		return err
	}

	details := fmt.Sprintf("Updated hospital: %s (ID: %d)", hospital.Name, hospital.ID)
	audit(ctx, s.auditRepo, userID, "hospital_update", details)
	return nil
}

// DeleteHospital deletes a hospital that no longer has test offerings
func (s *HospitalService) DeleteHospital(ctx context.Context, id uint, userID uint) error {
	hospital, err := s.hospitalRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	offerings, err := s.offeringRepo.Count(ctx, query.NewFilterBuilder().ID("hospital_id", &id).Build())
	if err != nil {
		return err
	}
	if offerings > 0 {
		return apperror.NewConflictError(
			fmt.Sprintf("Hospital still has %d test offering(s); delete them first", offerings), nil)
	}

	if err := s.hospitalRepo.Delete(ctx, id); err != nil {
		return err
	}

	details := fmt.Sprintf("Deleted hospital: %s (ID: %d)", hospital.Name, id)
	audit(ctx, s.auditRepo, userID, "hospital_delete", details)
	return nil
}

// FindByLocation lists hospitals whose city, and division when given,
// contain the given text
func (s *HospitalService) FindByLocation(ctx context.Context, city, division string) ([]models.Hospital, error) {
	if strings.TrimSpace(city) == "" {
		return nil, apperror.NewValidationError("City is a required query parameter.")
	}
	pred := query.NewFilterBuilder().
		Contains("city", &city).
		Contains("division", &division).
		Build()
	return s.findAll(ctx, pred)
}

// FindByDepartment lists hospitals with the given department
func (s *HospitalService) FindByDepartment(ctx context.Context, department string) ([]models.Hospital, error) {
	if strings.TrimSpace(department) == "" {
		return nil, apperror.NewValidationError("Department is a required query parameter.")
	}
	if !models.Departments.Contains(department) {
		return nil, apperror.NewValidationError(fmt.Sprintf("Unknown department %q", department))
	}
	pred := query.NewFilterBuilder().
		AnyOf("departments", &department, models.Departments.Normalize).
		Build()
	return s.findAll(ctx, pred)
}

// FindNearby lists hospitals inside the bounding box of a circle around
// center, closest first. Box corners lie up to sqrt(2)*radius away, so
// results can include hospitals slightly outside the radius.
func (s *HospitalService) FindNearby(ctx context.Context, center query.Point, radiusMeters float64) ([]models.Hospital, error) {
	box, err := s.geo.BoundingBox(center, radiusMeters)
	if err != nil {
		return nil, err
	}

	hospitals, err := s.findAll(ctx, box.Predicate("latitude", "longitude"))
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(hospitals, func(a, b models.Hospital) int {
		return cmp.Compare(flatDistance(center, a), flatDistance(center, b))
	})
	return hospitals, nil
}

func (s *HospitalService) findAll(ctx context.Context, pred query.Predicate) ([]models.Hospital, error) {
	hospitals, err := s.hospitalRepo.FindAll(ctx, pred, ByRank, 0)
	if err != nil {
		return nil, err
	}
	if hospitals == nil {
		hospitals = []models.Hospital{}
	}
	return hospitals, nil
}

// flatDistance is the squared equirectangular distance in degrees, good
// enough to order hospitals within a few kilometres of each other
func flatDistance(center query.Point, h models.Hospital) float64 {
	dLat := h.Latitude - center.Lat
	dLng := (h.Longitude - center.Lng) * math.Cos(center.Lat*math.Pi/180)
	return dLat*dLat + dLng*dLng
}
