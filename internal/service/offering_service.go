package service

import (
	"context"
	"fmt"

	"hospital-directory/internal/models"
	"hospital-directory/internal/pricing"
	"hospital-directory/internal/query"
	"hospital-directory/internal/repository"
	"hospital-directory/internal/stats"
	"hospital-directory/pkg/apperror"
)

// DefaultFeaturedLimit is the number of featured offerings returned by default
const DefaultFeaturedLimit = 10

type OfferingService struct {
	offeringRepo repository.Collection[models.HospitalTestOffering]
	hospitalRepo repository.Collection[models.Hospital]
	testRepo     repository.Collection[models.MedicalTest]
	auditRepo    AuditLogger
}

func NewOfferingService(
	offeringRepo repository.Collection[models.HospitalTestOffering],
	hospitalRepo repository.Collection[models.Hospital],
	testRepo repository.Collection[models.MedicalTest],
	auditRepo AuditLogger,
) *OfferingService {
	return &OfferingService{
		offeringRepo: offeringRepo,
		hospitalRepo: hospitalRepo,
		testRepo:     testRepo,
		auditRepo:    auditRepo,
	}
}

// OfferingPage is one page of offerings with derived prices
type OfferingPage struct {
	Offerings  []models.OfferingView
	Pagination query.Pagination
}

// ListOfferings filters and paginates offerings
func (s *OfferingService) ListOfferings(ctx context.Context, filter models.OfferingFilter, sort query.Sort, page query.Page, includeHomeCollection bool) (*OfferingPage, error) {
	offerings, total, err := s.offeringRepo.Find(ctx, filter.Predicate(), sort, page)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, offerings, includeHomeCollection)
	if err != nil {
		return nil, err
	}
	return &OfferingPage{Offerings: views, Pagination: page.Paginate(total)}, nil
}

// GetOfferingByID retrieves an offering with its hospital and test
func (s *OfferingService) GetOfferingByID(ctx context.Context, id uint, includeHomeCollection bool) (*models.OfferingView, error) {
	offering, err := s.offeringRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []models.HospitalTestOffering{*offering}, includeHomeCollection)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// BookingSummary returns what a patient needs to book an offering
func (s *OfferingService) BookingSummary(ctx context.Context, id uint) (*models.BookingSummary, error) {
	view, err := s.GetOfferingByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	summary := &models.BookingSummary{
		HospitalTestID:          view.ID,
		Price:                   view.Price,
		DiscountedPrice:         view.DiscountedPrice,
		Currency:                view.Currency,
		TurnaroundTime:          view.TurnaroundTime,
		HomeCollectionAvailable: view.HomeCollectionAvailable,
		AppointmentRequired:     view.AppointmentRequired == nil || *view.AppointmentRequired,
		BookingContact:          view.BookingContact,
		OnlineBookingURL:        view.OnlineBookingURL,
	}
	if view.Hospital != nil {
		summary.HospitalName = view.Hospital.Name
	}
	if view.Test != nil {
		summary.TestName = view.Test.Name
	}
	return summary, nil
}

// OfferingsByHospital lists the active offerings of a hospital, cheapest first
func (s *OfferingService) OfferingsByHospital(ctx context.Context, hospitalID uint) ([]models.OfferingView, error) {
	if _, err := s.hospitalRepo.GetByID(ctx, hospitalID); err != nil {
		return nil, err
	}
	pred := query.NewFilterBuilder().
		ID("hospital_id", &hospitalID).
		Flag("is_active", true).
		Build()
	return s.findViews(ctx, pred, models.ByPrice, 0)
}

// HospitalsOfferingTest lists the active offerings of a test, cheapest first
func (s *OfferingService) HospitalsOfferingTest(ctx context.Context, testID uint) ([]models.OfferingView, error) {
	if _, err := s.testRepo.GetByID(ctx, testID); err != nil {
		return nil, err
	}
	pred := query.NewFilterBuilder().
		ID("test_id", &testID).
		Flag("is_active", true).
		Build()
	return s.findViews(ctx, pred, models.ByPrice, 0)
}

// FeaturedOfferings lists active featured offerings, cheapest first
func (s *OfferingService) FeaturedOfferings(ctx context.Context, limit int) ([]models.OfferingView, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	pred := query.NewFilterBuilder().
		Flag("featured", true).
		Flag("is_active", true).
		Build()
	return s.findViews(ctx, pred, models.ByPrice, limit)
}

// Stats summarizes the whole offering collection
func (s *OfferingService) Stats(ctx context.Context) (*stats.OfferingOverview, error) {
	offerings, err := s.offeringRepo.FindAll(ctx, nil, query.Sort{}, 0)
	if err != nil {
		return nil, err
	}
	overview := stats.SummarizeOfferings(offerings)
	return &overview, nil
}

// CreateOffering adds a hospital's terms for a catalog test. A second
// offering for the same hospital and test is a conflict.
func (s *OfferingService) CreateOffering(ctx context.Context, offering *models.HospitalTestOffering, userID uint) error {
	offering.ID = 0
	offering.Normalize()
	if err := s.checkReferences(ctx, offering); err != nil {
		return err
	}

	if err := s.offeringRepo.Create(ctx, offering); err != nil {
		return err
	}

	details := fmt.Sprintf("Created offering %d: hospital %d, test %d, price %.2f %s",
		offering.ID, offering.HospitalID, offering.TestID, offering.Price, offering.Currency)
	audit(ctx, s.auditRepo, userID, "offering_create", details)
	return nil
}

// UpdateOffering saves every field of an existing offering
func (s *OfferingService) UpdateOffering(ctx context.Context, offering *models.HospitalTestOffering, userID uint) error {
	existing, err := s.offeringRepo.GetByID(ctx, offering.ID)
	if err != nil {
		return err
	}

	offering.CreatedAt = existing.CreatedAt
	offering.Normalize()
	if offering.HospitalID != existing.HospitalID || offering.TestID != existing.TestID {
		if err := s.checkReferences(ctx, offering); err != nil {
			return err
		}
	}

	if err := s.offeringRepo.Update(ctx, offering); err != nil {
		return err
	}

	details := fmt.Sprintf("Updated offering %d: hospital %d, test %d, price %.2f %s",
		offering.ID, offering.HospitalID, offering.TestID, offering.Price, offering.Currency)
	audit(ctx, s.auditRepo, userID, "offering_update", details)
	return nil
}

// DeleteOffering removes an offering
func (s *OfferingService) DeleteOffering(ctx context.Context, id uint, userID uint) error {
	offering, err := s.offeringRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.offeringRepo.Delete(ctx, id); err != nil {
		return err
	}

	details := fmt.Sprintf("Deleted offering %d: hospital %d, test %d", id, offering.HospitalID, offering.TestID)
	audit(ctx, s.auditRepo, userID, "offering_delete", details)
	return nil
}

// checkReferences verifies the hospital and test exist
func (s *OfferingService) checkReferences(ctx context.Context, offering *models.HospitalTestOffering) error {
	if _, err := s.hospitalRepo.GetByID(ctx, offering.HospitalID); err != nil {
		if apperror.Is(err, apperror.ErrorTypeNotFound) {
			return apperror.NewValidationError(fmt.Sprintf("hospital_id %d does not exist", offering.HospitalID))
		}
		return err
	}
	if _, err := s.testRepo.GetByID(ctx, offering.TestID); err != nil {
		if apperror.Is(err, apperror.ErrorTypeNotFound) {
			return apperror.NewValidationError(fmt.Sprintf("test_id %d does not exist", offering.TestID))
		}
		return err
	}
	return nil
}

func (s *OfferingService) findViews(ctx context.Context, pred query.Predicate, sort query.Sort, limit int) ([]models.OfferingView, error) {
	offerings, err := s.offeringRepo.FindAll(ctx, pred, sort, limit)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, offerings, false)
}

// views prices each offering and attaches short forms of its hospital and
// test, loading each referenced row once
func (s *OfferingService) views(ctx context.Context, offerings []models.HospitalTestOffering, includeHomeCollection bool) ([]models.OfferingView, error) {
	views := make([]models.OfferingView, 0, len(offerings))
	if len(offerings) == 0 {
		return views, nil
	}

	var hospitalIDs, testIDs []uint
	for _, o := range offerings {
		hospitalIDs = append(hospitalIDs, o.HospitalID)
		testIDs = append(testIDs, o.TestID)
	}

	hospitals, err := s.hospitalRepo.FindAll(ctx, query.NewFilterBuilder().IDs("id", hospitalIDs).Build(), query.Sort{}, 0)
	if err != nil {
		return nil, err
	}
	tests, err := s.testRepo.FindAll(ctx, query.NewFilterBuilder().IDs("id", testIDs).Build(), query.Sort{}, 0)
	if err != nil {
		return nil, err
	}

	hospitalByID := make(map[uint]models.HospitalSummary, len(hospitals))
	for _, h := range hospitals {
		hospitalByID[h.ID] = h.Summary()
	}
	testByID := make(map[uint]models.TestSummary, len(tests))
	for _, t := range tests {
		testByID[t.ID] = t.Summary()
	}

	for _, o := range offerings {
		view := models.OfferingView{
			HospitalTestOffering: o,
			Quote:                pricing.Price(o.PricingTerms(), includeHomeCollection),
		}
		if h, ok := hospitalByID[o.HospitalID]; ok {
			view.Hospital = &h
		}
		if t, ok := testByID[o.TestID]; ok {
			view.Test = &t
		}
		views = append(views, view)
	}
	return views, nil
}
