package service

import (
	"context"
	"fmt"
	"strings"

	"hospital-directory/internal/models"
	"hospital-directory/internal/query"
	"hospital-directory/internal/repository"
	"hospital-directory/internal/stats"
	"hospital-directory/internal/validation"
	"hospital-directory/pkg/apperror"
)

// MaxBulkTests bounds one bulk create request
const MaxBulkTests = 1000

type MedicalTestService struct {
	testRepo     repository.Collection[models.MedicalTest]
	offeringRepo repository.Collection[models.HospitalTestOffering]
	auditRepo    AuditLogger
	validator    StructValidator
}

func NewMedicalTestService(
	testRepo repository.Collection[models.MedicalTest],
	offeringRepo repository.Collection[models.HospitalTestOffering],
	auditRepo AuditLogger,
	validator StructValidator,
) *MedicalTestService {
	return &MedicalTestService{
		testRepo:     testRepo,
		offeringRepo: offeringRepo,
		auditRepo:    auditRepo,
		validator:    validator,
	}
}

// TestPage is one page of catalog tests
type TestPage struct {
	Tests      []models.MedicalTest
	Pagination query.Pagination
}

func (s *MedicalTestService) page(ctx context.Context, pred query.Predicate, sort query.Sort, page query.Page) (*TestPage, error) {
	tests, total, err := s.testRepo.Find(ctx, pred, sort, page)
	if err != nil {
		return nil, err
	}
	if tests == nil {
		tests = []models.MedicalTest{}
	}
	return &TestPage{Tests: tests, Pagination: page.Paginate(total)}, nil
}

// ListTests filters and paginates the catalog
func (s *MedicalTestService) ListTests(ctx context.Context, filter models.MedicalTestFilter, sort query.Sort, page query.Page) (*TestPage, error) {
	return s.page(ctx, filter.Predicate(), sort, page)
}

// SearchTests matches term against name, description, keywords and aliases
func (s *MedicalTestService) SearchTests(ctx context.Context, term string, sort query.Sort, page query.Page) (*TestPage, error) {
	pred, err := query.Search(term, query.TestSearchFields)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, pred, sort, page)
}

// TestsByCategory lists tests of one category
func (s *MedicalTestService) TestsByCategory(ctx context.Context, category string, page query.Page) (*TestPage, error) {
	if !models.Departments.Contains(category) {
		return nil, apperror.NewValidationError(fmt.Sprintf("Unknown test category %q", category))
	}
	pred := query.NewFilterBuilder().Exact("test_category", &category, models.Departments.Normalize).Build()
	return s.page(ctx, pred, query.ByName, page)
}

// TestsBySymptoms lists tests associated with any of the comma separated symptoms
func (s *MedicalTestService) TestsBySymptoms(ctx context.Context, symptoms string, page query.Page) (*TestPage, error) {
	if len(query.SplitList(symptoms, query.Verbatim)) == 0 {
		return nil, apperror.NewValidationError("At least one symptom is required")
	}
	pred := query.NewFilterBuilder().AnyOf("common_symptoms", &symptoms, query.Verbatim).Build()
	return s.page(ctx, pred, query.ByName, page)
}

// FastingTests lists tests that require fasting
func (s *MedicalTestService) FastingTests(ctx context.Context, page query.Page) (*TestPage, error) {
	pred := query.NewFilterBuilder().Flag("fasting_required", true).Build()
	return s.page(ctx, pred, query.ByName, page)
}

// TestsByGender lists tests suitable for gender; male and female include
// tests marked for both
func (s *MedicalTestService) TestsByGender(ctx context.Context, gender string, page query.Page) (*TestPage, error) {
	g, ok := models.Genders.Parse(gender)
	if !ok {
		return nil, apperror.NewValidationError("Gender must be male, female, or both")
	}
	return s.page(ctx, models.GenderPredicate(g), query.ByName, page)
}

// GetTestByID retrieves a test by ID
func (s *MedicalTestService) GetTestByID(ctx context.Context, id uint) (*models.MedicalTest, error) {
	return s.testRepo.GetByID(ctx, id)
}

// GetTestSummary retrieves the short form of a test
func (s *MedicalTestService) GetTestSummary(ctx context.Context, id uint) (*models.TestSummary, error) {
	test, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := test.Summary()
	return &summary, nil
}

// CreateTest adds a test to the catalog
func (s *MedicalTestService) CreateTest(ctx context.Context, test *models.MedicalTest, userID uint) error {
	test.ID = 0
	test.Normalize()
	if err := s.testRepo.Create(ctx, test); err != nil {
		return err
	}

	details := fmt.Sprintf("Created medical test: %s (ID: %d)", test.Name, test.ID)
	audit(ctx, s.auditRepo, userID, "test_create", details)
	return nil
}

// UpdateTest saves every field of an existing test
func (s *MedicalTestService) UpdateTest(ctx context.Context, test *models.MedicalTest, userID uint) error {
	existing, err := s.testRepo.GetByID(ctx, test.ID)
	if err != nil {
		return err
	}

	test.CreatedAt = existing.CreatedAt
	test.Normalize()
	if err := s.testRepo.Update(ctx, test); err != nil {
		return err
	}

	details := fmt.Sprintf("Updated medical test: %s (ID: %d)", test.Name, test.ID)
	audit(ctx, s.auditRepo, userID, "test_update", details)
	return nil
}

// DeleteTest deletes a test no hospital offers any more
func (s *MedicalTestService) DeleteTest(ctx context.Context, id uint, userID uint) error {
	test, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	offerings, err := s.offeringRepo.Count(ctx, query.NewFilterBuilder().ID("test_id", &id).Build())
	if err != nil {
		return err
	}
	if offerings > 0 {
		return apperror.NewConflictError(
			fmt.Sprintf("Medical test is still offered by %d hospital(s); delete those offerings first", offerings), nil)
	}

	if err := s.testRepo.Delete(ctx, id); err != nil {
		return err
	}

	details := fmt.Sprintf("Deleted medical test: %s (ID: %d)", test.Name, id)
	audit(ctx, s.auditRepo, userID, "test_delete", details)
	return nil
}

// Categories groups the whole catalog by category
func (s *MedicalTestService) Categories(ctx context.Context) ([]stats.CategoryGroup, error) {
	tests, err := s.testRepo.FindAll(ctx, nil, query.ByName, 0)
	if err != nil {
		return nil, err
	}
	return stats.CategoryBreakdown(tests), nil
}

// Stats computes catalog-wide statistics
func (s *MedicalTestService) Stats(ctx context.Context) (*stats.TestStats, error) {
	tests, err := s.testRepo.FindAll(ctx, nil, query.Sort{}, 0)
	if err != nil {
		return nil, err
	}
	st := stats.Stats(tests)
	return &st, nil
}

// Popular ranks the catalog by keyword and alias counts
func (s *MedicalTestService) Popular(ctx context.Context, limit int) ([]stats.PopularTest, error) {
	tests, err := s.testRepo.FindAll(ctx, nil, query.Sort{}, 0)
	if err != nil {
		return nil, err
	}
	return stats.Popular(tests, limit), nil
}

// BulkItemError reports why one item of a bulk request was not created
type BulkItemError struct {
	Index int                `json:"index"`
	Name  string             `json:"name,omitempty"`
	Type  apperror.ErrorType `json:"type"`
	Error string             `json:"error"`
}

// BulkResult lists what a bulk create did with each item
type BulkResult struct {
	Created []models.MedicalTest `json:"created"`
	Errors  []BulkItemError      `json:"errors"`
}

// BulkOutcome classifies a bulk result
type BulkOutcome int

const (
	BulkAllCreated BulkOutcome = iota
	BulkPartial
	BulkNoneCreated
)

// Outcome reports whether every, some or no item was created
func (r *BulkResult) Outcome() BulkOutcome {
	switch {
	case len(r.Errors) == 0:
		return BulkAllCreated
	case len(r.Created) == 0:
		return BulkNoneCreated
	default:
		return BulkPartial
	}
}

// BulkCreateTests creates every valid item and reports the rest individually.
// Items are independent: one failure never rolls back another item.
func (s *MedicalTestService) BulkCreateTests(ctx context.Context, tests []models.MedicalTest, userID uint) (*BulkResult, error) {
	if len(tests) == 0 {
		return nil, apperror.NewValidationError("Tests array is required and cannot be empty")
	}
	if len(tests) > MaxBulkTests {
		return nil, apperror.NewValidationError(fmt.Sprintf("At most %d tests can be created at once", MaxBulkTests))
	}

	result := &BulkResult{Created: []models.MedicalTest{}, Errors: []BulkItemError{}}
	for i := range tests {
		test := tests[i]
		test.ID = 0
		test.Normalize()

		if err := s.validator.ValidateStruct(&test); err != nil {
			result.Errors = append(result.Errors, BulkItemError{
				Index: i,
				Name:  test.Name,
				Type:  apperror.ErrorTypeValidation,
				Error: validation.Message(err),
			})
			continue
		}

		if err := s.testRepo.Create(ctx, &test); err != nil {
			result.Errors = append(result.Errors, BulkItemError{
				Index: i,
				Name:  test.Name,
				Type:  apperror.TypeOf(err),
				Error: apperror.PublicMessage(err),
			})
			continue
		}
		result.Created = append(result.Created, test)
	}

	names := make([]string, 0, len(result.Created))
	for _, t := range result.Created {
		names = append(names, t.Name)
	}
	details := fmt.Sprintf("Bulk created %d medical test(s), %d failed: %s",
		len(result.Created), len(result.Errors), strings.Join(names, ", "))
	audit(ctx, s.auditRepo, userID, "test_bulk_create", details)
	return result, nil
}
