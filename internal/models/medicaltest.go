package models

import (
	"strings"
	"time"

	"hospital-directory/internal/query"
)

// MedicalTest is a catalog (generic) diagnostic test, independent of any hospital
type MedicalTest struct {
	ID                      uint       `gorm:"primaryKey" json:"id"`
	TestCategory            Department `gorm:"size:50;not null;index" json:"test_category" binding:"required,department"`
	Name                    string     `gorm:"size:400;not null;index" json:"name" binding:"required,max=400"`
	Description             string     `gorm:"type:text;not null" json:"description" binding:"required,max=1000"`
	PreparationInstructions string     `gorm:"type:text;not null" json:"preparation_instructions" binding:"required,max=2000"`
	FastingRequired         bool       `gorm:"default:false;index" json:"fasting_required"`
	TurnaroundTime          string     `gorm:"size:100;not null" json:"turnaround_time" binding:"required,max=100"`
	CommonSymptoms          []string   `gorm:"type:json;serializer:json" json:"common_symptoms" binding:"dive,max=100"`
	AgeRestrictions         string     `gorm:"size:100;not null" json:"age_restrictions" binding:"required,max=100"`
	GenderSpecific          Gender     `gorm:"size:10;not null;index" json:"gender_specific" binding:"required,gender"`
	Aliases                 []string   `gorm:"type:json;serializer:json" json:"aliases" binding:"dive,max=100"`
	Keywords                []string   `gorm:"type:json;serializer:json" json:"keywords" binding:"dive,max=100"`
	Purpose                 string     `gorm:"type:text;not null" json:"purpose" binding:"required,max=1000"`
	Risks                   []string   `gorm:"type:json;serializer:json" json:"risks" binding:"dive,max=200"`
	Contraindications       []string   `gorm:"type:json;serializer:json" json:"contraindications" binding:"dive,max=200"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// TableName specifies the table name for MedicalTest model
func (MedicalTest) TableName() string {
	return "medical_tests"
}

// Normalize trims free text, lowercases keywords and canonicalizes vocabulary values
func (t *MedicalTest) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	t.Description = strings.TrimSpace(t.Description)
	t.PreparationInstructions = strings.TrimSpace(t.PreparationInstructions)
	t.TurnaroundTime = strings.TrimSpace(t.TurnaroundTime)
	t.AgeRestrictions = strings.TrimSpace(t.AgeRestrictions)
	t.Purpose = strings.TrimSpace(t.Purpose)

	if c, ok := Departments.Parse(string(t.TestCategory)); ok {
		t.TestCategory = c
	}
	if g, ok := Genders.Parse(string(t.GenderSpecific)); ok {
		t.GenderSpecific = g
	}

	t.CommonSymptoms = trimAll(t.CommonSymptoms)
	t.Aliases = trimAll(t.Aliases)
	t.Risks = trimAll(t.Risks)
	t.Contraindications = trimAll(t.Contraindications)

	keywords := trimAll(t.Keywords)
	for i := range keywords {
		keywords[i] = strings.ToLower(keywords[i])
	}
	t.Keywords = keywords
}

// Lookup implements query.Document
func (t MedicalTest) Lookup(field string) (any, bool) {
	switch field {
	case "id":
		return t.ID, true
	case "test_category":
		return string(t.TestCategory), true
	case "name":
		return t.Name, true
	case "description":
		return t.Description, true
	case "fasting_required":
		return t.FastingRequired, true
	case "turnaround_time":
		return t.TurnaroundTime, true
	case "common_symptoms":
		return t.CommonSymptoms, true
	case "gender_specific":
		return string(t.GenderSpecific), true
	case "aliases":
		return t.Aliases, true
	case "keywords":
		return t.Keywords, true
	case "age_restrictions":
		return t.AgeRestrictions, true
	case "created_at":
		return unixMilli(t.CreatedAt), true
	}
	return nil, false
}

// TestSummary is the short form of a catalog test
type TestSummary struct {
	ID              uint       `json:"id"`
	Name            string     `json:"name"`
	Category        Department `json:"category"`
	TurnaroundTime  string     `json:"turnaround_time"`
	FastingRequired bool       `json:"fasting_required"`
}

// Summary returns the short form of the test
func (t MedicalTest) Summary() TestSummary {
	return TestSummary{
		ID:              t.ID,
		Name:            t.Name,
		Category:        t.TestCategory,
		TurnaroundTime:  t.TurnaroundTime,
		FastingRequired: t.FastingRequired,
	}
}

// TestSortFields are the columns a catalog listing may be ordered by
var TestSortFields = []string{"name", "test_category", "turnaround_time", "fasting_required", "gender_specific", "created_at"}

// MedicalTestFilter lists the optional criteria of GET /tests
type MedicalTestFilter struct {
	TestCategory    *string `form:"test_category"`
	FastingRequired *string `form:"fasting_required"`
	GenderSpecific  *string `form:"gender_specific"`
	Keywords        *string `form:"keywords"`
	Aliases         *string `form:"aliases"`
	Symptoms        *string `form:"symptoms"`
}

// Predicate converts the filter into a query predicate
func (f MedicalTestFilter) Predicate() query.Predicate {
	return query.NewFilterBuilder().
		Exact("test_category", f.TestCategory, Departments.Normalize).
		Bool("fasting_required", f.FastingRequired).
		Exact("gender_specific", f.GenderSpecific, query.Lower).
		AnyOf("keywords", f.Keywords, query.Lower).
		AnyOf("aliases", f.Aliases, query.Verbatim).
		AnyOf("common_symptoms", f.Symptoms, query.Verbatim).
		Build()
}

// GenderPredicate matches tests suitable for gender: male and female also
// include tests marked "both".
func GenderPredicate(g Gender) query.Predicate {
	if g == GenderBoth {
		return query.NewFilterBuilder().OneOf("gender_specific", []string{string(GenderBoth)}).Build()
	}
	return query.NewFilterBuilder().OneOf("gender_specific", []string{string(g), string(GenderBoth)}).Build()
}
