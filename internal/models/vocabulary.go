package models

import "strings"

// Vocabulary is a closed set of allowed values for a categorical field.
// Lookups ignore case and return the canonical spelling.
type Vocabulary[T ~string] struct {
	values []T
	index  map[string]T
}

func newVocabulary[T ~string](values ...T) Vocabulary[T] {
	index := make(map[string]T, len(values))
	for _, v := range values {
		index[strings.ToLower(string(v))] = v
	}
	return Vocabulary[T]{values: values, index: index}
}

// Parse returns the canonical value for s.
func (v Vocabulary[T]) Parse(s string) (T, bool) {
	c, ok := v.index[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// Contains reports whether s is a member, ignoring case.
func (v Vocabulary[T]) Contains(s string) bool {
	_, ok := v.Parse(s)
	return ok
}

// Values returns the members in declaration order.
func (v Vocabulary[T]) Values() []T {
	out := make([]T, len(v.values))
	copy(out, v.values)
	return out
}

// Normalize canonicalizes a raw filter value; unknown values are reported as not ok.
func (v Vocabulary[T]) Normalize(raw string) (string, bool) {
	c, ok := v.Parse(raw)
	return string(c), ok
}

type (
	Division     string
	Department   string
	Facility     string
	HospitalType string
	Language     string
	Gender       string
	Currency     string
	Unit         string
	ReportFormat string
)

var Divisions = newVocabulary[Division](
	"Dhaka", "Chittagong", "Sylhet", "Rajshahi", "Khulna", "Barisal", "Rangpur", "Mymensingh",
)

var Departments = newVocabulary[Department](
	"Medicine", "Surgery", "Cardiology", "Neurology", "Orthopedics", "Pediatrics", "Gynecology",
	"Oncology", "Dermatology", "Psychiatry", "Ophthalmology", "ENT", "Urology", "Nephrology",
	"Gastroenterology", "Endocrinology", "Pulmonology", "Rheumatology", "Hematology", "Radiology",
	"Pathology", "Anesthesiology", "Emergency Medicine",
)

var Facilities = newVocabulary[Facility](
	"ICU", "Emergency", "Diagnostic Center", "Pharmacy", "Blood Bank", "Operation Theater", "X-Ray",
	"MRI", "CT Scan", "Laboratory", "Physiotherapy", "Dialysis", "Maternity Ward", "Burn Unit",
	"Cardiac Care Unit", "Intensive Care Unit", "General Ward",
)

var HospitalTypes = newVocabulary[HospitalType]("Government", "Private", "NGO")

var Languages = newVocabulary[Language]("Bengali", "English", "Hindi")

// Genders are stored lowercase.
var Genders = newVocabulary[Gender]("male", "female", "both")

var Currencies = newVocabulary[Currency]("BDT", "USD", "EUR", "GBP")

var Units = newVocabulary[Unit]("per test", "per sample", "per panel", "per consultation")

// ReportFormats are stored lowercase.
var ReportFormats = newVocabulary[ReportFormat]("digital", "physical", "both")

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderBoth   Gender = "both"

	CurrencyBDT Currency = "BDT"
	UnitPerTest Unit     = "per test"
)

func departmentStrings(in []Department) []string {
	out := make([]string, len(in))
	for i, d := range in {
		out[i] = string(d)
	}
	return out
}

func facilityStrings(in []Facility) []string {
	out := make([]string, len(in))
	for i, f := range in {
		out[i] = string(f)
	}
	return out
}
