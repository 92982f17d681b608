package models

import (
	"strings"
	"time"

	"hospital-directory/internal/pricing"
	"hospital-directory/internal/query"
)

// HospitalTestOffering binds one hospital to one catalog test with the
// hospital's commercial terms. (hospital_id, test_id) is unique.
type HospitalTestOffering struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	HospitalID uint `gorm:"not null;uniqueIndex:idx_offering_hospital_test;index:idx_offering_hospital_active" json:"hospital_id" binding:"required"`
	TestID     uint `gorm:"not null;uniqueIndex:idx_offering_hospital_test;index:idx_offering_test_active" json:"test_id" binding:"required"`

	Price              float64      `gorm:"not null;index" json:"price" binding:"gte=0"`
	Currency           Currency     `gorm:"size:3;not null;default:'BDT'" json:"currency" binding:"omitempty,currency"`
	Unit               Unit         `gorm:"size:20;not null;default:'per test'" json:"unit" binding:"omitempty,unit"`
	AvailabilityHours  string       `gorm:"size:100;not null" json:"availability_hours" binding:"required,availability_hours"`
	PriorityAvailable  bool         `gorm:"default:false" json:"priority_available"`
	DiscountAvailable  bool         `gorm:"default:false" json:"discount_available"`
	DiscountPercentage *float64     `json:"discount_percentage,omitempty" binding:"required_if=DiscountAvailable true,omitempty,gte=0,lte=100"`
	InsuranceCoverage  []string     `gorm:"type:json;serializer:json" json:"insurance_coverage" binding:"dive,max=100"`
	TurnaroundTime     string       `gorm:"size:50;not null" json:"turnaround_time" binding:"required,turnaround"`
	ReportFormat       ReportFormat `gorm:"size:10;not null" json:"report_format" binding:"required,report_format"`

	HomeCollectionAvailable bool     `gorm:"default:false;index" json:"home_collection_available"`
	HomeCollectionFee       *float64 `json:"home_collection_fee,omitempty" binding:"required_if=HomeCollectionAvailable true,omitempty,gte=0"`

	BookingContact         string `gorm:"size:20;not null" json:"booking_contact" binding:"required,bdphone"`
	OnlineBookingURL       string `gorm:"size:500" json:"online_booking_url,omitempty" binding:"omitempty,http_url"`
	SampleCollectionPoints string `gorm:"size:500;not null" json:"sample_collection_points" binding:"required,max=500"`

	IsActive                 *bool  `gorm:"not null;index:idx_offering_hospital_active;index:idx_offering_test_active" json:"is_active"`
	Featured                 bool   `gorm:"default:false;index" json:"featured"`
	HospitalNotes            string `gorm:"type:text" json:"hospital_notes,omitempty" binding:"max=1000"`
	PreparationNotesOverride string `gorm:"type:text" json:"preparation_notes_override,omitempty" binding:"max=1000"`
	AppointmentRequired      *bool  `gorm:"not null" json:"appointment_required"`
	MinAdvanceBookingHours   int    `gorm:"default:0" json:"min_advance_booking_hours" binding:"gte=0"`
	MaxAdvanceBookingDays    int    `gorm:"default:30" json:"max_advance_booking_days" binding:"omitempty,gte=1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for HospitalTestOffering model
func (HospitalTestOffering) TableName() string {
	return "hospital_tests"
}

// Normalize applies defaults and canonical spellings before storage
func (o *HospitalTestOffering) Normalize() {
	if c, ok := Currencies.Parse(string(o.Currency)); ok {
		o.Currency = c
	} else if o.Currency == "" {
		o.Currency = CurrencyBDT
	}
	if u, ok := Units.Parse(string(o.Unit)); ok {
		o.Unit = u
	} else if o.Unit == "" {
		o.Unit = UnitPerTest
	}
	if r, ok := ReportFormats.Parse(string(o.ReportFormat)); ok {
		o.ReportFormat = r
	}
	if o.IsActive == nil {
		o.IsActive = boolPtr(true)
	}
	if o.AppointmentRequired == nil {
		o.AppointmentRequired = boolPtr(true)
	}
	if o.MaxAdvanceBookingDays == 0 {
		o.MaxAdvanceBookingDays = 30
	}
	o.AvailabilityHours = strings.TrimSpace(o.AvailabilityHours)
	o.TurnaroundTime = strings.TrimSpace(o.TurnaroundTime)
	o.BookingContact = strings.TrimSpace(o.BookingContact)
	o.SampleCollectionPoints = strings.TrimSpace(o.SampleCollectionPoints)
	o.InsuranceCoverage = trimAll(o.InsuranceCoverage)
}

// Active reports the is_active flag, defaulting to true
func (o HospitalTestOffering) Active() bool {
	return o.IsActive == nil || *o.IsActive
}

// PricingTerms extracts the fields the price calculator needs
func (o HospitalTestOffering) PricingTerms() pricing.Terms {
	return pricing.Terms{
		Price:                   o.Price,
		DiscountAvailable:       o.DiscountAvailable,
		DiscountPercentage:      o.DiscountPercentage,
		HomeCollectionAvailable: o.HomeCollectionAvailable,
		HomeCollectionFee:       o.HomeCollectionFee,
	}
}

// Lookup implements query.Document
func (o HospitalTestOffering) Lookup(field string) (any, bool) {
	switch field {
	case "id":
		return o.ID, true
	case "hospital_id":
		return o.HospitalID, true
	case "test_id":
		return o.TestID, true
	case "price":
		return o.Price, true
	case "currency":
		return string(o.Currency), true
	case "unit":
		return string(o.Unit), true
	case "report_format":
		return string(o.ReportFormat), true
	case "turnaround_time":
		return o.TurnaroundTime, true
	case "is_active":
		return o.Active(), true
	case "featured":
		return o.Featured, true
	case "discount_available":
		return o.DiscountAvailable, true
	case "home_collection_available":
		return o.HomeCollectionAvailable, true
	case "home_collection_fee":
		if o.HomeCollectionFee == nil {
			return nil, true
		}
		return *o.HomeCollectionFee, true
	case "insurance_coverage":
		return o.InsuranceCoverage, true
	case "priority_available":
		return o.PriorityAvailable, true
	case "created_at":
		return unixMilli(o.CreatedAt), true
	}
	return nil, false
}

// OfferingView is an offering with its derived price fields and, when loaded,
// short forms of the hospital and test it binds.
type OfferingView struct {
	HospitalTestOffering
	pricing.Quote
	Hospital *HospitalSummary `json:"hospital,omitempty"`
	Test     *TestSummary     `json:"test,omitempty"`
}

// HospitalSummary is the short form of a hospital shown next to an offering
type HospitalSummary struct {
	ID       uint     `json:"id"`
	Name     string   `json:"name"`
	City     string   `json:"city"`
	Division Division `json:"division"`
	Phone    string   `json:"phone"`
}

// Summary returns the short form of the hospital
func (h Hospital) Summary() HospitalSummary {
	return HospitalSummary{ID: h.ID, Name: h.Name, City: h.City, Division: h.Division, Phone: h.Phone}
}

// BookingSummary is what a patient needs to book an offering
type BookingSummary struct {
	HospitalTestID          uint     `json:"hospital_test_id"`
	HospitalName            string   `json:"hospital_name"`
	TestName                string   `json:"test_name"`
	Price                   float64  `json:"price"`
	DiscountedPrice         float64  `json:"discounted_price"`
	Currency                Currency `json:"currency"`
	TurnaroundTime          string   `json:"turnaround_time"`
	HomeCollectionAvailable bool     `json:"home_collection_available"`
	AppointmentRequired     bool     `json:"appointment_required"`
	BookingContact          string   `json:"booking_contact"`
	OnlineBookingURL        string   `json:"online_booking_url,omitempty"`
}

// OfferingSortFields are the columns an offering listing may be ordered by
var OfferingSortFields = []string{"price", "home_collection_fee", "turnaround_time", "created_at"}

// ByPrice is the default offering ordering
var ByPrice = query.Sort{Field: "price"}

// OfferingFilter lists the optional criteria of GET /offerings
type OfferingFilter struct {
	HospitalID              *uint    `form:"hospital_id"`
	TestID                  *uint    `form:"test_id"`
	IsActive                *string  `form:"is_active"`
	Featured                *string  `form:"featured"`
	HomeCollectionAvailable *string  `form:"home_collection_available"`
	ReportFormat            *string  `form:"report_format"`
	Currency                *string  `form:"currency"`
	Insurance               *string  `form:"insurance"`
	MinPrice                *float64 `form:"min_price"`
	MaxPrice                *float64 `form:"max_price"`
}

// Predicate converts the filter into a query predicate
func (f OfferingFilter) Predicate() query.Predicate {
	return query.NewFilterBuilder().
		ID("hospital_id", f.HospitalID).
		ID("test_id", f.TestID).
		Bool("is_active", f.IsActive).
		Bool("featured", f.Featured).
		Bool("home_collection_available", f.HomeCollectionAvailable).
		Exact("report_format", f.ReportFormat, query.Lower).
		Exact("currency", f.Currency, Currencies.Normalize).
		AnyOf("insurance_coverage", f.Insurance, query.Verbatim).
		Range("price", f.MinPrice, f.MaxPrice).
		Build()
}

func boolPtr(b bool) *bool { return &b }
