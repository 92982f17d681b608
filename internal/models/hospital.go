package models

import (
	"fmt"
	"strings"
	"time"

	"hospital-directory/internal/query"
	"hospital-directory/pkg/apperror"
)

// Hospital represents a hospital/medical facility listed in the directory
type Hospital struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	HospitalRank int          `gorm:"not null" json:"hospital_rank" binding:"required,min=1"`
	Name         string       `gorm:"size:200;not null;index" json:"name" binding:"required,max=200"`
	City         string       `gorm:"size:100;not null;index" json:"city" binding:"required,max=100"`
	Division     Division     `gorm:"size:100;not null;index" json:"division" binding:"required,division"`
	Area         string       `gorm:"size:100;not null" json:"area" binding:"required,max=100"`
	Road         string       `gorm:"size:200;not null" json:"road" binding:"required,max=200"`
	HouseNumber  string       `gorm:"size:20;not null" json:"house_number" binding:"required,max=20"`
	FullAddress  string       `gorm:"size:500;not null" json:"full_address" binding:"required,max=500"`
	Phone        string       `gorm:"size:20;not null;uniqueIndex" json:"phone" binding:"required,bdphone"`
	Email        string       `gorm:"size:255;not null" json:"email" binding:"required,email"`
	Website      string       `gorm:"size:255" json:"website,omitempty" binding:"omitempty,http_url"`
	HospitalType HospitalType `gorm:"size:20;index" json:"hospital_type,omitempty" binding:"omitempty,hospital_type"`

	Facilities        []Facility   `gorm:"type:json;serializer:json" json:"facilities" binding:"dive,facility"`
	Departments       []Department `gorm:"type:json;serializer:json" json:"departments" binding:"dive,department"`
	LanguagesSpoken   []Language   `gorm:"type:json;serializer:json" json:"languages_spoken" binding:"dive,language"`
	InsuranceAccepted []string     `gorm:"type:json;serializer:json" json:"insurance_accepted"`
	Accreditations    []string     `gorm:"type:json;serializer:json" json:"accreditations"`
	Branches          []string     `gorm:"type:json;serializer:json" json:"branches"`

	OperatingHours OperatingHours `gorm:"embedded;embeddedPrefix:hours_" json:"operating_hours"`
	SocialMedia    SocialMedia    `gorm:"embedded;embeddedPrefix:social_" json:"social_media"`

	EmergencyService     bool `gorm:"default:false" json:"emergency_service"`
	HomeCollection       bool `gorm:"default:false" json:"home_collection"`
	ParkingAvailable     bool `gorm:"default:false" json:"parking_available"`
	WheelchairAccessible bool `gorm:"default:false" json:"wheelchair_accessible"`
	Verified             bool `gorm:"default:false;index" json:"verified"`
	Featured             bool `gorm:"default:false;index" json:"featured"`

	Latitude  float64 `gorm:"not null;index:idx_hospital_geo" json:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64 `gorm:"not null;index:idx_hospital_geo" json:"longitude" binding:"gte=-180,lte=180"`

	Description          string `gorm:"type:text" json:"description,omitempty" binding:"max=2000"`
	EstablishedYear      int    `json:"established_year,omitempty" binding:"omitempty,gte=1800"`
	TotalBeds            int    `json:"total_beds,omitempty" binding:"omitempty,gte=1"`
	GoogleMap            string `gorm:"size:500" json:"google_map,omitempty" binding:"omitempty,http_url"`
	AmbulanceContact     string `gorm:"size:20" json:"ambulance_contact,omitempty" binding:"omitempty,phone_intl"`
	ConsultationFeeRange string `gorm:"size:100" json:"consultation_fee_range,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Hospital model
func (Hospital) TableName() string {
	return "hospitals"
}

// OperatingHours holds one free-text schedule per weekday, "Closed" when unset
type OperatingHours struct {
	Sunday    string `gorm:"size:100;default:'Closed'" json:"sunday"`
	Monday    string `gorm:"size:100;default:'Closed'" json:"monday"`
	Tuesday   string `gorm:"size:100;default:'Closed'" json:"tuesday"`
	Wednesday string `gorm:"size:100;default:'Closed'" json:"wednesday"`
	Thursday  string `gorm:"size:100;default:'Closed'" json:"thursday"`
	Friday    string `gorm:"size:100;default:'Closed'" json:"friday"`
	Saturday  string `gorm:"size:100;default:'Closed'" json:"saturday"`
}

// SocialMedia links are optional
type SocialMedia struct {
	Facebook  string `gorm:"size:255" json:"facebook,omitempty" binding:"omitempty,http_url,contains=facebook.com/"`
	Twitter   string `gorm:"size:255" json:"twitter,omitempty" binding:"omitempty,http_url,contains=twitter.com/"`
	Instagram string `gorm:"size:255" json:"instagram,omitempty" binding:"omitempty,http_url,contains=instagram.com/"`
	Linkedin  string `gorm:"size:255" json:"linkedin,omitempty" binding:"omitempty,http_url,contains=linkedin.com/"`
}

// Normalize trims free text and canonicalizes vocabulary values before storage
func (h *Hospital) Normalize() {
	h.Name = strings.TrimSpace(h.Name)
	h.City = strings.TrimSpace(h.City)
	h.Area = strings.TrimSpace(h.Area)
	h.Road = strings.TrimSpace(h.Road)
	h.HouseNumber = strings.TrimSpace(h.HouseNumber)
	h.FullAddress = strings.TrimSpace(h.FullAddress)
	h.Phone = strings.TrimSpace(h.Phone)
	h.Email = strings.ToLower(strings.TrimSpace(h.Email))
	h.Description = strings.TrimSpace(h.Description)

	if d, ok := Divisions.Parse(string(h.Division)); ok {
		h.Division = d
	}
	if t, ok := HospitalTypes.Parse(string(h.HospitalType)); ok {
		h.HospitalType = t
	}
	h.Facilities = canonicalize(Facilities, h.Facilities)
	h.Departments = canonicalize(Departments, h.Departments)
	h.LanguagesSpoken = canonicalize(Languages, h.LanguagesSpoken)
	h.InsuranceAccepted = trimAll(h.InsuranceAccepted)
	h.Accreditations = trimAll(h.Accreditations)
	h.Branches = trimAll(h.Branches)
	h.OperatingHours.fillClosed()
}

// Validate checks rules the binding tags cannot express
func (h *Hospital) Validate() error {
	if year := time.Now().Year(); h.EstablishedYear > year {
		return apperror.NewValidationError(fmt.Sprintf("established_year cannot be after %d", year))
	}
	return nil
}

// Lookup implements query.Document
func (h Hospital) Lookup(field string) (any, bool) {
	switch field {
	case "id":
		return h.ID, true
	case "hospital_rank":
		return float64(h.HospitalRank), true
	case "name":
		return h.Name, true
	case "city":
		return h.City, true
	case "division":
		return string(h.Division), true
	case "area":
		return h.Area, true
	case "full_address":
		return h.FullAddress, true
	case "phone":
		return h.Phone, true
	case "hospital_type":
		return string(h.HospitalType), true
	case "facilities":
		return facilityStrings(h.Facilities), true
	case "departments":
		return departmentStrings(h.Departments), true
	case "verified":
		return h.Verified, true
	case "featured":
		return h.Featured, true
	case "emergency_service":
		return h.EmergencyService, true
	case "latitude":
		return h.Latitude, true
	case "longitude":
		return h.Longitude, true
	case "description":
		return h.Description, true
	case "established_year":
		return float64(h.EstablishedYear), true
	case "total_beds":
		return float64(h.TotalBeds), true
	}
	return nil, false
}

// HospitalSortFields are the columns a hospital listing may be ordered by
var HospitalSortFields = []string{"name", "hospital_rank", "city", "division", "established_year", "total_beds"}

// HospitalFilter lists the optional criteria of GET /hospitals
type HospitalFilter struct {
	City         *string `form:"city"`
	Division     *string `form:"division"`
	HospitalType *string `form:"hospital_type"`
	Verified     *string `form:"verified"`
	Featured     *string `form:"featured"`
	Departments  *string `form:"departments"`
	Facilities   *string `form:"facilities"`
	Search       *string `form:"search"`
}

// Predicate converts the filter into a query predicate
func (f HospitalFilter) Predicate() (query.Predicate, error) {
	b := query.NewFilterBuilder().
		Contains("city", f.City).
		Contains("division", f.Division).
		Exact("hospital_type", f.HospitalType, HospitalTypes.Normalize).
		Bool("verified", f.Verified).
		Bool("featured", f.Featured).
		AnyOf("departments", f.Departments, Departments.Normalize).
		AnyOf("facilities", f.Facilities, Facilities.Normalize)

	if f.Search != nil && strings.TrimSpace(*f.Search) != "" {
		search, err := query.Search(*f.Search, query.HospitalSearchFields)
		if err != nil {
			return nil, err
		}
		b.Where(search)
	}
	return b.Build(), nil
}

func (o *OperatingHours) fillClosed() {
	for _, day := range []*string{&o.Sunday, &o.Monday, &o.Tuesday, &o.Wednesday, &o.Thursday, &o.Friday, &o.Saturday} {
		if strings.TrimSpace(*day) == "" {
			*day = "Closed"
		}
	}
}

func canonicalize[T ~string](v Vocabulary[T], in []T) []T {
	if in == nil {
		return []T{}
	}
	out := make([]T, 0, len(in))
	seen := make(map[T]struct{}, len(in))
	for _, raw := range in {
		c, ok := v.Parse(string(raw))
		if !ok {
			c = raw
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
