package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-directory/internal/models"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	require.NoError(t, err)
	return v
}

func validOffering() models.HospitalTestOffering {
	return models.HospitalTestOffering{
		HospitalID:             1,
		TestID:                 2,
		Price:                  1200,
		Currency:               "BDT",
		Unit:                   "per test",
		AvailabilityHours:      "Sat-Thu 8:00-20:00",
		TurnaroundTime:         "2-3 days",
		ReportFormat:           "digital",
		BookingContact:         "01712345678",
		SampleCollectionPoints: "Ground floor lab",
	}
}

func TestRegexTags(t *testing.T) {
	cases := []struct {
		re    string
		value string
		want  bool
	}{
		{"bd", "01712345678", true},
		{"bd", "+8801712345678", true},
		{"bd", "8801912345678", true},
		{"bd", "01212345678", false},
		{"bd", "0171234567", false},
		{"intl", "+14155552671", true},
		{"intl", "0123", false},
		{"turnaround", "24 hours", true},
		{"turnaround", "1 Day", true},
		{"turnaround", "2-3 weeks", true},
		{"turnaround", "same day", false},
		{"availability", "24/7", true},
		{"availability", "9:00 AM - 5:00 PM", true},
		{"availability", "always!", false},
	}
	for _, tc := range cases {
		var got bool
		switch tc.re {
		case "bd":
			got = bdPhoneRegex.MatchString(tc.value)
		case "intl":
			got = intlPhoneRegex.MatchString(tc.value)
		case "turnaround":
			got = turnaroundRegex.MatchString(tc.value)
		case "availability":
			got = availabilityRegex.MatchString(tc.value)
		}
		assert.Equal(t, tc.want, got, "%s %q", tc.re, tc.value)
	}
}

func TestValidateStruct_ValidOffering(t *testing.T) {
	v := newValidator(t)
	o := validOffering()

	assert.NoError(t, v.ValidateStruct(&o))
}

func TestValidateStruct_DiscountPercentageRequiredWhenDiscounted(t *testing.T) {
	v := newValidator(t)
	o := validOffering()
	o.DiscountAvailable = true

	err := v.ValidateStruct(&o)
	require.Error(t, err)
	assert.Contains(t, Message(err), "discount_percentage is required")

	pct := 120.0
	o.DiscountPercentage = &pct
	err = v.ValidateStruct(&o)
	require.Error(t, err)
	assert.Contains(t, Message(err), "discount_percentage must be at most 100")

	pct = 15
	assert.NoError(t, v.ValidateStruct(&o))
}

func TestValidateStruct_HomeCollectionFeeRequiredWhenAvailable(t *testing.T) {
	v := newValidator(t)
	o := validOffering()
	o.HomeCollectionAvailable = true

	err := v.ValidateStruct(&o)
	require.Error(t, err)
	assert.Contains(t, Message(err), "home_collection_fee")

	fee := 200.0
	o.HomeCollectionFee = &fee
	assert.NoError(t, v.ValidateStruct(&o))
}

func TestValidateStruct_VocabularyTags(t *testing.T) {
	v := newValidator(t)
	o := validOffering()
	o.Currency = "JPY"
	o.ReportFormat = "fax"

	err := v.ValidateStruct(&o)
	require.Error(t, err)
	msg := Message(err)
	assert.Contains(t, msg, `currency has an unsupported value "JPY"`)
	assert.Contains(t, msg, "report_format")
}

func TestValidateStruct_MedicalTestRequiredFields(t *testing.T) {
	v := newValidator(t)
	test := models.MedicalTest{
		TestCategory:            "Cardiology",
		Name:                    "ECG",
		Description:             "Electrical activity of the heart",
		PreparationInstructions: "None",
		TurnaroundTime:          "1 hour",
		AgeRestrictions:         "None",
		GenderSpecific:          "both",
		Purpose:                 "Rhythm check",
	}
	require.NoError(t, v.ValidateStruct(&test))

	test.Name = ""
	test.GenderSpecific = "other"
	err := v.ValidateStruct(&test)
	require.Error(t, err)
	assert.Contains(t, Message(err), "name is required")
	assert.Contains(t, Message(err), "gender_specific")
}

func TestValidateStruct_HospitalListsDive(t *testing.T) {
	v := newValidator(t)
	h := models.Hospital{
		HospitalRank: 1,
		Name:         "Square Hospital",
		City:         "Dhaka",
		Division:     "Dhaka",
		Area:         "Panthapath",
		Road:         "West Panthapath",
		HouseNumber:  "18F",
		FullAddress:  "18F West Panthapath, Dhaka 1205",
		Phone:        "01713141447",
		Email:        "info@squarehospital.com",
		Departments:  []models.Department{"Cardiology", "Neurology"},
		Facilities:   []models.Facility{"ICU", "MRI"},
		Latitude:     23.7528,
		Longitude:    90.3816,
	}
	require.NoError(t, v.ValidateStruct(&h))

	h.Facilities = append(h.Facilities, "Helipad")
	err := v.ValidateStruct(&h)
	require.Error(t, err)
	assert.Contains(t, Message(err), "Helipad")
}

func TestMessage_ForeignError(t *testing.T) {
	assert.Equal(t, "EOF", Message(assertErr("EOF")))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
