// Package validation registers the directory's custom binding tags on
// go-playground/validator and turns validator failures into readable messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"hospital-directory/internal/models"
)

var (
	bdPhoneRegex      = regexp.MustCompile(`^(\+880|880|0)?1[3-9]\d{8}$`)
	intlPhoneRegex    = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	turnaroundRegex   = regexp.MustCompile(`(?i)^\d+(-\d+)?\s+(hours?|days?|weeks?)$`)
	availabilityRegex = regexp.MustCompile(`^(24/7|[\w\s\-:,]+)$`)
)

// tags maps each custom tag to its validation function
var tags = map[string]validator.Func{
	"bdphone":            matches(bdPhoneRegex),
	"phone_intl":         matches(intlPhoneRegex),
	"turnaround":         matches(turnaroundRegex),
	"availability_hours": matches(availabilityRegex),
	"division":           member(models.Divisions.Contains),
	"department":         member(models.Departments.Contains),
	"facility":           member(models.Facilities.Contains),
	"hospital_type":      member(models.HospitalTypes.Contains),
	"language":           member(models.Languages.Contains),
	"gender":             member(models.Genders.Contains),
	"currency":           member(models.Currencies.Contains),
	"unit":               member(models.Units.Contains),
	"report_format":      member(models.ReportFormats.Contains),
}

// Register adds the custom tags to v and makes field errors report JSON names
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// RegisterWithGin installs the custom tags on gin's binding validator
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return Register(v)
}

// Validator validates structs against their `binding` tags outside of a
// request bind, e.g. for items of a bulk payload
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator configured like gin's binding validator
func New() (*Validator, error) {
	v := validator.New()
	v.SetTagName("binding")
	if err := Register(v); err != nil {
		return nil, err
	}
	return &Validator{validate: v}, nil
}

// ValidateStruct validates obj
func (v *Validator) ValidateStruct(obj any) error {
	return v.validate.Struct(obj)
}

// Message renders a bind or validation error as a single caller-facing line
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	case "http_url":
		return field + " must be a valid URL"
	case "bdphone":
		return field + " must be a valid Bangladeshi phone number"
	case "phone_intl":
		return field + " must be a valid phone number"
	case "turnaround":
		return field + ` must look like "24 hours" or "2-3 days"`
	case "availability_hours":
		return field + " has an invalid format"
	}
	if _, custom := tags[fe.Tag()]; custom {
		return fmt.Sprintf("%s has an unsupported value %q", field, fmt.Sprint(fe.Value()))
	}
	return fmt.Sprintf("%s failed on %s", field, fe.Tag())
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(strings.TrimSpace(fl.Field().String()))
	}
}

func member(contains func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return contains(fl.Field().String())
	}
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
