package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance for request payloads.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("lkphone", validPhone)
	v.RegisterStructValidation(availabilityWindow, CreateListingRequest{}, UpdateListingRequest{})
	return v
}

func availabilityWindow(sl validator.StructLevel) {
	var start, end *time.Time
	switch r := sl.Current().Interface().(type) {
	case CreateListingRequest:
		start, end = r.AvailabilityStart, r.AvailabilityEnd
	case UpdateListingRequest:
		start, end = r.AvailabilityStart, r.AvailabilityEnd
	}
	if start != nil && end != nil && end.Before(*start) {
		sl.ReportError(end, "AvailabilityEnd", "availabilityEnd", "gtestart", "")
	}
}

// Sri Lankan numbers, local (0XX...) or international (+94XX...) form.
var phonePattern = regexp.MustCompile(`^(\+94|0)[1-9][0-9]{8}$`)

func validPhone(fl validator.FieldLevel) bool {
	phone := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
	return phonePattern.MatchString(phone)
}
