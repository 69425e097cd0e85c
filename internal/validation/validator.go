// Package validation wraps go-playground/validator/v10 the way the teacher's
// internal/validation/validator.go does: a thin struct around *validator.Validate,
// folding field errors into one readable message, plus the domain-specific
// tag registrations this core's request DTOs need (decimal strings, venue
// symbols) in place of the teacher's password/amount/price tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/jclangner/nautilus-trader/internal/numerics"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9_.\-]+$`)

// Validator validates request DTOs at the API boundary (§6 "Validation").
type Validator struct {
	validate *validator.Validate
}

// New constructs a Validator with the core's custom tags registered.
func New() *Validator {
	v := validator.New()
	v.RegisterValidation("decimal", validateDecimal)
	v.RegisterValidation("venuesymbol", validateVenueSymbol)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate checks i against its struct tags, joining every failing field
// into one error.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, formatFieldError(e))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func formatFieldError(e validator.FieldError) string {
	field, tag, param := e.Field(), e.Tag(), e.Param()
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "decimal":
		return fmt.Sprintf("%s must be a valid positive decimal string", field)
	case "venuesymbol":
		return fmt.Sprintf("%s must be an uppercase venue symbol", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, tag)
	}
}

// validateDecimal checks that a string field parses as a strictly positive
// decimal quantity, the shape this core's quantity/price request fields use.
func validateDecimal(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	q, err := numerics.ParseQuantity(s, 9)
	if err != nil {
		return false
	}
	return !q.IsZero()
}

// validateVenueSymbol checks an instrument symbol/venue component is
// non-empty uppercase identifier text.
func validateVenueSymbol(fl validator.FieldLevel) bool {
	return symbolPattern.MatchString(fl.Field().String())
}
