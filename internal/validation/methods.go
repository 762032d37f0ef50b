package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "brokerage/internal/errors"
)

// Validator defines validation methods
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error to the validator. The first message for a field wins.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Err returns base carrying the collected field errors, or nil when valid.
func (v *Validator) Err(base *apperrors.DomainError) error {
	if v.Valid() {
		return nil
	}
	fields := make(map[string]interface{}, len(v.Errors))
	for k, msg := range v.Errors {
		fields[k] = msg
	}
	return base.WithDetails(map[string]interface{}{"fields": fields})
}

// Required checks if a value is present
func (v *Validator) Required(field string, value interface{}) {
	if value == nil {
		v.AddError(field, "is required")
		return
	}

	switch val := value.(type) {
	case string:
		v.Check(strings.TrimSpace(val) != "", field, "is required")
	case *time.Time:
		v.Check(val != nil && !val.IsZero(), field, "is required")
	case []string:
		v.Check(len(val) > 0, field, "must contain at least one item")
	case decimal.Decimal:
		v.Check(!val.IsZero(), field, "is required")
	case int:
		v.Check(val != 0, field, "must not be zero")
	case uint:
		v.Check(val != 0, field, "must not be zero")
	}
}

// MinLength checks if a string has at least n characters
func (v *Validator) MinLength(field string, value string, n int) {
	v.Check(len(strings.TrimSpace(value)) >= n, field, fmt.Sprintf("must be at least %d characters long", n))
}

// MaxLength checks if a string has at most n characters
func (v *Validator) MaxLength(field string, value string, n int) {
	v.Check(len(value) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// Range checks if a number is between min and max
func (v *Validator) Range(field string, value float64, min, max float64) {
	v.Check(value >= min && value <= max, field, fmt.Sprintf("must be between %v and %v", min, max))
}

// DecimalRange checks if a decimal is between min and max inclusive
func (v *Validator) DecimalRange(field string, value, min, max decimal.Decimal) {
	v.Check(value.GreaterThanOrEqual(min) && value.LessThanOrEqual(max), field,
		fmt.Sprintf("must be between %s and %s", min.String(), max.String()))
}

// Positive checks that a decimal is greater than zero
func (v *Validator) Positive(field string, value decimal.Decimal) {
	v.Check(value.IsPositive(), field, "must be greater than zero")
}

// OneOf checks that value is one of the allowed strings
func (v *Validator) OneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.AddError(field, "must be one of "+strings.Join(allowed, ", "))
}

