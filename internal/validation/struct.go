package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "brokerage/internal/errors"
	"brokerage/internal/models"
)

var (
	structOnce     sync.Once
	structValidate *validator.Validate
)

func validate() *validator.Validate {
	structOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// decimals are validated through their string form
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("decimal_gt0", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && d.IsPositive()
		})
		_ = v.RegisterValidation("doc_type", func(fl validator.FieldLevel) bool {
			switch models.DocumentType(fl.Field().String()) {
			case models.DocumentTypePassport, models.DocumentTypeNationalID:
				return true
			}
			return false
		})
		_ = v.RegisterValidation("doc_side", func(fl validator.FieldLevel) bool {
			switch models.DocumentSide(fl.Field().String()) {
			case models.DocumentSideFront, models.DocumentSideBack, models.DocumentSideSingle:
				return true
			}
			return false
		})
		_ = v.RegisterValidation("dial_code", func(fl validator.FieldLevel) bool {
			_, ok := LookupCountryCode(fl.Field().String())
			return ok
		})
		structValidate = v
	})
	return structValidate
}

// Struct validates a request DTO by its `validate` tags. Failures come back
// as ErrValidation with a field -> message map in the details.
func Struct(i interface{}) error {
	err := validate().Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return err
	}
	fields := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = messageFor(fe)
	}
	return apperrors.ErrValidation.WithDetails(map[string]interface{}{"fields": fields})
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "decimal_gt0":
		return "must be greater than zero"
	case "doc_type":
		return "must be passport or national_id"
	case "doc_side":
		return "must be front, back or single"
	case "dial_code":
		return "invalid country code"
	case "oneof":
		return "must be one of " + fe.Param()
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return fmt.Sprintf("failed validation on '%s'", fe.Tag())
}
