// File: internal/validation/validator.go
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validatable is implemented by requests that carry an explicit rule table.
type Validatable interface {
	Validate() error
}

// Validator 實作 echo.Validator：有規則表的請求走規則表，其餘走 struct tag
// swagger:ignore
type Validator struct {
	validator *validator.Validate
}

// New 建立 Echo 使用的 Validator
func New() *Validator {
	return &Validator{validator: validate}
}

// Validate 驗證請求，失敗時回傳 Errors
func (v *Validator) Validate(i interface{}) error {
	if r, ok := i.(Validatable); ok {
		return r.Validate()
	}
	if err := v.validator.Struct(i); err != nil {
		return fromValidatorErrors(err)
	}
	return nil
}

// newStructValidator 以 json tag 作為欄位名稱，讓錯誤的 field 與請求內容一致
func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func fromValidatorErrors(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	errs := make(Errors, 0, len(ves))
	for _, fe := range ves {
		errs = append(errs, FieldError{
			Field:   fe.Field(),
			Message: formatFieldError(fe),
			err:     fe,
		})
	}
	return errs
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
