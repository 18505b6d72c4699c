// Package validate runs struct-tag validation on service inputs and turns the
// result into domain field errors.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New()

		// Report fields by their json name, falling back to the Go name.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		// Money is compared as float64; tags like gte=0 work on decimal fields.
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})

		// cents rejects money with more than two decimal places. The custom
		// type func above has already turned the field into a float, so the
		// decimal is read back from the parent struct.
		_ = v.RegisterValidation("cents", func(fl validator.FieldLevel) bool {
			parent := reflect.Indirect(fl.Parent())
			if parent.Kind() != reflect.Struct {
				return false
			}
			d, ok := parent.FieldByName(fl.StructFieldName()).Interface().(decimal.Decimal)
			return ok && d.Equal(d.Truncate(2))
		})
		_ = v.RegisterValidation("imei", func(fl validator.FieldLevel) bool {
			return domain.IsValidIMEI(fl.Field().String())
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRe.MatchString(fl.Field().String())
		})
	})
	return v
}

// Struct validates s and returns a *domain.ValidationError listing every
// failing field, or nil.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return domain.NewValidationErrors(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "imei":
		return fmt.Sprintf("must be exactly %d digits", domain.IMEILength)
	case "username":
		return "may contain only letters, digits, '_', '.' and '-'"
	case "gte":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "cents":
		return "must have at most 2 decimal places"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "nefield":
		return "must differ from the current value"
	default:
		return "invalid value"
	}
}
