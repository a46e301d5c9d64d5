package application

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct checks the validate tags of in and converts failures into
// inline field errors.
func ValidateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}

	errs := make(domain.ValidationErrors, 0, len(valErrs))
	for _, fe := range valErrs {
		errs = append(errs, fieldError(fe))
	}
	return errs
}

func fieldError(f validator.FieldError) domain.FieldError {
	switch f.Tag() {
	case "required":
		return domain.FieldError{Field: f.Field(), Message: "is required"}
	case "max":
		return domain.FieldError{Field: f.Field(), Message: fmt.Sprintf("must be at most %s characters", f.Param())}
	case "oneof":
		return domain.FieldError{Field: f.Field(), Message: fmt.Sprintf("must be one of: %s", f.Param())}
	case "http_url":
		return domain.FieldError{Field: f.Field(), Message: "must be an http(s) URL"}
	default:
		return domain.FieldError{Field: f.Field(), Message: "is invalid"}
	}
}
