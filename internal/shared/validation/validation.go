// Package validation holds the validator shared by gin binding and by
// services that accept requests from non-HTTP callers such as the seeder.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"seatline/internal/shared/apperrors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var (
	once     sync.Once
	validate *validator.Validate
)

func hexColorOrEmpty(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || hexColor.MatchString(s)
}

func register(v *validator.Validate) error {
	if err := v.RegisterValidation("hexcolor_or_empty", hexColorOrEmpty); err != nil {
		return fmt.Errorf("failed to register hexcolor_or_empty: %w", err)
	}
	return nil
}

// RegisterGinValidations installs the custom rules on gin's binding engine.
func RegisterGinValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not a go-playground validator")
	}
	return register(v)
}

// Instance returns the shared validator. It reads the same `binding` tags
// gin uses.
func Instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
		if err := register(validate); err != nil {
			panic(err)
		}
	})
	return validate
}

// Struct validates s and reports failures as InvalidInput with one detail
// per offending field.
func Struct(s interface{}) error {
	err := Instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.InvalidInput(err.Error())
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return apperrors.InvalidInput("request validation failed", details...)
}
