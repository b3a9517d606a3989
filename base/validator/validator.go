package validator

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Default returns the process-wide validator instance. validator.Validate
// caches struct metadata, so it is shared instead of created per call.
func Default() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Struct validates i against its `validate` tags.
func Struct(i interface{}) error {
	return Default().Struct(i)
}

func NewCustomValidator(v *validator.Validate) echo.Validator {
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return err
	}
	return nil
}
