package weather

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func payloadValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// check runs struct tag validation on a decoded payload.
func check(op string, v any) error {
	if err := payloadValidator().Struct(v); err != nil {
		return &MalformedResponseError{Op: op, Reason: "missing required fields", Err: err}
	}
	return nil
}
