package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid input")

var global *validator.Validate

const (
	msgFieldRequired      = "Field is required"
	msgFieldExceedsMaxLen = "Field exceeds maximum length"
	msgFieldBelowMinLen   = "Field is below minimum length"
	msgFieldExceedsMaxVal = "Field exceeds maximum value"
	msgFieldBelowMinVal   = "Field is below minimum value"
	msgInvalidEmail       = "Invalid email address"
	msgInvalidChoice      = "Value is not one of the allowed options"
	msgInvalidDate        = "Date must be formatted as YYYY-MM-DD"
	msgInvalidClock       = "Time must be formatted as HH:MM"
	msgUnknownValidation  = "Unknown validation error"
)

func init() {
	SetValidator(New())
}

// New builds a validator with the custom tags used by the models.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("isodate", validateISODate)
	_ = v.RegisterValidation("clock", validateClock)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := time.Parse(ClockLayout, fl.Field().String())
	return err == nil
}

// Validate checks the struct tags of structure and reports the first failure.
func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(vErrors) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	ve := vErrors[0]
	var msg string
	switch ve.Tag() {
	case "required":
		msg = msgFieldRequired
	case "max":
		msg = msgFieldExceedsMaxLen
	case "min":
		msg = msgFieldBelowMinLen
	case "lt", "lte":
		msg = msgFieldExceedsMaxVal
	case "gt", "gte":
		msg = msgFieldBelowMinVal
	case "email":
		msg = msgInvalidEmail
	case "oneof":
		msg = msgInvalidChoice
	case "isodate":
		msg = msgInvalidDate
	case "clock":
		msg = msgInvalidClock
	default:
		msg = msgUnknownValidation
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalid, msg, ve.Namespace())
}
