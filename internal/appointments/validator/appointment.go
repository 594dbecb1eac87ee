package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"mediq/pkg/logger"
	"mediq/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type AppointmentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAppointmentValidator(log *logger.Logger) *AppointmentValidator {
	return &AppointmentValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *AppointmentValidator) ValidateRequest(req *model.AppointmentRequest) error {
	return v.translate(v.validate.Struct(req))
}

func (v *AppointmentValidator) ValidateMove(req *model.MoveRequest) error {
	return v.translate(v.validate.Struct(req))
}

func (v *AppointmentValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var out ValidationErrors
	for _, fieldErr := range validationErrs {
		message := fieldErr.Error()
		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fieldErr.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid object ID", fieldErr.Field())
		}
		out = append(out, ValidationError{Field: fieldErr.Field(), Message: message})
	}
	return out
}
