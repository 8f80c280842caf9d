package validator

import (
	"errors"
	"fmt"
	"strings"

	"lessonbook/pkg/logger"
	"lessonbook/pkg/model"

	"github.com/go-playground/validator/v10"
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

type LessonValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewLessonValidator(log *logger.Logger) *LessonValidator {
	return &LessonValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *LessonValidator) Validate(lesson *model.Lesson) error {
	if err := v.validate.Struct(lesson); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

// ValidateUpdate checks only the fields present in the partial update.
// Whole-record invariants are re-checked against the merged record.
func (v *LessonValidator) ValidateUpdate(update *model.LessonUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.ScheduledTime != nil && update.ScheduledTime.IsZero() {
		return ValidationErrors{
			ValidationError{
				Field:   "ScheduledTime",
				Message: "scheduled_time cannot be the zero instant",
			},
		}
	}

	return nil
}

func (v *LessonValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
