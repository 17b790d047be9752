package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/interview-session-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps the struct validator with the catalog's custom rules
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures into ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	err := v.ValidateStruct(s)
	if err == nil {
		return nil
	}
	if errs := ToValidationErrors(err); len(errs) > 0 {
		return errs
	}
	return err
}

// Engine exposes the underlying validator, e.g. for gin's binding engine
func (v *Validator) Engine() *validator.Validate {
	return v.structValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	RegisterCustomValidators(validate)
}

// RegisterCustomValidators installs the catalog rules on any validator
// instance, including the one gin uses for request binding.
func RegisterCustomValidators(validate *validator.Validate) {
	// Difficulty level validation
	validate.RegisterValidation("difficulty_level", validateDifficultyLevel)

	// "45 minutes" style durations
	validate.RegisterValidation("interview_duration", validateInterviewDuration)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateDifficultyLevel(fl validator.FieldLevel) bool {
	return models.DifficultyLevel(fl.Field().String()).Valid()
}

func validateInterviewDuration(fl validator.FieldLevel) bool {
	_, err := models.ParseDurationMinutes(fl.Field().String())
	return err == nil
}
