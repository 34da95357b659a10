package common

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docreview/constants"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// Validator collects rule failures across fields.
type Validator struct {
	errors []ValidationError
}

func NewValidator() *Validator {
	return &Validator{errors: make([]ValidationError, 0)}
}

// Field validates a field and collects errors
func (v *Validator) Field(fieldName string, value any, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
		}
	}
	return v
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Error returns the combined failures wrapped around ErrValidation, or nil.
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, v.ErrorMessage())
}

func (v *Validator) ErrorMessage() string {
	messages := make([]string, 0, len(v.errors))
	for _, err := range v.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// ValidationRule represents a single validation rule
type ValidationRule func(fieldName string, value any) *ValidationError

func Required(fieldName string, value any) *ValidationError {
	if value == nil {
		return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
	}
	return nil
}

// OneOf accepts string-like values from allowed; the empty string passes when allowEmpty is set.
func OneOf[T ~string](allowEmpty bool, allowed ...T) ValidationRule {
	return func(fieldName string, value any) *ValidationError {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case T:
			s = string(v)
		default:
			return &ValidationError{Field: fieldName, Value: value, Message: "must be a string"}
		}
		if s == "" && allowEmpty {
			return nil
		}
		if slices.Contains(allowed, T(s)) {
			return nil
		}
		names := make([]string, 0, len(allowed))
		for _, a := range allowed {
			names = append(names, string(a))
		}
		return &ValidationError{Field: fieldName, Value: value, Message: "must be one of " + strings.Join(names, ", ")}
	}
}

func NonNegative(fieldName string, value any) *ValidationError {
	n, ok := value.(int)
	if !ok {
		return &ValidationError{Field: fieldName, Value: value, Message: "must be an integer"}
	}
	if n < 0 {
		return &ValidationError{Field: fieldName, Value: value, Message: "must not be negative"}
	}
	return nil
}

func UUID(fieldName string, value any) *ValidationError {
	str, ok := value.(string)
	if !ok {
		return &ValidationError{Field: fieldName, Value: value, Message: "must be a string"}
	}
	if _, err := uuid.Parse(str); err != nil {
		return &ValidationError{Field: fieldName, Value: value, Message: "must be a valid UUID"}
	}
	return nil
}

// ValidateReviewOptions checks per-document request options. Empty mode and
// strategy mean "use the configured default". Any page budget is valid: zero
// or less selects every page.
func ValidateReviewOptions(mode constants.OCRMode, strategy constants.Strategy, docType constants.DocType) error {
	return NewValidator().
		Field("ocr_mode", mode, OneOf(true, constants.OCROff, constants.OCRAuto, constants.OCRForce)).
		Field("strategy", strategy, OneOf(true, constants.StrategyUniform, constants.StrategyFrontBack, constants.StrategyDensity)).
		Field("doc_type", docType, OneOf(true, constants.DocTypeTermSheet, constants.DocTypeInvestmentAgreement)).
		Error()
}

// ValidateAndReturnError validates and returns InvalidArgumentError if validation fails
func ValidateAndReturnError(validator *Validator) error {
	if validator.HasErrors() {
		return InvalidArgumentError(validator.ErrorMessage())
	}
	return nil
}
