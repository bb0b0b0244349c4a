// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

// Package validation validates raw entity payloads before they enter the
// system. Per-field checks are declarative struct tags evaluated by
// go-playground/validator v10; cross-field checks are explicit rule lists
// evaluated after per-field checks. All violations are accumulated so a
// client can fix every problem in one round trip.
//
// Validation is pure and total: malformed input produces an ordered error
// list, never a panic.
//
// Example usage:
//
//	input := validation.CreateEventInput{...}
//	if errs := validation.ValidateCreateEvent(&input); len(errs) > 0 {
//	    apiErr := validation.ToAPIError(errs)
//	    respondError(w, http.StatusBadRequest, apiErr)
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/campanile-app/campanile/internal/models"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the singleton validator instance, initialized once
// with the platform's custom validators. Thread-safe; the instance caches
// struct metadata across calls.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Closed-set enumerations from the data contract.
		mustRegister("eventcategory", func(fl validator.FieldLevel) bool {
			return models.EventCategory(fl.Field().String()).IsValid()
		})
		mustRegister("eventstatus", func(fl validator.FieldLevel) bool {
			return models.EventStatus(fl.Field().String()).IsValid()
		})
		mustRegister("userrole", func(fl validator.FieldLevel) bool {
			return models.UserRole(fl.Field().String()).IsValid()
		})
	})

	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validator %q: %v", tag, err))
	}
}

// ValidateStruct runs the per-field checks declared on a struct and returns
// the accumulated violations in field order. Nil means the struct passed.
func ValidateStruct(s interface{}) []models.ValidationError {
	v := GetValidator()

	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		// Unexpected error type (e.g. non-struct input) - wrap it rather
		// than faulting; validation is total.
		return []models.ValidationError{{
			Field:   "payload",
			Message: err.Error(),
		}}
	}

	fieldErrors := make([]models.ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = models.ValidationError{
			Field:   fieldName(fieldErr),
			Message: translateError(fieldErr),
			Value:   fieldErr.Value(),
		}
	}

	return fieldErrors
}

// ToAPIError converts an accumulated violation list to the API error shape.
// The full field list is always surfaced, never only the first failure.
func ToAPIError(errs []models.ValidationError) *models.APIError {
	if len(errs) == 0 {
		return nil
	}

	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}

	return &models.APIError{
		Code:             "VALIDATION_ERROR",
		Message:          strings.Join(messages, "; "),
		ValidationErrors: errs,
	}
}

// fieldName lowercases the first rune of the struct field name so errors
// report the JSON field clients actually sent (title, not Title).
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required":      "%s is required",
	"email":         "%s must be a valid email address",
	"url":           "%s must be a valid URL",
	"eventcategory": "%s must be a valid event category",
	"eventstatus":   "%s must be a valid event status",
	"userrole":      "%s must be one of STUDENT, INSTRUCTOR, ADMIN",
	"dive":          "%s contains an invalid element",
}

// errorMessageWithParam maps validation tags to templates including the
// tag parameter.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fieldName(fe)
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}

	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	return translateMinMax(fe, field, tag, param)
}

// translateMinMax handles min/max validation with type-specific messages.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind().String() == "string"

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
