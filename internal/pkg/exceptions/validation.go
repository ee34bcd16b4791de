package exceptions

import (
	"medibook-service/internal/pkg/constvars"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormatValidationErrors maps every failed field to a client message keyed by
// the field's json name.
func FormatValidationErrors(err error) map[string]string {
	fields := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fields
	}

	for _, fieldErr := range validationErrors {
		fieldName := strings.ToLower(fieldErr.Field())
		tag := fieldErr.Tag()
		customMessage, ok := constvars.CustomValidationErrorMessages[tag]
		if !ok {
			customMessage = "is invalid"
		}
		if constvars.TagsWithParams[tag] {
			if tag == "oneof" {
				customMessage = strings.Replace(customMessage, "%s", strings.Join(strings.Fields(fieldErr.Param()), ", "), 1)
			} else {
				customMessage = strings.Replace(customMessage, "%s", fieldErr.Param(), 1)
			}
		}
		if _, exists := fields[fieldName]; !exists {
			fields[fieldName] = customMessage
		}
	}
	return fields
}

func ErrInputValidation(err error) *CustomError {
	customErr := BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidInput, constvars.ErrDevValidationFailed)
	customErr.Fields = FormatValidationErrors(err)
	return customErr
}
