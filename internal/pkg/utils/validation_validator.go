package utils

import (
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate       *validator.Validate
	phoneNumberRe  = regexp.MustCompile(constvars.RegexPhoneNumberTenDigits)
	postalCodeRe   = regexp.MustCompile(constvars.RegexPostalCodeSixDigits)
	dateYYYYMMDDRe = regexp.MustCompile(constvars.RegexDateYYYYMMDD)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	validate.RegisterValidation("phone_number", validatePhoneNumber)
	validate.RegisterValidation("postal_code", validatePostalCode)
	validate.RegisterValidation("date_only", validateDateOnly)
	validate.RegisterValidation("past_date", validatePastDate)
	validate.RegisterValidation("weekday", validateWeekday)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validatePhoneNumber(fl validator.FieldLevel) bool {
	return phoneNumberRe.MatchString(fl.Field().String())
}

func validatePostalCode(fl validator.FieldLevel) bool {
	return postalCodeRe.MatchString(fl.Field().String())
}

func validateDateOnly(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

func validatePastDate(fl validator.FieldLevel) bool {
	date, err := ParseDate(fl.Field().String())
	if err != nil {
		return false
	}
	return date.Before(models.DateOnly(time.Now().UTC()))
}

func validateWeekday(fl validator.FieldLevel) bool {
	_, ok := models.NormalizeWeekday(fl.Field().String())
	return ok
}

func IsValidPostalCode(postalCode string) bool {
	return postalCodeRe.MatchString(postalCode)
}
