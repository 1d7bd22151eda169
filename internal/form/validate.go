package form

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/caretrack/internal/model"
	"github.com/jwalitptl/caretrack/pkg/errors"
	pkgvalidator "github.com/jwalitptl/caretrack/pkg/validator"
)

var (
	validatorOnce sync.Once
	formValidator *pkgvalidator.Validator
)

func schemaValidator() *pkgvalidator.Validator {
	validatorOnce.Do(func() {
		v := pkgvalidator.New()
		mustRegister(v, "doctor", "Select a doctor", func(fl validator.FieldLevel) bool {
			_, ok := model.FindDoctor(fl.Field().String())
			return ok
		})
		mustRegister(v, "specialty", "Select a specialty", func(fl validator.FieldLevel) bool {
			return model.IsSpecialty(fl.Field().String())
		})
		mustRegister(v, "idtype", "Select an identification type", func(fl validator.FieldLevel) bool {
			return model.IsIdentificationType(fl.Field().String())
		})

		v.SetMessage("name.min", "Name must be at least 2 characters")
		v.SetMessage("name.max", "Name must be at most 50 characters")
		v.SetMessage("primaryPhysician.min", "Select at least one doctor")
		v.SetMessage("primaryPhysician.required", "Select at least one doctor")
		v.SetMessage("reason.min", "Reason must be at least 2 characters")
		v.SetMessage("reason.max", "Reason must be at most 500 characters")
		v.SetMessage("cancellationReason.required", "Reason must be at least 2 characters")
		v.SetMessage("cancellationReason.min", "Reason must be at least 2 characters")
		v.SetMessage("cancellationReason.max", "Reason must be at most 500 characters")
		v.SetMessage("treatmentConsent.consent", "You must consent to treatment in order to proceed")
		v.SetMessage("disclosureConsent.consent", "You must consent to disclosure in order to proceed")
		v.SetMessage("privacyConsent.consent", "You must consent to privacy in order to proceed")
		formValidator = v
	})
	return formValidator
}

func mustRegister(v *pkgvalidator.Validator, tag, message string, fn validator.Func) {
	if err := v.RegisterValidation(tag, message, fn); err != nil {
		panic(err)
	}
}

// check validates a schema struct and converts failures into a validation error
func check(schema any) error {
	fields, err := schemaValidator().Validate(schema)
	if err != nil {
		return errors.Internal(err)
	}
	if len(fields) > 0 {
		return errors.Validation(fields)
	}
	return nil
}

// requiredFields lists the json names of fields tagged required or consent
func requiredFields(schema any) []string {
	t := reflect.TypeOf(schema)
	var names []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		rules := strings.Split(f.Tag.Get("validate"), ",")
		for _, r := range rules {
			if r == "required" || r == "consent" {
				names = append(names, strings.SplitN(f.Tag.Get("json"), ",", 2)[0])
				break
			}
		}
	}
	return names
}
