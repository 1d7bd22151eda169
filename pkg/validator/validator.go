package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator validates tagged structs and reports failures per field, keyed by the
// field's json name
type Validator struct {
	validate *validator.Validate
	messages map[string]string
}

// DefaultMessages maps a validation tag to its user-facing message. %s receives the tag parameter.
var DefaultMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email address",
	"e164":     "Invalid phone number",
	"min":      "Must be at least %s characters",
	"max":      "Must be at most %s characters",
	"oneof":    "Select one of the listed options",
	"consent":  "You must consent in order to proceed",
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// consent accepts only a checked box
	_ = v.RegisterValidation("consent", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.Bool && fl.Field().Bool()
	})

	messages := make(map[string]string, len(DefaultMessages))
	for k, m := range DefaultMessages {
		messages[k] = m
	}
	return &Validator{validate: v, messages: messages}
}

// RegisterValidation adds a custom tag with the message shown when it fails
func (v *Validator) RegisterValidation(tag, message string, fn validator.Func) error {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("failed to register %s validation: %w", tag, err)
	}
	v.messages[tag] = message
	return nil
}

// SetMessage overrides the message for a tag, or for one field when key is "field.tag"
func (v *Validator) SetMessage(key, message string) {
	v.messages[key] = message
}

// Validate returns the failing fields with their messages, or nil when obj is valid
func (v *Validator) Validate(obj any) (map[string]string, error) {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = v.message(fe)
	}
	return fields, nil
}

func (v *Validator) message(fe validator.FieldError) string {
	if m, ok := v.messages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}
	m, ok := v.messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("Failed on %s", fe.Tag())
	}
	if strings.Contains(m, "%s") {
		return fmt.Sprintf(m, fe.Param())
	}
	return m
}
